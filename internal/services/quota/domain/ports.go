package domain

import "context"

// ManagerPort is the quota surface other services consume
type ManagerPort interface {
	// Check reports whether the org still has budget without consuming any
	Check(ctx context.Context, orgID, actionType string) (Decision, error)
	// Consume takes n units; denies without overshooting when the budget
	// cannot cover them
	Consume(ctx context.Context, orgID, actionType string, n int64) (Decision, error)
}

// AdminPort drives the ceiling increase workflow
type AdminPort interface {
	RequestIncrease(ctx context.Context, orgID, actionType, requestedBy string, requestedMax int64, justification string) (IncreaseRequest, error)
	// ReviewIncrease moves a pending request to approved or rejected.
	// Reviewed requests are terminal.
	ReviewIncrease(ctx context.Context, id, reviewer string, approve bool) (IncreaseRequest, error)
	// ApplyApprovedCeiling applies an approved request's ceiling to the
	// org's quota. Approval alone never changes the ceiling.
	ApplyApprovedCeiling(ctx context.Context, id string) (Quota, error)
	GetIncrease(ctx context.Context, id string) (IncreaseRequest, error)
}

// ResetPort is the janitor-facing maintenance surface
type ResetPort interface {
	// ResetDue zeroes usage for quotas past their reset time and returns
	// the count
	ResetDue(ctx context.Context) (int64, error)
}
