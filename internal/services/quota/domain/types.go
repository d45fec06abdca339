// Package domain defines the types and interfaces for the quota manager
package domain

import "time"

// Quota is one org's budget for an action type
type Quota struct {
	OrgID      string
	ActionType string
	Ceiling    int64
	Used       int64
	Period     time.Duration
	ResetAt    time.Time
}

// Decision is the outcome of a quota check
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// IncreaseStatus is the lifecycle of a ceiling increase request
type IncreaseStatus string

const (
	// IncreasePending awaits review
	IncreasePending IncreaseStatus = "pending"
	// IncreaseApproved passed review; the ceiling changes only on apply
	IncreaseApproved IncreaseStatus = "approved"
	// IncreaseRejected failed review, terminal
	IncreaseRejected IncreaseStatus = "rejected"
)

// IncreaseRequest is a pending or reviewed ceiling change
type IncreaseRequest struct {
	ID            string
	OrgID         string
	ActionType    string
	RequestedBy   string
	RequestedMax  int64
	Justification string
	Status        IncreaseStatus
	Reviewer      string
	RequestedAt   time.Time
	ReviewedAt    *time.Time
	AppliedAt     *time.Time
}
