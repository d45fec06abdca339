package domain

import "context"

// DetectorPort is the admission surface the recognition path consumes
type DetectorPort interface {
	// Detect evaluates one attempt. Store failures degrade open: the
	// result carries the base weight and no flags. Returned flags are
	// persisted by the caller alongside the recognition row.
	Detect(ctx context.Context, in DetectInput) (Result, error)
}

// ReviewPort drives flag creation outside the detector and the review
// lifecycle
type ReviewPort interface {
	// Report raises a flag against an existing recognition, either from
	// a peer report or a reviewer's own finding
	Report(ctx context.Context, reporter string, in ReportInput) (Flag, error)
	// StartReview moves a pending flag under review
	StartReview(ctx context.Context, flagID, reviewer string) (Flag, error)
	// Resolve closes a flag under review; a non-nil adjustedWeight
	// retroactively rewrites the recognition's weight
	Resolve(ctx context.Context, flagID, reviewer string, adjustedWeight *float64) (Flag, error)
	// Dismiss closes a flag under review as a false positive
	Dismiss(ctx context.Context, flagID, reviewer string) (Flag, error)
	ListByStatus(ctx context.Context, status FlagStatus, limit int) ([]Flag, error)
}
