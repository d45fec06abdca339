// Package domain defines the types and interfaces for the recognition write path
package domain

import "time"

// JobTypeNotify is the queue job type for recipient notification fan-out
const JobTypeNotify = "recognition.notify"

// Status is the recognition lifecycle state
type Status string

const (
	// StatusActive is a granted recognition
	StatusActive Status = "active"
	// StatusAdjusted marks a weight rewritten by flag review
	StatusAdjusted Status = "adjusted"
)

// Recognition is one granted peer recognition
type Recognition struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	GiverID      string    `json:"giver_id"`
	RecipientID  string    `json:"recipient_id"`
	Reason       string    `json:"reason"`
	Tags         []string  `json:"tags,omitempty"`
	EvidenceURLs []string  `json:"evidence_urls,omitempty"`
	GiverRole    string    `json:"giver_role"`
	Weight       float64   `json:"weight"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateInput is the create-recognition request body
type CreateInput struct {
	RecipientID  string   `json:"recipient_id" validate:"required,min=1,max=64" example:"user-7f3a"`
	Reason       string   `json:"reason" validate:"required,min=1,max=2000" example:"unblocked the release by rewriting the flaky integration suite"`
	Tags         []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=40" example:"teamwork"`
	EvidenceURLs []string `json:"evidence_urls,omitempty" validate:"omitempty,max=5,dive,url" example:"https://github.com/acme/app/pull/91"`
}

// CreateResult is the create-recognition response body. Replays of a
// committed idempotency key return the original bytes, so this struct is
// what gets snapshotted.
type CreateResult struct {
	Recognition Recognition `json:"recognition"`
	// ReasonCodes carries abuse-heuristic codes that downweighted the grant
	ReasonCodes []string `json:"reason_codes,omitempty"`
	// Duplicate marks an idempotent replay; never part of the snapshot
	Duplicate bool `json:"duplicate,omitempty"`
}
