package domain

import "time"

// StatusInput queries an org's remaining budget
type StatusInput struct {
	OrgID      string `json:"org_id" validate:"required,min=1,max=64" example:"org-acme"`
	ActionType string `json:"action_type" validate:"required,min=1,max=64" example:"recognition"`
}

// StatusResponse reports the current budget
type StatusResponse struct {
	Allowed   bool      `json:"allowed" example:"true"`
	Remaining int64     `json:"remaining" example:"412"`
	ResetAt   time.Time `json:"reset_at" example:"2025-07-01T00:00:00Z"`
}

// IncreaseInput asks for a higher ceiling
type IncreaseInput struct {
	OrgID         string `json:"org_id" validate:"required,min=1,max=64" example:"org-acme"`
	ActionType    string `json:"action_type" validate:"required,min=1,max=64" example:"recognition"`
	RequestedMax  int64  `json:"requested_max" validate:"required,min=1" example:"1000"`
	Justification string `json:"justification" validate:"required,min=10,max=2000" example:"quarterly peer-review cycle doubles volume"`
}

// ReviewInput records an approve/reject decision on a pending request
type ReviewInput struct {
	RequestID string `json:"request_id" validate:"required,uuid4" example:"9b2f7c1e-0f44-4df0-9c30-1c2ad8f1a9b0"`
	Approve   bool   `json:"approve" example:"true"`
}

// ApplyInput applies an approved request's ceiling
type ApplyInput struct {
	RequestID string `json:"request_id" validate:"required,uuid4" example:"9b2f7c1e-0f44-4df0-9c30-1c2ad8f1a9b0"`
}

// GetIncreaseInput fetches one increase request
type GetIncreaseInput struct {
	RequestID string `json:"request_id" validate:"required,uuid4" example:"9b2f7c1e-0f44-4df0-9c30-1c2ad8f1a9b0"`
}
