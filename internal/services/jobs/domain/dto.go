package domain

// GetInput fetches one job by id
type GetInput struct {
	JobID string `json:"job_id" validate:"required,uuid4" example:"3e0c5a92-9f1d-4f5a-8a07-6a1f0c9b2d44"`
}

// DeadLetterInput lists recent dead-lettered jobs
type DeadLetterInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}
