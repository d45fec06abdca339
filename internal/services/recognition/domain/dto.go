package domain

// GetInput fetches one recognition by id
type GetInput struct {
	ID string `json:"id" validate:"required,uuid4" example:"6f1c2a34-9d0b-4f5e-8c21-3b7a90d1e442"`
}
