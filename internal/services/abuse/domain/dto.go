package domain

// ReportInput raises a flag against an existing recognition
type ReportInput struct {
	RecognitionID string   `json:"recognition_id" validate:"required,uuid4" example:"0b6e35b1-9a4f-43d5-88a5-0c2f4b6f9f41"`
	Type          FlagType `json:"flag_type" validate:"required,oneof=reciprocity frequency content evidence weight_manipulation manual" example:"evidence"`
	Severity      Severity `json:"severity" validate:"required,oneof=low medium high critical" example:"medium"`
	// Method distinguishes a peer report from a reviewer's own finding;
	// automatic flags only ever come from the detector
	Method DetectionMethod `json:"method" validate:"required,oneof=reported manual_review" example:"reported"`
	Detail string          `json:"detail" validate:"required,max=500" example:"evidence link points at an unrelated document"`
}

// StartReviewInput moves a pending flag under review
type StartReviewInput struct {
	FlagID string `json:"flag_id" validate:"required,uuid4" example:"f4f9c7a2-58f2-4f0c-9a43-1df1f0a6b8ce"`
}

// ResolveInput closes a flag under review
type ResolveInput struct {
	FlagID string `json:"flag_id" validate:"required,uuid4" example:"f4f9c7a2-58f2-4f0c-9a43-1df1f0a6b8ce"`
	// AdjustedWeight, when set, rewrites the recognition's weight
	AdjustedWeight *float64 `json:"adjusted_weight,omitempty" validate:"omitempty,gt=0" example:"0.75"`
}

// DismissInput closes a flag under review as a false positive
type DismissInput struct {
	FlagID string `json:"flag_id" validate:"required,uuid4" example:"f4f9c7a2-58f2-4f0c-9a43-1df1f0a6b8ce"`
}

// ListInput pages flags by lifecycle status
type ListInput struct {
	Status FlagStatus `json:"status" validate:"required,oneof=pending under_review resolved dismissed" example:"pending"`
	Limit  int        `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}
