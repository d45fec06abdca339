package domain

import "context"

// WriterPort is the recognition write surface
type WriterPort interface {
	// Create runs the admission pipeline and persists the recognition.
	// clientToken is the caller's idempotency token; empty skips the guard.
	Create(ctx context.Context, orgID, giverID, clientToken string, in CreateInput) (CreateResult, error)
}

// ReaderPort fetches persisted recognitions
type ReaderPort interface {
	Get(ctx context.Context, orgID, id string) (Recognition, error)
}

// DirectoryPort answers org membership questions for the HTTP layer
type DirectoryPort interface {
	MemberOf(ctx context.Context, orgID, userID string) (bool, error)
}
