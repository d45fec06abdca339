package domain

import (
	"context"
	"encoding/json"
)

// EnqueuePort is the producer surface other services consume
type EnqueuePort interface {
	Enqueue(ctx context.Context, jobType string, payload json.RawMessage, priority, maxRetries int) (string, error)
}

// Handler processes one claimed job. A returned error counts as a failed
// attempt and walks the retry ladder.
type Handler func(ctx context.Context, j Job) error

// InspectPort is the read-only surface for operators
type InspectPort interface {
	Get(ctx context.Context, id string) (Job, error)
	ListDeadLetter(ctx context.Context, limit int) ([]Job, error)
}

// ReclaimPort is the janitor-facing maintenance surface
type ReclaimPort interface {
	// ReclaimExpiredLeases returns crashed workers' jobs to the queue
	// without charging a retry and reports the count
	ReclaimExpiredLeases(ctx context.Context) (int64, error)
}
