package domain

import (
	"context"
	"time"
)

// DeciderPort is the admission surface other services consume
type DeciderPort interface {
	// Allow counts this attempt against the subject's window and decides.
	// The count happens regardless of the outcome; a denied attempt still
	// consumed its slot, which keeps the check a single atomic statement.
	Allow(ctx context.Context, subjectKey string, l Limit) (Decision, error)
}

// PurgePort is the janitor-facing maintenance surface
type PurgePort interface {
	// PurgeEnded deletes counters whose window ended before the retention
	// cutoff and returns the count
	PurgeEnded(ctx context.Context, retention time.Duration) (int64, error)
}

// BreachSink receives fire-and-forget breach notifications
type BreachSink interface {
	RateLimitBreach(ctx context.Context, subjectKey string, count, limit int64)
}
