package domain

import "context"

// GuardPort is the idempotency surface other services consume
type GuardPort interface {
	// CheckAndReserve places a placeholder for (clientToken, actorID)
	// or reports a replay / in-flight conflict
	CheckAndReserve(ctx context.Context, clientToken, actorID string) (Reservation, error)
	// Commit stores the response snapshot for later replays
	Commit(ctx context.Context, res Reservation, response []byte) error
	// Release drops an uncommitted placeholder after a failed request
	Release(ctx context.Context, res Reservation) error
}

// SweepPort is the janitor-facing maintenance surface
type SweepPort interface {
	// SweepExpired deletes records past their expiry and returns the count
	SweepExpired(ctx context.Context) (int64, error)
}
