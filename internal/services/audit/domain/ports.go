package domain

import "context"

// EmitterPort is the fire-and-forget audit surface. Implementations must
// never fail the caller; emission problems are logged and dropped.
type EmitterPort interface {
	Emit(ctx context.Context, e Event)
}
