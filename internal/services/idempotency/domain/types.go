// Package domain defines the types and interfaces for the idempotency guard
package domain

// State is the lifecycle of an idempotency record
type State string

const (
	// StatePending marks a placeholder for an in-flight request
	StatePending State = "pending"
	// StateCommitted marks a record holding a response snapshot
	StateCommitted State = "committed"
)

// Reservation is the outcome of CheckAndReserve
type Reservation struct {
	// Key is the derived storage key (hex) for later Commit/Release
	Key string
	// Owner is the reservation token proving who holds the placeholder
	Owner string
	// Bypassed is set when no client token was supplied (guard skipped)
	// or when a store failure was absorbed under the fail-open policy
	Bypassed bool
	// Duplicate is set when a committed record already existed
	Duplicate bool
	// Response holds the cached response snapshot when Duplicate
	Response []byte
}
