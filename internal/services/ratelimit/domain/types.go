// Package domain defines the types and interfaces for the rate limiter
package domain

import "time"

// Limit is a fixed-window budget
type Limit struct {
	Max    int64
	Window time.Duration
}

// Decision is the outcome of an admission check
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}
