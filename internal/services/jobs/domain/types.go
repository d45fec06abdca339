// Package domain defines the types and interfaces for the durable job queue
package domain

import (
	"encoding/json"
	"time"
)

// Status is the job lifecycle state
type Status string

const (
	// StatusPending awaits a first attempt
	StatusPending Status = "pending"
	// StatusProcessing is claimed under a live lease
	StatusProcessing Status = "processing"
	// StatusRetrying awaits a backed-off re-attempt
	StatusRetrying Status = "retrying"
	// StatusCompleted is terminal success
	StatusCompleted Status = "completed"
	// StatusDeadLetter is terminal failure kept for inspection
	StatusDeadLetter Status = "dead_letter"
)

// Job is one unit of deferred work
type Job struct {
	ID         string
	Type       string
	Payload    json.RawMessage
	Priority   int
	Status     Status
	Retries    int
	MaxRetries int
	LastError  string

	EnqueuedAt    time.Time
	NextAttemptAt time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time

	LeaseOwner     string
	LeaseExpiresAt *time.Time
}
