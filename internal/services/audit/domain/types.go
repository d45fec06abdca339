// Package domain defines the types and interfaces for the audit sink
package domain

import "time"

// Event is one append-only audit record. Actor and target ids are hashed
// before they leave the process; the sink never sees raw identifiers.
type Event struct {
	Code      string
	OrgID     string
	ActorHID  string
	TargetHID string
	Meta      map[string]string
	At        time.Time
}

// Event codes emitted by the control plane
const (
	CodeRecognitionGranted = "recognition.granted"
	CodeRecognitionDenied  = "recognition.denied"
	CodeRecognitionBlocked = "recognition.blocked"
	CodeRateLimitBreach    = "rate_limit.breach"
	CodeQuotaDenied        = "quota.denied"
	CodeQuotaReviewed      = "quota.increase_reviewed"
	CodeAbuseFlagged       = "abuse.flagged"
	CodeBreakerTransition  = "circuit.transition"
)
