// Package domain defines the types and interfaces for abuse detection
package domain

import "time"

// FlagType names the heuristic that raised a flag
type FlagType string

const (
	// FlagReciprocity marks a giver/recipient pair trading recognitions
	FlagReciprocity FlagType = "reciprocity"
	// FlagFrequency marks a giver exceeding volume ceilings
	FlagFrequency FlagType = "frequency"
	// FlagContent marks a thin or low-quality reason
	FlagContent FlagType = "content"
	// FlagEvidence marks dubious or fabricated evidence links
	FlagEvidence FlagType = "evidence"
	// FlagWeightManipulation marks attempts to game the weight formula
	FlagWeightManipulation FlagType = "weight_manipulation"
	// FlagManual is a catch-all for reviewer-raised concerns
	FlagManual FlagType = "manual"
)

// DetectionMethod records how a flag came to exist
type DetectionMethod string

const (
	// DetectAutomatic flags are raised by the detector at grant time
	DetectAutomatic DetectionMethod = "automatic"
	// DetectReported flags come from a peer report
	DetectReported DetectionMethod = "reported"
	// DetectManualReview flags are raised by a reviewer after the fact
	DetectManualReview DetectionMethod = "manual_review"
)

// Severity orders flags from cosmetic to blocking
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// rank orders severities; higher is worse
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Worse reports whether s outranks o
func (s Severity) Worse(o Severity) bool { return s.rank() > o.rank() }

// Penalty returns the weight multiplier applied for this severity
func (s Severity) Penalty() float64 {
	switch s {
	case SeverityCritical:
		return 0.25
	case SeverityHigh:
		return 0.5
	case SeverityMedium:
		return 0.75
	case SeverityLow:
		return 0.9
	default:
		return 1.0
	}
}

// FlagStatus is the review lifecycle of a persisted flag
type FlagStatus string

const (
	FlagPending     FlagStatus = "pending"
	FlagUnderReview FlagStatus = "under_review"
	FlagResolved    FlagStatus = "resolved"
	FlagDismissed   FlagStatus = "dismissed"
)

// Flag is one abuse signal attached to a recognition attempt
type Flag struct {
	ID            string
	OrgID         string
	RecognitionID string
	GiverID       string
	RecipientID   string
	Type          FlagType
	Severity      Severity
	Method        DetectionMethod
	Detail        string
	Status        FlagStatus
	// OriginalWeight is the recognition's weight before this flag's
	// penalty; AdjustedWeight is what the write path granted with it
	OriginalWeight float64
	AdjustedWeight float64
	CreatedAt      time.Time
	ReviewedBy     string
	ReviewedAt     *time.Time
}

// RecognitionRef is the slice of a recognition row a manual flag copies
type RecognitionRef struct {
	OrgID       string
	GiverID     string
	RecipientID string
	Weight      float64
}

// DetectInput is one recognition attempt under evaluation
type DetectInput struct {
	OrgID       string
	GiverID     string
	RecipientID string
	Reason      string
	BaseWeight  float64
}

// Result is the detector's verdict
type Result struct {
	// Blocked recognitions are rejected outright
	Blocked bool
	// AdjustedWeight is the base weight after the penalty for the worst
	// flag; never above the base
	AdjustedWeight float64
	Flags          []Flag
	ReasonCodes    []string
}
