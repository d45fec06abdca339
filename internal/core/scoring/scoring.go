// Package scoring computes recognition weights and content signals
// Everything here is a pure function of its inputs so callers can replay
// and tests can assert exact outputs
package scoring

import (
	"math"
)

// Role is the giver's organizational role used for the base multiplier
type Role string

const (
	// RoleBasic is the default individual contributor role
	RoleBasic Role = "basic"
	// RoleSenior is a senior individual contributor
	RoleSenior Role = "senior"
	// RoleLead is a team or project lead
	RoleLead Role = "lead"
	// RoleExec is a director level or above role
	RoleExec Role = "exec"
)

// WeightInput carries everything the weight formula looks at
type WeightInput struct {
	Reason        string
	Tags          []string
	EvidenceCount int
	GiverRole     Role
}

// Config holds every tunable of the formula as a named value
// Zero value is not usable; start from DefaultConfig
type Config struct {
	RoleMultipliers map[Role]float64

	// ReasonLengthBonus applies when len(Reason) >= ReasonLengthMin
	ReasonLengthMin   int
	ReasonLengthBonus float64

	// TagBonus applies when the tag count >= TagCountMin
	TagCountMin int
	TagBonus    float64

	// EvidenceBonus applies when EvidenceCount > 0
	EvidenceBonus float64

	// KeywordBonus is added once per distinct matched quality keyword
	KeywordBonus float64
	Keywords     []string

	// MinReasonLength below which content is considered too thin
	MinReasonLength int
}

// DefaultConfig returns the production formula constants
func DefaultConfig() Config {
	return Config{
		RoleMultipliers: map[Role]float64{
			RoleBasic:  1.0,
			RoleSenior: 1.15,
			RoleLead:   1.25,
			RoleExec:   1.5,
		},
		ReasonLengthMin:   100,
		ReasonLengthBonus: 0.2,
		TagCountMin:       2,
		TagBonus:          0.1,
		EvidenceBonus:     0.15,
		KeywordBonus:      0.05,
		Keywords:          DefaultKeywords(),
		MinReasonLength:   20,
	}
}

// Scorer evaluates the weight formula with a fixed Config
type Scorer struct {
	cfg     Config
	matcher *keywordMatcher
}

// New builds a Scorer; unknown roles fall back to the basic multiplier
func New(cfg Config) *Scorer {
	if cfg.RoleMultipliers == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg, matcher: newKeywordMatcher(cfg.Keywords)}
}

// Weight computes the recognition weight
// start at 1.0, multiply by the role multiplier, then add fixed bonuses
// for reason length, tag count, evidence, and one bonus per matched keyword
// the result is rounded half up to two decimals
func (s *Scorer) Weight(in WeightInput) float64 {
	w := 1.0

	mult, ok := s.cfg.RoleMultipliers[in.GiverRole]
	if !ok {
		mult = s.cfg.RoleMultipliers[RoleBasic]
	}
	w *= mult

	if len(in.Reason) >= s.cfg.ReasonLengthMin {
		w += s.cfg.ReasonLengthBonus
	}
	if len(in.Tags) >= s.cfg.TagCountMin {
		w += s.cfg.TagBonus
	}
	if in.EvidenceCount > 0 {
		w += s.cfg.EvidenceBonus
	}
	w += float64(s.matcher.countDistinct(in.Reason)) * s.cfg.KeywordBonus

	return round2(w)
}

// ContentSignals describes quality heuristics over the reason text
// TooShort and LowQuality down-weight a recognition, they never block one
type ContentSignals struct {
	TooShort   bool
	LowQuality bool
	Keywords   int
}

// Content evaluates the content heuristics for the reason text
func (s *Scorer) Content(reason string) ContentSignals {
	kw := s.matcher.countDistinct(reason)
	return ContentSignals{
		TooShort:   len(reason) < s.cfg.MinReasonLength,
		LowQuality: kw == 0,
		Keywords:   kw,
	}
}

// round2 rounds half up to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
