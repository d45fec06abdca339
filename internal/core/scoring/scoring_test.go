package scoring

import (
	"strings"
	"testing"
)

func TestWeight_HandComputable(t *testing.T) {
	s := New(DefaultConfig())

	// basic role, 150 chars containing "helped" and "improved", 2 tags, 1 evidence
	// 1.0*1.0 + 0.2 (length) + 0.1 (tags) + 0.15 (evidence) + 2*0.05 (keywords) = 1.55
	reason := "She helped the oncall rotation recover quickly and improved the runbook. "
	reason += strings.Repeat("x", 150-len(reason))
	if len(reason) != 150 {
		t.Fatalf("fixture length drifted: %d", len(reason))
	}

	got := s.Weight(WeightInput{
		Reason:        reason,
		Tags:          []string{"teamwork", "oncall"},
		EvidenceCount: 1,
		GiverRole:     RoleBasic,
	})
	if got != 1.55 {
		t.Fatalf("Weight = %v, want 1.55", got)
	}
}

func TestWeight_Deterministic(t *testing.T) {
	s := New(DefaultConfig())
	in := WeightInput{
		Reason:        "delivered the migration with zero downtime and mentored two juniors along the way which unblocked the release",
		Tags:          []string{"delivery"},
		EvidenceCount: 0,
		GiverRole:     RoleLead,
	}
	first := s.Weight(in)
	for i := 0; i < 50; i++ {
		if got := s.Weight(in); got != first {
			t.Fatalf("Weight not deterministic: %v then %v", first, got)
		}
	}
}

func TestWeight_RoleMultipliers(t *testing.T) {
	s := New(DefaultConfig())
	in := WeightInput{Reason: "nice", GiverRole: RoleBasic}

	basic := s.Weight(in)
	in.GiverRole = RoleExec
	exec := s.Weight(in)

	if basic != 1.0 {
		t.Fatalf("basic bare weight = %v, want 1.0", basic)
	}
	if exec != 1.5 {
		t.Fatalf("exec bare weight = %v, want 1.5", exec)
	}

	// unknown roles weigh like basic
	in.GiverRole = Role("contractor")
	if got := s.Weight(in); got != basic {
		t.Fatalf("unknown role weight = %v, want %v", got, basic)
	}
}

func TestWeight_KeywordFolding(t *testing.T) {
	s := New(DefaultConfig())
	a := s.Weight(WeightInput{Reason: "HELPED a lot", GiverRole: RoleBasic})
	b := s.Weight(WeightInput{Reason: "helped a lot", GiverRole: RoleBasic})
	if a != b {
		t.Fatalf("keyword match should be case insensitive: %v vs %v", a, b)
	}
	if a != 1.05 {
		t.Fatalf("single keyword weight = %v, want 1.05", a)
	}
}

func TestWeight_KeywordCountedOnce(t *testing.T) {
	s := New(DefaultConfig())
	got := s.Weight(WeightInput{Reason: "helped helped helped", GiverRole: RoleBasic})
	if got != 1.05 {
		t.Fatalf("repeated keyword should count once: %v, want 1.05", got)
	}
}

func TestContent_Signals(t *testing.T) {
	s := New(DefaultConfig())

	short := s.Content("thanks!")
	if !short.TooShort || !short.LowQuality {
		t.Fatalf("expected short low-quality signals, got %+v", short)
	}

	good := s.Content("collaborated across teams and delivered the quarterly report early")
	if good.TooShort || good.LowQuality {
		t.Fatalf("expected clean signals, got %+v", good)
	}
	if good.Keywords < 2 {
		t.Fatalf("expected >=2 keywords, got %d", good.Keywords)
	}
}

func TestWeight_Rounding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoleMultipliers[RoleSenior] = 1.15
	s := New(cfg)

	// 1.15 + 0.05 = 1.2 exactly after rounding
	got := s.Weight(WeightInput{Reason: "helped", GiverRole: RoleSenior})
	if got != 1.2 {
		t.Fatalf("Weight = %v, want 1.20", got)
	}
}
