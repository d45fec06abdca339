package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the idempotency module
type Options struct {
	PendingTTL   time.Duration
	CommittedTTL time.Duration
	FailOpen     bool
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("IDEM_")
	return Options{
		PendingTTL:   f.MayDuration("PENDING_TTL", 60*time.Second),
		CommittedTTL: f.MayDuration("COMMITTED_TTL", 24*time.Hour),
		FailOpen:     f.MayBool("FAIL_OPEN", true),
	}
}
