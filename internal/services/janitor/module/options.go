package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the janitor module
type Options struct {
	IdempotencyEvery time.Duration
	RateEvery        time.Duration
	QuotaEvery       time.Duration
	LeaseEvery       time.Duration
	RateRetention    time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("JANITOR_")
	return Options{
		IdempotencyEvery: f.MayDuration("IDEMPOTENCY_EVERY", time.Minute),
		RateEvery:        f.MayDuration("RATE_EVERY", 10*time.Minute),
		QuotaEvery:       f.MayDuration("QUOTA_EVERY", time.Minute),
		LeaseEvery:       f.MayDuration("LEASE_EVERY", 30*time.Second),
		RateRetention:    f.MayDuration("RATE_RETENTION", 14*24*time.Hour),
	}
}
