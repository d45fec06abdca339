package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the jobs module
type Options struct {
	Concurrency       int
	TakeBatch         int
	Lease             time.Duration
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	DefaultMaxRetries int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("JOBS_")
	return Options{
		Concurrency:       f.MayInt("CONCURRENCY", 4),
		TakeBatch:         f.MayInt("TAKE_BATCH", 16),
		Lease:             f.MayDuration("LEASE", 60*time.Second),
		BackoffBase:       f.MayDuration("BACKOFF_BASE", 5*time.Second),
		BackoffMax:        f.MayDuration("BACKOFF_MAX", 15*time.Minute),
		DefaultMaxRetries: f.MayInt("MAX_RETRIES", 5),
	}
}
