package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the rate limit module
type Options struct {
	// Retention bounds how long ended windows stay queryable before purge
	Retention time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("RATE_")
	return Options{
		Retention: f.MayDuration("RETENTION", 14*24*time.Hour),
	}
}
