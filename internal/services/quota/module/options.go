package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the quota module
type Options struct {
	DefaultCeiling int64
	DefaultPeriod  time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("QUOTA_")
	return Options{
		DefaultCeiling: int64(f.MayInt("DEFAULT_CEILING", 500)),
		DefaultPeriod:  f.MayDuration("DEFAULT_PERIOD", 30*24*time.Hour),
	}
}
