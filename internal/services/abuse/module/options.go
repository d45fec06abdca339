package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the abuse module
type Options struct {
	ReciprocityWindow time.Duration
	ReciprocityMax    int64
	DailyMax          int64
	WeeklyMax         int64
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("ABUSE_")
	return Options{
		ReciprocityWindow: f.MayDuration("RECIPROCITY_WINDOW", 7*24*time.Hour),
		ReciprocityMax:    int64(f.MayInt("RECIPROCITY_MAX", 3)),
		DailyMax:          int64(f.MayInt("DAILY_MAX", 10)),
		WeeklyMax:         int64(f.MayInt("WEEKLY_MAX", 30)),
	}
}
