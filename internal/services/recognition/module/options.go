package module

import (
	"kudos/internal/platform/config"
)

// Options holds configuration settings for the recognition module
type Options struct {
	GiverDailyMax    int64
	GiverWeeklyMax   int64
	NotifyPriority   int
	NotifyMaxRetries int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("RECOGNITION_")
	return Options{
		GiverDailyMax:    int64(f.MayInt("GIVER_DAILY_MAX", 20)),
		GiverWeeklyMax:   int64(f.MayInt("GIVER_WEEKLY_MAX", 60)),
		NotifyPriority:   f.MayInt("NOTIFY_PRIORITY", 5),
		NotifyMaxRetries: f.MayInt("NOTIFY_MAX_RETRIES", 5),
	}
}
