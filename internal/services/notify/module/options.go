package module

import (
	"time"

	"kudos/internal/platform/config"
)

// Options holds configuration settings for the notify module
type Options struct {
	WebhookURL     string
	WebhookTimeout time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("NOTIFY_")
	return Options{
		WebhookURL:     f.MayString("WEBHOOK_URL", ""),
		WebhookTimeout: f.MayDuration("WEBHOOK_TIMEOUT", 5*time.Second),
	}
}
