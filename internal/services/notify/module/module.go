// Package module wires the notification fan-out into the worker binary
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/platform/circuit"
	"kudos/internal/platform/metrics"
	"kudos/internal/services/notify/service"
)

// Module implements the notify module
type Module struct {
	deps modkit.Deps
	svc  *service.Svc
}

// New constructs a new notify module. Without a webhook URL the log
// channel is the only delivery target.
func New(deps modkit.Deps, breakers *circuit.Registry, m *metrics.Metrics) *Module {
	opts := FromConfig(deps.Cfg)

	channels := []service.Channel{service.Log{}}
	if opts.WebhookURL != "" {
		channels = append(channels, service.NewWebhook(opts.WebhookURL, opts.WebhookTimeout))
	}

	return &Module{deps: deps, svc: service.New(breakers, m, channels...)}
}

// Name identifies the module
func (m *Module) Name() string { return "notify" }

// Service exposes the notifier to the worker binary
func (m *Module) Service() *service.Svc { return m.svc }
