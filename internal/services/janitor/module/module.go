// Package module wires the janitor sweeps into the worker binary
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/platform/metrics"
	idemdom "kudos/internal/services/idempotency/domain"
	"kudos/internal/services/janitor/service"
	jobsdom "kudos/internal/services/jobs/domain"
	quotadom "kudos/internal/services/quota/domain"
	ratedom "kudos/internal/services/ratelimit/domain"
)

// Wiring carries the maintenance ports of the swept modules
type Wiring struct {
	Sweeper   idemdom.SweepPort
	Purger    ratedom.PurgePort
	Resets    quotadom.ResetPort
	Reclaimer jobsdom.ReclaimPort
	Metrics   *metrics.Metrics
}

// Module implements the janitor module
type Module struct {
	deps modkit.Deps
	svc  *service.Svc
}

// New constructs a new janitor module
func New(deps modkit.Deps, w Wiring) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(service.Config{
		IdempotencyEvery: opts.IdempotencyEvery,
		RateEvery:        opts.RateEvery,
		QuotaEvery:       opts.QuotaEvery,
		LeaseEvery:       opts.LeaseEvery,
		RateRetention:    opts.RateRetention,
	}, service.Deps{
		Sweeper:   w.Sweeper,
		Purger:    w.Purger,
		Resets:    w.Resets,
		Reclaimer: w.Reclaimer,
		Metrics:   w.Metrics,
	})

	return &Module{deps: deps, svc: svc}
}

// Name identifies the module
func (m *Module) Name() string { return "janitor" }

// Service exposes the sweep runner to the worker binary
func (m *Module) Service() *service.Svc { return m.svc }
