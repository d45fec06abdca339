// Package module wires the job queue into the application
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/platform/metrics"
	"kudos/internal/services/jobs/domain"
	jhttp "kudos/internal/services/jobs/http"
	"kudos/internal/services/jobs/repo"
	"kudos/internal/services/jobs/service"
)

// Ports exposed by the jobs module
type Ports struct {
	Enqueuer domain.EnqueuePort
	Inspect  domain.InspectPort
	Reclaim  domain.ReclaimPort
}

// Module implements the jobs module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Svc
}

// New constructs a new jobs module
func New(deps modkit.Deps, m *metrics.Metrics) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		Concurrency:       opts.Concurrency,
		TakeBatch:         opts.TakeBatch,
		Lease:             opts.Lease,
		BackoffBase:       opts.BackoffBase,
		BackoffMax:        opts.BackoffMax,
		DefaultMaxRetries: opts.DefaultMaxRetries,
		Metrics:           m,
	})

	mod := &Module{deps: deps, svc: svc}
	mod.ports = Ports{Enqueuer: svc, Inspect: svc, Reclaim: svc}
	return mod
}

// Service exposes the concrete service for worker binaries that need
// Register and Run
func (m *Module) Service() *service.Svc { return m.svc }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "jobs" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "/jobs" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(jr httpkit.Router) {
		jhttp.Register(jr, m.svc)
	})
}
