// Package module wires the rate limiter into the application
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/platform/metrics"
	"kudos/internal/services/ratelimit/domain"
	"kudos/internal/services/ratelimit/repo"
	"kudos/internal/services/ratelimit/service"
)

// Ports exposed by the rate limit module
type Ports struct {
	Decider domain.DeciderPort
	Purge   domain.PurgePort
}

// Module implements the rate limit module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// Wiring carries cross-module collaborators the module cannot build itself
type Wiring struct {
	Breaches domain.BreachSink
	Metrics  *metrics.Metrics
}

// New constructs a new rate limit module
func New(deps modkit.Deps, w Wiring) *Module {
	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		Breaches: w.Breaches,
		Metrics:  w.Metrics,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Decider: svc, Purge: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ratelimit" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
