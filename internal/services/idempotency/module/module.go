// Package module wires the idempotency guard into the application
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/services/idempotency/domain"
	"kudos/internal/services/idempotency/repo"
	"kudos/internal/services/idempotency/service"
)

// Ports exposed by the idempotency module
type Ports struct {
	Guard domain.GuardPort
	Sweep domain.SweepPort
}

// Module implements the idempotency module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new idempotency module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		PendingTTL:   opts.PendingTTL,
		CommittedTTL: opts.CommittedTTL,
		FailOpen:     opts.FailOpen,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Guard: svc, Sweep: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "idempotency" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
