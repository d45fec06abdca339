// Package module wires the audit sink into the application
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/services/audit/domain"
	"kudos/internal/services/audit/repo"
	"kudos/internal/services/audit/service"
)

// Ports exposed by the audit module
type Ports struct {
	Emitter domain.EmitterPort
}

// Module implements the audit module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Svc
}

// New constructs a new audit module. A nil CH seam disables the sink.
func New(deps modkit.Deps) *Module {
	svc := service.New(repo.NewCH(deps.CH))

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Emitter: svc}
	return m
}

// Service exposes the concrete emitter for structural sinks
func (m *Module) Service() *service.Svc { return m.svc }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "audit" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
