// Package module wires the quota manager into the application
package module

import (
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/platform/metrics"
	"kudos/internal/services/quota/domain"
	qhttp "kudos/internal/services/quota/http"
	"kudos/internal/services/quota/repo"
	"kudos/internal/services/quota/service"
)

// Ports exposed by the quota module
type Ports struct {
	Manager domain.ManagerPort
	Admin   domain.AdminPort
	Reset   domain.ResetPort
}

// Module implements the quota module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Svc
}

// New constructs a new quota module
func New(deps modkit.Deps, m *metrics.Metrics) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		DefaultCeiling: opts.DefaultCeiling,
		DefaultPeriod:  opts.DefaultPeriod,
		Metrics:        m,
	})

	mod := &Module{deps: deps, svc: svc}
	mod.ports = Ports{Manager: svc, Admin: svc, Reset: svc}
	return mod
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "quota" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "/quotas" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(qr httpkit.Router) {
		qhttp.Register(qr, m.svc)
	})
}
