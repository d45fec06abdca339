// Package module wires the abuse detector into the application
package module

import (
	"kudos/internal/core/scoring"
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/platform/metrics"
	"kudos/internal/services/abuse/domain"
	ahttp "kudos/internal/services/abuse/http"
	"kudos/internal/services/abuse/repo"
	"kudos/internal/services/abuse/service"
	auditdom "kudos/internal/services/audit/domain"
)

// Ports exposed by the abuse module
type Ports struct {
	Detector domain.DetectorPort
	Review   domain.ReviewPort
}

// Module implements the abuse module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Svc
}

// Wiring carries cross-module collaborators
type Wiring struct {
	Scorer  *scoring.Scorer
	Audit   auditdom.EmitterPort
	Metrics *metrics.Metrics
}

// New constructs a new abuse module
func New(deps modkit.Deps, w Wiring) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		ReciprocityWindow: opts.ReciprocityWindow,
		ReciprocityMax:    opts.ReciprocityMax,
		DailyMax:          opts.DailyMax,
		WeeklyMax:         opts.WeeklyMax,
		Scorer:            w.Scorer,
		Audit:             w.Audit,
		Metrics:           w.Metrics,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Detector: svc, Review: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "abuse" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "/flags" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(fr httpkit.Router) {
		ahttp.Register(fr, m.svc)
	})
}
