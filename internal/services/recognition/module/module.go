// Package module wires the recognition write path into the application
package module

import (
	"kudos/internal/core/scoring"
	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/platform/circuit"
	"kudos/internal/platform/metrics"
	abusedom "kudos/internal/services/abuse/domain"
	auditdom "kudos/internal/services/audit/domain"
	idemdom "kudos/internal/services/idempotency/domain"
	jobsdom "kudos/internal/services/jobs/domain"
	quotadom "kudos/internal/services/quota/domain"
	ratedom "kudos/internal/services/ratelimit/domain"
	"kudos/internal/services/recognition/domain"
	rhttp "kudos/internal/services/recognition/http"
	"kudos/internal/services/recognition/repo"
	"kudos/internal/services/recognition/service"
)

// Ports exposed by the recognition module
type Ports struct {
	Writer    domain.WriterPort
	Reader    domain.ReaderPort
	Directory domain.DirectoryPort
}

// Wiring carries the admission collaborators the pipeline runs through
type Wiring struct {
	Guard    idemdom.GuardPort
	Limiter  ratedom.DeciderPort
	Quotas   quotadom.ManagerPort
	Detector abusedom.DetectorPort
	Jobs     jobsdom.EnqueuePort
	Audit    auditdom.EmitterPort
	Scorer   *scoring.Scorer
	Breakers *circuit.Registry
	Metrics  *metrics.Metrics
}

// Module implements the recognition module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Svc
}

// New constructs a new recognition module
func New(deps modkit.Deps, w Wiring) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		GiverDailyMax:    opts.GiverDailyMax,
		GiverWeeklyMax:   opts.GiverWeeklyMax,
		NotifyPriority:   opts.NotifyPriority,
		NotifyMaxRetries: opts.NotifyMaxRetries,
	}, service.Deps{
		Guard:    w.Guard,
		Limiter:  w.Limiter,
		Quotas:   w.Quotas,
		Detector: w.Detector,
		Jobs:     w.Jobs,
		Audit:    w.Audit,
		Scorer:   w.Scorer,
		Breakers: w.Breakers,
		Metrics:  w.Metrics,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Writer: svc, Reader: svc, Directory: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "recognition" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "/recognitions" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		rhttp.Register(rr, m.svc)
	})
}
