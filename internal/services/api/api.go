// Package api assembles the control-plane modules behind one HTTP surface
package api

import (
	"context"

	"kudos/internal/platform/circuit"
	"kudos/internal/platform/config"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	phttp "kudos/internal/platform/net/http"
	"kudos/internal/platform/store"

	"kudos/internal/modkit"
	"kudos/internal/modkit/httpkit"
	"kudos/internal/modkit/module"
	"kudos/internal/modkit/swaggerkit"

	abusemod "kudos/internal/services/abuse/module"
	metamod "kudos/internal/services/api/meta/module"
	auditdom "kudos/internal/services/audit/domain"
	auditmod "kudos/internal/services/audit/module"
	idemmod "kudos/internal/services/idempotency/module"
	jobsmod "kudos/internal/services/jobs/module"
	quotamod "kudos/internal/services/quota/module"
	ratemod "kudos/internal/services/ratelimit/module"
	recogmod "kudos/internal/services/recognition/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	m := opt.Metrics

	// audit first: everything downstream emits into it
	audit := auditmod.New(deps)
	emitter := module.MustPortsOf[auditmod.Ports](audit).Emitter

	// one breaker registry per process; transitions land in metrics and audit
	breakers := circuit.NewRegistry(circuit.WithObserver(func(t circuit.Transition) {
		m.Breaker(t.Name, t.To.String())
		emitter.Emit(context.Background(), auditdom.Event{
			Code: auditdom.CodeBreakerTransition,
			Meta: map[string]string{"dependency": t.Name, "from": t.From.String(), "to": t.To.String()},
		})
	}))

	idem := idemmod.New(deps)
	rate := ratemod.New(deps, ratemod.Wiring{Breaches: audit.Service(), Metrics: m})
	quota := quotamod.New(deps, m)
	jobs := jobsmod.New(deps, m)
	abuse := abusemod.New(deps, abusemod.Wiring{Audit: emitter, Metrics: m})

	recognition := recogmod.New(deps, recogmod.Wiring{
		Guard:    module.MustPortsOf[idemmod.Ports](idem).Guard,
		Limiter:  module.MustPortsOf[ratemod.Ports](rate).Decider,
		Quotas:   module.MustPortsOf[quotamod.Ports](quota).Manager,
		Detector: module.MustPortsOf[abusemod.Ports](abuse).Detector,
		Jobs:     module.MustPortsOf[jobsmod.Ports](jobs).Enqueuer,
		Audit:    emitter,
		Breakers: breakers,
		Metrics:  m,
	})

	meta := metamod.New(deps, breakers)
	mods := []module.Module{
		audit,
		idem,
		rate,
		quota,
		jobs,
		abuse,
		recognition,
	}

	member := orgMembership{dir: module.MustPortsOf[recogmod.Ports](recognition).Directory}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// health, readiness and breaker state stay unauthenticated
		module.Register(meta.Name(), meta.Ports())
		meta.MountRoutes(api)

		// everything else sits behind edge identity plus org membership
		httpkit.Protected(api, headerAuth{}, func(sec httpkit.Router) {
			sec.Use(httpkit.Membership(member, phttp.JSON))
			for _, mod := range mods {
				// register each module's ports under its own name (for cross-module lookups)
				module.Register(mod.Name(), mod.Ports())

				// mount module routes under its Prefix()
				mod.MountRoutes(sec)
			}
		})
	})

	// operational metrics live outside the versioned API
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}
}
