// The worker binary drains the job queue and runs the maintenance sweeps.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"kudos/internal/modkit"
	"kudos/internal/modkit/module"
	"kudos/internal/platform/circuit"
	"kudos/internal/platform/config"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	"kudos/internal/platform/store"

	idemmod "kudos/internal/services/idempotency/module"
	janitormod "kudos/internal/services/janitor/module"
	jobsmod "kudos/internal/services/jobs/module"
	notifymod "kudos/internal/services/notify/module"
	quotamod "kudos/internal/services/quota/module"
	ratemod "kudos/internal/services/ratelimit/module"
	recogdom "kudos/internal/services/recognition/domain"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	m := metrics.New()
	breakers := circuit.NewRegistry(circuit.WithObserver(func(t circuit.Transition) {
		m.Breaker(t.Name, t.To.String())
	}))

	jobs := jobsmod.New(deps, m)
	idem := idemmod.New(deps)
	rate := ratemod.New(deps, ratemod.Wiring{Metrics: m})
	quota := quotamod.New(deps, m)
	notify := notifymod.New(deps, breakers, m)
	janitor := janitormod.New(deps, janitormod.Wiring{
		Sweeper:   module.MustPortsOf[idemmod.Ports](idem).Sweep,
		Purger:    module.MustPortsOf[ratemod.Ports](rate).Purge,
		Resets:    module.MustPortsOf[quotamod.Ports](quota).Reset,
		Reclaimer: module.MustPortsOf[jobsmod.Ports](jobs).Reclaim,
		Metrics:   m,
	})

	for _, mod := range []module.Module{jobs, idem, rate, quota} {
		module.Register(mod.Name(), mod.Ports())
	}

	// queue consumers
	jobs.Service().Register(recogdom.JobTypeNotify, notify.Service().Handler())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	janitor.Service().RunOnce(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return jobs.Service().Run(ctx) })
	g.Go(func() error { return janitor.Service().Run(ctx) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("worker stopped")
	}
	l.Info().Msg("worker shut down")
}
