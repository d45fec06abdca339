// Package service runs the background maintenance sweeps: expired
// idempotency records, ended rate windows, due quota resets and abandoned
// job leases.
package service

import (
	"context"
	"sync"
	"time"

	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	idemdom "kudos/internal/services/idempotency/domain"
	jobsdom "kudos/internal/services/jobs/domain"
	quotadom "kudos/internal/services/quota/domain"
	ratedom "kudos/internal/services/ratelimit/domain"
)

// Config for the sweep cadence
type Config struct {
	IdempotencyEvery time.Duration
	RateEvery        time.Duration
	QuotaEvery       time.Duration
	LeaseEvery       time.Duration

	// RateRetention keeps ended windows around for inspection before purge
	RateRetention time.Duration
}

func (c Config) withDefaults() Config {
	if c.IdempotencyEvery <= 0 {
		c.IdempotencyEvery = time.Minute
	}
	if c.RateEvery <= 0 {
		c.RateEvery = 10 * time.Minute
	}
	if c.QuotaEvery <= 0 {
		c.QuotaEvery = time.Minute
	}
	if c.LeaseEvery <= 0 {
		c.LeaseEvery = 30 * time.Second
	}
	if c.RateRetention <= 0 {
		c.RateRetention = 14 * 24 * time.Hour
	}
	return c
}

// Deps are the maintenance surfaces of the other modules
type Deps struct {
	Sweeper   idemdom.SweepPort
	Purger    ratedom.PurgePort
	Resets    quotadom.ResetPort
	Reclaimer jobsdom.ReclaimPort
	Metrics   *metrics.Metrics
}

// Task is one recurring sweep
type Task struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) (int64, error)
}

// Svc drives the sweep loops
type Svc struct {
	cfg   Config
	deps  Deps
	tasks []Task
}

// New constructs the janitor service
func New(cfg Config, deps Deps) *Svc {
	s := &Svc{cfg: cfg.withDefaults(), deps: deps}

	add := func(name string, every time.Duration, run func(ctx context.Context) (int64, error)) {
		s.tasks = append(s.tasks, Task{Name: name, Every: every, Run: run})
	}
	if deps.Sweeper != nil {
		add("idempotency", s.cfg.IdempotencyEvery, deps.Sweeper.SweepExpired)
	}
	if deps.Purger != nil {
		add("ratelimit", s.cfg.RateEvery, func(ctx context.Context) (int64, error) {
			return deps.Purger.PurgeEnded(ctx, s.cfg.RateRetention)
		})
	}
	if deps.Resets != nil {
		add("quota", s.cfg.QuotaEvery, deps.Resets.ResetDue)
	}
	if deps.Reclaimer != nil {
		add("job_leases", s.cfg.LeaseEvery, deps.Reclaimer.ReclaimExpiredLeases)
	}
	return s
}

// Tasks exposes the configured sweeps
func (s *Svc) Tasks() []Task { return s.tasks }

// RunOnce executes every sweep a single time; used on startup so a long
// outage does not wait a full interval before catching up
func (s *Svc) RunOnce(ctx context.Context) {
	for _, t := range s.tasks {
		s.sweep(ctx, t)
	}
}

// Run blocks until ctx is done, driving each sweep on its own ticker
func (s *Svc) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, t := range s.tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			ticker := time.NewTicker(t.Every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.sweep(ctx, t)
				}
			}
		}(t)
	}
	wg.Wait()
	return ctx.Err()
}

func (s *Svc) sweep(ctx context.Context, t Task) {
	log := logger.Named("janitor")
	n, err := t.Run(ctx)
	if err != nil {
		s.deps.Metrics.Sweep(t.Name, "error")
		log.Error().Err(err).Str("sweep", t.Name).Msg("sweep failed")
		return
	}
	s.deps.Metrics.Sweep(t.Name, "ok")
	if n > 0 {
		log.Info().Str("sweep", t.Name).Int64("rows", n).Msg("sweep done")
	}
}
