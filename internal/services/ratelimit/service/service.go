// Package service provides the fixed-window rate limiter implementation
package service

import (
	"context"
	"time"

	"kudos/internal/modkit/repokit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	dom "kudos/internal/services/ratelimit/domain"
	"kudos/internal/services/ratelimit/repo"
)

// Config for the rate limiter
type Config struct {
	// Breaches receives fire-and-forget breach notifications, may be nil
	Breaches dom.BreachSink
	Metrics  *metrics.Metrics
}

// Svc implements domain.DeciderPort and domain.PurgePort.
// Fixed windows are deliberate: the limits here are daily and weekly
// budgets where a visible remaining/reset pair matters more than
// boundary smoothness.
type Svc struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
	now    func() time.Time
}

// New constructs the rate limiter service
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Svc {
	return &Svc{tx: tx, binder: b, cfg: cfg, now: time.Now}
}

// Allow implements domain.DeciderPort. Store errors deny: admitting an
// uncounted request would let a retry storm through exactly when the
// backend is least able to absorb it.
func (s *Svc) Allow(ctx context.Context, subjectKey string, l dom.Limit) (dom.Decision, error) {
	if l.Max <= 0 || l.Window <= 0 {
		return dom.Decision{}, perr.InvalidArgf("rate limit must have positive max and window")
	}

	now := s.now().UTC()
	windowStart := now.Truncate(l.Window)
	resetAt := windowStart.Add(l.Window)

	count, err := s.binder.Bind(s.tx).Bump(ctx, subjectKey, windowStart, resetAt)
	if err != nil {
		s.cfg.Metrics.Admission("ratelimit", "error")
		return dom.Decision{ResetAt: resetAt}, perr.Unavailablef("rate counter store: %v", err)
	}

	d := dom.Decision{
		Allowed:   count <= l.Max,
		Remaining: max(0, l.Max-count),
		ResetAt:   resetAt,
	}
	if d.Allowed {
		s.cfg.Metrics.Admission("ratelimit", "allowed")
		return d, nil
	}

	s.cfg.Metrics.Admission("ratelimit", "denied")
	logger.Named("ratelimit").Info().
		Str("subject", subjectKey).
		Int64("count", count).
		Int64("limit", l.Max).
		Msg("window exhausted")
	if s.cfg.Breaches != nil {
		s.cfg.Breaches.RateLimitBreach(ctx, subjectKey, count, l.Max)
	}
	return d, nil
}

// PurgeEnded implements domain.PurgePort
func (s *Svc) PurgeEnded(ctx context.Context, retention time.Duration) (int64, error) {
	return s.binder.Bind(s.tx).DeleteEndedBefore(ctx, s.now().Add(-retention))
}

// WithNow overrides the clock, for tests
func (s *Svc) WithNow(now func() time.Time) *Svc {
	s.now = now
	return s
}
