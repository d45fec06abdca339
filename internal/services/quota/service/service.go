// Package service provides the quota manager implementation
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kudos/internal/modkit/repokit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	dom "kudos/internal/services/quota/domain"
	"kudos/internal/services/quota/repo"
)

// Config for the quota manager
type Config struct {
	// DefaultCeiling and DefaultPeriod provision quotas on first contact
	DefaultCeiling int64
	DefaultPeriod  time.Duration
	Metrics        *metrics.Metrics
}

// Svc implements domain.ManagerPort, domain.AdminPort and domain.ResetPort.
// Quota is a governance signal rather than a protection mechanism, so
// store failures degrade open: a logged free pass beats a hard outage.
type Svc struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
	now    func() time.Time
}

// New constructs the quota service
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Svc {
	if cfg.DefaultCeiling <= 0 {
		cfg.DefaultCeiling = 500
	}
	if cfg.DefaultPeriod <= 0 {
		cfg.DefaultPeriod = 30 * 24 * time.Hour
	}
	return &Svc{tx: tx, binder: b, cfg: cfg, now: time.Now}
}

func (s *Svc) degrade(op string, err error) dom.Decision {
	s.cfg.Metrics.Admission("quota", "degraded")
	logger.Named("quota").Warn().Err(err).Str("op", op).Msg("quota store unavailable, failing open")
	return dom.Decision{Allowed: true, Remaining: -1}
}

// Check implements domain.ManagerPort
func (s *Svc) Check(ctx context.Context, orgID, actionType string) (dom.Decision, error) {
	st := s.binder.Bind(s.tx)

	q, found, err := st.Get(ctx, orgID, actionType)
	if err != nil {
		return s.degrade("check", err), nil
	}
	if !found {
		if err := st.Ensure(ctx, dom.Quota{
			OrgID:      orgID,
			ActionType: actionType,
			Ceiling:    s.cfg.DefaultCeiling,
			Period:     s.cfg.DefaultPeriod,
		}); err != nil {
			return s.degrade("provision", err), nil
		}
		q, found, err = st.Get(ctx, orgID, actionType)
		if err != nil || !found {
			return s.degrade("check", err), nil
		}
	}

	d := dom.Decision{
		Allowed:   q.Used < q.Ceiling,
		Remaining: max(0, q.Ceiling-q.Used),
		ResetAt:   q.ResetAt,
	}
	if d.Allowed {
		s.cfg.Metrics.Admission("quota", "allowed")
	} else {
		s.cfg.Metrics.Admission("quota", "denied")
	}
	return d, nil
}

// Consume implements domain.ManagerPort. A denial is a real decision and
// comes back as QuotaExceeded; only infrastructure failures degrade open.
func (s *Svc) Consume(ctx context.Context, orgID, actionType string, n int64) (dom.Decision, error) {
	if n <= 0 {
		return dom.Decision{}, perr.InvalidArgf("consume amount must be positive")
	}
	st := s.binder.Bind(s.tx)

	q, ok, err := st.Consume(ctx, orgID, actionType, n)
	if err != nil {
		return s.degrade("consume", err), nil
	}
	if !ok {
		// missing row: provision and retry once before treating the
		// denial as real
		if err := st.Ensure(ctx, dom.Quota{
			OrgID:      orgID,
			ActionType: actionType,
			Ceiling:    s.cfg.DefaultCeiling,
			Period:     s.cfg.DefaultPeriod,
		}); err != nil {
			return s.degrade("provision", err), nil
		}
		q, ok, err = st.Consume(ctx, orgID, actionType, n)
		if err != nil {
			return s.degrade("consume", err), nil
		}
	}
	if !ok {
		s.cfg.Metrics.Admission("quota", "denied")
		return dom.Decision{Allowed: false},
			perr.QuotaExceededf("org %s quota exhausted for %s", orgID, actionType)
	}

	s.cfg.Metrics.Admission("quota", "allowed")
	return dom.Decision{
		Allowed:   true,
		Remaining: max(0, q.Ceiling-q.Used),
		ResetAt:   q.ResetAt,
	}, nil
}

// RequestIncrease implements domain.AdminPort
func (s *Svc) RequestIncrease(ctx context.Context, orgID, actionType, requestedBy string, requestedMax int64, justification string) (dom.IncreaseRequest, error) {
	if requestedMax <= 0 {
		return dom.IncreaseRequest{}, perr.InvalidArgf("requested ceiling must be positive")
	}
	r := dom.IncreaseRequest{
		ID:            uuid.NewString(),
		OrgID:         orgID,
		ActionType:    actionType,
		RequestedBy:   requestedBy,
		RequestedMax:  requestedMax,
		Justification: justification,
		Status:        dom.IncreasePending,
		RequestedAt:   s.now().UTC(),
	}
	if err := s.binder.Bind(s.tx).InsertIncrease(ctx, r); err != nil {
		return dom.IncreaseRequest{}, perr.DBf("insert increase request: %v", err)
	}
	return r, nil
}

// ReviewIncrease implements domain.AdminPort
func (s *Svc) ReviewIncrease(ctx context.Context, id, reviewer string, approve bool) (dom.IncreaseRequest, error) {
	status := dom.IncreaseRejected
	if approve {
		status = dom.IncreaseApproved
	}
	r, ok, err := s.binder.Bind(s.tx).ReviewIncrease(ctx, id, status, reviewer)
	if err != nil {
		return dom.IncreaseRequest{}, perr.DBf("review increase: %v", err)
	}
	if !ok {
		return dom.IncreaseRequest{}, perr.Conflictf("increase request %s is not pending", id)
	}
	return r, nil
}

// ApplyApprovedCeiling implements domain.AdminPort
func (s *Svc) ApplyApprovedCeiling(ctx context.Context, id string) (dom.Quota, error) {
	q, ok, err := s.binder.Bind(s.tx).ApplyIncrease(ctx, id)
	if err != nil {
		return dom.Quota{}, perr.DBf("apply increase: %v", err)
	}
	if !ok {
		return dom.Quota{}, perr.Conflictf("increase request %s is not approved or already applied", id)
	}
	return q, nil
}

// GetIncrease implements domain.AdminPort
func (s *Svc) GetIncrease(ctx context.Context, id string) (dom.IncreaseRequest, error) {
	r, ok, err := s.binder.Bind(s.tx).GetIncrease(ctx, id)
	if err != nil {
		return dom.IncreaseRequest{}, perr.DBf("get increase: %v", err)
	}
	if !ok {
		return dom.IncreaseRequest{}, perr.NotFoundf("increase request %s", id)
	}
	return r, nil
}

// ResetDue implements domain.ResetPort
func (s *Svc) ResetDue(ctx context.Context) (int64, error) {
	return s.binder.Bind(s.tx).ResetDue(ctx, s.now())
}

// WithNow overrides the clock, for tests
func (s *Svc) WithNow(now func() time.Time) *Svc {
	s.now = now
	return s
}
