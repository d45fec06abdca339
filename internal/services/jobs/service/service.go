// Package service provides the durable job queue implementation
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"kudos/internal/modkit/repokit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/metrics"
	dom "kudos/internal/services/jobs/domain"
	"kudos/internal/services/jobs/repo"
)

// Config for the job queue
type Config struct {
	// Concurrency bounds in-flight handlers per worker process
	Concurrency int
	// TakeBatch bounds jobs claimed per tick
	TakeBatch int
	// Lease bounds how long a claim lasts before reclaim
	Lease time.Duration
	// BackoffBase seeds the exponential retry delay (base * 2^retries)
	BackoffBase time.Duration
	// BackoffMax caps the retry delay
	BackoffMax time.Duration
	// DefaultMaxRetries applies when the producer passes none
	DefaultMaxRetries int
	Metrics           *metrics.Metrics
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.TakeBatch <= 0 {
		c.TakeBatch = 16
	}
	if c.Lease <= 0 {
		c.Lease = 60 * time.Second
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 5 * time.Second
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 15 * time.Minute
	}
	if c.DefaultMaxRetries <= 0 {
		c.DefaultMaxRetries = 5
	}
	return c
}

// Svc implements domain.EnqueuePort, domain.InspectPort and domain.ReclaimPort
type Svc struct {
	tx       repokit.TxRunner
	binder   repokit.Binder[repo.Storage]
	cfg      Config
	owner    string
	handlers map[string]dom.Handler
	now      func() time.Time
}

// New constructs the job queue service. Each worker process gets its own
// lease owner token so a reclaimed job can never be completed by the
// worker that lost it.
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Svc {
	return &Svc{
		tx:       tx,
		binder:   b,
		cfg:      cfg.withDefaults(),
		owner:    uuid.NewString(),
		handlers: map[string]dom.Handler{},
		now:      time.Now,
	}
}

// Register binds a handler to a job type. Not safe after Run starts.
func (s *Svc) Register(jobType string, h dom.Handler) {
	s.handlers[jobType] = h
}

// Enqueue implements domain.EnqueuePort
func (s *Svc) Enqueue(ctx context.Context, jobType string, payload json.RawMessage, priority, maxRetries int) (string, error) {
	if jobType == "" {
		return "", perr.InvalidArgf("job type required")
	}
	if maxRetries <= 0 {
		maxRetries = s.cfg.DefaultMaxRetries
	}
	j := dom.Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    payload,
		Priority:   priority,
		MaxRetries: maxRetries,
	}
	if err := s.binder.Bind(s.tx).Insert(ctx, j); err != nil {
		return "", perr.DBf("enqueue %s: %v", jobType, err)
	}
	return j.ID, nil
}

// Backoff computes the retry delay for a given attempt count
func (s *Svc) Backoff(retries int) time.Duration {
	d := s.cfg.BackoffBase
	for i := 0; i < retries; i++ {
		d *= 2
		if d >= s.cfg.BackoffMax {
			return s.cfg.BackoffMax
		}
	}
	return min(d, s.cfg.BackoffMax)
}

// Dispatch runs the registered handler for one claimed job and settles it.
// Split out of the worker loop so tests can drive it synchronously.
func (s *Svc) Dispatch(ctx context.Context, j dom.Job) error {
	st := s.binder.Bind(s.tx)

	h, ok := s.handlers[j.Type]
	if !ok {
		// nothing will ever handle this payload; skip the ladder
		s.cfg.Metrics.Job(j.Type, "dead_letter")
		_, err := st.Bury(ctx, j.ID, s.owner, "no handler registered for job type")
		return err
	}

	start := s.now()
	herr := h(ctx, j)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.JobDuration.Observe(s.now().Sub(start).Seconds())
	}

	if herr == nil {
		ok, err := st.Complete(ctx, j.ID, s.owner)
		if err != nil {
			return err
		}
		if !ok {
			s.cfg.Metrics.Job(j.Type, "lease_lost")
			return perr.Conflictf("job %s lease lost before completion", j.ID)
		}
		s.cfg.Metrics.Job(j.Type, "completed")
		return nil
	}

	status, ok, err := st.Fail(ctx, j.ID, s.owner, herr.Error(), s.Backoff(j.Retries))
	if err != nil {
		return err
	}
	if !ok {
		s.cfg.Metrics.Job(j.Type, "lease_lost")
		return perr.Conflictf("job %s lease lost before failure settled", j.ID)
	}
	s.cfg.Metrics.Job(j.Type, string(status))
	return herr
}

// Get implements domain.InspectPort
func (s *Svc) Get(ctx context.Context, id string) (dom.Job, error) {
	j, ok, err := s.binder.Bind(s.tx).Get(ctx, id)
	if err != nil {
		return dom.Job{}, perr.DBf("get job: %v", err)
	}
	if !ok {
		return dom.Job{}, perr.NotFoundf("job %s", id)
	}
	return j, nil
}

// ListDeadLetter implements domain.InspectPort
func (s *Svc) ListDeadLetter(ctx context.Context, limit int) ([]dom.Job, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.binder.Bind(s.tx).ListDeadLetter(ctx, limit)
}

// ReclaimExpiredLeases implements domain.ReclaimPort
func (s *Svc) ReclaimExpiredLeases(ctx context.Context) (int64, error) {
	return s.binder.Bind(s.tx).ReclaimExpired(ctx, s.now())
}

// WithNow overrides the clock, for tests
func (s *Svc) WithNow(now func() time.Time) *Svc {
	s.now = now
	return s
}

// WithOwner overrides the lease owner token, for tests
func (s *Svc) WithOwner(owner string) *Svc {
	s.owner = owner
	return s
}
