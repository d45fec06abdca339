// Package service provides the idempotency guard implementation
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"kudos/internal/modkit/repokit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/logger"
	dom "kudos/internal/services/idempotency/domain"
	"kudos/internal/services/idempotency/repo"
)

// Config for the idempotency guard
type Config struct {
	// PendingTTL bounds how long an uncommitted placeholder blocks retries
	PendingTTL time.Duration
	// CommittedTTL bounds the replay window for committed responses
	CommittedTTL time.Duration
	// FailOpen lets requests through when the store is unavailable.
	// The recognition path runs fail-closed; duplicates there are worse
	// than rejected requests.
	FailOpen bool
}

// Svc implements domain.GuardPort and domain.SweepPort
type Svc struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
	now    func() time.Time
}

// New constructs the idempotency service
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Svc {
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 60 * time.Second
	}
	if cfg.CommittedTTL <= 0 {
		cfg.CommittedTTL = 24 * time.Hour
	}
	return &Svc{tx: tx, binder: b, cfg: cfg, now: time.Now}
}

// Key derives the storage key from the client token and acting user.
// Scoping by actor keeps one user's token from colliding with another's.
func Key(clientToken, actorID string) string {
	h := sha256.New()
	h.Write([]byte(actorID))
	h.Write([]byte{0})
	h.Write([]byte(clientToken))
	return hex.EncodeToString(h.Sum(nil))
}

// CheckAndReserve implements domain.GuardPort
func (s *Svc) CheckAndReserve(ctx context.Context, clientToken, actorID string) (dom.Reservation, error) {
	if clientToken == "" {
		return dom.Reservation{Bypassed: true}, nil
	}

	res := dom.Reservation{
		Key:   Key(clientToken, actorID),
		Owner: uuid.NewString(),
	}

	row, err := s.binder.Bind(s.tx).Reserve(ctx, res.Key, res.Owner, s.now().Add(s.cfg.PendingTTL))
	if err != nil {
		if s.cfg.FailOpen {
			logger.Named("idempotency").Warn().Err(err).Msg("reserve failed, proceeding fail-open")
			return dom.Reservation{Bypassed: true}, nil
		}
		return dom.Reservation{}, perr.Unavailablef("idempotency store: %v", err)
	}

	switch {
	case row.Reserved:
		return res, nil
	case row.State == dom.StateCommitted:
		res.Duplicate = true
		res.Response = row.Response
		return res, nil
	default:
		return dom.Reservation{}, perr.Conflictf("request with this idempotency key is in flight")
	}
}

// Commit implements domain.GuardPort
func (s *Svc) Commit(ctx context.Context, res dom.Reservation, response []byte) error {
	if res.Bypassed || res.Duplicate {
		return nil
	}
	ok, err := s.binder.Bind(s.tx).Commit(ctx, res.Key, res.Owner, response, s.now().Add(s.cfg.CommittedTTL))
	if err != nil {
		if s.cfg.FailOpen {
			logger.Named("idempotency").Warn().Err(err).Msg("commit failed, snapshot lost")
			return nil
		}
		return perr.Unavailablef("idempotency store: %v", err)
	}
	if !ok {
		// reservation expired mid-request; the work is done, only the
		// replay snapshot is lost
		logger.Named("idempotency").Warn().Str("key", res.Key).Msg("reservation lost before commit")
	}
	return nil
}

// Release implements domain.GuardPort
func (s *Svc) Release(ctx context.Context, res dom.Reservation) error {
	if res.Bypassed || res.Duplicate {
		return nil
	}
	if err := s.binder.Bind(s.tx).Release(ctx, res.Key, res.Owner); err != nil {
		// the placeholder will age out via PendingTTL either way
		logger.Named("idempotency").Warn().Err(err).Str("key", res.Key).Msg("release failed")
	}
	return nil
}

// SweepExpired implements domain.SweepPort
func (s *Svc) SweepExpired(ctx context.Context) (int64, error) {
	return s.binder.Bind(s.tx).DeleteExpired(ctx, s.now())
}

// WithNow overrides the clock, for tests
func (s *Svc) WithNow(now func() time.Time) *Svc {
	s.now = now
	return s
}
