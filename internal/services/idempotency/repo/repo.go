// Package repo provides the idempotency repository implementation.
package repo

import (
	"context"
	"time"

	"kudos/internal/modkit/repokit"
	"kudos/internal/services/idempotency/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// ReserveRow is the repo-level outcome of a reserve attempt
type ReserveRow struct {
	// Reserved is true when the placeholder now belongs to the caller
	Reserved bool
	State    domain.State
	Response []byte
}

// Storage defines the idempotency repository
type Storage interface {
	// Reserve upserts the placeholder in a single statement and reports
	// who holds the key afterwards
	Reserve(ctx context.Context, keyHash, owner string, until time.Time) (ReserveRow, error)
	Commit(ctx context.Context, keyHash, owner string, response []byte, until time.Time) (bool, error)
	Release(ctx context.Context, keyHash, owner string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Reserve implements Storage. Expired records (placeholder or committed)
// are reclaimed by the same statement; the upsert is the only write so two
// racing callers serialize on the key's row.
func (s *pg) Reserve(ctx context.Context, keyHash, owner string, until time.Time) (ReserveRow, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO idempotency_keys (key_hash, owner, state, response, expires_at, created_at)
		VALUES ($1, $2, 'pending', NULL, $3, now())
		ON CONFLICT (key_hash) DO UPDATE SET
			owner      = CASE WHEN idempotency_keys.expires_at <= now() THEN EXCLUDED.owner ELSE idempotency_keys.owner END,
			state      = CASE WHEN idempotency_keys.expires_at <= now() THEN 'pending' ELSE idempotency_keys.state END,
			response   = CASE WHEN idempotency_keys.expires_at <= now() THEN NULL ELSE idempotency_keys.response END,
			expires_at = CASE WHEN idempotency_keys.expires_at <= now() THEN EXCLUDED.expires_at ELSE idempotency_keys.expires_at END
		RETURNING (owner = $2), state, response
	`, keyHash, owner, until.UTC())

	var out ReserveRow
	var state string
	if err := row.Scan(&out.Reserved, &state, &out.Response); err != nil {
		return ReserveRow{}, err
	}
	out.State = domain.State(state)
	return out, nil
}

// Commit implements Storage; false means the reservation was lost
func (s *pg) Commit(ctx context.Context, keyHash, owner string, response []byte, until time.Time) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE idempotency_keys
		   SET state = 'committed', response = $3, expires_at = $4
		 WHERE key_hash = $1 AND owner = $2 AND state = 'pending'
	`, keyHash, owner, response, until.UTC())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Release implements Storage; only uncommitted placeholders are dropped
func (s *pg) Release(ctx context.Context, keyHash, owner string) error {
	_, err := s.q.Exec(ctx, `
		DELETE FROM idempotency_keys
		 WHERE key_hash = $1 AND owner = $2 AND state = 'pending'
	`, keyHash, owner)
	return err
}

// DeleteExpired implements Storage
func (s *pg) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM idempotency_keys WHERE expires_at <= $1
	`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
