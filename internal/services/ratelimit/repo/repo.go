// Package repo provides the rate counter repository implementation.
package repo

import (
	"context"
	"time"

	"kudos/internal/modkit/repokit"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the rate counter repository
type Storage interface {
	// Bump increments the counter for (subjectKey, windowStart) and returns
	// the post-increment count. One statement; concurrent bumps serialize
	// on the row.
	Bump(ctx context.Context, subjectKey string, windowStart, resetAt time.Time) (int64, error)
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Bump implements Storage
func (s *pg) Bump(ctx context.Context, subjectKey string, windowStart, resetAt time.Time) (int64, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO rate_counters (subject_key, window_start, reset_at, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (subject_key, window_start)
		DO UPDATE SET count = rate_counters.count + 1
		RETURNING count
	`, subjectKey, windowStart.UTC(), resetAt.UTC())

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteEndedBefore implements Storage
func (s *pg) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM rate_counters WHERE reset_at <= $1
	`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
