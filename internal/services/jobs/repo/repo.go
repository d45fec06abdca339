// Package repo provides the job queue repository implementation.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kudos/internal/modkit/repokit"
	"kudos/internal/services/jobs/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the job queue repository
type Storage interface {
	Insert(ctx context.Context, j domain.Job) error
	// Claim leases up to limit due jobs for owner. SKIP LOCKED keeps
	// competing workers from blocking or double-claiming.
	Claim(ctx context.Context, owner string, limit int, lease time.Duration) ([]domain.Job, error)
	// Complete finishes a processing job; false when the lease was lost
	Complete(ctx context.Context, id, owner string) (bool, error)
	// Fail charges one attempt: retrying with backoff while retries
	// remain, dead_letter once exhausted. Returns the resulting status.
	Fail(ctx context.Context, id, owner, lastError string, backoff time.Duration) (domain.Status, bool, error)
	// Bury sends a job straight to dead_letter, skipping the ladder
	Bury(ctx context.Context, id, owner, lastError string) (bool, error)
	ReclaimExpired(ctx context.Context, now time.Time) (int64, error)
	Get(ctx context.Context, id string) (domain.Job, bool, error)
	ListDeadLetter(ctx context.Context, limit int) ([]domain.Job, error)
}

func toInterval(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d/time.Second))
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, j domain.Job) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO jobs
			(id, job_type, payload, priority, status, retries, max_retries,
			 enqueued_at, next_attempt_at)
		VALUES ($1, $2, $3, $4, 'pending', 0, $5, now(), now())
	`, j.ID, j.Type, []byte(j.Payload), j.Priority, j.MaxRetries)
	return err
}

// Claim implements Storage
func (s *pg) Claim(ctx context.Context, owner string, limit int, lease time.Duration) ([]domain.Job, error) {
	rows, err := s.q.Query(ctx, `
		WITH picked AS (
			SELECT id FROM jobs
			 WHERE status IN ('pending', 'retrying')
			   AND next_attempt_at <= now()
			   AND (lease_expires_at IS NULL OR lease_expires_at <= now())
			 ORDER BY priority DESC, enqueued_at ASC
			 LIMIT $2
			 FOR UPDATE SKIP LOCKED
		)
		UPDATE jobs j
		   SET status = 'processing',
		       lease_owner = $1,
		       lease_expires_at = now() + ($3)::interval,
		       started_at = now()
		  FROM picked
		 WHERE j.id = picked.id
		RETURNING j.id, j.job_type, j.payload, j.priority, j.retries, j.max_retries, j.enqueued_at
	`, owner, limit, toInterval(lease))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j := domain.Job{Status: domain.StatusProcessing, LeaseOwner: owner}
		var payload []byte
		if err := rows.Scan(&j.ID, &j.Type, &payload, &j.Priority, &j.Retries, &j.MaxRetries, &j.EnqueuedAt); err != nil {
			return nil, err
		}
		j.Payload = json.RawMessage(payload)
		out = append(out, j)
	}
	return out, rows.Err()
}

// Complete implements Storage
func (s *pg) Complete(ctx context.Context, id, owner string) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE jobs
		   SET status = 'completed', completed_at = now(),
		       lease_owner = NULL, lease_expires_at = NULL
		 WHERE id = $1 AND lease_owner = $2 AND status = 'processing'
	`, id, owner)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Fail implements Storage. One statement decides retry vs dead-letter so
// retries can never pass max_retries.
func (s *pg) Fail(ctx context.Context, id, owner, lastError string, backoff time.Duration) (domain.Status, bool, error) {
	rows, err := s.q.Query(ctx, `
		UPDATE jobs
		   SET status = CASE WHEN retries < max_retries THEN 'retrying' ELSE 'dead_letter' END,
		       retries = CASE WHEN retries < max_retries THEN retries + 1 ELSE retries END,
		       last_error = $3,
		       next_attempt_at = CASE WHEN retries < max_retries THEN now() + ($4)::interval ELSE next_attempt_at END,
		       completed_at = CASE WHEN retries < max_retries THEN NULL ELSE now() END,
		       lease_owner = NULL, lease_expires_at = NULL
		 WHERE id = $1 AND lease_owner = $2 AND status = 'processing'
		RETURNING status
	`, id, owner, lastError, toInterval(backoff))
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var status string
	if err := rows.Scan(&status); err != nil {
		return "", false, err
	}
	return domain.Status(status), true, rows.Err()
}

// Bury implements Storage
func (s *pg) Bury(ctx context.Context, id, owner, lastError string) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE jobs
		   SET status = 'dead_letter', last_error = $3, completed_at = now(),
		       lease_owner = NULL, lease_expires_at = NULL
		 WHERE id = $1 AND lease_owner = $2 AND status = 'processing'
	`, id, owner, lastError)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReclaimExpired implements Storage. Crash recovery, not a failed attempt:
// retries stay untouched.
func (s *pg) ReclaimExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE jobs
		   SET status = 'retrying', lease_owner = NULL, lease_expires_at = NULL,
		       next_attempt_at = $1
		 WHERE status = 'processing' AND lease_expires_at <= $1
	`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id string) (domain.Job, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, job_type, payload, priority, status, retries, max_retries,
		       COALESCE(last_error, ''), enqueued_at, next_attempt_at,
		       started_at, completed_at, COALESCE(lease_owner, ''), lease_expires_at
		  FROM jobs
		 WHERE id = $1
	`, id)
	if err != nil {
		return domain.Job{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Job{}, false, rows.Err()
	}
	j, err := scanJob(rows)
	if err != nil {
		return domain.Job{}, false, err
	}
	return j, true, rows.Err()
}

// ListDeadLetter implements Storage
func (s *pg) ListDeadLetter(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, job_type, payload, priority, status, retries, max_retries,
		       COALESCE(last_error, ''), enqueued_at, next_attempt_at,
		       started_at, completed_at, COALESCE(lease_owner, ''), lease_expires_at
		  FROM jobs
		 WHERE status = 'dead_letter'
		 ORDER BY completed_at DESC
		 LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func scanJob(rows repokit.Rows) (domain.Job, error) {
	var j domain.Job
	var payload []byte
	var status string
	if err := rows.Scan(
		&j.ID, &j.Type, &payload, &j.Priority, &status, &j.Retries, &j.MaxRetries,
		&j.LastError, &j.EnqueuedAt, &j.NextAttemptAt,
		&j.StartedAt, &j.CompletedAt, &j.LeaseOwner, &j.LeaseExpiresAt,
	); err != nil {
		return domain.Job{}, err
	}
	j.Payload = json.RawMessage(payload)
	j.Status = domain.Status(status)
	return j, nil
}
