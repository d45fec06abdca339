// Package repo provides the quota repository implementation.
package repo

import (
	"context"
	"fmt"
	"time"

	"kudos/internal/modkit/repokit"
	"kudos/internal/services/quota/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the quota repository
type Storage interface {
	// Ensure provisions the (org, actionType) row if absent
	Ensure(ctx context.Context, q domain.Quota) error
	// Get returns the quota with lazily-reset effective values.
	// Read only; persistence of the reset happens on Consume or ResetDue.
	Get(ctx context.Context, orgID, actionType string) (domain.Quota, bool, error)
	// Consume takes n units in a single guarded statement. ok is false
	// when the row is missing or the budget cannot cover n.
	Consume(ctx context.Context, orgID, actionType string, n int64) (domain.Quota, bool, error)

	InsertIncrease(ctx context.Context, r domain.IncreaseRequest) error
	// ReviewIncrease flips a pending request; ok is false when the request
	// is missing or already reviewed
	ReviewIncrease(ctx context.Context, id string, status domain.IncreaseStatus, reviewer string) (domain.IncreaseRequest, bool, error)
	// ApplyIncrease marks an approved unapplied request applied and raises
	// the quota ceiling, both in one statement
	ApplyIncrease(ctx context.Context, id string) (domain.Quota, bool, error)
	GetIncrease(ctx context.Context, id string) (domain.IncreaseRequest, bool, error)

	ResetDue(ctx context.Context, now time.Time) (int64, error)
}

func toInterval(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d/time.Second))
}

// Ensure implements Storage
func (s *pg) Ensure(ctx context.Context, q domain.Quota) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO quotas (org_id, action_type, ceiling, used, period, reset_at)
		VALUES ($1, $2, $3, 0, ($4)::interval, now() + ($4)::interval)
		ON CONFLICT (org_id, action_type) DO NOTHING
	`, q.OrgID, q.ActionType, q.Ceiling, toInterval(q.Period))
	return err
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, orgID, actionType string) (domain.Quota, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT ceiling,
		       CASE WHEN reset_at <= now() THEN 0 ELSE used END,
		       CASE WHEN reset_at <= now() THEN now() + period ELSE reset_at END
		  FROM quotas
		 WHERE org_id = $1 AND action_type = $2
	`, orgID, actionType)
	if err != nil {
		return domain.Quota{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Quota{}, false, rows.Err()
	}
	q := domain.Quota{OrgID: orgID, ActionType: actionType}
	if err := rows.Scan(&q.Ceiling, &q.Used, &q.ResetAt); err != nil {
		return domain.Quota{}, false, err
	}
	return q, true, rows.Err()
}

// Consume implements Storage. The reset arm and the guard fold into one
// UPDATE so two concurrent consumers can never overshoot the ceiling.
func (s *pg) Consume(ctx context.Context, orgID, actionType string, n int64) (domain.Quota, bool, error) {
	rows, err := s.q.Query(ctx, `
		UPDATE quotas
		   SET used     = (CASE WHEN reset_at <= now() THEN 0 ELSE used END) + $3,
		       reset_at = CASE WHEN reset_at <= now() THEN now() + period ELSE reset_at END
		 WHERE org_id = $1 AND action_type = $2
		   AND (CASE WHEN reset_at <= now() THEN 0 ELSE used END) + $3 <= ceiling
		RETURNING ceiling, used, reset_at
	`, orgID, actionType, n)
	if err != nil {
		return domain.Quota{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Quota{}, false, rows.Err()
	}
	q := domain.Quota{OrgID: orgID, ActionType: actionType}
	if err := rows.Scan(&q.Ceiling, &q.Used, &q.ResetAt); err != nil {
		return domain.Quota{}, false, err
	}
	return q, true, rows.Err()
}

// InsertIncrease implements Storage
func (s *pg) InsertIncrease(ctx context.Context, r domain.IncreaseRequest) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO quota_increase_requests
			(id, org_id, action_type, requested_by, requested_max, justification, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', now())
	`, r.ID, r.OrgID, r.ActionType, r.RequestedBy, r.RequestedMax, r.Justification)
	return err
}

// ReviewIncrease implements Storage
func (s *pg) ReviewIncrease(ctx context.Context, id string, status domain.IncreaseStatus, reviewer string) (domain.IncreaseRequest, bool, error) {
	rows, err := s.q.Query(ctx, `
		UPDATE quota_increase_requests
		   SET status = $2, reviewer = $3, reviewed_at = now()
		 WHERE id = $1 AND status = 'pending'
		RETURNING id, org_id, action_type, requested_by, requested_max,
		          justification, status, reviewer, requested_at, reviewed_at, applied_at
	`, id, string(status), reviewer)
	if err != nil {
		return domain.IncreaseRequest{}, false, err
	}
	defer rows.Close()
	return scanIncrease(rows)
}

// ApplyIncrease implements Storage
func (s *pg) ApplyIncrease(ctx context.Context, id string) (domain.Quota, bool, error) {
	rows, err := s.q.Query(ctx, `
		WITH req AS (
			UPDATE quota_increase_requests
			   SET applied_at = now()
			 WHERE id = $1 AND status = 'approved' AND applied_at IS NULL
			RETURNING org_id, action_type, requested_max
		)
		UPDATE quotas q
		   SET ceiling = req.requested_max
		  FROM req
		 WHERE q.org_id = req.org_id AND q.action_type = req.action_type
		RETURNING q.org_id, q.action_type, q.ceiling, q.used, q.reset_at
	`, id)
	if err != nil {
		return domain.Quota{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Quota{}, false, rows.Err()
	}
	var q domain.Quota
	if err := rows.Scan(&q.OrgID, &q.ActionType, &q.Ceiling, &q.Used, &q.ResetAt); err != nil {
		return domain.Quota{}, false, err
	}
	return q, true, rows.Err()
}

// GetIncrease implements Storage
func (s *pg) GetIncrease(ctx context.Context, id string) (domain.IncreaseRequest, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, org_id, action_type, requested_by, requested_max,
		       justification, status, reviewer, requested_at, reviewed_at, applied_at
		  FROM quota_increase_requests
		 WHERE id = $1
	`, id)
	if err != nil {
		return domain.IncreaseRequest{}, false, err
	}
	defer rows.Close()
	return scanIncrease(rows)
}

// ResetDue implements Storage
func (s *pg) ResetDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE quotas
		   SET used = 0, reset_at = $1 + period
		 WHERE reset_at <= $1
	`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanIncrease(rows repokit.Rows) (domain.IncreaseRequest, bool, error) {
	if !rows.Next() {
		return domain.IncreaseRequest{}, false, rows.Err()
	}
	var r domain.IncreaseRequest
	var status string
	var reviewer *string
	if err := rows.Scan(
		&r.ID, &r.OrgID, &r.ActionType, &r.RequestedBy, &r.RequestedMax,
		&r.Justification, &status, &reviewer, &r.RequestedAt, &r.ReviewedAt, &r.AppliedAt,
	); err != nil {
		return domain.IncreaseRequest{}, false, err
	}
	r.Status = domain.IncreaseStatus(status)
	if reviewer != nil {
		r.Reviewer = *reviewer
	}
	return r, true, rows.Err()
}
