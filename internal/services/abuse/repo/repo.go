// Package repo provides the abuse flag repository implementation.
package repo

import (
	"context"
	"time"

	"kudos/internal/modkit/repokit"
	"kudos/internal/services/abuse/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the abuse repository
type Storage interface {
	// CountPair counts giver→recipient recognitions since the cutoff
	CountPair(ctx context.Context, orgID, giverID, recipientID string, since time.Time) (int64, error)
	// CountByGiver counts all of the giver's recognitions since the cutoff
	CountByGiver(ctx context.Context, orgID, giverID string, since time.Time) (int64, error)
	// RecognitionRef reads the participants and current weight of a
	// recognition; ok is false when the id is unknown
	RecognitionRef(ctx context.Context, recognitionID string) (domain.RecognitionRef, bool, error)
	// InsertFlag persists one reviewer- or report-raised flag
	InsertFlag(ctx context.Context, f domain.Flag) error
	// Transition flips a flag between lifecycle states; ok is false when
	// the flag is missing or not in the expected state
	Transition(ctx context.Context, flagID string, from, to domain.FlagStatus, reviewer string) (domain.Flag, bool, error)
	ListByStatus(ctx context.Context, status domain.FlagStatus, limit int) ([]domain.Flag, error)
	// RewriteWeight retroactively adjusts a recognition's persisted weight
	RewriteWeight(ctx context.Context, recognitionID string, weight float64) (bool, error)
}

// CountPair implements Storage
func (s *pg) CountPair(ctx context.Context, orgID, giverID, recipientID string, since time.Time) (int64, error) {
	row := s.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM recognitions
		 WHERE org_id = $1 AND giver_id = $2 AND recipient_id = $3
		   AND created_at >= $4
	`, orgID, giverID, recipientID, since.UTC())
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByGiver implements Storage
func (s *pg) CountByGiver(ctx context.Context, orgID, giverID string, since time.Time) (int64, error) {
	row := s.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM recognitions
		 WHERE org_id = $1 AND giver_id = $2 AND created_at >= $3
	`, orgID, giverID, since.UTC())
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecognitionRef implements Storage
func (s *pg) RecognitionRef(ctx context.Context, recognitionID string) (domain.RecognitionRef, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT org_id, giver_id, recipient_id, weight
		  FROM recognitions
		 WHERE id = $1
	`, recognitionID)
	if err != nil {
		return domain.RecognitionRef{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.RecognitionRef{}, false, rows.Err()
	}
	var ref domain.RecognitionRef
	if err := rows.Scan(&ref.OrgID, &ref.GiverID, &ref.RecipientID, &ref.Weight); err != nil {
		return domain.RecognitionRef{}, false, err
	}
	return ref, true, rows.Err()
}

// InsertFlag implements Storage
func (s *pg) InsertFlag(ctx context.Context, f domain.Flag) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO abuse_flags
			(id, org_id, recognition_id, giver_id, recipient_id,
			 flag_type, severity, detection_method, detail, status,
			 original_weight, adjusted_weight, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		f.ID, f.OrgID, f.RecognitionID, f.GiverID, f.RecipientID,
		string(f.Type), string(f.Severity), string(f.Method), f.Detail, string(f.Status),
		f.OriginalWeight, f.AdjustedWeight, f.CreatedAt.UTC(),
	)
	return err
}

// Transition implements Storage
func (s *pg) Transition(ctx context.Context, flagID string, from, to domain.FlagStatus, reviewer string) (domain.Flag, bool, error) {
	rows, err := s.q.Query(ctx, `
		UPDATE abuse_flags
		   SET status = $3, reviewed_by = $4, reviewed_at = now()
		 WHERE id = $1 AND status = $2
		RETURNING id, org_id, recognition_id, giver_id, recipient_id,
		          flag_type, severity, detection_method, detail, status,
		          original_weight, adjusted_weight, created_at,
		          COALESCE(reviewed_by, ''), reviewed_at
	`, flagID, string(from), string(to), reviewer)
	if err != nil {
		return domain.Flag{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Flag{}, false, rows.Err()
	}
	f, err := scanFlag(rows)
	if err != nil {
		return domain.Flag{}, false, err
	}
	return f, true, rows.Err()
}

// ListByStatus implements Storage
func (s *pg) ListByStatus(ctx context.Context, status domain.FlagStatus, limit int) ([]domain.Flag, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, org_id, recognition_id, giver_id, recipient_id,
		       flag_type, severity, detection_method, detail, status,
		       original_weight, adjusted_weight, created_at,
		       COALESCE(reviewed_by, ''), reviewed_at
		  FROM abuse_flags
		 WHERE status = $1
		 ORDER BY created_at ASC
		 LIMIT $2
	`, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Flag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RewriteWeight implements Storage
func (s *pg) RewriteWeight(ctx context.Context, recognitionID string, weight float64) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE recognitions SET weight = $2, status = 'adjusted' WHERE id = $1
	`, recognitionID, weight)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanFlag(rows repokit.Rows) (domain.Flag, error) {
	var f domain.Flag
	var ftype, sev, method, status string
	if err := rows.Scan(
		&f.ID, &f.OrgID, &f.RecognitionID, &f.GiverID, &f.RecipientID,
		&ftype, &sev, &method, &f.Detail, &status,
		&f.OriginalWeight, &f.AdjustedWeight, &f.CreatedAt,
		&f.ReviewedBy, &f.ReviewedAt,
	); err != nil {
		return domain.Flag{}, err
	}
	f.Type = domain.FlagType(ftype)
	f.Severity = domain.Severity(sev)
	f.Method = domain.DetectionMethod(method)
	f.Status = domain.FlagStatus(status)
	return f, nil
}
