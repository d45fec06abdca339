// Package repo provides persistence for recognitions
package repo

import (
	"context"
	"fmt"
	"strings"

	"kudos/internal/modkit/repokit"
	abusedom "kudos/internal/services/abuse/domain"
	"kudos/internal/services/recognition/domain"
)

// Storage is the recognition persistence surface
type Storage interface {
	// Insert persists one granted recognition
	Insert(ctx context.Context, rec domain.Recognition) error
	// InsertFlags persists the advisory flags raised for rec alongside it;
	// callers run both inside one transaction
	InsertFlags(ctx context.Context, xs []abusedom.Flag) error
	// MemberRole looks up the giver's directory role; ok is false when the
	// member is unknown to the org
	MemberRole(ctx context.Context, orgID, userID string) (string, bool, error)
	// Get fetches one recognition by id within an org
	Get(ctx context.Context, orgID, id string) (domain.Recognition, bool, error)
}

type pg struct{ q repokit.Queryer }

type binder struct{}

// NewPG returns a binder that yields pg-backed Storage
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, rec domain.Recognition) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO recognitions
			(id, org_id, giver_id, recipient_id, reason, tags,
			 evidence_urls, giver_role, weight, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		rec.ID, rec.OrgID, rec.GiverID, rec.RecipientID, rec.Reason, rec.Tags,
		rec.EvidenceURLs, rec.GiverRole, rec.Weight, string(rec.Status), rec.CreatedAt.UTC(),
	)
	return err
}

// InsertFlags implements Storage
func (s *pg) InsertFlags(ctx context.Context, xs []abusedom.Flag) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO abuse_flags
		(id, org_id, recognition_id, giver_id, recipient_id,
		flag_type, severity, detection_method, detail, status,
		original_weight, adjusted_weight, created_at) VALUES `)

	const cols = 13
	args := make([]any, 0, len(xs)*cols)
	for i, f := range xs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * cols
		sb.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13))
		args = append(args,
			f.ID, f.OrgID, f.RecognitionID, f.GiverID, f.RecipientID,
			string(f.Type), string(f.Severity), string(f.Method), f.Detail, string(f.Status),
			f.OriginalWeight, f.AdjustedWeight, f.CreatedAt.UTC(),
		)
	}

	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// MemberRole implements Storage
func (s *pg) MemberRole(ctx context.Context, orgID, userID string) (string, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT role FROM org_members WHERE org_id = $1 AND user_id = $2
	`, orgID, userID)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var role string
	if err := rows.Scan(&role); err != nil {
		return "", false, err
	}
	return role, true, rows.Err()
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, orgID, id string) (domain.Recognition, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, org_id, giver_id, recipient_id, reason, tags,
		       evidence_urls, giver_role, weight, status, created_at
		  FROM recognitions
		 WHERE org_id = $1 AND id = $2
	`, orgID, id)
	if err != nil {
		return domain.Recognition{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Recognition{}, false, rows.Err()
	}
	var rec domain.Recognition
	var status string
	if err := rows.Scan(
		&rec.ID, &rec.OrgID, &rec.GiverID, &rec.RecipientID, &rec.Reason, &rec.Tags,
		&rec.EvidenceURLs, &rec.GiverRole, &rec.Weight, &status, &rec.CreatedAt,
	); err != nil {
		return domain.Recognition{}, false, err
	}
	rec.Status = domain.Status(status)
	return rec, true, rows.Err()
}
