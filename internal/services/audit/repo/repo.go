// Package repo provides the ClickHouse audit event writer.
package repo

import (
	"context"
	"encoding/json"

	"kudos/internal/platform/store"
	"kudos/internal/services/audit/domain"
)

// CH writes audit events into the columnar store
type CH struct {
	db store.Clickhouse
}

// NewCH constructs the writer; db may be nil when the sink is disabled
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

// Enabled reports whether a backing store is configured
func (c *CH) Enabled() bool { return c != nil && c.db != nil }

// WriteBatch appends events; the table is insert-only
func (c *CH) WriteBatch(ctx context.Context, xs []domain.Event) error {
	if !c.Enabled() || len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, e := range xs {
		meta, err := json.Marshal(e.Meta)
		if err != nil {
			meta = []byte("{}")
		}
		rows = append(rows, []any{
			e.At, e.Code, e.OrgID, e.ActorHID, e.TargetHID, string(meta),
		})
	}
	return c.db.Insert(ctx, "audit_events", rows)
}
