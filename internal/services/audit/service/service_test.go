package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kudos/internal/platform/store"
	dom "kudos/internal/services/audit/domain"
	"kudos/internal/services/audit/repo"
)

type fakeCH struct {
	table string
	rows  [][]any
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	if f.err != nil {
		return f.err
	}
	f.table = table
	f.rows, _ = data.([][]any)
	return nil
}

func (f *fakeCH) Query(_ context.Context, _ string, _ ...any) (store.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCH) Close() error { return nil }

func TestHID(t *testing.T) {
	t.Parallel()

	if HID("") != "" {
		t.Fatal("empty id must stay empty")
	}
	a, b := HID("user-1"), HID("user-2")
	if a == b {
		t.Fatal("distinct ids must hash distinctly")
	}
	if a != HID("user-1") {
		t.Fatal("hashing must be deterministic")
	}
	if len(a) != 64 || strings.ToLower(a) != a {
		t.Fatalf("expected lowercase hex sha256, got %q", a)
	}
}

func TestEmit_WritesRow(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{}
	s := New(repo.NewCH(ch))

	s.Emit(context.Background(), dom.Event{
		Code:     dom.CodeRecognitionGranted,
		OrgID:    "org-1",
		ActorHID: HID("u1"),
		Meta:     map[string]string{"weight": "1.55"},
	})

	if ch.table != "audit_events" {
		t.Fatalf("table = %q", ch.table)
	}
	if len(ch.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(ch.rows))
	}
	row := ch.rows[0]
	if row[1] != dom.CodeRecognitionGranted || row[2] != "org-1" {
		t.Fatalf("row = %+v", row)
	}
	if !strings.Contains(row[5].(string), `"weight":"1.55"`) {
		t.Fatalf("meta column = %v", row[5])
	}
}

func TestEmit_NeverFailsCaller(t *testing.T) {
	t.Parallel()

	// dead sink: Emit must simply return
	s := New(repo.NewCH(&fakeCH{err: errors.New("ch down")}))
	s.Emit(context.Background(), dom.Event{Code: dom.CodeQuotaDenied})

	// disabled sink: same
	s = New(repo.NewCH(nil))
	s.Emit(context.Background(), dom.Event{Code: dom.CodeQuotaDenied})
}

func TestRateLimitBreach_Payload(t *testing.T) {
	t.Parallel()

	ch := &fakeCH{}
	s := New(repo.NewCH(ch))

	s.RateLimitBreach(context.Background(), "giver:u1:daily", 6, 5)

	if len(ch.rows) != 1 {
		t.Fatalf("rows = %d", len(ch.rows))
	}
	row := ch.rows[0]
	if row[1] != dom.CodeRateLimitBreach {
		t.Fatalf("code = %v", row[1])
	}
	meta := row[5].(string)
	if !strings.Contains(meta, `"count":"6"`) || !strings.Contains(meta, `"limit":"5"`) {
		t.Fatalf("meta = %s", meta)
	}
}
