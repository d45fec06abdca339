package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"kudos/internal/modkit/repokit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/store"
	abusedom "kudos/internal/services/abuse/domain"
	auditdom "kudos/internal/services/audit/domain"
	idemdom "kudos/internal/services/idempotency/domain"
	quotadom "kudos/internal/services/quota/domain"
	ratedom "kudos/internal/services/ratelimit/domain"
	"kudos/internal/services/recognition/domain"
	"kudos/internal/services/recognition/repo"
)

// a reason over the content minimum that hits no quality keywords
const plainReason = "thanks for jumping on the incident bridge last night"

type fakeTx struct{ txErr error }

func (f *fakeTx) Exec(_ context.Context, _ string, _ ...any) (store.CommandTag, error) {
	var z store.CommandTag
	return z, nil
}

func (f *fakeTx) Query(_ context.Context, _ string, _ ...any) (store.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) store.Row { return nil }

func (f *fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return fn(f)
}

type fakeStore struct {
	roles   map[string]string
	roleErr error

	inserted []domain.Recognition
	flags    []abusedom.Flag
	recs     map[string]domain.Recognition
}

func (f *fakeStore) Insert(_ context.Context, rec domain.Recognition) error {
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeStore) InsertFlags(_ context.Context, xs []abusedom.Flag) error {
	f.flags = append(f.flags, xs...)
	return nil
}

func (f *fakeStore) MemberRole(_ context.Context, _, userID string) (string, bool, error) {
	if f.roleErr != nil {
		return "", false, f.roleErr
	}
	r, ok := f.roles[userID]
	return r, ok, nil
}

func (f *fakeStore) Get(_ context.Context, _, id string) (domain.Recognition, bool, error) {
	r, ok := f.recs[id]
	return r, ok, nil
}

type fakeGuard struct {
	res idemdom.Reservation
	err error

	checks    int
	committed []byte
	released  bool
}

func (f *fakeGuard) CheckAndReserve(_ context.Context, _, _ string) (idemdom.Reservation, error) {
	f.checks++
	return f.res, f.err
}

func (f *fakeGuard) Commit(_ context.Context, _ idemdom.Reservation, response []byte) error {
	f.committed = response
	return nil
}

func (f *fakeGuard) Release(_ context.Context, _ idemdom.Reservation) error {
	f.released = true
	return nil
}

type fakeLimiter struct {
	denySuffix string
	err        error
	keys       []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, l ratedom.Limit) (ratedom.Decision, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return ratedom.Decision{}, f.err
	}
	if f.denySuffix != "" && strings.HasSuffix(key, f.denySuffix) {
		return ratedom.Decision{Allowed: false, ResetAt: time.Now().Add(time.Hour)}, nil
	}
	return ratedom.Decision{Allowed: true, Remaining: l.Max - 1}, nil
}

type fakeQuota struct {
	deny     bool
	consumed int64
}

func (f *fakeQuota) Check(_ context.Context, _, _ string) (quotadom.Decision, error) {
	return quotadom.Decision{Allowed: !f.deny}, nil
}

func (f *fakeQuota) Consume(_ context.Context, _, _ string, n int64) (quotadom.Decision, error) {
	if f.deny {
		return quotadom.Decision{}, perr.QuotaExceededf("quota exhausted")
	}
	f.consumed += n
	return quotadom.Decision{Allowed: true, Remaining: 10}, nil
}

type fakeDetector struct {
	res abusedom.Result
	in  abusedom.DetectInput
	// passthrough returns the base weight untouched
	passthrough bool
}

func (f *fakeDetector) Detect(_ context.Context, in abusedom.DetectInput) (abusedom.Result, error) {
	f.in = in
	if f.passthrough {
		return abusedom.Result{AdjustedWeight: in.BaseWeight}, nil
	}
	return f.res, nil
}

type fakeJobs struct {
	types    []string
	payloads []json.RawMessage
}

func (f *fakeJobs) Enqueue(_ context.Context, jobType string, payload json.RawMessage, _, _ int) (string, error) {
	f.types = append(f.types, jobType)
	f.payloads = append(f.payloads, payload)
	return "job-1", nil
}

type fakeAudit struct{ events []auditdom.Event }

func (f *fakeAudit) Emit(_ context.Context, e auditdom.Event) { f.events = append(f.events, e) }

type fixture struct {
	svc      *Svc
	store    *fakeStore
	guard    *fakeGuard
	limiter  *fakeLimiter
	quota    *fakeQuota
	detector *fakeDetector
	jobs     *fakeJobs
	audit    *fakeAudit
}

func newFixture(txErr error) *fixture {
	f := &fixture{
		store:    &fakeStore{roles: map[string]string{}, recs: map[string]domain.Recognition{}},
		guard:    &fakeGuard{res: idemdom.Reservation{Key: "k1", Owner: "o1"}},
		limiter:  &fakeLimiter{},
		quota:    &fakeQuota{},
		detector: &fakeDetector{passthrough: true},
		jobs:     &fakeJobs{},
		audit:    &fakeAudit{},
	}
	b := repokit.BindFunc[repo.Storage](func(_ repokit.Queryer) repo.Storage { return f.store })
	f.svc = New(&fakeTx{txErr: txErr}, b, Config{}, Deps{
		Guard:    f.guard,
		Limiter:  f.limiter,
		Quotas:   f.quota,
		Detector: f.detector,
		Jobs:     f.jobs,
		Audit:    f.audit,
	})
	return f
}

func create(f *fixture, in domain.CreateInput) (domain.CreateResult, error) {
	return f.svc.Create(context.Background(), "org-1", "giver-1", "tok-1", in)
}

func hasEvent(events []auditdom.Event, code string) bool {
	for _, e := range events {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestCreate_GrantsPersistsAndCommits(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.store.roles["giver-1"] = "lead"

	out, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Duplicate {
		t.Fatalf("fresh grant marked duplicate")
	}
	if out.Recognition.Status != domain.StatusActive || out.Recognition.ID == "" {
		t.Fatalf("recognition = %+v", out.Recognition)
	}
	// lead multiplier, no bonuses
	if out.Recognition.Weight != 1.25 {
		t.Fatalf("weight = %v, want 1.25", out.Recognition.Weight)
	}
	if len(f.store.inserted) != 1 {
		t.Fatalf("inserted %d recognitions", len(f.store.inserted))
	}
	if len(f.jobs.types) != 1 || f.jobs.types[0] != domain.JobTypeNotify {
		t.Fatalf("enqueued = %v", f.jobs.types)
	}
	if f.quota.consumed != 1 {
		t.Fatalf("quota consumed = %d", f.quota.consumed)
	}
	if !hasEvent(f.audit.events, auditdom.CodeRecognitionGranted) {
		t.Fatalf("no granted audit event: %+v", f.audit.events)
	}

	// the committed snapshot replays as the same result
	var snap domain.CreateResult
	if err := json.Unmarshal(f.guard.committed, &snap); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Recognition.ID != out.Recognition.ID {
		t.Fatalf("snapshot id = %s, want %s", snap.Recognition.ID, out.Recognition.ID)
	}
}

func TestCreate_SelfRecognitionRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	_, err := f.svc.Create(context.Background(), "org-1", "giver-1", "tok-1",
		domain.CreateInput{RecipientID: "giver-1", Reason: plainReason})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if f.guard.checks != 0 {
		t.Fatalf("guard consulted before validation")
	}
}

func TestCreate_ReplayReturnsSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	orig := domain.CreateResult{Recognition: domain.Recognition{ID: "rec-1", Weight: 1.4}}
	snap, _ := json.Marshal(orig)
	f.guard.res = idemdom.Reservation{Duplicate: true, Response: snap}

	out, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !out.Duplicate || out.Recognition.ID != "rec-1" {
		t.Fatalf("replay = %+v", out)
	}
	// the pipeline never re-runs on replay
	if len(f.limiter.keys) != 0 || f.quota.consumed != 0 || len(f.store.inserted) != 0 {
		t.Fatalf("pipeline ran on replay")
	}
}

func TestCreate_RateLimitDeniedReleases(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.limiter.denySuffix = ":daily"

	_, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("expected too many requests, got %v", err)
	}
	if !f.guard.released {
		t.Fatalf("placeholder not released on denial")
	}
	if f.quota.consumed != 0 {
		t.Fatalf("quota consumed after rate denial")
	}
	if !hasEvent(f.audit.events, auditdom.CodeRecognitionDenied) {
		t.Fatalf("no denied audit event")
	}
}

func TestCreate_RateLimitErrorFailsClosed(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.limiter.err = perr.Unavailablef("rate limiter store down")

	_, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if !f.guard.released {
		t.Fatalf("placeholder not released")
	}
}

func TestCreate_QuotaDenied(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.quota.deny = true

	_, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if !perr.IsCode(err, perr.ErrorCodeQuotaExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
	if !f.guard.released {
		t.Fatalf("placeholder not released")
	}
	if !hasEvent(f.audit.events, auditdom.CodeQuotaDenied) {
		t.Fatalf("no quota audit event")
	}
}

func TestCreate_AbuseBlocked(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.detector.passthrough = false
	f.detector.res = abusedom.Result{
		Blocked:     true,
		ReasonCodes: []string{"reciprocity"},
		Flags:       []abusedom.Flag{{ID: "f1", Type: abusedom.FlagReciprocity}},
	}

	_, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(f.store.inserted) != 0 || len(f.store.flags) != 0 {
		t.Fatalf("blocked attempt persisted")
	}
	if !f.guard.released {
		t.Fatalf("placeholder not released")
	}
	if !hasEvent(f.audit.events, auditdom.CodeRecognitionBlocked) {
		t.Fatalf("no blocked audit event")
	}
}

func TestCreate_FlagsPersistWithRecognitionID(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.detector.passthrough = false
	f.detector.res = abusedom.Result{
		AdjustedWeight: 0.9,
		ReasonCodes:    []string{"content"},
		Flags:          []abusedom.Flag{{ID: "f1", Type: abusedom.FlagContent, Severity: abusedom.SeverityLow}},
	}

	out, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Recognition.Weight != 0.9 {
		t.Fatalf("weight = %v, want the adjusted 0.9", out.Recognition.Weight)
	}
	if len(f.store.flags) != 1 || f.store.flags[0].RecognitionID != out.Recognition.ID {
		t.Fatalf("flags = %+v", f.store.flags)
	}
	if len(out.ReasonCodes) != 1 || out.ReasonCodes[0] != "content" {
		t.Fatalf("reason codes = %v", out.ReasonCodes)
	}
}

func TestCreate_PersistFailureReleases(t *testing.T) {
	t.Parallel()

	f := newFixture(errors.New("pg down"))

	_, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error, got %v", err)
	}
	if !f.guard.released {
		t.Fatalf("placeholder not released on persist failure")
	}
	if len(f.jobs.types) != 0 {
		t.Fatalf("notify enqueued for failed persist")
	}
	if f.guard.committed != nil {
		t.Fatalf("snapshot committed for failed persist")
	}
}

func TestCreate_RoleLookupDegradesToBasic(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.store.roleErr = errors.New("directory down")

	out, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// basic multiplier only
	if out.Recognition.Weight != 1.0 {
		t.Fatalf("weight = %v, want 1.0", out.Recognition.Weight)
	}
	if f.detector.in.BaseWeight != 1.0 {
		t.Fatalf("detector base weight = %v", f.detector.in.BaseWeight)
	}
}

func TestCreate_ChecksDailyAndWeeklyWindows(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	if _, err := create(f, domain.CreateInput{RecipientID: "peer-1", Reason: plainReason}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.limiter.keys) != 2 {
		t.Fatalf("limiter keys = %v", f.limiter.keys)
	}
	if !strings.HasSuffix(f.limiter.keys[0], ":daily") || !strings.HasSuffix(f.limiter.keys[1], ":weekly") {
		t.Fatalf("limiter keys = %v", f.limiter.keys)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	f.store.recs["rec-1"] = domain.Recognition{ID: "rec-1", OrgID: "org-1"}

	got, err := f.svc.Get(context.Background(), "org-1", "rec-1")
	if err != nil || got.ID != "rec-1" {
		t.Fatalf("get = %+v, %v", got, err)
	}

	if _, err := f.svc.Get(context.Background(), "org-1", "rec-404"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
