// Package service orchestrates the recognition write path: idempotency,
// rate limits, quota, scoring and abuse checks gate every grant before it
// touches storage.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"kudos/internal/core/scoring"
	"kudos/internal/modkit/repokit"
	"kudos/internal/platform/circuit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	"kudos/internal/platform/store"
	abusedom "kudos/internal/services/abuse/domain"
	auditdom "kudos/internal/services/audit/domain"
	auditsvc "kudos/internal/services/audit/service"
	idemdom "kudos/internal/services/idempotency/domain"
	jobsdom "kudos/internal/services/jobs/domain"
	quotadom "kudos/internal/services/quota/domain"
	ratedom "kudos/internal/services/ratelimit/domain"
	"kudos/internal/services/recognition/domain"
	"kudos/internal/services/recognition/repo"
)

// Config for the recognition write path
type Config struct {
	// GiverDailyMax / GiverWeeklyMax are the per-giver fixed-window budgets
	GiverDailyMax  int64
	GiverWeeklyMax int64
	// NotifyPriority / NotifyMaxRetries shape the fan-out job
	NotifyPriority   int
	NotifyMaxRetries int
}

func (c Config) withDefaults() Config {
	if c.GiverDailyMax <= 0 {
		c.GiverDailyMax = 20
	}
	if c.GiverWeeklyMax <= 0 {
		c.GiverWeeklyMax = 60
	}
	if c.NotifyPriority == 0 {
		c.NotifyPriority = 5
	}
	if c.NotifyMaxRetries == 0 {
		c.NotifyMaxRetries = 5
	}
	return c
}

// Deps are the admission ports the pipeline runs through, in order
type Deps struct {
	Guard    idemdom.GuardPort
	Limiter  ratedom.DeciderPort
	Quotas   quotadom.ManagerPort
	Detector abusedom.DetectorPort
	Jobs     jobsdom.EnqueuePort
	Audit    auditdom.EmitterPort
	Scorer   *scoring.Scorer
	Breakers *circuit.Registry
	Metrics  *metrics.Metrics
}

// Svc implements domain.WriterPort and domain.ReaderPort
type Svc struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
	deps   Deps
	now    func() time.Time
}

// New constructs the recognition service
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config, deps Deps) *Svc {
	if deps.Scorer == nil {
		deps.Scorer = scoring.New(scoring.DefaultConfig())
	}
	return &Svc{tx: tx, binder: b, cfg: cfg.withDefaults(), deps: deps, now: time.Now}
}

// Create implements domain.WriterPort
func (s *Svc) Create(ctx context.Context, orgID, giverID, clientToken string, in domain.CreateInput) (domain.CreateResult, error) {
	if in.RecipientID == giverID {
		return domain.CreateResult{}, perr.InvalidArgf("self-recognition is not allowed")
	}

	// the guard runs first so a replay never re-enters the pipeline
	res, err := s.deps.Guard.CheckAndReserve(ctx, clientToken, giverID)
	if err != nil {
		return domain.CreateResult{}, err
	}
	if res.Duplicate {
		var out domain.CreateResult
		if err := json.Unmarshal(res.Response, &out); err != nil {
			return domain.CreateResult{}, perr.Internalf("decode replay snapshot: %v", err)
		}
		out.Duplicate = true
		return out, nil
	}

	out, err := s.admit(ctx, orgID, giverID, in)
	if err != nil {
		// free the placeholder so the caller can retry with the same token
		_ = s.deps.Guard.Release(ctx, res)
		return domain.CreateResult{}, err
	}

	snap, merr := json.Marshal(out)
	if merr != nil {
		return domain.CreateResult{}, perr.Internalf("encode replay snapshot: %v", merr)
	}
	if err := s.deps.Guard.Commit(ctx, res, snap); err != nil {
		// the grant is durable; the stale placeholder expires on its own
		logger.Named("recognition").Warn().Err(err).Msg("idempotency commit failed")
	}
	return out, nil
}

// admit runs the gates in order and persists on success
func (s *Svc) admit(ctx context.Context, orgID, giverID string, in domain.CreateInput) (domain.CreateResult, error) {
	now := s.now().UTC()

	for _, win := range []struct {
		name  string
		limit ratedom.Limit
	}{
		{"daily", ratedom.Limit{Max: s.cfg.GiverDailyMax, Window: 24 * time.Hour}},
		{"weekly", ratedom.Limit{Max: s.cfg.GiverWeeklyMax, Window: 7 * 24 * time.Hour}},
	} {
		d, err := s.deps.Limiter.Allow(ctx, "recognition:give:"+giverID+":"+win.name, win.limit)
		if err != nil {
			return domain.CreateResult{}, err
		}
		if !d.Allowed {
			s.deny(ctx, orgID, giverID, in.RecipientID, auditdom.CodeRecognitionDenied, "rate_limit_"+win.name)
			return domain.CreateResult{}, perr.TooManyRequestsf(
				"%s recognition budget exhausted, resets at %s", win.name, d.ResetAt.Format(time.RFC3339))
		}
	}

	if _, err := s.deps.Quotas.Consume(ctx, orgID, "recognition", 1); err != nil {
		if perr.IsCode(err, perr.ErrorCodeQuotaExceeded) {
			s.deny(ctx, orgID, giverID, in.RecipientID, auditdom.CodeQuotaDenied, "quota")
		}
		return domain.CreateResult{}, err
	}

	role := s.giverRole(ctx, orgID, giverID)
	weight := s.deps.Scorer.Weight(scoring.WeightInput{
		Reason:        in.Reason,
		Tags:          in.Tags,
		EvidenceCount: len(in.EvidenceURLs),
		GiverRole:     role,
	})

	verdict, err := s.deps.Detector.Detect(ctx, abusedom.DetectInput{
		OrgID:       orgID,
		GiverID:     giverID,
		RecipientID: in.RecipientID,
		Reason:      in.Reason,
		BaseWeight:  weight,
	})
	if err != nil {
		return domain.CreateResult{}, err
	}
	if verdict.Blocked {
		s.deny(ctx, orgID, giverID, in.RecipientID, auditdom.CodeRecognitionBlocked,
			strings.Join(verdict.ReasonCodes, ","))
		return domain.CreateResult{}, perr.Forbiddenf(
			"recognition blocked: %s", strings.Join(verdict.ReasonCodes, ", "))
	}

	rec := domain.Recognition{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		GiverID:      giverID,
		RecipientID:  in.RecipientID,
		Reason:       in.Reason,
		Tags:         in.Tags,
		EvidenceURLs: in.EvidenceURLs,
		GiverRole:    string(role),
		Weight:       verdict.AdjustedWeight,
		Status:       domain.StatusActive,
		CreatedAt:    now,
	}
	flags := verdict.Flags
	for i := range flags {
		flags[i].RecognitionID = rec.ID
	}

	err = store.RunInOrg(ctx, s.tx, rec.OrgID, func(ctx context.Context, q repokit.Queryer) error {
		st := s.binder.Bind(q)
		if err := st.Insert(ctx, rec); err != nil {
			return err
		}
		return st.InsertFlags(ctx, flags)
	})
	if err != nil {
		return domain.CreateResult{}, perr.DBf("persist recognition: %v", err)
	}

	s.notify(ctx, rec)

	if s.deps.Metrics != nil && s.deps.Metrics.RecognitionWeight != nil {
		s.deps.Metrics.RecognitionWeight.Observe(rec.Weight)
	}
	s.deps.Metrics.Admission("recognition", "granted")
	if s.deps.Audit != nil {
		s.deps.Audit.Emit(ctx, auditdom.Event{
			Code:      auditdom.CodeRecognitionGranted,
			OrgID:     orgID,
			ActorHID:  auditsvc.HID(giverID),
			TargetHID: auditsvc.HID(in.RecipientID),
			Meta:      map[string]string{"recognition_id": rec.ID},
		})
	}

	return domain.CreateResult{Recognition: rec, ReasonCodes: verdict.ReasonCodes}, nil
}

// giverRole resolves the directory role behind its breaker; any trouble
// degrades to the basic multiplier rather than failing the grant
func (s *Svc) giverRole(ctx context.Context, orgID, giverID string) scoring.Role {
	role := scoring.RoleBasic
	lookup := func(ctx context.Context) error {
		r, ok, err := s.binder.Bind(s.tx).MemberRole(ctx, orgID, giverID)
		if err != nil {
			return err
		}
		if ok {
			role = scoring.Role(r)
		}
		return nil
	}

	var err error
	if s.deps.Breakers != nil {
		err = s.deps.Breakers.Do(ctx, "directory", lookup)
	} else {
		err = lookup(ctx)
	}
	if err != nil {
		logger.Named("recognition").Warn().Err(err).Str("giver_id", giverID).Msg("role lookup degraded to basic")
	}
	return role
}

// notify enqueues the recipient fan-out; delivery is async and the grant
// is already durable, so enqueue trouble is logged, not returned
func (s *Svc) notify(ctx context.Context, rec domain.Recognition) {
	if s.deps.Jobs == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"recognition_id": rec.ID,
		"org_id":         rec.OrgID,
		"giver_id":       rec.GiverID,
		"recipient_id":   rec.RecipientID,
		"weight":         rec.Weight,
	})
	if err != nil {
		return
	}
	if _, err := s.deps.Jobs.Enqueue(ctx, domain.JobTypeNotify, payload, s.cfg.NotifyPriority, s.cfg.NotifyMaxRetries); err != nil {
		logger.Named("recognition").Warn().Err(err).Str("recognition_id", rec.ID).Msg("notify enqueue failed")
	}
}

func (s *Svc) deny(ctx context.Context, orgID, giverID, recipientID, code, reason string) {
	s.deps.Metrics.Admission("recognition", "denied")
	if s.deps.Audit == nil {
		return
	}
	s.deps.Audit.Emit(ctx, auditdom.Event{
		Code:      code,
		OrgID:     orgID,
		ActorHID:  auditsvc.HID(giverID),
		TargetHID: auditsvc.HID(recipientID),
		Meta:      map[string]string{"reason": reason},
	})
}

// Get implements domain.ReaderPort
func (s *Svc) Get(ctx context.Context, orgID, id string) (domain.Recognition, error) {
	rec, ok, err := s.binder.Bind(s.tx).Get(ctx, orgID, id)
	if err != nil {
		return domain.Recognition{}, perr.DBf("get recognition: %v", err)
	}
	if !ok {
		return domain.Recognition{}, perr.NotFoundf("recognition %s", id)
	}
	return rec, nil
}

// MemberOf implements domain.DirectoryPort
func (s *Svc) MemberOf(ctx context.Context, orgID, userID string) (bool, error) {
	_, ok, err := s.binder.Bind(s.tx).MemberRole(ctx, orgID, userID)
	if err != nil {
		return false, perr.DBf("member lookup: %v", err)
	}
	return ok, nil
}

// WithNow overrides the clock, for tests
func (s *Svc) WithNow(now func() time.Time) *Svc {
	s.now = now
	return s
}
