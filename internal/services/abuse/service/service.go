// Package service provides the abuse detector implementation
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"kudos/internal/core/scoring"
	"kudos/internal/modkit/repokit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	"kudos/internal/platform/store"
	"kudos/internal/services/abuse/domain"
	"kudos/internal/services/abuse/repo"
	auditdom "kudos/internal/services/audit/domain"
	auditsvc "kudos/internal/services/audit/service"
)

// Config for the abuse detector
type Config struct {
	// ReciprocityWindow and ReciprocityMax bound giver→recipient volume;
	// the attempt after the Max-th recognition in the window is blocked
	ReciprocityWindow time.Duration
	ReciprocityMax    int64
	// DailyMax / WeeklyMax bound the giver's total volume
	DailyMax  int64
	WeeklyMax int64

	Scorer  *scoring.Scorer
	Audit   auditdom.EmitterPort
	Metrics *metrics.Metrics
}

func (c Config) withDefaults() Config {
	if c.ReciprocityWindow <= 0 {
		c.ReciprocityWindow = 7 * 24 * time.Hour
	}
	if c.ReciprocityMax <= 0 {
		c.ReciprocityMax = 3
	}
	if c.DailyMax <= 0 {
		c.DailyMax = 10
	}
	if c.WeeklyMax <= 0 {
		c.WeeklyMax = 30
	}
	if c.Scorer == nil {
		c.Scorer = scoring.New(scoring.DefaultConfig())
	}
	return c
}

// Svc implements domain.DetectorPort and domain.ReviewPort
type Svc struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
	now    func() time.Time
}

// New constructs the abuse service
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Svc {
	return &Svc{tx: tx, binder: b, cfg: cfg.withDefaults(), now: time.Now}
}

// Detect implements domain.DetectorPort. Flags are additive: one attempt
// can trip reciprocity, frequency and content at once. The adjusted
// weight applies the worst flag's penalty and never exceeds the base.
func (s *Svc) Detect(ctx context.Context, in domain.DetectInput) (domain.Result, error) {
	st := s.binder.Bind(s.tx)
	now := s.now().UTC()

	res := domain.Result{AdjustedWeight: in.BaseWeight}
	flag := func(t domain.FlagType, sev domain.Severity, detail string) {
		res.Flags = append(res.Flags, domain.Flag{
			ID:          uuid.NewString(),
			OrgID:       in.OrgID,
			GiverID:     in.GiverID,
			RecipientID: in.RecipientID,
			Type:        t,
			Severity:    sev,
			Method:      domain.DetectAutomatic,
			Detail:      detail,
			Status:      domain.FlagPending,
			CreatedAt:   now,
		})
		res.ReasonCodes = append(res.ReasonCodes, string(t))
	}

	// reciprocity: trading recognitions back and forth within the window
	pair, err := st.CountPair(ctx, in.OrgID, in.GiverID, in.RecipientID, now.Add(-s.cfg.ReciprocityWindow))
	if err != nil {
		return s.degrade(in, err)
	}
	if pair >= s.cfg.ReciprocityMax {
		res.Blocked = true
		flag(domain.FlagReciprocity, domain.SeverityHigh,
			fmt.Sprintf("%d recognitions to the same recipient in %s", pair, s.cfg.ReciprocityWindow))
	}

	// frequency: total giver volume against daily and weekly ceilings
	daily, err := st.CountByGiver(ctx, in.OrgID, in.GiverID, now.Add(-24*time.Hour))
	if err != nil {
		return s.degrade(in, err)
	}
	weekly, err := st.CountByGiver(ctx, in.OrgID, in.GiverID, now.Add(-7*24*time.Hour))
	if err != nil {
		return s.degrade(in, err)
	}
	if daily >= s.cfg.DailyMax || weekly >= s.cfg.WeeklyMax {
		res.Blocked = true
		flag(domain.FlagFrequency, domain.SeverityMedium,
			fmt.Sprintf("giver volume %d/day %d/week against %d/%d", daily, weekly, s.cfg.DailyMax, s.cfg.WeeklyMax))
	}

	// content: thin reasons down-weight, they never block
	if sig := s.cfg.Scorer.Content(in.Reason); sig.TooShort || sig.LowQuality {
		detail := "low-quality reason"
		if sig.TooShort {
			detail = "reason below minimum length"
		}
		flag(domain.FlagContent, domain.SeverityLow, detail)
	}

	if worst, ok := worstSeverity(res.Flags); ok && !res.Blocked {
		res.AdjustedWeight = round2(in.BaseWeight * worst.Penalty())
	}
	for i := range res.Flags {
		res.Flags[i].OriginalWeight = in.BaseWeight
		res.Flags[i].AdjustedWeight = res.AdjustedWeight
	}

	if len(res.Flags) > 0 {
		s.cfg.Metrics.Admission("abuse", verdict(res))
		if s.cfg.Audit != nil {
			s.cfg.Audit.Emit(ctx, auditdom.Event{
				Code:      auditdom.CodeAbuseFlagged,
				OrgID:     in.OrgID,
				ActorHID:  auditsvc.HID(in.GiverID),
				TargetHID: auditsvc.HID(in.RecipientID),
				Meta:      map[string]string{"reasons": fmt.Sprint(res.ReasonCodes), "blocked": fmt.Sprint(res.Blocked)},
			})
		}
	} else {
		s.cfg.Metrics.Admission("abuse", "clean")
	}
	return res, nil
}

// degrade lets the attempt through with its base weight when the store
// cannot answer; missing an abuser beats dropping a legitimate grant
func (s *Svc) degrade(in domain.DetectInput, err error) (domain.Result, error) {
	s.cfg.Metrics.Admission("abuse", "degraded")
	logger.Named("abuse").Warn().Err(err).Msg("abuse store unavailable, skipping heuristics")
	return domain.Result{AdjustedWeight: in.BaseWeight}, nil
}

// Report implements domain.ReviewPort. Flags raised after the fact copy
// their participants and weight from the recognition they point at; the
// weight stays untouched until a reviewer resolves the flag.
func (s *Svc) Report(ctx context.Context, reporter string, in domain.ReportInput) (domain.Flag, error) {
	st := s.binder.Bind(s.tx)

	ref, ok, err := st.RecognitionRef(ctx, in.RecognitionID)
	if err != nil {
		return domain.Flag{}, perr.DBf("recognition lookup: %v", err)
	}
	if !ok {
		return domain.Flag{}, perr.NotFoundf("recognition %s", in.RecognitionID)
	}

	f := domain.Flag{
		ID:             uuid.NewString(),
		OrgID:          ref.OrgID,
		RecognitionID:  in.RecognitionID,
		GiverID:        ref.GiverID,
		RecipientID:    ref.RecipientID,
		Type:           in.Type,
		Severity:       in.Severity,
		Method:         in.Method,
		Detail:         in.Detail,
		Status:         domain.FlagPending,
		OriginalWeight: ref.Weight,
		AdjustedWeight: ref.Weight,
		CreatedAt:      s.now().UTC(),
	}
	if err := st.InsertFlag(ctx, f); err != nil {
		return domain.Flag{}, perr.DBf("insert flag: %v", err)
	}

	s.cfg.Metrics.Admission("abuse", "reported")
	if s.cfg.Audit != nil {
		s.cfg.Audit.Emit(ctx, auditdom.Event{
			Code:      auditdom.CodeAbuseFlagged,
			OrgID:     ref.OrgID,
			ActorHID:  auditsvc.HID(reporter),
			TargetHID: auditsvc.HID(ref.GiverID),
			Meta:      map[string]string{"flag_id": f.ID, "flag_type": string(f.Type), "method": string(f.Method)},
		})
	}
	return f, nil
}

// StartReview implements domain.ReviewPort
func (s *Svc) StartReview(ctx context.Context, flagID, reviewer string) (domain.Flag, error) {
	return s.transition(ctx, flagID, domain.FlagPending, domain.FlagUnderReview, reviewer)
}

// Resolve implements domain.ReviewPort. The flag transition and any
// retroactive weight rewrite commit together.
func (s *Svc) Resolve(ctx context.Context, flagID, reviewer string, adjustedWeight *float64) (domain.Flag, error) {
	var out domain.Flag
	err := store.RunAsAdmin(ctx, s.tx, func(ctx context.Context, q repokit.Queryer) error {
		st := s.binder.Bind(q)
		f, ok, err := st.Transition(ctx, flagID, domain.FlagUnderReview, domain.FlagResolved, reviewer)
		if err != nil {
			return perr.DBf("flag transition: %v", err)
		}
		if !ok {
			return perr.Conflictf("flag %s is not %s", flagID, domain.FlagUnderReview)
		}
		if adjustedWeight != nil && f.RecognitionID != "" {
			ok, err := st.RewriteWeight(ctx, f.RecognitionID, *adjustedWeight)
			if err != nil {
				return perr.DBf("rewrite weight: %v", err)
			}
			if !ok {
				return perr.NotFoundf("recognition %s", f.RecognitionID)
			}
		}
		out = f
		return nil
	})
	if err != nil {
		return domain.Flag{}, err
	}
	return out, nil
}

// Dismiss implements domain.ReviewPort
func (s *Svc) Dismiss(ctx context.Context, flagID, reviewer string) (domain.Flag, error) {
	return s.transition(ctx, flagID, domain.FlagUnderReview, domain.FlagDismissed, reviewer)
}

// ListByStatus implements domain.ReviewPort
func (s *Svc) ListByStatus(ctx context.Context, status domain.FlagStatus, limit int) ([]domain.Flag, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.binder.Bind(s.tx).ListByStatus(ctx, status, limit)
}

func (s *Svc) transition(ctx context.Context, flagID string, from, to domain.FlagStatus, reviewer string) (domain.Flag, error) {
	f, ok, err := s.binder.Bind(s.tx).Transition(ctx, flagID, from, to, reviewer)
	if err != nil {
		return domain.Flag{}, perr.DBf("flag transition: %v", err)
	}
	if !ok {
		return domain.Flag{}, perr.Conflictf("flag %s is not %s", flagID, from)
	}
	return f, nil
}

func worstSeverity(flags []domain.Flag) (domain.Severity, bool) {
	var worst domain.Severity
	for _, f := range flags {
		if f.Severity.Worse(worst) {
			worst = f.Severity
		}
	}
	return worst, worst != ""
}

func verdict(r domain.Result) string {
	if r.Blocked {
		return "blocked"
	}
	return "flagged"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WithNow overrides the clock, for tests
func (s *Svc) WithNow(now func() time.Time) *Svc {
	s.now = now
	return s
}
