// Package service provides the fire-and-forget audit emitter
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"kudos/internal/platform/logger"
	dom "kudos/internal/services/audit/domain"
	"kudos/internal/services/audit/repo"
)

// HID hashes a raw identifier for the sink. Empty in, empty out.
func HID(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Svc implements domain.EmitterPort. Writes are synchronous but bounded
// by a short timeout; a slow or dead sink costs the caller nothing worse
// than that timeout, never an error.
type Svc struct {
	writer  *repo.CH
	timeout time.Duration
	now     func() time.Time
}

// New constructs the audit service
func New(w *repo.CH) *Svc {
	return &Svc{writer: w, timeout: 2 * time.Second, now: time.Now}
}

// Emit implements domain.EmitterPort
func (s *Svc) Emit(ctx context.Context, e dom.Event) {
	if !s.writer.Enabled() {
		return
	}
	if e.At.IsZero() {
		e.At = s.now().UTC()
	}

	// detach from the caller's cancellation; an aborted request should
	// still leave its audit trail
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.writer.WriteBatch(wctx, []dom.Event{e}); err != nil {
		logger.Named("audit").Warn().Err(err).Str("code", e.Code).Msg("audit emit dropped")
	}
}

// RateLimitBreach satisfies the rate limiter's breach sink
func (s *Svc) RateLimitBreach(ctx context.Context, subjectKey string, count, limit int64) {
	s.Emit(ctx, dom.Event{
		Code:     dom.CodeRateLimitBreach,
		ActorHID: HID(subjectKey),
		Meta: map[string]string{
			"count": strconv.FormatInt(count, 10),
			"limit": strconv.FormatInt(limit, 10),
		},
	})
}
