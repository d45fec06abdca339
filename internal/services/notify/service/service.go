// Package service fans recognition notifications out to delivery channels.
// Each channel sits behind its own circuit breaker; an open breaker fails
// the job fast and the queue's retry ladder takes over.
package service

import (
	"context"
	"encoding/json"
	"errors"

	"kudos/internal/platform/circuit"
	perr "kudos/internal/platform/errors"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	jobsdom "kudos/internal/services/jobs/domain"
)

// Message is one notification to deliver
type Message struct {
	RecognitionID string  `json:"recognition_id"`
	OrgID         string  `json:"org_id"`
	GiverID       string  `json:"giver_id"`
	RecipientID   string  `json:"recipient_id"`
	Weight        float64 `json:"weight"`
}

// Channel delivers a message over one transport
type Channel interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Svc implements the notification job handler
type Svc struct {
	channels []Channel
	breakers *circuit.Registry
	metrics  *metrics.Metrics
}

// New constructs the notifier
func New(breakers *circuit.Registry, m *metrics.Metrics, channels ...Channel) *Svc {
	return &Svc{channels: channels, breakers: breakers, metrics: m}
}

// Handler adapts the fan-out to the job queue. Any failed channel fails
// the job; channels must tolerate re-delivery.
func (s *Svc) Handler() jobsdom.Handler {
	return func(ctx context.Context, j jobsdom.Job) error {
		var m Message
		if err := json.Unmarshal(j.Payload, &m); err != nil {
			return perr.InvalidArgf("decode notify payload: %v", err)
		}
		return s.Deliver(ctx, m)
	}
}

// Deliver sends m over every channel, each behind its breaker
func (s *Svc) Deliver(ctx context.Context, m Message) error {
	log := logger.Named("notify")

	var errs []error
	for _, ch := range s.channels {
		send := func(ctx context.Context) error { return ch.Send(ctx, m) }

		var err error
		if s.breakers != nil {
			err = s.breakers.Do(ctx, ch.Name(), send)
		} else {
			err = send(ctx)
		}
		if err != nil {
			s.metrics.Job("notify."+ch.Name(), "failed")
			log.Warn().Err(err).Str("channel", ch.Name()).Str("recognition_id", m.RecognitionID).Msg("delivery failed")
			errs = append(errs, err)
			continue
		}
		s.metrics.Job("notify."+ch.Name(), "delivered")
	}
	return errors.Join(errs...)
}

// Log writes notifications to the application log; the default channel
// when no webhook is configured
type Log struct{}

// Name implements Channel
func (Log) Name() string { return "log" }

// Send implements Channel
func (Log) Send(_ context.Context, m Message) error {
	logger.Named("notify").Info().
		Str("recognition_id", m.RecognitionID).
		Str("org_id", m.OrgID).
		Float64("weight", m.Weight).
		Msg("recognition granted")
	return nil
}
