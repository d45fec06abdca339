package service

import (
	"context"
	"time"

	"kudos/internal/platform/logger"
)

// Run starts the worker loop and blocks until ctx is done
func (s *Svc) Run(ctx context.Context) error {
	log := logger.Named("jobs-worker")
	sem := make(chan struct{}, max(1, s.cfg.Concurrency))
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// claim a small batch; process concurrently with a simple semaphore
			jobs, err := s.binder.Bind(s.tx).Claim(ctx, s.owner, s.cfg.TakeBatch, s.cfg.Lease)
			if err != nil {
				log.Error().Err(err).Msg("claim jobs failed")
				continue
			}
			for i := range jobs {
				sem <- struct{}{}
				j := jobs[i]
				go func() {
					defer func() { <-sem }()
					if err := s.Dispatch(ctx, j); err != nil {
						log.Warn().Err(err).Str("job_id", j.ID).Str("job_type", j.Type).Msg("job failed")
					}
				}()
			}
		}
	}
}
