package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staffdesk/internal/mirror"
)

// outboxRetention how long replicated entries are kept
const outboxRetention = 7 * 24 * time.Hour

// Scheduler runs the periodic jobs: closing expired events and pushing the
// outbox to the mirror.
type Scheduler struct {
	events       EventService
	worker       *mirror.Worker
	interval     time.Duration
	syncInterval time.Duration
	logger       *zap.Logger
}

// NewScheduler creates a Scheduler. worker may be nil.
func NewScheduler(events EventService, worker *mirror.Worker, interval, syncInterval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if syncInterval <= 0 {
		syncInterval = 30 * time.Second
	}
	return &Scheduler{
		events:       events,
		worker:       worker,
		interval:     interval,
		syncInterval: syncInterval,
		logger:       logger,
	}
}

// Run blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	closeTick := time.NewTicker(s.interval)
	defer closeTick.Stop()

	var syncC <-chan time.Time
	if s.worker != nil {
		syncTick := time.NewTicker(s.syncInterval)
		defer syncTick.Stop()
		syncC = syncTick.C
	}

	s.logger.Info("scheduler started",
		zap.Duration("interval", s.interval),
		zap.Bool("mirror", s.worker != nil),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case now := <-closeTick.C:
			s.closeExpired(ctx, now)
		case <-syncC:
			s.drain(ctx)
		}
	}
}

func (s *Scheduler) closeExpired(ctx context.Context, now time.Time) {
	n, err := s.events.CloseExpired(ctx, now)
	if err != nil {
		s.logger.Warn("close expired events failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired events closed", zap.Int("count", n))
	}
}

func (s *Scheduler) drain(ctx context.Context) {
	res, err := s.worker.Drain(ctx)
	if err != nil {
		s.logger.Warn("outbox drain failed", zap.Error(err))
		return
	}
	if res.Applied+res.Stale+res.Retried+res.Failed > 0 {
		s.logger.Debug("outbox drained",
			zap.Int("applied", res.Applied),
			zap.Int("stale", res.Stale),
			zap.Int("retried", res.Retried),
			zap.Int("failed", res.Failed),
		)
	}
	if _, err := s.worker.Purge(ctx, outboxRetention); err != nil {
		s.logger.Warn("outbox purge failed", zap.Error(err))
	}
}
