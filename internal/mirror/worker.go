// Package mirror replicates outbox entries to the remote store with retry
// and last-writer-wins conflict resolution by revision.
package mirror

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/model"
	"staffdesk/internal/repository"
)

const maxBackoff = time.Hour

// Mirror remote store. Apply must be idempotent: writing a revision the
// store already holds (or has superseded) returns applied=false, nil.
type Mirror interface {
	Apply(ctx context.Context, collection, id string, revision int64, payload []byte) (applied bool, err error)
}

// Policy retry settings
type Policy struct {
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
}

// NewPolicy from configuration
func NewPolicy(cfg *config.SyncConfig) Policy {
	return Policy{
		BatchSize:   cfg.BatchSize,
		MaxAttempts: cfg.MaxAttempts,
		BaseBackoff: cfg.BaseBackoff,
	}
}

// Backoff base × 2^(attempts-1), capped at one hour
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// Result counts for one Drain
type Result struct {
	Applied int `json:"applied"`
	Stale   int `json:"stale"`
	Retried int `json:"retried"`
	Failed  int `json:"failed"`
}

// Worker drains the outbox into a Mirror
type Worker struct {
	outbox repository.OutboxRepository
	mirror Mirror
	policy Policy
	logger *zap.Logger
	now    func() time.Time
}

// NewWorker creates a worker
func NewWorker(outbox repository.OutboxRepository, m Mirror, policy Policy, logger *zap.Logger) *Worker {
	return &Worker{outbox: outbox, mirror: m, policy: policy, logger: logger, now: time.Now}
}

// Drain pushes one batch of due entries
func (w *Worker) Drain(ctx context.Context) (Result, error) {
	var res Result

	entries, err := w.outbox.ListDue(ctx, w.now(), w.policy.BatchSize)
	if err != nil {
		return res, err
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		applied, err := w.mirror.Apply(ctx, e.Collection, e.EntityID, e.Revision, e.Payload)
		if err == nil {
			if applied {
				res.Applied++
			} else {
				res.Stale++
			}
			if err := w.outbox.MarkDone(ctx, e.OutboxID); err != nil {
				w.logger.Error("mark outbox entry done failed", zap.String("outbox_id", e.OutboxID), zap.Error(err))
			}
			continue
		}

		w.fail(ctx, e, err, &res)
	}

	if len(entries) > 0 {
		w.logger.Debug("outbox drained",
			zap.Int("applied", res.Applied),
			zap.Int("stale", res.Stale),
			zap.Int("retried", res.Retried),
			zap.Int("failed", res.Failed),
		)
	}
	return res, nil
}

func (w *Worker) fail(ctx context.Context, e model.OutboxEntry, cause error, res *Result) {
	attempts := e.Attempts + 1
	fields := []zap.Field{
		zap.String("outbox_id", e.OutboxID),
		zap.String("collection", e.Collection),
		zap.String("entity_id", e.EntityID),
		zap.Int("attempts", attempts),
		zap.Error(cause),
	}

	if w.policy.MaxAttempts > 0 && attempts >= w.policy.MaxAttempts {
		res.Failed++
		w.logger.Error("outbox entry gave up", fields...)
		if err := w.outbox.MarkFailed(ctx, e.OutboxID, attempts, cause.Error()); err != nil {
			w.logger.Error("mark outbox entry failed", zap.Error(err))
		}
		return
	}

	res.Retried++
	next := w.now().Add(Backoff(w.policy.BaseBackoff, attempts))
	w.logger.Warn("mirror write failed, will retry", append(fields, zap.Time("next_attempt_at", next))...)
	if err := w.outbox.MarkRetry(ctx, e.OutboxID, attempts, next, cause.Error()); err != nil {
		w.logger.Error("reschedule outbox entry failed", zap.Error(err))
	}
}

// Status outbox counts by state
func (w *Worker) Status(ctx context.Context) (map[model.OutboxStatus]int64, error) {
	return w.outbox.CountByStatus(ctx)
}

// RetryFailed puts failed entries back in the queue
func (w *Worker) RetryFailed(ctx context.Context) (int64, error) {
	return w.outbox.ResetFailed(ctx, w.now())
}

// Purge drops replicated entries older than retention
func (w *Worker) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return w.outbox.PurgeDone(ctx, w.now().Add(-retention))
}
