package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"staffdesk/internal/dto"
	"staffdesk/internal/mirror"
	"staffdesk/internal/model"
)

var ErrMirrorDisabled = errors.New("remote mirror is disabled")

// SyncService outbox replication status
type SyncService interface {
	Status(ctx context.Context) (*dto.SyncStatusResponse, error)
	// Retry puts failed entries back in the queue
	Retry(ctx context.Context) (*dto.SyncRetryResponse, error)
}

type syncService struct {
	worker *mirror.Worker
	logger *zap.Logger
}

// NewSyncService creates a SyncService. worker is nil when Redis is
// disabled.
func NewSyncService(worker *mirror.Worker, logger *zap.Logger) SyncService {
	return &syncService{worker: worker, logger: logger}
}

func (s *syncService) Status(ctx context.Context) (*dto.SyncStatusResponse, error) {
	if s.worker == nil {
		return &dto.SyncStatusResponse{MirrorEnabled: false}, nil
	}
	counts, err := s.worker.Status(ctx)
	if err != nil {
		s.logger.Error("outbox status failed", zap.Error(err))
		return nil, err
	}
	return &dto.SyncStatusResponse{
		MirrorEnabled: true,
		Pending:       counts[model.OutboxPending],
		Done:          counts[model.OutboxDone],
		Failed:        counts[model.OutboxFailed],
	}, nil
}

func (s *syncService) Retry(ctx context.Context) (*dto.SyncRetryResponse, error) {
	if s.worker == nil {
		return nil, ErrMirrorDisabled
	}
	n, err := s.worker.RetryFailed(ctx)
	if err != nil {
		s.logger.Error("requeue failed outbox entries failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("outbox entries requeued", zap.Int64("count", n))
	return &dto.SyncRetryResponse{Requeued: n}, nil
}
