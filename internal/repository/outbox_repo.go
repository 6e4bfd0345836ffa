package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffdesk/internal/model"
)

// OutboxRepository sync_outbox data access
type OutboxRepository interface {
	// Enqueue stages entity for replication. Call it inside the transaction
	// that writes the entity.
	Enqueue(ctx context.Context, collection, entityID string, revision int64, entity interface{}) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxEntry, error)
	MarkDone(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error
	CountByStatus(ctx context.Context) (map[model.OutboxStatus]int64, error)
	ResetFailed(ctx context.Context, now time.Time) (int64, error)
	PurgeDone(ctx context.Context, before time.Time) (int64, error)
}

type outboxRepo struct {
	db *gorm.DB
}

func NewOutboxRepo(db *gorm.DB) OutboxRepository {
	return &outboxRepo{db: db}
}

func (r *outboxRepo) Enqueue(ctx context.Context, collection, entityID string, revision int64, entity interface{}) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode outbox payload: %w", err)
	}
	now := time.Now()
	entry := &model.OutboxEntry{
		OutboxID:      uuid.NewString(),
		Collection:    collection,
		EntityID:      entityID,
		Revision:      revision,
		Payload:       payload,
		Status:        model.OutboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *outboxRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxEntry, error) {
	var list []model.OutboxEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", model.OutboxPending, now).
		Order("created_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *outboxRepo) MarkDone(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxEntry{}).
		Where("outbox_id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.OutboxDone,
			"last_error": "",
			"updated_at": time.Now(),
		}).Error
}

func (r *outboxRepo) MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxEntry{}).
		Where("outbox_id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        attempts,
			"next_attempt_at": next,
			"last_error":      lastErr,
			"updated_at":      time.Now(),
		}).Error
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id string, attempts int, lastErr string) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxEntry{}).
		Where("outbox_id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.OutboxFailed,
			"attempts":   attempts,
			"last_error": lastErr,
			"updated_at": time.Now(),
		}).Error
}

func (r *outboxRepo) CountByStatus(ctx context.Context) (map[model.OutboxStatus]int64, error) {
	var rows []struct {
		Status model.OutboxStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.OutboxEntry{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[model.OutboxStatus]int64{
		model.OutboxPending: 0,
		model.OutboxDone:    0,
		model.OutboxFailed:  0,
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *outboxRepo) ResetFailed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.OutboxEntry{}).
		Where("status = ?", model.OutboxFailed).
		Updates(map[string]interface{}{
			"status":          model.OutboxPending,
			"attempts":        0,
			"next_attempt_at": now,
			"updated_at":      now,
		})
	return result.RowsAffected, result.Error
}

func (r *outboxRepo) PurgeDone(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.OutboxDone, before).
		Delete(&model.OutboxEntry{})
	return result.RowsAffected, result.Error
}
