package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffdesk/internal/model"
)

// PaymentRepository operator_payments data access. Append-only.
type PaymentRepository interface {
	// CreateIfAbsent inserts unless a payment for (operator, event) exists
	CreateIfAbsent(ctx context.Context, p *model.OperatorPayment) (bool, error)
	ListByOperator(ctx context.Context, operatorID string) ([]model.OperatorPayment, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.OperatorPayment, error)
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) CreateIfAbsent(ctx context.Context, p *model.OperatorPayment) (bool, error) {
	result := r.db.WithContext(ctx).
		Omit("Event").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operator_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(p)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepo) ListByOperator(ctx context.Context, operatorID string) ([]model.OperatorPayment, error) {
	var list []model.OperatorPayment
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("operator_id = ?", operatorID).
		Order("recorded_at DESC").
		Find(&list).Error
	return list, err
}

func (r *paymentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.OperatorPayment, error) {
	var list []model.OperatorPayment
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("recorded_at ASC").
		Find(&list).Error
	return list, err
}
