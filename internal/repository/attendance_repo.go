package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffdesk/internal/model"
)

// AttendanceRepository attendance_records data access. Append-only.
type AttendanceRepository interface {
	Create(ctx context.Context, rec *model.AttendanceRecord) error
	ListByPair(ctx context.Context, operatorID, eventID string) ([]model.AttendanceRecord, error)
	ListByOperator(ctx context.Context, operatorID string, from, to *time.Time) ([]model.AttendanceRecord, error)
	ListByEvents(ctx context.Context, eventIDs []string) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *attendanceRepo) ListByPair(ctx context.Context, operatorID, eventID string) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("operator_id = ? AND event_id = ?", operatorID, eventID).
		Order("timestamp ASC, record_id ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByOperator(ctx context.Context, operatorID string, from, to *time.Time) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	db := r.db.WithContext(ctx).Where("operator_id = ?", operatorID)
	if from != nil {
		db = db.Where("timestamp >= ?", *from)
	}
	if to != nil {
		db = db.Where("timestamp < ?", *to)
	}
	err := db.Order("timestamp DESC, record_id DESC").Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByEvents(ctx context.Context, eventIDs []string) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	if len(eventIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Order("timestamp ASC, record_id ASC").
		Find(&list).Error
	return list, err
}
