package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffdesk/internal/model"
	pkgerrors "staffdesk/pkg/errors"
)

// AssignmentFilter payroll and listing filter. From/To match on the event
// start date.
type AssignmentFilter struct {
	EventID    string
	OperatorID string
	From       *time.Time
	To         *time.Time
}

// AssignmentRepository assignments data access
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	GetByEventAndOperator(ctx context.Context, eventID, operatorID string) (*model.Assignment, error)
	// List preloads Event and Operator. Assignments whose event is gone come
	// back with a nil Event.
	List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Assignment, error)
	// CountRoles assigned head count per role for each event
	CountRoles(ctx context.Context, eventIDs []string) (map[string]model.RoleCounts, error)
	Update(ctx context.Context, a *model.Assignment) error
	Delete(ctx context.Context, id, callerID string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	return r.db.WithContext(ctx).Omit("Event", "Operator").Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Operator").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) GetByEventAndOperator(ctx context.Context, eventID, operatorID string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("event_id = ? AND operator_id = ?", eventID, operatorID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error) {
	var list []model.Assignment

	db := r.db.WithContext(ctx).Model(&model.Assignment{})
	if filter.EventID != "" {
		db = db.Where("assignments.event_id = ?", filter.EventID)
	}
	if filter.OperatorID != "" {
		db = db.Where("assignments.operator_id = ?", filter.OperatorID)
	}
	if filter.From != nil || filter.To != nil {
		sub := r.db.Model(&model.Event{}).Select("event_id")
		if filter.From != nil {
			sub = sub.Where("start_date >= ?", *filter.From)
		}
		if filter.To != nil {
			sub = sub.Where("start_date < ?", *filter.To)
		}
		db = db.Where("assignments.event_id IN (?)", sub)
	}

	err := db.
		Preload("Event").
		Preload("Operator").
		Order("assignments.created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Assignment, error) {
	var list []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Operator").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) CountRoles(ctx context.Context, eventIDs []string) (map[string]model.RoleCounts, error) {
	out := make(map[string]model.RoleCounts, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		EventID string
		Role    string
		N       int
	}
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Select("event_id, role, COUNT(*) AS n").
		Where("event_id IN ?", eventIDs).
		Group("event_id, role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if out[row.EventID] == nil {
			out[row.EventID] = model.RoleCounts{}
		}
		out[row.EventID][row.Role] = row.N
	}
	return out, nil
}

func (r *assignmentRepo) Update(ctx context.Context, a *model.Assignment) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"role":             a.Role,
			"hourly_rate":      a.HourlyRate,
			"hourly_rate_sell": a.HourlyRateSell,
			"total_hours":      a.TotalHours,
			"net_hours":        a.NetHours,
			"actual_hours":     a.ActualHours,
			"compensation":     a.Compensation,
			"meal_allowance":   a.MealAllowance,
			"travel_allowance": a.TravelAllowance,
			"revenue":          a.Revenue,
			"updated_by":       a.UpdatedBy,
			"updated_at":       time.Now(),
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version = oldVersion + 1
	return nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id, callerID string) error {
	return softDelete(ctx, r.db, &model.Assignment{}, "assignment_id", id, callerID)
}
