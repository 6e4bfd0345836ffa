package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffdesk/internal/model"
	pkgerrors "staffdesk/pkg/errors"
)

// EventFilter list filter. From/To select events overlapping the range.
type EventFilter struct {
	ClientID string
	Status   model.EventStatus
	From     *time.Time
	To       *time.Time
	Keyword  string
}

// EventRepository events data access
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Event, error)
	List(ctx context.Context, filter EventFilter, page Page) ([]model.Event, int64, error)
	// ListExpired events whose end has passed but are still stored as open
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id, callerID string) error
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit("Client", "Assignments").Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Event, error) {
	var events []model.Event
	if len(ids) == 0 {
		return events, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("event_id IN ?", ids).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) List(ctx context.Context, filter EventFilter, page Page) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.ClientID != "" {
		db = db.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		db = db.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("start_date <= ?", *filter.To)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("title ILIKE ? OR venue ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).
		Preload("Client").
		Order("start_date DESC").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Event, error) {
	var events []model.Event
	db := r.db.WithContext(ctx).
		Where("end_date < ? AND status IN ?", now, []model.EventStatus{model.EventUpcoming, model.EventInProgress}).
		Order("end_date ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&events).Error
	return events, err
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	oldVersion := event.Version
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ? AND version = ?", event.EventID, oldVersion).
		Updates(map[string]interface{}{
			"client_id":        event.ClientID,
			"title":            event.Title,
			"venue":            event.Venue,
			"venue_lat":        event.VenueLat,
			"venue_lon":        event.VenueLon,
			"start_date":       event.StartDate,
			"end_date":         event.EndDate,
			"hourly_rate_cost": event.HourlyRateCost,
			"hourly_rate_sell": event.HourlyRateSell,
			"gross_hours":      event.GrossHours,
			"net_hours":        event.NetHours,
			"personnel_counts": event.PersonnelCounts,
			"status":           event.Status,
			"updated_by":       event.UpdatedBy,
			"updated_at":       time.Now(),
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = oldVersion + 1
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id, callerID string) error {
	return softDelete(ctx, r.db, &model.Event{}, "event_id", id, callerID)
}
