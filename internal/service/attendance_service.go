package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffdesk/config"
	"staffdesk/internal/attendance"
	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/repository"
	"staffdesk/pkg/geo"
)

// ErrLocationUnavailable no usable reading among the submitted samples
var ErrLocationUnavailable = attendance.ErrLocationUnavailable

// AttendanceService check-in/out for operators
type AttendanceService interface {
	// Check appends a check-in or a check-out, whichever is due today
	Check(ctx context.Context, operatorID string, req *dto.CheckRequest) (*dto.CheckResponse, error)
	Status(ctx context.Context, operatorID, eventID string) (*dto.AttendanceStatusResponse, error)
	List(ctx context.Context, operatorID string, q *dto.AttendanceQuery) ([]dto.AttendanceRecordResponse, error)
}

type attendanceService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	policy   attendance.Policy
	geofence float64
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceService creates an AttendanceService
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, notifier notify.Notifier, logger *zap.Logger) AttendanceService {
	loc, err := cfg.Attendance.Location()
	if err != nil {
		loc = time.UTC
	}
	policy := attendance.NewPolicy(&cfg.Attendance)
	// samples were taken on the device; replay them back to back
	policy.Backoff = 0

	return &attendanceService{
		repo:     repo,
		notifier: notifier,
		policy:   policy,
		geofence: cfg.Attendance.GeofenceRadiusMeters,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Check ──────────────────────

func (s *attendanceService) Check(ctx context.Context, operatorID string, req *dto.CheckRequest) (*dto.CheckResponse, error) {
	if operatorID == "" {
		return nil, ErrOperatorNotLinked
	}

	// 1. the operator must be assigned to an open event
	event, err := s.assignedEvent(ctx, operatorID, req.EventID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if event.EffectiveStatus(now) == model.EventCancelled {
		return nil, ErrEventCancelled
	}

	// 2. position
	readings := make([]attendance.Reading, 0, len(req.Readings))
	for _, r := range req.Readings {
		readings = append(readings, attendance.Reading{
			Point:    geo.Point{Lat: r.Latitude, Lon: r.Longitude},
			Accuracy: r.Accuracy,
		})
	}
	fix, err := attendance.Acquire(ctx, attendance.NewReadingsLocator(readings), s.policy)
	if err != nil {
		s.logger.Info("location unavailable",
			zap.String("operator_id", operatorID),
			zap.String("event_id", req.EventID),
			zap.Int("readings", len(readings)),
			zap.Error(err),
		)
		return nil, err
	}

	// 3. toggle
	records, err := s.repo.Attendance.ListByPair(ctx, operatorID, req.EventID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}
	rec := &model.AttendanceRecord{
		RecordID:   model.NewRecordID(now),
		OperatorID: operatorID,
		EventID:    req.EventID,
		Type:       attendance.NextAction(records, now, s.loc),
		Timestamp:  now,
		Latitude:   fix.Point.Lat,
		Longitude:  fix.Point.Lon,
		Accuracy:   fix.Accuracy,
		Attempts:   fix.Attempts,
		CreatedAt:  now,
	}

	// 4. distance from the venue, recorded only
	if event.HasVenueCoordinates() {
		d := geo.DistanceMeters(fix.Point, geo.Point{Lat: *event.VenueLat, Lon: *event.VenueLon})
		rec.DistanceMeters = &d
		if s.geofence > 0 && d > s.geofence {
			s.logger.Warn("check outside venue radius",
				zap.String("operator_id", operatorID),
				zap.String("event_id", req.EventID),
				zap.Float64("distance_m", d),
				zap.Float64("radius_m", s.geofence),
			)
		}
	}

	// 5. append
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Attendance.Create(ctx, rec); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionAttendance, rec.RecordID, 1, rec)
	})
	if err != nil {
		s.logger.Error("write attendance failed", zap.String("operator_id", operatorID), zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionAttendance, rec.RecordID, notify.ActionCreated, 1, operatorID))
	s.logger.Info("attendance recorded",
		zap.String("operator_id", operatorID),
		zap.String("event_id", req.EventID),
		zap.String("type", string(rec.Type)),
		zap.Float64("accuracy", rec.Accuracy),
		zap.Int("attempts", rec.Attempts),
	)

	return &dto.CheckResponse{
		Record:   toAttendanceResponse(rec),
		Accurate: fix.Accurate,
		Day:      attendance.Reconcile(append(records, *rec), now, s.loc),
	}, nil
}

// ────────────────────── Status ──────────────────────

func (s *attendanceService) Status(ctx context.Context, operatorID, eventID string) (*dto.AttendanceStatusResponse, error) {
	if operatorID == "" {
		return nil, ErrOperatorNotLinked
	}
	if _, err := s.assignedEvent(ctx, operatorID, eventID); err != nil {
		return nil, err
	}
	records, err := s.repo.Attendance.ListByPair(ctx, operatorID, eventID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}
	return &dto.AttendanceStatusResponse{
		EventID: eventID,
		Today:   attendance.Reconcile(records, s.now(), s.loc),
		Days:    attendance.Days(records, s.loc),
	}, nil
}

// ────────────────────── List ──────────────────────

func (s *attendanceService) List(ctx context.Context, operatorID string, q *dto.AttendanceQuery) ([]dto.AttendanceRecordResponse, error) {
	if operatorID == "" {
		return nil, ErrOperatorNotLinked
	}
	from, to, err := parseRange(q.From, q.To, s.loc)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Attendance.ListByOperator(ctx, operatorID, from, to)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("operator_id", operatorID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		if q.EventID != "" && records[i].EventID != q.EventID {
			continue
		}
		result = append(result, toAttendanceResponse(&records[i]))
	}
	return result, nil
}

// ── helpers ──

func (s *attendanceService) assignedEvent(ctx context.Context, operatorID, eventID string) (*model.Event, error) {
	a, err := s.repo.Assignment.GetByEventAndOperator(ctx, eventID, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	if a.Event != nil {
		return a.Event, nil
	}
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func toAttendanceResponse(r *model.AttendanceRecord) dto.AttendanceRecordResponse {
	return dto.AttendanceRecordResponse{
		ID:             r.RecordID,
		OperatorID:     r.OperatorID,
		EventID:        r.EventID,
		Type:           string(r.Type),
		Timestamp:      r.Timestamp,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Accuracy:       r.Accuracy,
		DistanceMeters: r.DistanceMeters,
		Attempts:       r.Attempts,
	}
}
