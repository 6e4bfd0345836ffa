package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/mirror"
	"staffdesk/internal/notify"
	"staffdesk/internal/repository"
	"staffdesk/pkg/jwt"
)

// TokenBlacklist revoked JWT IDs. Nil when Redis is disabled.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service aggregate of every business service
type Service struct {
	Auth       AuthService
	Client     ClientService
	Event      EventService
	Operator   OperatorService
	Assignment AssignmentService
	Payroll    PayrollService
	Attendance AttendanceService
	Calendar   CalendarService
	Sync       SyncService
}

// NewService wires the services. blacklist and worker may be nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	notifier notify.Notifier,
	worker *mirror.Worker,
	logger *zap.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	loc, err := cfg.Attendance.Location()
	if err != nil {
		loc = time.UTC
	}
	calc := newPayrollCalculator(cfg, repo, loc, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Client:     NewClientService(repo, notifier, logger),
		Event:      NewEventService(repo, calc, notifier, logger),
		Operator:   NewOperatorService(repo, loc, notifier, logger),
		Assignment: NewAssignmentService(repo, calc, notifier, logger),
		Payroll:    NewPayrollService(cfg, calc, logger),
		Attendance: NewAttendanceService(cfg, repo, notifier, logger),
		Calendar:   NewCalendarService(repo, logger),
		Sync:       NewSyncService(worker, logger),
	}
}

// ── shared helpers ──

// change builds a notification for an entity write
func change(collection, id string, action notify.Action, revision int, operatorID string) notify.Change {
	return notify.Change{
		Collection: collection,
		EntityID:   id,
		Action:     action,
		Revision:   int64(revision),
		OperatorID: operatorID,
		At:         time.Now(),
	}
}

// callerPtr nil for system writes
func callerPtr(callerID string) *string {
	if callerID == "" {
		return nil
	}
	return &callerID
}

// parseDay parses a "2006-01-02" parameter in loc; empty yields nil
func parseDay(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseRange turns an inclusive day range into [from, to+1day)
func parseRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	f, err := parseDay(from, loc)
	if err != nil {
		return nil, nil, ErrInvalidDateRange
	}
	t, err := parseDay(to, loc)
	if err != nil {
		return nil, nil, ErrInvalidDateRange
	}
	if t != nil {
		end := t.AddDate(0, 0, 1)
		t = &end
	}
	if f != nil && t != nil && !t.After(*f) {
		return nil, nil, ErrInvalidDateRange
	}
	return f, t, nil
}
