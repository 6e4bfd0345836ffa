package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"staffdesk/internal/model"
	"staffdesk/internal/repository"
)

const calendarProductID = "-//staffdesk//shifts//EN"

// CalendarService operator shifts as iCalendar
type CalendarService interface {
	// Shifts renders every assignment of the operator as a VEVENT
	Shifts(ctx context.Context, operatorID string) ([]byte, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService creates a CalendarService
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger, now: time.Now}
}

func (s *calendarService) Shifts(ctx context.Context, operatorID string) ([]byte, error) {
	if operatorID == "" {
		return nil, ErrOperatorNotLinked
	}
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{OperatorID: operatorID})
	if err != nil {
		s.logger.Error("list shifts failed", zap.String("operator_id", operatorID), zap.Error(err))
		return nil, err
	}

	now := s.now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, a := range assignments {
		if a.Event == nil {
			continue
		}
		e := a.Event
		ev := cal.AddEvent(a.AssignmentID + "@staffdesk")
		ev.SetDtStampTime(now)
		ev.SetStartAt(e.StartDate)
		ev.SetEndAt(e.EndDate)
		ev.SetSummary(shiftSummary(e.Title, a.Role))
		if e.Venue != "" {
			ev.SetLocation(e.Venue)
		}
		ev.SetDescription(fmt.Sprintf("Event %s", e.EventID))
		switch e.EffectiveStatus(now) {
		case model.EventCancelled:
			ev.SetStatus(ics.ObjectStatusCancelled)
		default:
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return []byte(cal.Serialize()), nil
}

func shiftSummary(title, role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return title
	}
	return title + " (" + role + ")"
}
