package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/payroll"
	"staffdesk/internal/repository"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventDateInvalid = errors.New("event end must be after its start")
	ErrEventCancelled   = errors.New("event is cancelled")
)

// expiredBatch events closed per scheduler tick
const expiredBatch = 100

// EventService events and their closing
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	// Close marks the event completed and records one payment per
	// assignment. Closing twice adds nothing.
	Close(ctx context.Context, id, callerID string) (*dto.CloseEventResponse, error)
	// CloseExpired closes events whose end has passed
	CloseExpired(ctx context.Context, now time.Time) (int, error)
}

type eventService struct {
	repo     *repository.Repository
	calc     *payrollCalculator
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewEventService creates an EventService
func NewEventService(repo *repository.Repository, calc *payrollCalculator, notifier notify.Notifier, logger *zap.Logger) EventService {
	return &eventService{repo: repo, calc: calc, notifier: notifier, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error) {
	// 1. dates and rates
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrEventDateInvalid
	}
	if anyNegative(&req.HourlyRateCost, req.HourlyRateSell) {
		return nil, ErrInvalidAmount
	}

	// 2. client must exist
	client, err := s.repo.Client.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	event := &model.Event{
		ClientID:        req.ClientID,
		Title:           req.Title,
		Venue:           req.Venue,
		VenueLat:        req.VenueLat,
		VenueLon:        req.VenueLon,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		HourlyRateCost:  req.HourlyRateCost,
		HourlyRateSell:  req.HourlyRateSell,
		GrossHours:      req.GrossHours,
		NetHours:        req.NetHours,
		PersonnelCounts: model.RoleCounts(req.PersonnelCounts),
		Status:          model.EventUpcoming,
	}
	event.CreatedBy = callerPtr(callerID)
	event.UpdatedBy = callerPtr(callerID)
	event.Version = 1

	// 3. write + outbox
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.Create(ctx, event); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionEvents, event.EventID, int64(event.Version), event)
	})
	if err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionEvents, event.EventID, notify.ActionCreated, event.Version, ""))

	event.Client = client
	return s.toEventResponse(event, nil), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Assignment.CountRoles(ctx, []string{id})
	if err != nil {
		s.logger.Error("count event roles failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toEventResponse(event, counts[id]), nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	from, to, err := parseRange(req.From, req.To, s.calc.loc)
	if err != nil {
		return nil, 0, err
	}
	events, total, err := s.repo.Event.List(ctx,
		repository.EventFilter{
			ClientID: req.ClientID,
			Status:   model.EventStatus(req.Status),
			From:     from,
			To:       to,
			Keyword:  req.Keyword,
		},
		repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.EventID)
	}
	counts, err := s.repo.Assignment.CountRoles(ctx, ids)
	if err != nil {
		s.logger.Error("count event roles failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		e := &events[i]
		// an event whose client is gone cannot be shown
		if e.Client == nil {
			s.logger.Warn("event without client skipped", zap.String("event_id", e.EventID), zap.String("client_id", e.ClientID))
			total--
			continue
		}
		result = append(result, *s.toEventResponse(e, counts[e.EventID]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error) {
	if anyNegative(req.HourlyRateCost, req.HourlyRateSell) {
		return nil, ErrInvalidAmount
	}

	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil && *req.ClientID != event.ClientID {
		client, err := s.repo.Client.GetByID(ctx, *req.ClientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		event.ClientID = client.ClientID
		event.Client = client
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.VenueLat != nil {
		event.VenueLat = req.VenueLat
	}
	if req.VenueLon != nil {
		event.VenueLon = req.VenueLon
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if !event.EndDate.After(event.StartDate) {
		return nil, ErrEventDateInvalid
	}
	if req.HourlyRateCost != nil {
		event.HourlyRateCost = *req.HourlyRateCost
	}
	if req.HourlyRateSell != nil {
		event.HourlyRateSell = req.HourlyRateSell
	}
	if req.GrossHours != nil {
		event.GrossHours = req.GrossHours
	}
	if req.NetHours != nil {
		event.NetHours = req.NetHours
	}
	if req.PersonnelCounts != nil {
		event.PersonnelCounts = model.RoleCounts(req.PersonnelCounts)
	}
	if req.Status != nil {
		event.Status = model.EventStatus(*req.Status)
	}
	event.UpdatedBy = callerPtr(callerID)
	event.Version = req.Version

	if err := s.save(ctx, event); err != nil {
		s.logger.Warn("update event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionEvents, id, notify.ActionUpdated, event.Version, ""))
	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id, callerID string) error {
	event, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.Delete(ctx, id, callerID); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionEvents, id, int64(event.Version+1), map[string]interface{}{
			"event_id": id,
			"deleted":  true,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("delete event failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.Notify(ctx, change(model.CollectionEvents, id, notify.ActionDeleted, event.Version+1, ""))
	return nil
}

// ────────────────────── Close ──────────────────────

func (s *eventService) Close(ctx context.Context, id, callerID string) (*dto.CloseEventResponse, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == model.EventCancelled {
		return nil, ErrEventCancelled
	}

	// 1. status first, so payroll records see a completed event
	statusChanged := event.Status != model.EventCompleted
	event.Status = model.EventCompleted

	// 2. one payment per assignment
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{EventID: id})
	if err != nil {
		s.logger.Error("list event assignments failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	byPair, err := s.calc.attendance(ctx, assignments)
	if err != nil {
		return nil, err
	}

	now := s.calc.now()
	payments := make([]model.OperatorPayment, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		a.Event = event
		rec, err := s.calc.policy.Build(s.calc.input(a, byPair[pairKey{a.OperatorID, a.EventID}]), now)
		if err != nil {
			s.logger.Warn("payroll record skipped", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
			continue
		}
		payments = append(payments, model.OperatorPayment{
			PaymentID:       uuid.New().String(),
			OperatorID:      a.OperatorID,
			EventID:         id,
			Hours:           rec.PayableHours,
			HourlyRate:      rec.HourlyRate,
			Compensation:    rec.Compensation,
			MealAllowance:   rec.MealAllowance,
			TravelAllowance: rec.TravelAllowance,
			Total:           rec.Total(),
			RecordedAt:      now,
		})
	}

	// 3. status + payments in one transaction
	var created []model.OperatorPayment
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		created = created[:0]
		if statusChanged {
			event.UpdatedBy = callerPtr(callerID)
			if err := tx.Event.Update(ctx, event); err != nil {
				return err
			}
			if err := tx.Outbox.Enqueue(ctx, model.CollectionEvents, id, int64(event.Version), event); err != nil {
				return err
			}
		}
		for i := range payments {
			p := &payments[i]
			ok, err := tx.Payment.CreateIfAbsent(ctx, p)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := tx.Outbox.Enqueue(ctx, model.CollectionPayments, p.PaymentID, 1, p); err != nil {
				return err
			}
			created = append(created, *p)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("close event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 4. notify
	if statusChanged {
		s.notifier.Notify(ctx, change(model.CollectionEvents, id, notify.ActionUpdated, event.Version, ""))
	}
	for _, p := range created {
		s.notifier.Notify(ctx, change(model.CollectionPayments, p.PaymentID, notify.ActionCreated, 1, p.OperatorID))
	}

	s.logger.Info("event closed",
		zap.String("id", id),
		zap.Int("assignments", len(assignments)),
		zap.Int("payments_created", len(created)),
	)

	all, err := s.repo.Payment.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.CloseEventResponse{
		Event:           *s.toEventResponse(event, nil),
		PaymentsCreated: len(created),
		Payments:        make([]dto.PaymentResponse, 0, len(all)),
	}
	for i := range all {
		if all[i].Event == nil {
			all[i].Event = event
		}
		resp.Payments = append(resp.Payments, toPaymentResponse(&all[i]))
	}
	return resp, nil
}

// ────────────────────── CloseExpired ──────────────────────

func (s *eventService) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	events, err := s.repo.Event.ListExpired(ctx, now, expiredBatch)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, e := range events {
		if ctx.Err() != nil {
			return closed, ctx.Err()
		}
		if _, err := s.Close(ctx, e.EventID, ""); err != nil {
			s.logger.Warn("auto-close event failed", zap.String("id", e.EventID), zap.Error(err))
			continue
		}
		closed++
	}
	return closed, nil
}

// ── helpers ──

func (s *eventService) get(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("query event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (s *eventService) save(ctx context.Context, event *model.Event) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.Update(ctx, event); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionEvents, event.EventID, int64(event.Version), event)
	})
}

func (s *eventService) toEventResponse(e *model.Event, assigned model.RoleCounts) *dto.EventResponse {
	gross := payroll.GrossHours(e.StartDate, e.EndDate)
	if e.GrossHours != nil {
		gross = *e.GrossHours
	}
	net := s.calc.policy.NetHours(gross)
	if e.NetHours != nil {
		net = *e.NetHours
	}

	resp := &dto.EventResponse{
		ID:              e.EventID,
		ClientID:        e.ClientID,
		Title:           e.Title,
		Venue:           e.Venue,
		VenueLat:        e.VenueLat,
		VenueLon:        e.VenueLon,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		HourlyRateCost:  e.HourlyRateCost,
		HourlyRateSell:  e.HourlyRateSell,
		GrossHours:      gross,
		NetHours:        net,
		PersonnelCounts: map[string]int(e.PersonnelCounts),
		Staffing:        staffing(e.PersonnelCounts, assigned),
		Status:          string(e.EffectiveStatus(s.calc.now())),
		Version:         e.Version,
	}
	if resp.PersonnelCounts == nil {
		resp.PersonnelCounts = map[string]int{}
	}
	if e.Client != nil {
		resp.ClientName = e.Client.Name
	}
	return resp
}

// staffing required vs assigned per role, sorted by role
func staffing(required, assigned model.RoleCounts) []dto.RoleCoverage {
	roles := make(map[string]struct{}, len(required)+len(assigned))
	for r := range required {
		roles[r] = struct{}{}
	}
	for r := range assigned {
		roles[r] = struct{}{}
	}
	if len(roles) == 0 {
		return nil
	}
	out := make([]dto.RoleCoverage, 0, len(roles))
	for r := range roles {
		out = append(out, dto.RoleCoverage{Role: r, Required: required[r], Assigned: assigned[r]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}
