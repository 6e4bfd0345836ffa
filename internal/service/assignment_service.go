package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/payroll"
	"staffdesk/internal/repository"
)

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAlreadyAssigned    = errors.New("operator is already assigned to this event")
	ErrNotAssigned        = errors.New("operator is not assigned to this event")
	ErrInvalidAmount      = errors.New("amounts must not be negative")
)

// AssignmentService operator ↔ event assignments and their payroll overrides
type AssignmentService interface {
	Create(ctx context.Context, eventID string, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	ListByEvent(ctx context.Context, eventID string) ([]dto.AssignmentResponse, error)
	// Adjust stores explicit payroll values and returns the recomputed record
	Adjust(ctx context.Context, id string, req *dto.AdjustAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type assignmentService struct {
	repo     *repository.Repository
	calc     *payrollCalculator
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewAssignmentService creates an AssignmentService
func NewAssignmentService(repo *repository.Repository, calc *payrollCalculator, notifier notify.Notifier, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, calc: calc, notifier: notifier, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, eventID string, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	if anyNegative(req.HourlyRate, req.HourlyRateSell) {
		return nil, ErrInvalidAmount
	}

	// 1. event
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.Status == model.EventCancelled {
		return nil, ErrEventCancelled
	}

	// 2. operator
	op, err := s.repo.Operator.GetByID(ctx, req.OperatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	// 3. one assignment per (event, operator)
	if _, err := s.repo.Assignment.GetByEventAndOperator(ctx, eventID, req.OperatorID); err == nil {
		return nil, ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a := &model.Assignment{
		EventID:        eventID,
		OperatorID:     req.OperatorID,
		Role:           req.Role,
		HourlyRate:     event.HourlyRateCost,
		HourlyRateSell: req.HourlyRateSell,
	}
	if req.HourlyRate != nil {
		a.HourlyRate = *req.HourlyRate
	}
	a.CreatedBy = callerPtr(callerID)
	a.UpdatedBy = callerPtr(callerID)
	a.Version = 1

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Create(ctx, a); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionAssignment, a.AssignmentID, int64(a.Version), a)
	})
	if err != nil {
		s.logger.Error("create assignment failed", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionAssignment, a.AssignmentID, notify.ActionCreated, a.Version, a.OperatorID))

	a.Event = event
	a.Operator = op
	return s.respond(ctx, a)
}

// ────────────────────── ListByEvent ──────────────────────

func (s *assignmentService) ListByEvent(ctx context.Context, eventID string) ([]dto.AssignmentResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	list, err := s.repo.Assignment.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("list assignments failed", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	for i := range list {
		list[i].Event = event
	}
	byPair, err := s.calc.attendance(ctx, list)
	if err != nil {
		return nil, err
	}

	now := s.calc.now()
	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		a := &list[i]
		resp := toAssignmentResponse(a)
		if rec, err := s.calc.policy.Build(s.calc.input(a, byPair[pairKey{a.OperatorID, a.EventID}]), now); err == nil {
			resp.Payroll = &rec
		} else {
			s.logger.Warn("payroll record skipped", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
		}
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── Adjust ──────────────────────

func (s *assignmentService) Adjust(ctx context.Context, id string, req *dto.AdjustAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	if anyNegative(req.HourlyRate, req.HourlyRateSell, req.Compensation,
		req.MealAllowance, req.TravelAllowance, req.Revenue) {
		return nil, ErrInvalidAmount
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	// 1. values
	if req.Role != nil {
		a.Role = *req.Role
	}
	if req.HourlyRate != nil {
		a.HourlyRate = *req.HourlyRate
	}
	if req.HourlyRateSell != nil {
		a.HourlyRateSell = req.HourlyRateSell
	}
	if req.TotalHours != nil {
		a.TotalHours = req.TotalHours
	}
	if req.NetHours != nil {
		a.NetHours = req.NetHours
	}
	if req.ActualHours != nil {
		a.ActualHours = req.ActualHours
	}
	if req.Compensation != nil {
		a.Compensation = req.Compensation
	}
	if req.MealAllowance != nil {
		a.MealAllowance = req.MealAllowance
	}
	if req.TravelAllowance != nil {
		a.TravelAllowance = req.TravelAllowance
	}
	if req.Revenue != nil {
		a.Revenue = req.Revenue
	}

	// 2. cleared fields are derived again
	for _, f := range req.Clear {
		clearOverride(a, f)
	}

	a.UpdatedBy = callerPtr(callerID)
	a.Version = req.Version

	// 3. optimistic write
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Update(ctx, a); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionAssignment, a.AssignmentID, int64(a.Version), a)
	})
	if err != nil {
		s.logger.Warn("adjust assignment failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionAssignment, id, notify.ActionUpdated, a.Version, a.OperatorID))
	return s.respond(ctx, a)
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id, callerID string) error {
	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Delete(ctx, id, callerID); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionAssignment, id, int64(a.Version+1), map[string]interface{}{
			"assignment_id": id,
			"deleted":       true,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("delete assignment failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.Notify(ctx, change(model.CollectionAssignment, id, notify.ActionDeleted, a.Version+1, a.OperatorID))
	return nil
}

// ── helpers ──

func (s *assignmentService) get(ctx context.Context, id string) (*model.Assignment, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("query assignment failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// respond attaches the recomputed payroll record. A record that cannot be
// built leaves Payroll empty.
func (s *assignmentService) respond(ctx context.Context, a *model.Assignment) (*dto.AssignmentResponse, error) {
	resp := toAssignmentResponse(a)
	rec, err := s.calc.record(ctx, a)
	switch {
	case err == nil:
		resp.Payroll = rec
	case errors.Is(err, payroll.ErrMissingEvent), errors.Is(err, payroll.ErrMalformedEvent):
		s.logger.Warn("payroll record skipped", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
	default:
		return nil, err
	}
	return resp, nil
}

func anyNegative(amounts ...*decimal.Decimal) bool {
	for _, v := range amounts {
		if v != nil && v.IsNegative() {
			return true
		}
	}
	return false
}

func clearOverride(a *model.Assignment, field string) {
	switch field {
	case dto.FieldHourlyRateSell:
		a.HourlyRateSell = nil
	case dto.FieldTotalHours:
		a.TotalHours = nil
	case dto.FieldNetHours:
		a.NetHours = nil
	case dto.FieldActualHours:
		a.ActualHours = nil
	case dto.FieldCompensation:
		a.Compensation = nil
	case dto.FieldMealAllowance:
		a.MealAllowance = nil
	case dto.FieldTravelAllowance:
		a.TravelAllowance = nil
	case dto.FieldRevenue:
		a.Revenue = nil
	}
}

func toAssignmentResponse(a *model.Assignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:              a.AssignmentID,
		EventID:         a.EventID,
		OperatorID:      a.OperatorID,
		Role:            a.Role,
		HourlyRate:      a.HourlyRate,
		HourlyRateSell:  a.HourlyRateSell,
		TotalHours:      a.TotalHours,
		NetHours:        a.NetHours,
		ActualHours:     a.ActualHours,
		Compensation:    a.Compensation,
		MealAllowance:   a.MealAllowance,
		TravelAllowance: a.TravelAllowance,
		Revenue:         a.Revenue,
		Version:         a.Version,
	}
	if a.Operator != nil {
		resp.OperatorName = a.Operator.FullName()
	}
	return resp
}
