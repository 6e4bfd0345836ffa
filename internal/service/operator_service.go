package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/repository"
)

var (
	ErrOperatorNotFound  = errors.New("operator not found")
	ErrOperatorNotLinked = errors.New("account is not linked to an operator")
)

// OperatorService operators, their shifts and payment history
type OperatorService interface {
	Create(ctx context.Context, req *dto.CreateOperatorRequest, callerID string) (*dto.OperatorResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OperatorResponse, error)
	List(ctx context.Context, req *dto.OperatorListRequest) ([]dto.OperatorResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateOperatorRequest, callerID string) (*dto.OperatorResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	Payments(ctx context.Context, operatorID string) ([]dto.PaymentResponse, error)
	Shifts(ctx context.Context, operatorID string, q *dto.DateRangeQuery) ([]dto.ShiftResponse, error)
}

type operatorService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewOperatorService creates an OperatorService
func NewOperatorService(repo *repository.Repository, loc *time.Location, notifier notify.Notifier, logger *zap.Logger) OperatorService {
	return &operatorService{repo: repo, loc: loc, notifier: notifier, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *operatorService) Create(ctx context.Context, req *dto.CreateOperatorRequest, callerID string) (*dto.OperatorResponse, error) {
	if anyNegative(req.GrossSalary) {
		return nil, ErrInvalidAmount
	}

	op := &model.Operator{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		FiscalCode:  req.FiscalCode,
		GrossSalary: req.GrossSalary,
		IsActive:    true,
	}
	op.CreatedBy = callerPtr(callerID)
	op.UpdatedBy = callerPtr(callerID)
	op.Version = 1

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Operator.Create(ctx, op); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionOperators, op.OperatorID, int64(op.Version), op)
	})
	if err != nil {
		s.logger.Error("create operator failed", zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionOperators, op.OperatorID, notify.ActionCreated, op.Version, op.OperatorID))
	return toOperatorResponse(op), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *operatorService) GetByID(ctx context.Context, id string) (*dto.OperatorResponse, error) {
	op, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// ────────────────────── List ──────────────────────

func (s *operatorService) List(ctx context.Context, req *dto.OperatorListRequest) ([]dto.OperatorResponse, int64, error) {
	ops, total, err := s.repo.Operator.List(ctx,
		repository.OperatorFilter{Keyword: req.Keyword, ActiveOnly: req.ActiveOnly},
		repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	)
	if err != nil {
		s.logger.Error("list operators failed", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.OperatorResponse, 0, len(ops))
	for i := range ops {
		result = append(result, *toOperatorResponse(&ops[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *operatorService) Update(ctx context.Context, id string, req *dto.UpdateOperatorRequest, callerID string) (*dto.OperatorResponse, error) {
	if anyNegative(req.GrossSalary) {
		return nil, ErrInvalidAmount
	}

	op, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		op.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		op.LastName = *req.LastName
	}
	if req.Email != nil {
		op.Email = *req.Email
	}
	if req.Phone != nil {
		op.Phone = *req.Phone
	}
	if req.FiscalCode != nil {
		op.FiscalCode = *req.FiscalCode
	}
	if req.ClearGrossSalary {
		op.GrossSalary = nil
	} else if req.GrossSalary != nil {
		op.GrossSalary = req.GrossSalary
	}
	if req.IsActive != nil {
		op.IsActive = *req.IsActive
	}
	op.UpdatedBy = callerPtr(callerID)
	op.Version = req.Version

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Operator.Update(ctx, op); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionOperators, op.OperatorID, int64(op.Version), op)
	})
	if err != nil {
		s.logger.Warn("update operator failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionOperators, id, notify.ActionUpdated, op.Version, id))
	return toOperatorResponse(op), nil
}

// ────────────────────── Delete ──────────────────────

func (s *operatorService) Delete(ctx context.Context, id, callerID string) error {
	op, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Operator.Delete(ctx, id, callerID); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionOperators, id, int64(op.Version+1), map[string]interface{}{
			"operator_id": id,
			"deleted":     true,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOperatorNotFound
		}
		s.logger.Error("delete operator failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.Notify(ctx, change(model.CollectionOperators, id, notify.ActionDeleted, op.Version+1, id))
	return nil
}

// ────────────────────── Payments ──────────────────────

func (s *operatorService) Payments(ctx context.Context, operatorID string) ([]dto.PaymentResponse, error) {
	if operatorID == "" {
		return nil, ErrOperatorNotLinked
	}
	payments, err := s.repo.Payment.ListByOperator(ctx, operatorID)
	if err != nil {
		s.logger.Error("list payments failed", zap.String("operator_id", operatorID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		result = append(result, toPaymentResponse(&payments[i]))
	}
	return result, nil
}

// ────────────────────── Shifts ──────────────────────

// Shifts the operator's assignments, soonest first. Assignments whose event
// was removed are left out.
func (s *operatorService) Shifts(ctx context.Context, operatorID string, q *dto.DateRangeQuery) ([]dto.ShiftResponse, error) {
	if operatorID == "" {
		return nil, ErrOperatorNotLinked
	}
	var from, to string
	if q != nil {
		from, to = q.From, q.To
	}
	f, t, err := parseRange(from, to, s.loc)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{OperatorID: operatorID, From: f, To: t})
	if err != nil {
		s.logger.Error("list shifts failed", zap.String("operator_id", operatorID), zap.Error(err))
		return nil, err
	}

	now := s.now()
	result := make([]dto.ShiftResponse, 0, len(assignments))
	for _, a := range assignments {
		if a.Event == nil {
			s.logger.Warn("assignment without event skipped", zap.String("assignment_id", a.AssignmentID))
			continue
		}
		result = append(result, dto.ShiftResponse{
			AssignmentID: a.AssignmentID,
			EventID:      a.EventID,
			Title:        a.Event.Title,
			Venue:        a.Event.Venue,
			Role:         a.Role,
			StartDate:    a.Event.StartDate,
			EndDate:      a.Event.EndDate,
			Status:       string(a.Event.EffectiveStatus(now)),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

// ── helpers ──

func (s *operatorService) get(ctx context.Context, id string) (*model.Operator, error) {
	op, err := s.repo.Operator.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		s.logger.Error("query operator failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return op, nil
}

func toOperatorResponse(o *model.Operator) *dto.OperatorResponse {
	return &dto.OperatorResponse{
		ID:          o.OperatorID,
		FirstName:   o.FirstName,
		LastName:    o.LastName,
		FullName:    o.FullName(),
		Email:       o.Email,
		Phone:       o.Phone,
		FiscalCode:  o.FiscalCode,
		GrossSalary: o.GrossSalary,
		IsActive:    o.IsActive,
		Version:     o.Version,
	}
}

func toPaymentResponse(p *model.OperatorPayment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:              p.PaymentID,
		OperatorID:      p.OperatorID,
		EventID:         p.EventID,
		Hours:           p.Hours,
		HourlyRate:      p.HourlyRate,
		Compensation:    p.Compensation,
		MealAllowance:   p.MealAllowance,
		TravelAllowance: p.TravelAllowance,
		Total:           p.Total,
		RecordedAt:      p.RecordedAt,
	}
	if p.Event != nil {
		resp.EventTitle = p.Event.Title
	}
	return resp
}
