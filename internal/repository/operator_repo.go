package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffdesk/internal/model"
	pkgerrors "staffdesk/pkg/errors"
)

// OperatorFilter list filter
type OperatorFilter struct {
	Keyword    string
	ActiveOnly bool
}

// OperatorRepository operators data access
type OperatorRepository interface {
	Create(ctx context.Context, operator *model.Operator) error
	GetByID(ctx context.Context, id string) (*model.Operator, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Operator, error)
	List(ctx context.Context, filter OperatorFilter, page Page) ([]model.Operator, int64, error)
	Update(ctx context.Context, operator *model.Operator) error
	Delete(ctx context.Context, id, callerID string) error
}

type operatorRepo struct {
	db *gorm.DB
}

func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) Create(ctx context.Context, operator *model.Operator) error {
	return r.db.WithContext(ctx).Omit("Assignments").Create(operator).Error
}

func (r *operatorRepo) GetByID(ctx context.Context, id string) (*model.Operator, error) {
	var op model.Operator
	if err := r.db.WithContext(ctx).Where("operator_id = ?", id).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Operator, error) {
	var ops []model.Operator
	if len(ids) == 0 {
		return ops, nil
	}
	err := r.db.WithContext(ctx).Where("operator_id IN ?", ids).Find(&ops).Error
	return ops, err
}

func (r *operatorRepo) List(ctx context.Context, filter OperatorFilter, page Page) ([]model.Operator, int64, error) {
	var ops []model.Operator
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Operator{})
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).Order("last_name ASC, first_name ASC").Find(&ops).Error; err != nil {
		return nil, 0, err
	}
	return ops, total, nil
}

func (r *operatorRepo) Update(ctx context.Context, operator *model.Operator) error {
	oldVersion := operator.Version
	result := r.db.WithContext(ctx).
		Model(&model.Operator{}).
		Where("operator_id = ? AND version = ?", operator.OperatorID, oldVersion).
		Updates(map[string]interface{}{
			"first_name":   operator.FirstName,
			"last_name":    operator.LastName,
			"email":        operator.Email,
			"phone":        operator.Phone,
			"fiscal_code":  operator.FiscalCode,
			"gross_salary": operator.GrossSalary,
			"is_active":    operator.IsActive,
			"updated_by":   operator.UpdatedBy,
			"updated_at":   time.Now(),
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	operator.Version = oldVersion + 1
	return nil
}

func (r *operatorRepo) Delete(ctx context.Context, id, callerID string) error {
	return softDelete(ctx, r.db, &model.Operator{}, "operator_id", id, callerID)
}
