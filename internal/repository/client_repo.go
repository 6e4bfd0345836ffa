package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffdesk/internal/model"
	pkgerrors "staffdesk/pkg/errors"
)

// ClientFilter list filter
type ClientFilter struct {
	Keyword    string
	ActiveOnly bool
}

// ClientRepository clients data access
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Client, error)
	List(ctx context.Context, filter ClientFilter, page Page) ([]model.Client, int64, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id, callerID string) error
	CountEvents(ctx context.Context, clientIDs []string) (map[string]int64, error)
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).Where("client_id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Client, error) {
	var clients []model.Client
	if len(ids) == 0 {
		return clients, nil
	}
	err := r.db.WithContext(ctx).Where("client_id IN ?", ids).Find(&clients).Error
	return clients, err
}

func (r *clientRepo) List(ctx context.Context, filter ClientFilter, page Page) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Client{})
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("name ILIKE ? OR vat_number ILIKE ?", like, like)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).Order("name ASC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	oldVersion := client.Version
	result := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("client_id = ? AND version = ?", client.ClientID, oldVersion).
		Updates(map[string]interface{}{
			"name":       client.Name,
			"vat_number": client.VATNumber,
			"email":      client.Email,
			"phone":      client.Phone,
			"address":    client.Address,
			"is_active":  client.IsActive,
			"updated_by": client.UpdatedBy,
			"updated_at": time.Now(),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	client.Version = oldVersion + 1
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, id, callerID string) error {
	return softDelete(ctx, r.db, &model.Client{}, "client_id", id, callerID)
}

func (r *clientRepo) CountEvents(ctx context.Context, clientIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(clientIDs))
	if len(clientIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ClientID string
		N        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Select("client_id, COUNT(*) AS n").
		Where("client_id IN ?", clientIDs).
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ClientID] = row.N
	}
	return out, nil
}

// softDelete stamps deleted_at/deleted_by; RowsAffected 0 maps to not found.
func softDelete(ctx context.Context, db *gorm.DB, m interface{}, pk, id, callerID string) error {
	updates := map[string]interface{}{"deleted_at": time.Now()}
	if callerID != "" {
		updates["deleted_by"] = callerID
	}
	result := db.WithContext(ctx).
		Model(m).
		Where(pk+" = ? AND deleted_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
