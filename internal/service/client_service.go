package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffdesk/internal/dto"
	"staffdesk/internal/model"
	"staffdesk/internal/notify"
	"staffdesk/internal/repository"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrClientHasEvents = errors.New("client still has events")
)

// ClientService clients
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest, callerID string) (*dto.ClientResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClientResponse, error)
	List(ctx context.Context, req *dto.ClientListRequest) ([]dto.ClientResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateClientRequest, callerID string) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type clientService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewClientService creates a ClientService
func NewClientService(repo *repository.Repository, notifier notify.Notifier, logger *zap.Logger) ClientService {
	return &clientService{repo: repo, notifier: notifier, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest, callerID string) (*dto.ClientResponse, error) {
	client := &model.Client{
		Name:      req.Name,
		VATNumber: req.VATNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		IsActive:  true,
	}
	client.CreatedBy = callerPtr(callerID)
	client.UpdatedBy = callerPtr(callerID)
	client.Version = 1

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Client.Create(ctx, client); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionClients, client.ClientID, int64(client.Version), client)
	})
	if err != nil {
		s.logger.Error("create client failed", zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionClients, client.ClientID, notify.ActionCreated, client.Version, ""))
	return toClientResponse(client, 0), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *clientService) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Client.CountEvents(ctx, []string{id})
	if err != nil {
		s.logger.Error("count client events failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toClientResponse(client, counts[id]), nil
}

// ────────────────────── List ──────────────────────

func (s *clientService) List(ctx context.Context, req *dto.ClientListRequest) ([]dto.ClientResponse, int64, error) {
	clients, total, err := s.repo.Client.List(ctx,
		repository.ClientFilter{Keyword: req.Keyword, ActiveOnly: req.ActiveOnly},
		repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	)
	if err != nil {
		s.logger.Error("list clients failed", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ClientID)
	}
	counts, err := s.repo.Client.CountEvents(ctx, ids)
	if err != nil {
		s.logger.Error("count client events failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		result = append(result, *toClientResponse(&clients[i], counts[clients[i].ClientID]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *clientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest, callerID string) (*dto.ClientResponse, error) {
	client, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.VATNumber != nil {
		client.VATNumber = *req.VATNumber
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	client.UpdatedBy = callerPtr(callerID)
	client.Version = req.Version

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Client.Update(ctx, client); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionClients, client.ClientID, int64(client.Version), client)
	})
	if err != nil {
		s.logger.Warn("update client failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notifier.Notify(ctx, change(model.CollectionClients, id, notify.ActionUpdated, client.Version, ""))
	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *clientService) Delete(ctx context.Context, id, callerID string) error {
	client, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	counts, err := s.repo.Client.CountEvents(ctx, []string{id})
	if err != nil {
		return err
	}
	if counts[id] > 0 {
		return ErrClientHasEvents
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Client.Delete(ctx, id, callerID); err != nil {
			return err
		}
		return tx.Outbox.Enqueue(ctx, model.CollectionClients, id, int64(client.Version+1), map[string]interface{}{
			"client_id": id,
			"deleted":   true,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		s.logger.Error("delete client failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.Notify(ctx, change(model.CollectionClients, id, notify.ActionDeleted, client.Version+1, ""))
	return nil
}

// ── helpers ──

func (s *clientService) get(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.repo.Client.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("query client failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return client, nil
}

func toClientResponse(c *model.Client, events int64) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ClientID,
		Name:        c.Name,
		VATNumber:   c.VATNumber,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		IsActive:    c.IsActive,
		EventsCount: events,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
