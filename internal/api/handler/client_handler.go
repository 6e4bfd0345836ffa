package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/service"
	pkgerrors "staffdesk/pkg/errors"
	"staffdesk/pkg/response"
)

// ClientHandler client endpoints
type ClientHandler struct {
	clientSvc service.ClientService
}

// NewClientHandler creates a ClientHandler
func NewClientHandler(clientSvc service.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// ListClients
// GET /api/v1/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	var req dto.ClientListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.clientSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetClient
// GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// CreateClient
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client, err := h.clientSvc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.Created(c, client)
}

// UpdateClient
// PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client, err := h.clientSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// DeleteClient
// DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientSvc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ClientHandler) handleClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 12001, "client not found")
	case errors.Is(err, service.ErrClientHasEvents):
		response.Conflict(c, 12002, "client still has events")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record was modified concurrently, reload and retry")
	default:
		response.InternalError(c)
	}
}
