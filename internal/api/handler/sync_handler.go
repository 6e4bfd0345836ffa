package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/service"
	"staffdesk/pkg/response"
)

// SyncHandler outbox replication status
type SyncHandler struct {
	syncSvc service.SyncService
}

// NewSyncHandler creates a SyncHandler
func NewSyncHandler(syncSvc service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// Status
// GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	result, err := h.syncSvc.Status(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Retry requeues failed entries
// POST /api/v1/sync/retry
func (h *SyncHandler) Retry(c *gin.Context) {
	result, err := h.syncSvc.Retry(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrMirrorDisabled) {
			response.Conflict(c, 18001, "remote mirror is disabled")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
