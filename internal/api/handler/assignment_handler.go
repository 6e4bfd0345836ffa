package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/service"
	pkgerrors "staffdesk/pkg/errors"
	"staffdesk/pkg/response"
)

// AssignmentHandler payroll adjustments on a single assignment
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler creates an AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// AdjustAssignment stores payroll overrides and returns the recomputed record
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) AdjustAssignment(c *gin.Context) {
	var req dto.AdjustAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.assignmentSvc.Adjust(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// DeleteAssignment unassigns the operator
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	if err := h.assignmentSvc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "assignment not found")
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 15002, "amounts must not be negative")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record was modified concurrently, reload and retry")
	default:
		response.InternalError(c)
	}
}
