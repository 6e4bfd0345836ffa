package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/service"
	pkgerrors "staffdesk/pkg/errors"
	"staffdesk/pkg/response"
)

// OperatorHandler operator registry, as seen by admins
type OperatorHandler struct {
	operatorSvc   service.OperatorService
	attendanceSvc service.AttendanceService
}

// NewOperatorHandler creates an OperatorHandler
func NewOperatorHandler(operatorSvc service.OperatorService, attendanceSvc service.AttendanceService) *OperatorHandler {
	return &OperatorHandler{operatorSvc: operatorSvc, attendanceSvc: attendanceSvc}
}

// ListOperators
// GET /api/v1/operators
func (h *OperatorHandler) ListOperators(c *gin.Context) {
	var req dto.OperatorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.operatorSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetOperator
// GET /api/v1/operators/:id
func (h *OperatorHandler) GetOperator(c *gin.Context) {
	op, err := h.operatorSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.OK(c, op)
}

// CreateOperator
// POST /api/v1/operators
func (h *OperatorHandler) CreateOperator(c *gin.Context) {
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	op, err := h.operatorSvc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.Created(c, op)
}

// UpdateOperator
// PUT /api/v1/operators/:id
func (h *OperatorHandler) UpdateOperator(c *gin.Context) {
	var req dto.UpdateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	op, err := h.operatorSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.OK(c, op)
}

// DeleteOperator
// DELETE /api/v1/operators/:id
func (h *OperatorHandler) DeleteOperator(c *gin.Context) {
	if err := h.operatorSvc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListPayments payment history
// GET /api/v1/operators/:id/payments
func (h *OperatorHandler) ListPayments(c *gin.Context) {
	list, err := h.operatorSvc.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListShifts assigned events
// GET /api/v1/operators/:id/shifts
func (h *OperatorHandler) ListShifts(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.operatorSvc.Shifts(c.Request.Context(), c.Param("id"), &q)
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListAttendance attendance records
// GET /api/v1/operators/:id/attendance
func (h *OperatorHandler) ListAttendance(c *gin.Context) {
	var q dto.AttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.attendanceSvc.List(c.Request.Context(), c.Param("id"), &q)
	if err != nil {
		h.handleOperatorError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

func (h *OperatorHandler) handleOperatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOperatorNotFound):
		response.NotFound(c, 14001, "operator not found")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 14002, "invalid date range")
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 14003, "amounts must not be negative")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record was modified concurrently, reload and retry")
	default:
		response.InternalError(c)
	}
}
