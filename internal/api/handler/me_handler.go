package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/service"
	"staffdesk/pkg/response"
)

const contentTypeICS = "text/calendar; charset=utf-8"

// MeHandler operator self-service. Every route acts on the operator linked
// to the caller's account.
type MeHandler struct {
	operatorSvc   service.OperatorService
	attendanceSvc service.AttendanceService
	calendarSvc   service.CalendarService
}

// NewMeHandler creates a MeHandler
func NewMeHandler(operatorSvc service.OperatorService, attendanceSvc service.AttendanceService, calendarSvc service.CalendarService) *MeHandler {
	return &MeHandler{operatorSvc: operatorSvc, attendanceSvc: attendanceSvc, calendarSvc: calendarSvc}
}

// Shifts
// GET /api/v1/me/shifts
func (h *MeHandler) Shifts(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.operatorSvc.Shifts(c.Request.Context(), GetOperatorID(c), &q)
	if err != nil {
		h.handleMeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ShiftsICS shifts as an iCalendar feed
// GET /api/v1/me/shifts.ics
func (h *MeHandler) ShiftsICS(c *gin.Context) {
	buf, err := h.calendarSvc.Shifts(c.Request.Context(), GetOperatorID(c))
	if err != nil {
		h.handleMeError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=shifts.ics")
	c.Data(http.StatusOK, contentTypeICS, buf)
}

// Payments
// GET /api/v1/me/payments
func (h *MeHandler) Payments(c *gin.Context) {
	list, err := h.operatorSvc.Payments(c.Request.Context(), GetOperatorID(c))
	if err != nil {
		h.handleMeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AttendanceStatus next action and today's state for an event
// GET /api/v1/me/attendance?event_id=
func (h *MeHandler) AttendanceStatus(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		response.BadRequest(c, 10001, "event_id is required")
		return
	}

	result, err := h.attendanceSvc.Status(c.Request.Context(), GetOperatorID(c), eventID)
	if err != nil {
		h.handleMeError(c, err)
		return
	}

	response.OK(c, result)
}

// Check records a check-in or check-out, whichever is due
// POST /api/v1/me/attendance
func (h *MeHandler) Check(c *gin.Context) {
	var req dto.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.attendanceSvc.Check(c.Request.Context(), GetOperatorID(c), &req)
	if err != nil {
		h.handleMeError(c, err)
		return
	}

	response.Created(c, result)
}

// AttendanceRecords own punches
// GET /api/v1/me/attendance/records
func (h *MeHandler) AttendanceRecords(c *gin.Context) {
	var q dto.AttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.attendanceSvc.List(c.Request.Context(), GetOperatorID(c), &q)
	if err != nil {
		h.handleMeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

func (h *MeHandler) handleMeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOperatorNotLinked):
		response.Forbidden(c, 17001, "account is not linked to an operator")
	case errors.Is(err, service.ErrNotAssigned):
		response.Forbidden(c, 17002, "operator is not assigned to this event")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 17003, "event not found")
	case errors.Is(err, service.ErrEventCancelled):
		response.Conflict(c, 17004, "event is cancelled")
	case errors.Is(err, service.ErrLocationUnavailable):
		response.Unprocessable(c, 17005, "location unavailable")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 17006, "invalid date range")
	default:
		response.InternalError(c)
	}
}
