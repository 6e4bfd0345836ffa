package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/dto"
	"staffdesk/internal/service"
	pkgerrors "staffdesk/pkg/errors"
	"staffdesk/pkg/response"
)

// EventHandler events and their assignments
type EventHandler struct {
	eventSvc      service.EventService
	assignmentSvc service.AssignmentService
}

// NewEventHandler creates an EventHandler
func NewEventHandler(eventSvc service.EventService, assignmentSvc service.AssignmentService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, assignmentSvc: assignmentSvc}
}

// ListEvents
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetEvent
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// CloseEvent marks the event completed and records payments
// POST /api/v1/events/:id/close
func (h *EventHandler) CloseEvent(c *gin.Context) {
	result, err := h.eventSvc.Close(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAssignments staff of an event with their payroll records
// GET /api/v1/events/:id/assignments
func (h *EventHandler) ListAssignments(c *gin.Context) {
	list, err := h.assignmentSvc.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateAssignment assigns an operator
// POST /api/v1/events/:id/assignments
func (h *EventHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	a, err := h.assignmentSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, a)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "event not found")
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 13002, "client not found")
	case errors.Is(err, service.ErrOperatorNotFound):
		response.NotFound(c, 13003, "operator not found")
	case errors.Is(err, service.ErrEventDateInvalid):
		response.BadRequest(c, 13004, "event end must be after its start")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 13005, "invalid date range")
	case errors.Is(err, service.ErrEventCancelled):
		response.Conflict(c, 13006, "event is cancelled")
	case errors.Is(err, service.ErrAlreadyAssigned):
		response.Conflict(c, 13007, "operator is already assigned to this event")
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 13008, "amounts must not be negative")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "record was modified concurrently, reload and retry")
	default:
		response.InternalError(c)
	}
}
