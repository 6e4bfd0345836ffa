package handler

import (
	"staffdesk/internal/notify"
	"staffdesk/internal/service"
)

// Handler aggregate of every HTTP handler
type Handler struct {
	Auth       *AuthHandler
	Client     *ClientHandler
	Event      *EventHandler
	Operator   *OperatorHandler
	Assignment *AssignmentHandler
	Payroll    *PayrollHandler
	Sync       *SyncHandler
	Me         *MeHandler
	Changes    *ChangesHandler
	Health     *HealthHandler
}

// NewHandler builds the handlers over svc. hub feeds the change stream.
func NewHandler(svc *service.Service, hub *notify.Hub, checks map[string]Pinger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Client:     NewClientHandler(svc.Client),
		Event:      NewEventHandler(svc.Event, svc.Assignment),
		Operator:   NewOperatorHandler(svc.Operator, svc.Attendance),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Payroll:    NewPayrollHandler(svc.Payroll),
		Sync:       NewSyncHandler(svc.Sync),
		Me:         NewMeHandler(svc.Operator, svc.Attendance, svc.Calendar),
		Changes:    NewChangesHandler(hub),
		Health:     NewHealthHandler(checks),
	}
}
