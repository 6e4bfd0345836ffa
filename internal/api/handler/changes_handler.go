package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/model"
	"staffdesk/internal/notify"
)

const keepAliveInterval = 25 * time.Second

// ChangesHandler streams entity changes as Server-Sent Events
type ChangesHandler struct {
	hub *notify.Hub
}

// NewChangesHandler creates a ChangesHandler
func NewChangesHandler(hub *notify.Hub) *ChangesHandler {
	return &ChangesHandler{hub: hub}
}

// Stream admins receive every change, operators only the ones about them.
// GET /api/v1/changes
func (h *ChangesHandler) Stream(c *gin.Context) {
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	operatorID := GetOperatorID(c)

	changes, cancel := h.hub.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ch, open := <-changes:
			if !open {
				return false
			}
			if visible(ch, role, operatorID) {
				c.SSEvent(ch.Collection, ch)
			}
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

func visible(ch notify.Change, role, operatorID string) bool {
	if role == model.RoleAdmin {
		return true
	}
	return operatorID != "" && ch.OperatorID == operatorID
}
