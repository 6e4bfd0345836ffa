package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/pkg/response"
)

// Context keys set by middleware.JWTAuth
const (
	CtxUserID     = "user_id"
	CtxRole       = "role"
	CtxOperatorID = "operator_id"
	CtxClaims     = "claims"
)

// MustGetUserID reads user_id from the gin context. When the JWT middleware
// did not set it a 401 is written and ok is false; callers return right away.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetRole reads role from the gin context
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxRole)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// GetOperatorID operator linked to the caller; empty for admin accounts
func GetOperatorID(c *gin.Context) string {
	return c.GetString(CtxOperatorID)
}

// callerID user_id or empty
func callerID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// bindError answers a failed ShouldBind: 413 when the body went over the
// BodyLimit, 400 with the validator message otherwise
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "validation failed", err.Error())
}
