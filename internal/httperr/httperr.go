// Package httperr maps service errors onto HTTP responses.
package httperr

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/policy"
)

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, policy.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, policy.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, policy.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, policy.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, policy.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Write aborts the request with {"error", "code"}. Internal errors are logged
// and replaced by a generic message.
func Write(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal server error"
	}

	body := gin.H{"error": msg, "code": policy.Code(err)}
	var verr *policy.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
		body["error"] = verr.Message
	}
	c.AbortWithStatusJSON(status, body)
}

// BadRequest reports a request body or query that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, policy.Invalid(name, "Invalid "+name)
	}
	return uint(id), nil
}
