package errors

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// kinds maps service outcome kinds to HTTP statuses and codes
var kinds = []struct {
	kind   error
	status int
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, ErrCodeInvalidInput},
	{services.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
	{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{services.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrConflict, http.StatusConflict, ErrCodeConflict},
	{services.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
}

// FromError sends the response matching a service error. Errors of no
// known kind are logged and reported as 500 without their message.
func FromError(c *gin.Context, err error) {
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			RespondWithError(c, k.status, NewAPIError(k.code, err.Error()))
			return
		}
	}
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	InternalError(c, "")
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
