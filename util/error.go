package util

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HandleError logs the detailed error and returns a generic message to the
// client.
func HandleError(c *gin.Context, statusCode int, userMessage string, detailedError error) {
	if detailedError != nil {
		log.WithError(detailedError).Error(userMessage)
	}
	c.JSON(statusCode, ErrorResponse{Error: userMessage})
}

// HandleFieldError reports a validation failure attributable to one field.
func HandleFieldError(c *gin.Context, statusCode int, userMessage, field string) {
	c.JSON(statusCode, ErrorResponse{Error: userMessage, Field: field})
}

// Common user-facing error messages.
const (
	ErrInvalidRequest     = "Invalid request"
	ErrUnauthorized       = "Access denied"
	ErrNotFound           = "Not found"
	ErrDatabaseOperation  = "System error, please try again"
	ErrInternalServer     = "System error, please try again later"
	ErrInvalidCredentials = "Invalid credentials"
)
