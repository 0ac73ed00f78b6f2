package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode is a stable, machine readable error identifier.
type ErrorCode string

const (
	ErrorCodeInvalidQuery   ErrorCode = "INVALID_QUERY"
	ErrorCodeInvalidJSON    ErrorCode = "INVALID_JSON"
	ErrorCodeRateLimited    ErrorCode = "RATE_LIMITED"
	ErrorCodeCatalogMissing ErrorCode = "CATALOG_MISSING"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// SendError aborts the request with a structured error body.
func SendError(c *gin.Context, status int, code ErrorCode, message string) {
	body := &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			body.RequestID = s
		}
	}
	c.AbortWithStatusJSON(status, body)
}
