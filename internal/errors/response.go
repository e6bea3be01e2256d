package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

// RespondWithError writes an error body with the given status.
// It aborts the chain so later middleware sees the request as handled.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests, slow down"
	}
	RespondWithError(c, http.StatusTooManyRequests, RateLimited, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError lists the offending fields next to the usual code/message pair
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, message string, fields map[string]string) {
	if message == "" {
		message = "Invalid input"
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: message,
		Fields:  fields,
	})
}
