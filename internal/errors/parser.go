package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a status/code/message triple safe to show to callers.
// Status always agrees with Code.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// IsUniqueViolation reports whether err came from a unique index.
// gorm translates it when TranslateError is on; the message checks cover
// drivers or wrappers that skip the translation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation reports whether err came from a foreign key check
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// ParseError turns a store error into an ErrorInfo without leaking driver
// details. context names the failed action, e.g. "create customer".
func ParseError(err error, context string) ErrorInfo {
	switch {
	case err == nil:
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal Server Error"}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	case IsUniqueViolation(err):
		if strings.Contains(strings.ToLower(err.Error()), "phone") || strings.Contains(context, "customer") {
			return ErrorInfo{Status: http.StatusConflict, Code: CustomerPhoneExists, Message: "Phone number already exists"}
		}
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Record already exists"}
	case IsForeignKeyViolation(err):
		return ErrorInfo{Status: http.StatusNotFound, Code: CustomerNotFound, Message: "Customer not found"}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "database is locked") {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalDatabaseError, Message: "Database unavailable, try again later"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal Server Error"}
}

func notFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "address"):
		return "Address not found"
	case strings.Contains(context, "customer"):
		return "Customer not found"
	default:
		return "Requested record not found"
	}
}

// ParseAndRespond parses err and writes it with the status matching its code
func ParseAndRespond(c interface{ AbortWithStatusJSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.AbortWithStatusJSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
