package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	apperrors "github.com/ikkim/customer-records-backend/internal/errors"
	"github.com/ikkim/customer-records-backend/internal/middleware"
)

// respondServiceError writes the HTTP form of an error returned by a service.
// action names the failed operation for logs and generic messages.
func respondServiceError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		apperrors.RespondWithValidationError(c, "Invalid input", vErr.Fields)
	case errors.Is(err, service.ErrCustomerNotFound):
		apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
	case errors.Is(err, service.ErrPhoneNumberExists):
		apperrors.Conflict(c, apperrors.CustomerPhoneExists, "Phone number already exists")
	default:
		log.Error("Failed to "+action, err)
		apperrors.ParseAndRespond(c, err, action)
	}
}

// parseIDParam reads a positive integer path parameter, answering 400 when it is not one
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			"param": name,
			"value": c.Param(name),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return false
	}
	return true
}
