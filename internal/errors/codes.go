package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. The UI maps these to its own messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed body or field
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // path id is not a positive integer
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // phone / pin code shape
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Customer (CUSTOMER_) ====================
	CustomerNotFound    = "CUSTOMER_NOT_FOUND"
	CustomerPhoneExists = "CUSTOMER_PHONE_EXISTS"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Rate limit (RATE_) ====================
	RateLimited = "RATE_LIMITED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExportError   = "INTERNAL_EXPORT_ERROR"
)
