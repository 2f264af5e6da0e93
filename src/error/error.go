package errors

const (
	// Request Errors
	ErrInvalidRequest   = "Invalid request body"
	ErrInvalidID        = "Invalid identifier in path"
	ErrInvalidQuery     = "Invalid query parameters"
	ErrNoFieldsToUpdate = "No fields to update"

	// Authentication & User Errors
	ErrUserNotFound       = "User not found"
	ErrEmailTaken         = "A user with this email already exists"
	ErrInvalidCredentials = "Incorrect email or password"
	ErrTokenFailure       = "Failed to generate JWT token"
	ErrTokenInvalid       = "Invalid or expired JWT token"

	// Authorization header Errors
	ErrAuthorizationHeader  = "Authorization header missing"
	ErrAuthorizationInvalid = "Invalid Authorization header format"

	// Password reset Errors
	ErrInvalidOTP         = "Invalid or expired one-time code"
	ErrTooManyOTPAttempts = "Too many attempts; request a new code"

	// Resource Errors
	ErrChatNotFound   = "Chat not found"
	ErrReportNotFound = "Report not found"
	ErrClinicNotFound = "Clinic not found"

	// Database Errors
	ErrDatabaseUnavailable = "Database is currently unavailable"
	ErrDatabaseQuery       = "Database query failed"

	// Server/Internal Errors
	ErrInternalServer = "Internal server error"
)

// Generic replies that must not reveal whether an account exists
const (
	MsgResetCodeSent = "If the email is registered, a one-time code has been sent."
)
