// Package errors provides custom error types for the Moneta API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Account & currency errors.
var (
	ErrAccountNotFound  = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrCurrencyNotFound = &AppError{Code: "CURRENCY_NOT_FOUND", Message: "Currency not found", StatusCode: http.StatusNotFound}
)

// Movement errors.
var (
	ErrMovementNotFound     = &AppError{Code: "MOVEMENT_NOT_FOUND", Message: "Movement not found", StatusCode: http.StatusNotFound}
	ErrInvalidMovementType  = &AppError{Code: "INVALID_MOVEMENT_TYPE", Message: "Unsupported movement type", StatusCode: http.StatusBadRequest}
	ErrConversionIncomplete = &AppError{Code: "CONVERSION_INCOMPLETE", Message: "Conversion movements require a source currency and changed amount", StatusCode: http.StatusBadRequest}
)

// Price errors.
var (
	ErrPriceNotFound = &AppError{Code: "PRICE_NOT_FOUND", Message: "No market price found on or before the requested date", StatusCode: http.StatusNotFound}
)

// Snapshot errors. Mismatch and chronology violations indicate caller bugs
// and are never silently corrected.
var (
	ErrSnapshotNotFound       = &AppError{Code: "SNAPSHOT_NOT_FOUND", Message: "Snapshot not found", StatusCode: http.StatusNotFound}
	ErrSnapshotMismatch       = &AppError{Code: "SNAPSHOT_MISMATCH", Message: "Snapshot does not match the expected account, currency, or date", StatusCode: http.StatusInternalServerError}
	ErrSnapshotChronology     = &AppError{Code: "SNAPSHOT_CHRONOLOGY", Message: "Previous snapshot is not dated before the target date", StatusCode: http.StatusInternalServerError}
	ErrCascadeAccountMismatch = &AppError{Code: "CASCADE_ACCOUNT_MISMATCH", Message: "Cascade received snapshots belonging to a different account", StatusCode: http.StatusInternalServerError}
)
