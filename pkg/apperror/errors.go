package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error so callers can branch on the failure
// mode instead of parsing messages.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindInsufficientStock   Kind = "insufficient_stock"
	KindInsufficientPayment Kind = "insufficient_payment"
	KindConcurrencyConflict Kind = "concurrency_conflict"
	KindInvalidState        Kind = "invalid_state"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindInternal            Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid username or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a validation error with per-field details
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewBadRequestError creates a user-correctable validation error
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindValidation, message)
}

// NewConflictError reports a uniqueness violation
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, KindInvalidState, message)
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, resource+" not found")
}

// NewInsufficientStockError creates a business-rule rejection for a stock
// shortfall detected while the cart is being built
func NewInsufficientStockError(message string) *AppError {
	return NewAppError(http.StatusConflict, KindInsufficientStock, message)
}

// NewInsufficientPaymentError creates a business-rule rejection for a payment
// set that does not cover the grand total
func NewInsufficientPaymentError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindInsufficientPayment, message)
}

// NewConcurrencyConflictError reports that shared state changed between
// validation and commit; the operation was fully rolled back
func NewConcurrencyConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, KindConcurrencyConflict, message)
}

// NewInvalidStateError reports an operation attempted against a record whose
// lifecycle state does not permit it
func NewInvalidStateError(message string) *AppError {
	return NewAppError(http.StatusConflict, KindInvalidState, message)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
