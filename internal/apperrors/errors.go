package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors forming the application error taxonomy. Services and
// repositories return these (usually wrapped in an AppError); the handler
// layer is the only place that translates them to HTTP statuses.
var (
	// ErrNotFound indicates that a requested resource could not be found,
	// including the case where it exists under a different tenant.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the caller lacks permission, or the target
	// module is disabled for the tenant.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition indicates a status change not permitted from the
	// entity's current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrConflict indicates a concurrent modification was detected.
	ErrConflict = errors.New("conflicting update")

	// ErrDuplicate indicates an attempt to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrUnavailable indicates a storage or connection failure. This is the
	// only class eligible for caller-side retry.
	ErrUnavailable = errors.New("service unavailable")
)

// AppError carries an HTTP-ish status code, a human-readable message and the
// underlying cause. errors.Is works against the sentinels above through the
// wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a generic AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError classified as ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewForbiddenError creates an AppError classified as ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// NewValidationFailedError creates an AppError classified as ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewInvalidTransitionError creates an AppError classified as ErrInvalidTransition.
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrInvalidTransition}
}

// NewConflictError creates an AppError classified as ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewDuplicateError creates an AppError classified as ErrDuplicate.
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// NewUnavailableError creates an AppError classified as ErrUnavailable while
// preserving the storage-level cause for logging.
func NewUnavailableError(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: message,
		Err:     fmt.Errorf("%w: %v", ErrUnavailable, cause),
	}
}
