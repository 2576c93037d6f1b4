package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials/session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the capability or location scope
// for the requested operation. Authorization is fail-closed: absence of a
// matching capability always maps here, never to a silent downgrade.
var ErrForbidden = errors.New("forbidden")

// ErrUnavailable indicates a transient storage/infrastructure failure.
// It is propagated to the caller, never retried internally.
var ErrUnavailable = errors.New("storage unavailable")

// ErrLateJustificationRequired is a control-flow signal, not a failure: the
// report is being submitted past its deadline and the caller must resubmit
// with a non-empty justification comment.
var ErrLateJustificationRequired = errors.New("late justification required")

// ErrDeviceLimitReached indicates the user already has the maximum allowed
// number of concurrent sessions.
var ErrDeviceLimitReached = errors.New("device limit reached")

// AppError wraps an underlying error with an HTTP-ish status code and a
// caller-facing message.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
