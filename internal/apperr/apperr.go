package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInternal     = "internal"
	CodeNotFound     = "not_found"
	CodeBadRequest   = "bad_request"
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeUnavailable  = "backend_unavailable"
	CodeConflict     = "conflict"
)

// Error represents a structured application error.
type Error struct {
	Code    string
	Status  int
	Message string
	Cause   error
}

// New creates a new Error.
func New(code string, status int, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap returns the root cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts an *Error if present.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return New(CodeInternal, http.StatusInternalServerError, message, cause)
}

// NotFound marks a missing target.
func NotFound(message string, cause error) *Error {
	return New(CodeNotFound, http.StatusNotFound, message, cause)
}

// BadRequest marks a malformed request.
func BadRequest(message string, cause error) *Error {
	return New(CodeBadRequest, http.StatusBadRequest, message, cause)
}

// Validation marks a missing or invalid required field.
func Validation(message string, cause error) *Error {
	return New(CodeValidation, http.StatusBadRequest, message, cause)
}

// Unauthorized marks a missing, invalid, or expired credential.
func Unauthorized(message string, cause error) *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, message, cause)
}

// Forbidden marks a valid identity with insufficient privilege.
func Forbidden(message string, cause error) *Error {
	return New(CodeForbidden, http.StatusForbidden, message, cause)
}

// Unavailable marks an unreachable or unconfigured backing service.
func Unavailable(message string, cause error) *Error {
	return New(CodeUnavailable, http.StatusInternalServerError, message, cause)
}

// Conflict marks a write that would clobber existing state.
func Conflict(message string, cause error) *Error {
	return New(CodeConflict, http.StatusConflict, message, cause)
}

// IsNotFound reports whether err carries the not-found code.
func IsNotFound(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == CodeNotFound
}

// IsUnavailable reports whether err carries the backend-unavailable code.
func IsUnavailable(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == CodeUnavailable
}
