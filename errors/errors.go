// Package errors provides the typed error kinds raised by the locator.
// Framework errors (missing registrations, wrong params, invalid factories,
// session problems) are *AppError values carrying a machine-readable code;
// factory errors pass through untouched.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified framework error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is matching. Two AppErrors match when their codes match.
var (
	ErrServiceNotFound    = &AppError{Code: ErrCodeServiceNotFound}
	ErrWrongParams        = &AppError{Code: ErrCodeWrongParams}
	ErrInvalidFactory     = &AppError{Code: ErrCodeInvalidFactory}
	ErrNoSessionAvailable = &AppError{Code: ErrCodeNoSessionAvailable}
	ErrWrongSession       = &AppError{Code: ErrCodeWrongSession}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any *AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if stderrors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Framework error constructors ---

// ServiceNotFound reports a lookup for a type (and optional name) nobody registered.
func ServiceNotFound(service, name string) *AppError {
	details := map[string]any{"service": service}
	msg := fmt.Sprintf("no provider registered for %s", service)
	if name != "" {
		details["name"] = name
		msg = fmt.Sprintf("no provider registered for %s named %q", service, name)
	}
	return &AppError{
		Code: ErrCodeServiceNotFound, Message: msg,
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// WrongParams reports params of the wrong runtime type passed to a parameterized provider.
func WrongParams(expected, got string) *AppError {
	return &AppError{
		Code: ErrCodeWrongParams, Message: fmt.Sprintf("params must be %s, got %s", expected, got),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"expected": expected, "got": got},
	}
}

// InvalidFactory reports a factory or boxed provider that cannot serve the requested type.
func InvalidFactory(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFactory, Message: reason,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NoSessionAvailable reports a session-scoped lookup made before any session was set.
func NoSessionAvailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeNoSessionAvailable, Message: fmt.Sprintf("no session available for %s", service),
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"service": service},
	}
}

// WrongSession reports a session that cannot be used as a cache slot.
func WrongSession(reason string) *AppError {
	return &AppError{
		Code: ErrCodeWrongSession, Message: reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

// --- Generic constructors ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
