// Package errors defines the application error type shared by every layer
// and its mapping onto HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// AppError carries a machine-readable code, a client-safe message and the
// status it should be reported with.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

// NotFound reports a missing resource by kind and identifier.
func NotFound(resource, id string) *AppError {
	return newAppError(http.StatusNotFound, "NOT_FOUND",
		fmt.Sprintf("%s with id %s not found", resource, id), ErrNotFound)
}

// Conflict reports a write rejected by a uniqueness rule.
func Conflict(message string) *AppError {
	return newAppError(http.StatusConflict, "CONFLICT", message, ErrConflict)
}

// InvalidInput reports a request the caller must fix.
func InvalidInput(message string) *AppError {
	return newAppError(http.StatusBadRequest, "INVALID_INPUT", message, ErrInvalidInput)
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *AppError {
	return newAppError(http.StatusUnauthorized, "UNAUTHORIZED", message, ErrUnauthorized)
}

// Forbidden reports an authenticated caller acting outside their rights.
func Forbidden(message string) *AppError {
	return newAppError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return newAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred", err)
}

// HTTPStatus returns the status code err should be reported with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
