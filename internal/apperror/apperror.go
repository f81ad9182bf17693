// Package apperror defines the application's domain errors.
//
// Services and repositories return these errors; the HTTP layer maps them to
// status codes and error codes (see handler.writeError). Nothing in here knows
// about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Machine-readable codes sent to clients in the error body.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUserExists         = "USER_EXISTS"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNoToken            = "NO_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInternal           = "INTERNAL_ERROR"
)

type AppError struct {
	Err     error  // sentinel error, used with errors.Is
	Code    string // client-facing code, e.g. "NOT_FOUND"
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation. code overrides the generic
// CONFLICT code when the caller has a more specific one (USER_EXISTS).
func Conflict(code, message string) *AppError {
	if code == "" {
		code = CodeConflict
	}
	return &AppError{
		Err:     ErrConflict,
		Code:    code,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Code:    CodeForbidden,
		Message: message,
	}
}

// Unauthorized covers every 401 case: missing or bad tokens and rejected
// credentials. code distinguishes them for the client.
func Unauthorized(code, message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    code,
		Message: message,
	}
}
