package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrConflict            = errors.New("resource already exists")
	ErrInternalServer      = errors.New("internal server error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrValidation          = errors.New("validation error")
	ErrUnknownRole         = errors.New("unknown role")
	ErrEscalationForbidden = errors.New("role escalation forbidden")
)

// Error codes surfaced to clients
const (
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeBadRequest          = "BAD_REQUEST"
	CodeConflict            = "CONFLICT"
	CodeInternalServer      = "INTERNAL_SERVER_ERROR"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnknownRole         = "UNKNOWN_ROLE"
	CodeEscalationForbidden = "ESCALATION_FORBIDDEN"
)

// Custom error type with context
type AppError struct {
	Code    string
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

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: msg, Err: ErrBadRequest}
}

func Validation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Err: ErrValidation}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: CodeInternalServer, Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: "invalid username or password", Err: ErrInvalidCredentials}
}

// UnknownRole reports a requested role name that matches no configured role.
func UnknownRole(msg string) *AppError {
	return &AppError{Code: CodeUnknownRole, Message: msg, Err: ErrUnknownRole}
}

// EscalationForbidden is an authorization failure distinct from Forbidden:
// the caller may use the operation, but not to produce the requested role.
func EscalationForbidden(msg string) *AppError {
	return &AppError{Code: CodeEscalationForbidden, Message: msg, Err: fmt.Errorf("%w: %w", ErrEscalationForbidden, ErrForbidden)}
}

// CodeOf returns the AppError code carried by err, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
