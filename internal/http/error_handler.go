package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "task-service/pkg/errors"
	"task-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	jsonKeyError     = "error"
	jsonKeyCode      = "code"
	jsonKeyRequestID = "request_id"
	unknownRequestID = "unknown"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, sanitizes internal errors,
// and logs errors with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errCode := apperrors.CodeInternalServer
	message := "Internal server error"

	// Check for Echo HTTP errors first
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		errCode = http.StatusText(code)
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		// Escalation wraps ErrForbidden as well, so it is matched first.
		switch {
		case errors.Is(err, apperrors.ErrEscalationForbidden):
			code = http.StatusForbidden
			errCode = apperrors.CodeEscalationForbidden
			message = "Role escalation forbidden"
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			errCode = apperrors.CodeNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = http.StatusUnauthorized
			errCode = apperrors.CodeUnauthorized
			message = "Unauthorized"
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			errCode = apperrors.CodeInvalidCredentials
			message = "Invalid credentials"
		case errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			errCode = apperrors.CodeForbidden
			message = "Forbidden"
		case errors.Is(err, apperrors.ErrUnknownRole):
			code = http.StatusBadRequest
			errCode = apperrors.CodeUnknownRole
			message = "Unknown role"
		case errors.Is(err, apperrors.ErrBadRequest):
			code = http.StatusBadRequest
			errCode = apperrors.CodeBadRequest
			message = "Bad request"
		case errors.Is(err, apperrors.ErrValidation):
			code = http.StatusBadRequest
			errCode = apperrors.CodeValidation
			message = "Validation error"
		case errors.Is(err, apperrors.ErrConflict):
			code = http.StatusConflict
			errCode = apperrors.CodeConflict
			message = "Resource already exists"
		}

		// Check for custom AppError type
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && code < http.StatusInternalServerError {
			message = appErr.Message
			errCode = appErr.Code
		}
	}

	// Log error with request context
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = unknownRequestID
	}

	// Log with appropriate level
	if code >= http.StatusInternalServerError {
		c.Logger().Error("internal_server_error",
			"request_id", requestID,
			"status", code,
			"error", logger.SanitizeLogMessage(err.Error()))
		// Don't expose internal errors to clients
		message = "Internal server error"
		errCode = apperrors.CodeInternalServer
	} else {
		c.Logger().Warn("client_error",
			"request_id", requestID,
			"status", code,
			"error", logger.SanitizeLogMessage(err.Error()))
	}

	// Send JSON error response
	if err := c.JSON(code, map[string]any{
		jsonKeyError:     message,
		jsonKeyCode:      errCode,
		jsonKeyRequestID: requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}
