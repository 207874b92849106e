package http

import (
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	apperrors "task-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"unauthorized", apperrors.Unauthorized("authentication required"), stdhttp.StatusUnauthorized, apperrors.CodeUnauthorized, "authentication required"},
		{"forbidden", apperrors.Forbidden("insufficient role"), stdhttp.StatusForbidden, apperrors.CodeForbidden, "insufficient role"},
		{"escalation", apperrors.EscalationForbidden("Cannot promote users to SUPER_ADMIN role"), stdhttp.StatusForbidden, apperrors.CodeEscalationForbidden, "Cannot promote users to SUPER_ADMIN role"},
		{"unknown role", apperrors.UnknownRole("Invalid role: WIZARD"), stdhttp.StatusBadRequest, apperrors.CodeUnknownRole, "Invalid role: WIZARD"},
		{"not found", apperrors.NotFound("User not found with ID: 7"), stdhttp.StatusNotFound, apperrors.CodeNotFound, "User not found with ID: 7"},
		{"conflict", apperrors.Conflict("Username is already taken"), stdhttp.StatusConflict, apperrors.CodeConflict, "Username is already taken"},
		{"credentials", apperrors.InvalidCredentials(), stdhttp.StatusUnauthorized, apperrors.CodeInvalidCredentials, "invalid username or password"},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", apperrors.ErrNotFound), stdhttp.StatusNotFound, apperrors.CodeNotFound, "Resource not found"},
		{"echo error", echo.NewHTTPError(stdhttp.StatusUnsupportedMediaType, "Content-Type must be application/json"), stdhttp.StatusUnsupportedMediaType, "Unsupported Media Type", "Content-Type must be application/json"},
		{"internal detail hidden", apperrors.InternalServer("failed to change role", errors.New("pq: password=hunter2")), stdhttp.StatusInternalServerError, apperrors.CodeInternalServer, "Internal server error"},
		{"plain error", errors.New("boom"), stdhttp.StatusInternalServerError, apperrors.CodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			rec.Header().Set(echo.HeaderXRequestID, "req-9")
			c := e.NewContext(req, rec)

			CustomHTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, "req-9", body["request_id"])
			assert.NotContains(t, rec.Body.String(), "hunter2")
		})
	}
}

func TestCustomHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/", nil), rec)
	require.NoError(t, c.NoContent(stdhttp.StatusNoContent))

	CustomHTTPErrorHandler(errors.New("late"), c)

	assert.Equal(t, stdhttp.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
