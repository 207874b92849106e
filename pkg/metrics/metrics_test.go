package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsOutcomes(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/denied", func(c echo.Context) error { return echo.NewHTTPError(http.StatusForbidden) })
	e.GET("/anon", func(c echo.Context) error { return echo.NewHTTPError(http.StatusUnauthorized) })

	for _, path := range []string{"/ok", "/ok", "/denied", "/anon"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	s := m.Snapshot()
	assert.Equal(t, int64(4), s.TotalRequests)
	assert.Equal(t, int64(0), s.ActiveRequests)
	assert.Equal(t, int64(1), s.Forbidden)
	assert.Equal(t, int64(1), s.Unauthorized)
	assert.Equal(t, int64(2), s.EndpointCounts["GET /ok"])
	assert.Equal(t, int64(2), s.StatusCodes[http.StatusOK])
	assert.Equal(t, int64(1), s.StatusCodes[http.StatusForbidden])
}

func TestHandler(t *testing.T) {
	m := New()
	e := echo.New()
	rec := httptest.NewRecorder()

	require.NoError(t, m.Handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_requests":0`)
}
