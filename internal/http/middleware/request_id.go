package middleware

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// RequestIDContextKey is the context key for request ID
const RequestIDContextKey = "request_id"

// Client supplied ids are echoed back only when they are short and plain.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID assigns every request an id, reusing a well-formed incoming
// X-Request-ID, and exposes it in the response header and the context.
func RequestID() echo.MiddlewareFunc {
	assign := echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(RequestIDContextKey, id)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withID := assign(next)
		return func(c echo.Context) error {
			header := c.Request().Header
			if !requestIDPattern.MatchString(header.Get(echo.HeaderXRequestID)) {
				header.Del(echo.HeaderXRequestID)
			}
			return withID(c)
		}
	}
}

// GetRequestID extracts the request ID from the context
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(RequestIDContextKey).(string)
	return id
}
