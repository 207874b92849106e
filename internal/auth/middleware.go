package auth

import (
	"context"
	"strings"

	"task-service/internal/domain/account"
	"task-service/internal/rbac"
	apperrors "task-service/pkg/errors"
	"task-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TokenValidator turns a bearer token into its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// IdentityDirectory resolves a token subject to the current account.
type IdentityDirectory interface {
	FindByUsername(ctx context.Context, username string) (*account.Account, error)
}

// PermissionSource lists the permissions granted to a role.
type PermissionSource interface {
	PermissionsOf(role rbac.Role) []rbac.Permission
}

type Middleware struct {
	tokens     TokenValidator
	directory  IdentityDirectory
	perms      PermissionSource
	cookieName string
}

func NewMiddleware(tokens TokenValidator, directory IdentityDirectory, perms PermissionSource, cookieName string) *Middleware {
	return &Middleware{
		tokens:     tokens,
		directory:  directory,
		perms:      perms,
		cookieName: cookieName,
	}
}

// Authenticate attaches a Principal when the request carries a valid token
// for an existing account. It never rejects a request: every failure leaves
// the request anonymous and is only logged at info level. Guards decide
// later whether anonymity is acceptable.
func (m *Middleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); ok {
				return next(c)
			}

			token := m.extractToken(c)
			if token == "" {
				return next(c)
			}

			subject, err := m.tokens.Validate(token)
			if err != nil {
				c.Logger().Infof(msgSkipAuthFmt, requestID(c), logger.SanitizeLogMessage(err.Error()))
				return next(c)
			}

			acc, err := m.directory.FindByUsername(c.Request().Context(), subject)
			if err != nil || acc == nil {
				c.Logger().Infof(msgDirectoryLookupFmt, requestID(c), err)
				return next(c)
			}

			c.Set(ContextKeyPrincipal, NewPrincipal(acc, m.perms.PermissionsOf(acc.Role)))
			return next(c)
		}
	}
}

// extractToken prefers the Authorization header and falls back to the cookie.
func (m *Middleware) extractToken(c echo.Context) string {
	if token := extractBearerToken(c); token != "" {
		return token
	}

	if m.cookieName == "" {
		return ""
	}
	cookie, err := c.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// PrincipalFrom returns the request's Principal, if one was attached.
func PrincipalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(ContextKeyPrincipal).(*Principal)
	return p, ok && p != nil
}

// GetPrincipal returns the request's Principal or an authentication error.
func GetPrincipal(c echo.Context) (*Principal, error) {
	raw := c.Get(ContextKeyPrincipal)
	if raw == nil {
		return nil, apperrors.Unauthorized(msgAuthenticationRequired)
	}

	p, ok := raw.(*Principal)
	if !ok {
		return nil, apperrors.InternalServer(msgInvalidPrincipalCtx, nil)
	}
	if p == nil {
		return nil, apperrors.Unauthorized(msgAuthenticationRequired)
	}

	return p, nil
}
