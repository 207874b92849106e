package auth

import (
	"fmt"

	"task-service/internal/rbac"
	apperrors "task-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

const (
	msgRequiresRoleFmt      = "%s: requires role %v"
	msgRequiresAnyRoleFmt   = "%s: requires one of roles %v"
	msgRequiresAuthorityFmt = "%s: requires %s"
)

// CheckRole passes only if the principal holds every listed role.
// A nil principal fails with an authentication error, a principal lacking
// a role with a forbidden error.
func CheckRole(p *Principal, roles ...rbac.Role) error {
	if p == nil {
		return apperrors.Unauthorized(msgAuthenticationRequired)
	}
	for _, role := range roles {
		if !p.HasRole(role) {
			return apperrors.Forbidden(fmt.Sprintf(msgRequiresRoleFmt, msgInsufficientRole, roles))
		}
	}
	return nil
}

// CheckAnyRole passes if the principal holds at least one listed role.
func CheckAnyRole(p *Principal, roles ...rbac.Role) error {
	if p == nil {
		return apperrors.Unauthorized(msgAuthenticationRequired)
	}
	for _, role := range roles {
		if p.HasRole(role) {
			return nil
		}
	}
	return apperrors.Forbidden(fmt.Sprintf(msgRequiresAnyRoleFmt, msgInsufficientRole, roles))
}

// CheckAuthority passes if the principal was granted perm.
func CheckAuthority(p *Principal, perm rbac.Permission) error {
	if p == nil {
		return apperrors.Unauthorized(msgAuthenticationRequired)
	}
	if !p.HasAuthority(string(perm)) {
		return apperrors.Forbidden(fmt.Sprintf(msgRequiresAuthorityFmt, msgInsufficientAuthority, perm))
	}
	return nil
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated() echo.MiddlewareFunc {
	return guard(func(p *Principal) error {
		if p == nil {
			return apperrors.Unauthorized(msgAuthenticationRequired)
		}
		return nil
	})
}

func RequireRole(roles ...rbac.Role) echo.MiddlewareFunc {
	return guard(func(p *Principal) error { return CheckRole(p, roles...) })
}

func RequireAnyRole(roles ...rbac.Role) echo.MiddlewareFunc {
	return guard(func(p *Principal) error { return CheckAnyRole(p, roles...) })
}

func RequireAuthority(perm rbac.Permission) echo.MiddlewareFunc {
	return guard(func(p *Principal) error { return CheckAuthority(p, perm) })
}

func guard(check func(*Principal) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := PrincipalFrom(c)
			if err := check(p); err != nil {
				return err
			}
			return next(c)
		}
	}
}
