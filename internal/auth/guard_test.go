package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"task-service/internal/domain/account"
	"task-service/internal/rbac"
	"task-service/internal/rbac/presets"
	apperrors "task-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principalFor(role rbac.Role) *Principal {
	checker := rbac.MustNew(presets.TaskManagement())
	acc := &account.Account{ID: 7, Username: "user-" + string(role), Role: role}
	return NewPrincipal(acc, checker.PermissionsOf(role))
}

func TestCheckRole(t *testing.T) {
	normal := principalFor(presets.RoleNormal)
	admin := principalFor(presets.RoleSuperAdmin)

	assert.NoError(t, CheckRole(normal, presets.RoleNormal))
	assert.NoError(t, CheckRole(admin, presets.RoleSuperAdmin))

	err := CheckRole(normal, presets.RoleSuperAdmin)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Roles are tiers, not a hierarchy of authorities.
	err = CheckRole(admin, presets.RoleNormal)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = CheckRole(admin, presets.RoleSuperAdmin, presets.RoleModerator)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "every listed role is required")

	err = CheckRole(nil, presets.RoleNormal)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCheckAnyRole(t *testing.T) {
	tests := []struct {
		name    string
		p       *Principal
		wantErr error
	}{
		{"moderator", principalFor(presets.RoleModerator), nil},
		{"super admin", principalFor(presets.RoleSuperAdmin), nil},
		{"normal", principalFor(presets.RoleNormal), apperrors.ErrForbidden},
		{"anonymous", nil, apperrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAnyRole(tt.p, presets.RoleModerator, presets.RoleSuperAdmin)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckAuthority(t *testing.T) {
	tests := []struct {
		name    string
		p       *Principal
		perm    rbac.Permission
		wantErr error
	}{
		{"normal owns todos", principalFor(presets.RoleNormal), presets.PermTodosOwnCreate, nil},
		{"normal cannot view users", principalFor(presets.RoleNormal), presets.PermUsersView, apperrors.ErrForbidden},
		{"moderator views users", principalFor(presets.RoleModerator), presets.PermUsersView, nil},
		{"moderator cannot manage users", principalFor(presets.RoleModerator), presets.PermUsersManage, apperrors.ErrForbidden},
		{"super admin manages users", principalFor(presets.RoleSuperAdmin), presets.PermUsersManage, nil},
		{"anonymous", nil, presets.PermTodosOwnView, apperrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAuthority(tt.p, tt.perm)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckAuthority_RoleAuthorityIsNotAPermission(t *testing.T) {
	p := principalFor(presets.RoleNormal)
	assert.NoError(t, CheckAuthority(p, "ROLE_NORMAL"))
	assert.ErrorIs(t, CheckAuthority(p, "NORMAL"), apperrors.ErrForbidden)
}

func TestGuardMiddleware(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		mw         echo.MiddlewareFunc
		principal  *Principal
		wantCalled bool
		wantErr    error
	}{
		{"authenticated ok", RequireAuthenticated(), principalFor(presets.RoleNormal), true, nil},
		{"authenticated anonymous", RequireAuthenticated(), nil, false, apperrors.ErrUnauthorized},
		{"role ok", RequireRole(presets.RoleSuperAdmin), principalFor(presets.RoleSuperAdmin), true, nil},
		{"role denied", RequireRole(presets.RoleSuperAdmin), principalFor(presets.RoleModerator), false, apperrors.ErrForbidden},
		{"any role ok", RequireAnyRole(presets.RoleModerator, presets.RoleSuperAdmin), principalFor(presets.RoleModerator), true, nil},
		{"authority denied", RequireAuthority(presets.PermUsersManage), principalFor(presets.RoleModerator), false, apperrors.ErrForbidden},
		{"authority anonymous", RequireAuthority(presets.PermUsersView), nil, false, apperrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.principal != nil {
				c.Set(ContextKeyPrincipal, tt.principal)
			}

			called := false
			err := tt.mw(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
