package rbac

import "errors"

var (
	ErrUnknownRole         = errors.New("unknown role")
	ErrEscalationForbidden = errors.New("escalation forbidden")
)

const (
	errConfigRolesEmpty                  = "rbac config: roles must not be empty"
	errConfigPermissionsEmpty            = "rbac config: permissions must not be empty"
	errConfigRoleNameEmpty               = "rbac config: role name must not be empty"
	errConfigDuplicateRoleNameFmt        = "rbac config: duplicate role name: %s"
	errConfigDuplicateRoleLevelFmt       = "rbac config: duplicate role level %d (roles %s and %s)"
	errConfigPermissionEmpty             = "rbac config: permission must not be empty"
	errConfigDuplicatePermissionFmt      = "rbac config: duplicate permission: %s"
	errConfigGrantUnknownRoleFmt         = "rbac config: grant references unknown role: %s"
	errConfigGrantUnknownPermissionFmt   = "rbac config: grant for role %s references unknown permission: %s"
	errConfigGrantDuplicatePermissionFmt = "rbac config: grant for role %s lists permission %s twice"
	errConfigProtectedUnknownRoleFmt     = "rbac config: protected role is not defined: %s"
	errMustNewPanicFmt                   = "rbac.MustNew: %v"
	errUnknownRoleFmt                    = "%w: %q"
	errEscalationFmt                     = "%w: role %s cannot be assigned to account %d through a role change"
)
