package rbac

import (
	"fmt"
	"strings"
)

// Config holds the role-permission model: the roles, the permission
// catalogue and the grants linking them. Protected roles can never be
// assigned through a role change, whatever their level.
type Config struct {
	Roles       []RoleDefinition
	Permissions []Permission
	Grants      map[Role][]Permission
	Protected   []Role
}

// Validate checks internal consistency of the Config
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return fmt.Errorf(errConfigRolesEmpty)
	}
	if len(c.Permissions) == 0 {
		return fmt.Errorf(errConfigPermissionsEmpty)
	}

	// Role lookup is case-insensitive, so uniqueness is too.
	roleNames := make(map[string]Role, len(c.Roles))
	roleLevels := make(map[int]Role, len(c.Roles))
	for _, rd := range c.Roles {
		if rd.Name == "" {
			return fmt.Errorf(errConfigRoleNameEmpty)
		}
		key := strings.ToUpper(string(rd.Name))
		if _, dup := roleNames[key]; dup {
			return fmt.Errorf(errConfigDuplicateRoleNameFmt, rd.Name)
		}
		if existing, dup := roleLevels[rd.Level]; dup {
			return fmt.Errorf(errConfigDuplicateRoleLevelFmt, rd.Level, existing, rd.Name)
		}
		roleNames[key] = rd.Name
		roleLevels[rd.Level] = rd.Name
	}

	permSet := make(map[Permission]bool, len(c.Permissions))
	for _, p := range c.Permissions {
		if p == "" {
			return fmt.Errorf(errConfigPermissionEmpty)
		}
		if permSet[p] {
			return fmt.Errorf(errConfigDuplicatePermissionFmt, p)
		}
		permSet[p] = true
	}

	for role, perms := range c.Grants {
		if known, ok := roleNames[strings.ToUpper(string(role))]; !ok || known != role {
			return fmt.Errorf(errConfigGrantUnknownRoleFmt, role)
		}
		granted := make(map[Permission]bool, len(perms))
		for _, p := range perms {
			if !permSet[p] {
				return fmt.Errorf(errConfigGrantUnknownPermissionFmt, role, p)
			}
			if granted[p] {
				return fmt.Errorf(errConfigGrantDuplicatePermissionFmt, role, p)
			}
			granted[p] = true
		}
	}

	for _, role := range c.Protected {
		if known, ok := roleNames[strings.ToUpper(string(role))]; !ok || known != role {
			return fmt.Errorf(errConfigProtectedUnknownRoleFmt, role)
		}
	}

	return nil
}
