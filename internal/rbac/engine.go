package rbac

import (
	"fmt"
	"strings"
)

// Checker answers role and permission queries over a validated Config.
// It is immutable after construction and safe for concurrent use.
type Checker struct {
	config      Config
	roleByUpper map[string]Role
	grants      map[Role][]Permission
	protected   map[Role]bool
}

// New creates a Checker from a validated Config
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := &Checker{config: cfg}
	rc.buildLookups()
	return rc, nil
}

// MustNew creates a Checker and panics on invalid config
func MustNew(cfg Config) *Checker {
	rc, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return rc
}

func (rc *Checker) buildLookups() {
	cfg := rc.config

	rc.roleByUpper = make(map[string]Role, len(cfg.Roles))
	for _, rd := range cfg.Roles {
		rc.roleByUpper[strings.ToUpper(string(rd.Name))] = rd.Name
	}

	rc.grants = make(map[Role][]Permission, len(cfg.Grants))
	for role, perms := range cfg.Grants {
		rc.grants[role] = append([]Permission(nil), perms...)
	}

	rc.protected = make(map[Role]bool, len(cfg.Protected))
	for _, role := range cfg.Protected {
		rc.protected[role] = true
	}
}

// RoleByName resolves a role name case-insensitively to its canonical Role.
func (rc *Checker) RoleByName(name string) (Role, error) {
	if r, ok := rc.roleByUpper[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return r, nil
	}
	return "", fmt.Errorf(errUnknownRoleFmt, ErrUnknownRole, name)
}

// PermissionsOf returns the permissions granted to role, in grant order.
// Unknown roles have none. The returned slice is a copy.
func (rc *Checker) PermissionsOf(role Role) []Permission {
	return append([]Permission(nil), rc.grants[role]...)
}

// IsProtected reports whether role is withheld from role changes.
func (rc *Checker) IsProtected(role Role) bool {
	return rc.protected[role]
}

// Roles returns the configured role definitions.
func (rc *Checker) Roles() []RoleDefinition {
	return append([]RoleDefinition(nil), rc.config.Roles...)
}
