package rbac

// Role is a named privilege tier. Every account holds exactly one.
type Role string

// Permission is a capability string checked by exact match.
type Permission string

// RoleDefinition defines a role and its privilege level
type RoleDefinition struct {
	Name        Role
	Level       int
	Description string
}

func (r Role) String() string { return string(r) }

func (p Permission) String() string { return string(p) }
