package auth

import (
	"task-service/internal/domain/account"
	"task-service/internal/rbac"
)

// Principal is the authenticated identity of one request. It is built by
// the authentication middleware and never changes afterwards.
type Principal struct {
	id          int64
	username    string
	email       string
	role        rbac.Role
	authorities []string
}

// NewPrincipal derives a Principal from the account's current role. The
// authorities are ROLE_<name> followed by every permission of that role.
func NewPrincipal(acc *account.Account, perms []rbac.Permission) *Principal {
	authorities := make([]string, 0, len(perms)+1)
	authorities = append(authorities, RolePrefix+string(acc.Role))
	seen := map[string]bool{authorities[0]: true}
	for _, p := range perms {
		if !seen[string(p)] {
			seen[string(p)] = true
			authorities = append(authorities, string(p))
		}
	}

	return &Principal{
		id:          acc.ID,
		username:    acc.Username,
		email:       acc.Email,
		role:        acc.Role,
		authorities: authorities,
	}
}

func (p *Principal) ID() int64 { return p.id }

func (p *Principal) Username() string { return p.username }

func (p *Principal) Email() string { return p.email }

func (p *Principal) Role() rbac.Role { return p.role }

// Authorities returns a copy of the granted authority strings.
func (p *Principal) Authorities() []string {
	return append([]string(nil), p.authorities...)
}

// HasAuthority reports an exact match against the granted authorities.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole checks the ROLE_<name> authority.
func (p *Principal) HasRole(role rbac.Role) bool {
	return p.HasAuthority(RolePrefix + string(role))
}

// Permissions returns the fine-grained authorities, without the role entry.
func (p *Principal) Permissions() []string {
	if len(p.authorities) <= 1 {
		return []string{}
	}
	return append([]string(nil), p.authorities[1:]...)
}
