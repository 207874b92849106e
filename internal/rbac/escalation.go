package rbac

import "fmt"

// AttemptRoleChange decides which role a role-mutation request may assign
// to targetAccountID. It is the only place that rules on assigning a
// protected role, and it refuses that for every caller. The declarative
// guards decide who may call a role change; this decides what value it may
// produce.
//
// Errors wrap ErrUnknownRole or ErrEscalationForbidden.
func (rc *Checker) AttemptRoleChange(targetAccountID int64, requested string) (Role, error) {
	role, err := rc.RoleByName(requested)
	if err != nil {
		return "", err
	}

	if rc.IsProtected(role) {
		return "", fmt.Errorf(errEscalationFmt, ErrEscalationForbidden, role, targetAccountID)
	}

	return role, nil
}
