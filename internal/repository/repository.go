package repository

import (
	"context"

	"task-service/internal/domain/account"
	"task-service/internal/rbac"
)

// AccountRepository is the Identity Directory: account lookups and the
// writes the account service performs.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*account.Account, error)
	FindByUsername(ctx context.Context, username string) (*account.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error)
	List(ctx context.Context, limit, offset int) ([]*account.Account, error)
	UpdateRole(ctx context.Context, id int64, role rbac.Role) error
}

// RoleRepository persists the role-permission model.
type RoleRepository interface {
	rbac.Store
}
