package account

import (
	"time"

	"task-service/internal/rbac"
)

// Account is an identity record. Role is the name projected from the
// account's role_id; the role row is the source of truth.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	Role         rbac.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateAccountInput struct {
	Username     string
	Email        string
	PasswordHash string
	Role         rbac.Role
}

// Summary is the public projection of an account.
type Summary struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Account) Summary() Summary {
	return Summary{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}
