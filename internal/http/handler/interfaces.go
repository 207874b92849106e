package handler

import (
	"context"

	accountsvc "task-service/internal/account"
	"task-service/internal/audit"
	"task-service/internal/auth"
	"task-service/internal/domain/account"
	"task-service/internal/rbac"

	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*account.Account, error)
	Register(ctx context.Context, in accountsvc.RegisterInput) (*account.Account, error)
}

type TokenIssuer interface {
	Issue(subject string) (auth.Token, error)
}

// UsersHandler interfaces
type AccountAdministration interface {
	List(ctx context.Context, limit, offset int) ([]*account.Account, error)
	ChangeRole(ctx context.Context, req accountsvc.RoleChangeRequest) (rbac.Role, error)
}

// JWKSHandler interfaces
type KeyDescriptor interface {
	KeyID() string
	Algorithm() string
}

// AuditHandler interfaces
type AuditQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}

// Shared
type AuditRecorder interface {
	LogFromContext(c echo.Context, resourceType audit.ResourceType, resourceID *int64, action audit.Action, status audit.Status, metadata map[string]any)
}
