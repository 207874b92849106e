package account

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"task-service/internal/audit"
	"task-service/internal/config"
	"task-service/internal/domain/account"
	"task-service/internal/rbac"
	"task-service/internal/rbac/presets"
	apperrors "task-service/pkg/errors"
	"task-service/pkg/validator"
)

const (
	// dummyPasswordHash is compared against when the username is unknown so
	// both login failures cost one bcrypt comparison.
	dummyPasswordHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

	msgUserNotFoundFmt       = "User not found with ID: %d"
	msgInvalidRoleFmt        = "Invalid role: %s"
	msgEscalationForbidden   = "Cannot promote users to SUPER_ADMIN role"
	msgUsernameTaken         = "Username is already taken"
	msgEmailInUse            = "Email is already in use"
	msgFailedHashPassword    = "failed to process password"
	msgFailedChangeRole      = "failed to change role"
	msgAdminSeededFmt        = "Seeded super-admin account %q"
	msgAdminExistsFmt        = "Super-admin account %q already exists, skipping seed"
	errFailedSeedAdminFmt    = "failed to seed super-admin: %w"
	errFailedLookupTargetFmt = "failed to load account %d: %w"
)

// Store is the part of the Identity Directory the service writes through.
type Store interface {
	FindByID(ctx context.Context, id int64) (*account.Account, error)
	FindByUsername(ctx context.Context, username string) (*account.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error)
	List(ctx context.Context, limit, offset int) ([]*account.Account, error)
	UpdateRole(ctx context.Context, id int64, role rbac.Role) error
}

// RoleGuard decides which role a role change may assign.
type RoleGuard interface {
	AttemptRoleChange(targetAccountID int64, requested string) (rbac.Role, error)
}

// CredentialVerifier is the one-way password check.
type CredentialVerifier interface {
	Matches(plaintext, hash string) bool
	Hash(plaintext string) (string, error)
}

// Auditor records events without blocking the caller.
type Auditor interface {
	LogAsync(event *audit.Event) <-chan struct{}
}

// Service implements account registration, login checks and role
// administration on top of the Identity Directory.
type Service struct {
	store    Store
	guard    RoleGuard
	verifier CredentialVerifier
	auditor  Auditor
}

func NewService(store Store, guard RoleGuard, verifier CredentialVerifier, auditor Auditor) *Service {
	return &Service{
		store:    store,
		guard:    guard,
		verifier: verifier,
		auditor:  auditor,
	}
}

// RoleChangeRequest asks for TargetID to be moved to the named Role.
type RoleChangeRequest struct {
	ActorID  int64
	TargetID int64
	Role     string
	Meta     audit.RequestMeta
}

// ChangeRole assigns a new role to an existing account. The target is
// loaded first, then the escalation guard rules on the requested role, and
// only an allowed role is persisted. Every attempt is audited.
func (s *Service) ChangeRole(ctx context.Context, req RoleChangeRequest) (rbac.Role, error) {
	if _, err := s.store.FindByID(ctx, req.TargetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NotFound(fmt.Sprintf(msgUserNotFoundFmt, req.TargetID))
		}
		return "", apperrors.InternalServer(msgFailedChangeRole, fmt.Errorf(errFailedLookupTargetFmt, req.TargetID, err))
	}

	role, err := s.guard.AttemptRoleChange(req.TargetID, req.Role)
	if err != nil {
		s.auditRoleChange(req, "", audit.StatusDenied, err)
		switch {
		case errors.Is(err, rbac.ErrUnknownRole):
			return "", apperrors.UnknownRole(fmt.Sprintf(msgInvalidRoleFmt, req.Role))
		case errors.Is(err, rbac.ErrEscalationForbidden):
			return "", apperrors.EscalationForbidden(msgEscalationForbidden)
		default:
			return "", apperrors.InternalServer(msgFailedChangeRole, err)
		}
	}

	if err := s.store.UpdateRole(ctx, req.TargetID, role); err != nil {
		s.auditRoleChange(req, role, audit.StatusFailure, err)
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NotFound(fmt.Sprintf(msgUserNotFoundFmt, req.TargetID))
		}
		return "", apperrors.InternalServer(msgFailedChangeRole, err)
	}

	s.auditRoleChange(req, role, audit.StatusSuccess, nil)
	return role, nil
}

func (s *Service) auditRoleChange(req RoleChangeRequest, role rbac.Role, status audit.Status, cause error) {
	if s.auditor == nil {
		return
	}

	target := req.TargetID
	event := &audit.Event{
		ActorType:    audit.ActorTypeUser,
		ResourceType: audit.ResourceTypeAccount,
		ResourceID:   &target,
		Action:       audit.ActionRoleChange,
		Status:       status,
		RequestMeta:  req.Meta,
		Metadata:     map[string]any{"requested_role": req.Role},
	}
	if req.ActorID > 0 {
		actor := req.ActorID
		event.ActorID = &actor
	} else {
		event.ActorType = audit.ActorTypeAnonymous
	}
	if role != "" {
		event.Metadata["role"] = string(role)
	}
	if cause != nil {
		event.ErrorMessage = cause.Error()
	}

	s.auditor.LogAsync(event)
}

// RegisterInput is a self-service sign-up.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a NORMAL account. Duplicate usernames and emails are
// conflicts.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*account.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validator.Username(in.Username); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Email(in.Email); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Password(in.Password); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	return s.create(ctx, in, presets.RoleNormal)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role rbac.Role) (*account.Account, error) {
	taken, err := s.store.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict(msgUsernameTaken)
	}

	inUse, err := s.store.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperrors.Conflict(msgEmailInUse)
	}

	hash, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, apperrors.InternalServer(msgFailedHashPassword, err)
	}

	return s.store.Create(ctx, account.CreateAccountInput{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	})
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail identically.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*account.Account, error) {
	acc, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.verifier.Matches(password, dummyPasswordHash)
		return nil, apperrors.InvalidCredentials()
	}

	if !s.verifier.Matches(password, acc.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	return acc, nil
}

// EnsureSuperAdmin creates the configured super-admin account once. It is
// a no-op when no admin password is configured or the username exists.
// This is the only path that produces a SUPER_ADMIN account.
func (s *Service) EnsureSuperAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	if !cfg.AdminSeedEnabled() {
		return false, nil
	}

	exists, err := s.store.ExistsByUsername(ctx, cfg.Username)
	if err != nil {
		return false, fmt.Errorf(errFailedSeedAdminFmt, err)
	}
	if exists {
		log.Printf(msgAdminExistsFmt, cfg.Username)
		return false, nil
	}

	_, err = s.create(ctx, RegisterInput{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: cfg.Password,
	}, presets.RoleSuperAdmin)
	if err != nil {
		return false, fmt.Errorf(errFailedSeedAdminFmt, err)
	}

	log.Printf(msgAdminSeededFmt, cfg.Username)
	return true, nil
}

// List returns a page of accounts.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	return s.store.List(ctx, limit, offset)
}
