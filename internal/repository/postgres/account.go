package postgres

import (
	"context"
	"errors"
	"fmt"

	"task-service/internal/domain/account"
	"task-service/internal/rbac"
	"task-service/internal/repository"
	apperrors "task-service/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const accountSelect = `
	SELECT a.id, a.username, a.email, a.password_hash, a.role_id, r.name, a.created_at, a.updated_at
	FROM accounts a
	JOIN roles r ON r.id = a.role_id
`

// AccountRepository is the Identity Directory backed by PostgreSQL.
type AccountRepository struct {
	db *DB
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	a := &account.Account{}
	var role string
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.RoleID,
		&role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	a.Role = rbac.Role(role)
	return a, err
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	a, err := scanAccount(r.db.Pool.QueryRow(ctx, accountSelect+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}
	return a, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	a, err := scanAccount(r.db.Pool.QueryRow(ctx, accountSelect+" WHERE a.username = $1", username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}
	return a, nil
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)", username)
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)", email)
}

func (r *AccountRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, errFailedCheckAccount(err)
	}
	return exists, nil
}

// Create inserts an account holding the named role. Duplicate usernames and
// emails surface as conflicts even when they race past an existence check.
func (r *AccountRepository) Create(ctx context.Context, input account.CreateAccountInput) (*account.Account, error) {
	query := `
		INSERT INTO accounts (username, email, password_hash, role_id)
		SELECT $1, $2, $3, r.id FROM roles r WHERE r.name = $4
		RETURNING id, role_id, created_at, updated_at
	`

	a := &account.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}
	err := r.db.Pool.QueryRow(ctx, query, input.Username, input.Email, input.PasswordHash, string(input.Role)).Scan(
		&a.ID,
		&a.RoleID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.UnknownRole(fmt.Sprintf(errAccountRoleMissing, input.Role))
		}
		if constraint, ok := uniqueViolationConstraint(err); ok {
			if constraint == constraintAccountsEmail {
				return nil, apperrors.Conflict(errEmailInUse)
			}
			return nil, apperrors.Conflict(errUsernameTaken)
		}
		return nil, errFailedCreateAccount(err)
	}

	return a, nil
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Pool.Query(ctx, accountSelect+" ORDER BY a.id LIMIT $1 OFFSET $2", clampLimit(limit), offset)
	if err != nil {
		return nil, errFailedListAccounts(err)
	}
	defer rows.Close()

	accounts := []*account.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errFailedScanAccount(err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateAccounts(err)
	}

	return accounts, nil
}

// UpdateRole points the account at the named role.
func (r *AccountRepository) UpdateRole(ctx context.Context, id int64, role rbac.Role) error {
	query := `
		UPDATE accounts a
		SET role_id = r.id, updated_at = NOW()
		FROM roles r
		WHERE a.id = $1 AND r.name = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, id, string(role))
	if err != nil {
		return errFailedUpdateAccountRole(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAccountNotFound)
	}

	return nil
}
