package postgres

import (
	"context"
	"fmt"

	"task-service/internal/rbac"
	"task-service/internal/repository"

	"github.com/jackc/pgx/v5"
)

// RoleRepository stores the role-permission model.
type RoleRepository struct {
	db *DB
}

var _ repository.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Seed upserts every role, permission and grant of cfg in one transaction.
// Grants already present are kept, so manual additions survive restarts.
func (r *RoleRepository) Seed(ctx context.Context, cfg rbac.Config) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		for _, rd := range cfg.Roles {
			_, err := tx.Exec(ctx, `
				INSERT INTO roles (name, level, description)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO UPDATE
				SET level = EXCLUDED.level, description = EXCLUDED.description
			`, string(rd.Name), rd.Level, rd.Description)
			if err != nil {
				return fmt.Errorf(errFailedSeedRoleFmt, rd.Name, err)
			}
		}

		for _, p := range cfg.Permissions {
			_, err := tx.Exec(ctx, `
				INSERT INTO permissions (name) VALUES ($1)
				ON CONFLICT (name) DO NOTHING
			`, string(p))
			if err != nil {
				return fmt.Errorf(errFailedSeedPermissionFmt, p, err)
			}
		}

		for role, perms := range cfg.Grants {
			for _, p := range perms {
				_, err := tx.Exec(ctx, `
					INSERT INTO role_permissions (role_id, permission_id)
					SELECT r.id, p.id FROM roles r, permissions p
					WHERE r.name = $1 AND p.name = $2
					ON CONFLICT DO NOTHING
				`, string(role), string(p))
				if err != nil {
					return fmt.Errorf(errFailedSeedGrantFmt, p, role, err)
				}
			}
		}

		return nil
	})
}

// Load rebuilds the model as stored.
func (r *RoleRepository) Load(ctx context.Context) (rbac.Config, error) {
	cfg := rbac.Config{Grants: map[rbac.Role][]rbac.Permission{}}

	rows, err := r.db.Pool.Query(ctx, `SELECT name, level, description FROM roles ORDER BY level`)
	if err != nil {
		return cfg, errFailedLoadRoles(err)
	}
	cfg.Roles, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (rbac.RoleDefinition, error) {
		var rd rbac.RoleDefinition
		var name string
		err := row.Scan(&name, &rd.Level, &rd.Description)
		rd.Name = rbac.Role(name)
		return rd, err
	})
	if err != nil {
		return cfg, errFailedLoadRoles(err)
	}

	rows, err = r.db.Pool.Query(ctx, `SELECT name FROM permissions ORDER BY id`)
	if err != nil {
		return cfg, errFailedLoadPerms(err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return cfg, errFailedLoadPerms(err)
	}
	for _, n := range names {
		cfg.Permissions = append(cfg.Permissions, rbac.Permission(n))
	}

	rows, err = r.db.Pool.Query(ctx, `
		SELECT r.name, p.name
		FROM role_permissions rp
		JOIN roles r ON r.id = rp.role_id
		JOIN permissions p ON p.id = rp.permission_id
		ORDER BY r.level, p.id
	`)
	if err != nil {
		return cfg, errFailedLoadGrants(err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, perm string
		if err := rows.Scan(&role, &perm); err != nil {
			return cfg, errFailedLoadGrants(err)
		}
		cfg.Grants[rbac.Role(role)] = append(cfg.Grants[rbac.Role(role)], rbac.Permission(perm))
	}

	if err := rows.Err(); err != nil {
		return cfg, errFailedLoadGrants(err)
	}

	return cfg, nil
}
