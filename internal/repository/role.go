package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/commons/commons/internal/model"
)

const roleColumns = `id, name, created_at, updated_at`

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, role *model.Role) error {
	query := `
		INSERT INTO roles (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, role.ID, role.Name, role.CreatedAt, role.UpdatedAt)
	return classifyError("create role", err)
}

// GetRoleByID retrieves a role by ID.
func (r *Repository) GetRoleByID(ctx context.Context, id string) (*model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	return r.getRole(ctx, "get role by ID", query, id)
}

// GetRoleByName retrieves the earliest role with the given name.
func (r *Repository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1 ORDER BY id LIMIT 1`
	return r.getRole(ctx, "get role by name", query, name)
}

// ListRoles returns a window of roles in creation order and the total row count.
func (r *Repository) ListRoles(ctx context.Context, rng Range) ([]*model.Role, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&total); err != nil {
		return nil, 0, classifyError("count roles", err)
	}

	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY id`
	args := []any{}
	query, args = appendRange(query, args, rng)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyError("list roles", err)
	}
	defer rows.Close()

	roles := make([]*model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, 0, classifyError("scan role", err)
		}
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, classifyError("iterate roles", err)
	}

	return roles, total, nil
}

func (r *Repository) getRole(ctx context.Context, op, query string, arg string) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, classifyError(op, err)
	}
	return &role, nil
}
