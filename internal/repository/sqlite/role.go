package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

const roleColumns = `id, name, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRole(row scanner) (*model.Role, error) {
	var (
		role                 model.Role
		createdAt, updatedAt int64
	)
	if err := row.Scan(&role.ID, &role.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	role.CreatedAt = fromMillis(createdAt)
	role.UpdatedAt = fromMillis(updatedAt)
	return &role, nil
}

// CreateRole inserts a new role.
func (s *Store) CreateRole(ctx context.Context, role *model.Role) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO roles (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		role.ID, role.Name, toMillis(role.CreatedAt), toMillis(role.UpdatedAt),
	)
	return classifyError("create role", err)
}

// GetRoleByID retrieves a role by ID.
func (s *Store) GetRoleByID(ctx context.Context, id string) (*model.Role, error) {
	return s.getRole(ctx, "get role by ID", `SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
}

// GetRoleByName retrieves the earliest role with the given name.
func (s *Store) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return s.getRole(ctx, "get role by name",
		`SELECT `+roleColumns+` FROM roles WHERE name = ? ORDER BY id LIMIT 1`, name)
}

// ListRoles returns a window of roles in creation order and the total row count.
func (s *Store) ListRoles(ctx context.Context, rng repository.Range) ([]*model.Role, int, error) {
	var total int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&total); err != nil {
		return nil, 0, classifyError("count roles", err)
	}

	query, args := appendRange(`SELECT `+roleColumns+` FROM roles ORDER BY id`, nil, rng)
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyError("list roles", err)
	}
	defer rows.Close()

	roles := make([]*model.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, classifyError("scan role", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyError("iterate roles", err)
	}

	return roles, total, nil
}

func (s *Store) getRole(ctx context.Context, op, query, arg string) (*model.Role, error) {
	role, err := scanRole(s.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRoleNotFound
		}
		return nil, classifyError(op, err)
	}
	return role, nil
}
