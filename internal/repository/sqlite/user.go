package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO users (id, name, password, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Password,
		user.Email,
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	return classifyError("create user", err)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var (
		u                    model.User
		createdAt, updatedAt int64
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT id, name, password, email, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Password, &u.Email, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, classifyError("get user by ID", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}
