// Package repository provides the database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names declared in migrations/postgres.
const (
	constraintUsersEmail       = "users_email_key"
	constraintCommunitiesSlug  = "communities_slug_key"
	constraintMembersCommunity = "members_community_user_key"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	pool *pgxpool.Pool
	db   dbtx
	inTx bool
}

var _ Store = (*Repository)(nil)

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool, db: pool}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// InTx runs fn in a transaction. Nested calls reuse the outer transaction.
func (r *Repository) InTx(ctx context.Context, fn func(tx Store) error) error {
	if r.inTx {
		return fn(r)
	}

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(&Repository{pool: r.pool, db: tx, inTx: true})
	})
	if err != nil {
		return classifyError("transaction", err)
	}
	return nil
}

// classifyError maps PostgreSQL failures onto store errors.
// Errors that already carry a store sentinel pass through untouched.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isStoreError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case constraintCommunitiesSlug:
				return ErrSlugExists
			case constraintMembersCommunity:
				return ErrMemberExists
			case constraintUsersEmail:
				return ErrEmailExists
			}
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrReferenceNotFound, pgErr.ConstraintName)
		case "57014", "53300", "57P01": // query_canceled, too_many_connections, admin_shutdown
			return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		}
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" { // connection_exception class
			return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

func isStoreError(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrRoleNotFound, ErrCommunityNotFound, ErrMemberNotFound,
		ErrEmailExists, ErrSlugExists, ErrMemberExists, ErrReferenceNotFound, ErrUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
