// Package sqlite provides a SQLite-backed repository.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/commons/commons/internal/migrate"
	"github.com/commons/commons/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists entities in a single SQLite file.
type Store struct {
	sqlDB *sql.DB
	q     querier
	inTx  bool
}

var _ repository.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// DSN builds the connection string for a database file.
// Writers take the lock at BEGIN so concurrent transactions queue on busy_timeout.
func DSN(path string) string {
	return filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// OpenDB opens the database file without applying migrations.
func OpenDB(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// Open opens a SQLite store and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := migrate.New(sqlDB, migrate.SQLite).Up(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, q: sqlDB}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

// InTx runs fn in a transaction. Nested calls reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return classifyError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&Store{sqlDB: s.sqlDB, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classifyError("commit transaction", err)
	}
	return nil
}

// classifyError maps SQLite failures onto repository errors.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			if dup := duplicateError(err); dup != nil {
				return dup
			}
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return repository.ErrReferenceNotFound
		}
		// Extended result codes keep the primary code in the low byte.
		if primary := code & 0xff; primary == sqlite3lib.SQLITE_BUSY || primary == sqlite3lib.SQLITE_LOCKED {
			return fmt.Errorf("%s: %w: %w", op, repository.ErrUnavailable, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrUnavailable, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

// duplicateError resolves which uniqueness rule a constraint failure broke.
// SQLite reports the offending columns as "UNIQUE constraint failed: table.column".
func duplicateError(err error) error {
	message := err.Error()
	switch {
	case strings.Contains(message, "communities.slug"):
		return repository.ErrSlugExists
	case strings.Contains(message, "members.community_id"):
		return repository.ErrMemberExists
	case strings.Contains(message, "users.email"):
		return repository.ErrEmailExists
	}
	return nil
}

// appendRange adds LIMIT/OFFSET for a bounded range.
func appendRange(query string, args []any, rng repository.Range) (string, []any) {
	if rng.Unbounded() {
		return query, args
	}
	return query + " LIMIT ? OFFSET ?", append(args, rng.Limit, rng.Offset)
}
