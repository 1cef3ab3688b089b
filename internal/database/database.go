// Package database selects the store backend from a connection URL.
//
// postgres:// and postgresql:// URLs are served by the pgx repository and
// migrated through lib/pq; sqlite://path URLs use a local SQLite file.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/commons/commons/internal/migrate"
	"github.com/commons/commons/internal/repository"
	"github.com/commons/commons/internal/repository/sqlite"
)

// Backend names.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

const sqliteScheme = "sqlite://"

// Backend reports which store serves the URL.
func Backend(databaseURL string) (string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(databaseURL, sqliteScheme):
		if sqlitePath(databaseURL) == "" {
			return "", fmt.Errorf("sqlite URL has no path")
		}
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database URL scheme")
	}
}

func sqlitePath(databaseURL string) string {
	return strings.TrimSpace(strings.TrimPrefix(databaseURL, sqliteScheme))
}

// Open connects to the store named by databaseURL.
// SQLite stores apply pending migrations on open; Postgres stores do not.
func Open(ctx context.Context, databaseURL string) (repository.Store, error) {
	backend, err := Backend(databaseURL)
	if err != nil {
		return nil, err
	}

	if backend == BackendSQLite {
		return sqlite.Open(ctx, sqlitePath(databaseURL))
	}
	return repository.New(ctx, databaseURL)
}

// OpenSQL opens a database/sql handle for schema management.
func OpenSQL(databaseURL string) (*sql.DB, migrate.Dialect, error) {
	backend, err := Backend(databaseURL)
	if err != nil {
		return nil, migrate.Dialect{}, err
	}

	if backend == BackendSQLite {
		db, err := sqlite.OpenDB(sqlitePath(databaseURL))
		return db, migrate.SQLite, err
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, migrate.Dialect{}, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, migrate.Dialect{}, fmt.Errorf("ping postgres: %w", err)
	}
	return db, migrate.Postgres, nil
}

// MigrateUp applies pending migrations and returns how many ran.
func MigrateUp(ctx context.Context, databaseURL string) (int, error) {
	db, dialect, err := OpenSQL(databaseURL)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return migrate.New(db, dialect).Up(ctx)
}

// MigrateDown reverts every applied migration and returns how many ran.
func MigrateDown(ctx context.Context, databaseURL string) (int, error) {
	db, dialect, err := OpenSQL(databaseURL)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return migrate.New(db, dialect).Down(ctx)
}
