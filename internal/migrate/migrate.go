// Package migrate applies the embedded SQL migrations over database/sql.
//
// Files are named NNNNNN_name.up.sql and NNNNNN_name.down.sql. Each up file is
// applied at most once and recorded in schema_migrations; Down reverts the
// recorded files newest first.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/commons/commons/migrations"
)

const migrationTable = "schema_migrations"

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Dialect describes how a backend names its migration directory and binds parameters.
type Dialect struct {
	Name string
	Dir  string
}

var (
	// Postgres is used with the lib/pq driver.
	Postgres = Dialect{Name: "postgres", Dir: "postgres"}
	// SQLite is used with the modernc.org/sqlite driver.
	SQLite = Dialect{Name: "sqlite", Dir: "sqlite"}
)

func (d Dialect) bind(n int) string {
	if d.Name == Postgres.Name {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Runner applies migrations from a filesystem.
type Runner struct {
	db      *sql.DB
	dialect Dialect
	fsys    fs.FS
}

// New creates a Runner over the embedded migrations for dialect.
func New(db *sql.DB, dialect Dialect) *Runner {
	return &Runner{db: db, dialect: dialect, fsys: migrations.FS}
}

// WithFS replaces the migration source. Files are read from fsys under the dialect directory.
func (r *Runner) WithFS(fsys fs.FS) *Runner {
	r.fsys = fsys
	return r
}

// Up applies every pending up migration in name order and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if r.db == nil {
		return 0, errors.New("sql db is required")
	}
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}

	files, err := r.list(upSuffix)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, file := range files {
		name := strings.TrimSuffix(file, upSuffix)

		done, err := r.isApplied(ctx, name)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(r.fsys, path.Join(r.dialect.Dir, file))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}

		record := fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (%s, %s)",
			migrationTable, r.dialect.bind(1), r.dialect.bind(2))
		err = r.inTx(ctx, func(tx *sql.Tx) error {
			if strings.TrimSpace(string(content)) != "" {
				if _, err := tx.ExecContext(ctx, string(content)); err != nil {
					return fmt.Errorf("exec migration %s: %w", file, err)
				}
			}
			if _, err := tx.ExecContext(ctx, record, name, time.Now().UTC().UnixMilli()); err != nil {
				return fmt.Errorf("record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}

// Down reverts every applied migration, newest first, and returns how many ran.
func (r *Runner) Down(ctx context.Context) (int, error) {
	if r.db == nil {
		return 0, errors.New("sql db is required")
	}
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}

	names, err := r.appliedNames(ctx)
	if err != nil {
		return 0, err
	}

	deleteRecord := fmt.Sprintf("DELETE FROM %s WHERE name = %s", migrationTable, r.dialect.bind(1))
	reverted := 0
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		content, err := fs.ReadFile(r.fsys, path.Join(r.dialect.Dir, name+downSuffix))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return reverted, fmt.Errorf("read migration %s: %w", name, err)
		}

		err = r.inTx(ctx, func(tx *sql.Tx) error {
			if strings.TrimSpace(string(content)) != "" {
				if _, err := tx.ExecContext(ctx, string(content)); err != nil {
					return fmt.Errorf("revert migration %s: %w", name, err)
				}
			}
			if _, err := tx.ExecContext(ctx, deleteRecord, name); err != nil {
				return fmt.Errorf("unrecord migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return reverted, err
		}
		reverted++
	}

	return reverted, nil
}

// Applied lists the recorded migration names in apply order.
func (r *Runner) Applied(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	return r.appliedNames(ctx)
}

func (r *Runner) ensureTable(ctx context.Context) error {
	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`, migrationTable)
	if _, err := r.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func (r *Runner) list(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, r.dialect.Dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) isApplied(ctx context.Context, name string) (bool, error) {
	var found int
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE name = %s", migrationTable, r.dialect.bind(1))
	err := r.db.QueryRowContext(ctx, query, name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Runner) appliedNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM "+migrationTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *Runner) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
