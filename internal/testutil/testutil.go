// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/commons/commons/internal/migrate"
	"github.com/commons/commons/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 727001

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema reverts and reapplies every Postgres migration.
func ResetSchema(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	runner := migrate.New(db, migrate.Postgres)
	if _, err := runner.Down(ctx); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	if _, err := runner.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

var seq atomic.Int64

// UniqueID returns an ID that is unique within the test binary.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// NewTestUser creates a user with sensible defaults.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	id := UniqueID("user")
	return &model.User{
		ID:        id,
		Name:      name,
		Password:  "secret",
		Email:     id + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestRole creates a role with sensible defaults.
func NewTestRole(t testing.TB, name string) *model.Role {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Role{ID: UniqueID("role"), Name: name, CreatedAt: now, UpdatedAt: now}
}

// NewTestCommunity creates a community owned by ownerID.
func NewTestCommunity(t testing.TB, name, ownerID string) *model.Community {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Community{
		ID:        UniqueID("community"),
		Name:      name,
		Slug:      model.Slugify(name),
		Owner:     ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestMember creates a member row.
func NewTestMember(t testing.TB, communityID, userID, roleID string) *model.Member {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Member{
		ID:        UniqueID("member"),
		Community: communityID,
		User:      userID,
		Role:      roleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
