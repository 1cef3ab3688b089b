package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/idgen"
	"github.com/commons/commons/internal/metrics"
	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
	"github.com/commons/commons/internal/repository/sqlite"
)

type testEnv struct {
	store       *sqlite.Store
	roles       *RoleService
	communities *CommunityService
	members     *MemberService
	events      *events.Memory
	metrics     *metrics.InMemoryRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "commons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		store:   store,
		events:  events.NewMemory(),
		metrics: metrics.NewInMemory(),
	}
	opts := Options{
		Events:  env.events,
		Metrics: env.metrics,
		IDs:     idgen.NewULID(),
	}
	env.roles = NewRoleService(store, opts)
	env.communities = NewCommunityService(store, env.roles, opts)
	env.members = NewMemberService(store, opts)
	return env
}

// seeded returns an environment with default roles in place.
func seeded(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	_, err := env.roles.EnsureDefaultRoles(context.Background())
	require.NoError(t, err)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	u := &model.User{
		ID:        idgen.NewULID().Next(),
		Name:      name,
		Password:  "secret",
		Email:     fmt.Sprintf("%s-%d@example.com", name, now.UnixNano()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// failingStore reports every list call as a store outage.
type failingStore struct {
	repository.Store
	err error
}

func (f failingStore) ListRoles(context.Context, repository.Range) ([]*model.Role, int, error) {
	return nil, 0, f.err
}

func (f failingStore) ListMembersByCommunity(context.Context, string, repository.Range) ([]*model.MemberDetail, int, error) {
	return nil, 0, f.err
}

// slowStore blocks list calls until the context is done.
type slowStore struct {
	repository.Store
}

func (slowStore) ListRoles(ctx context.Context, _ repository.Range) ([]*model.Role, int, error) {
	<-ctx.Done()
	return nil, 0, ctx.Err()
}
