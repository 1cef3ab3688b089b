package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/model"
)

func TestCreateCommunity_SlugIsLowerCasedName(t *testing.T) {
	names := []string{"abc", "Gophers", "GO Meetup Berlin", "Ünïcode Club"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			env := seeded(t)
			owner := env.user(t, "ada")

			community, err := env.communities.CreateCommunity(context.Background(), name, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(name), community.Slug)
			assert.Equal(t, name, community.Name)
			assert.Equal(t, owner.ID, community.Owner)
			assert.NotEmpty(t, community.ID)
		})
	}
}

func TestCreateCommunity_ShortNameWritesNothing(t *testing.T) {
	for _, name := range []string{"", "a", "ab", "éé"} {
		t.Run(name, func(t *testing.T) {
			env := seeded(t)
			ctx := context.Background()
			owner := env.user(t, "ada")

			_, err := env.communities.CreateCommunity(ctx, name, owner.ID)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "name", ve.Param)
			assert.Equal(t, CodeInvalidInput, ve.Code)

			owned, err := env.communities.ListOwnedCommunities(ctx, owner.ID, 0)
			require.NoError(t, err)
			assert.Zero(t, owned.Total)
			assert.Empty(t, owned.Items)
		})
	}
}

func TestNameBoundariesDifferBetweenRoleAndCommunity(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	owner := env.user(t, "ada")

	_, err := env.roles.CreateRole(ctx, "ab")
	require.NoError(t, err)

	_, err = env.communities.CreateCommunity(ctx, "ab", owner.ID)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateCommunity_FoundingAdminMember(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	owner := env.user(t, "ada")

	community, err := env.communities.CreateCommunity(ctx, "Gophers", owner.ID)
	require.NoError(t, err)

	members, err := env.members.ListMembers(ctx, community.ID, 0)
	require.NoError(t, err)
	require.Len(t, members.Items, 1)
	assert.Equal(t, 1, members.Total)
	assert.Equal(t, owner.ID, members.Items[0].User.ID)
	assert.Equal(t, owner.Name, members.Items[0].User.Name)
	assert.Equal(t, model.RoleCommunityAdmin, members.Items[0].Role.Name)

	assert.Equal(t, []string{
		events.TypeRoleCreated,
		events.TypeRoleCreated,
		events.TypeCommunityCreated,
		events.TypeMemberAdded,
	}, env.events.Types())

	snap := env.metrics.Snapshot()
	assert.EqualValues(t, 1, snap.CommunitiesCreated)
	assert.EqualValues(t, 1, snap.MembersAdded)
}

func TestCreateCommunity_DuplicateSlug(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	owner := env.user(t, "ada")
	other := env.user(t, "bob")

	_, err := env.communities.CreateCommunity(ctx, "Gophers", owner.ID)
	require.NoError(t, err)

	_, err = env.communities.CreateCommunity(ctx, "GOPHERS", other.ID)
	assert.ErrorIs(t, err, ErrSlugTaken)

	owned, err := env.communities.ListOwnedCommunities(ctx, other.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, owned.Total)

	joined, err := env.communities.ListJoinedCommunities(ctx, other.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, joined.Total)

	assert.EqualValues(t, 1, env.metrics.Snapshot().SlugConflicts)
}

func TestCreateCommunity_ConcurrentSameSlug(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	owner := env.user(t, "ada")

	names := []string{"Gophers", "GOPHERS", "gophers", "GoPhErS"}
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.communities.CreateCommunity(ctx, name, owner.ID)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlugTaken)
	}
	assert.Equal(t, 1, succeeded)

	owned, err := env.communities.ListOwnedCommunities(ctx, owner.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 1, owned.Total)
	assert.Equal(t, "gophers", owned.Items[0].Slug)
}

func TestCreateCommunity_MissingAdminRoleRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "ada")

	_, err := env.communities.CreateCommunity(ctx, "Gophers", owner.ID)
	assert.ErrorIs(t, err, ErrDependencyNotFound)

	owned, err := env.communities.ListOwnedCommunities(ctx, owner.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, owned.Total)
	assert.Empty(t, env.events.Events())

	// The slug stays free once the roles exist.
	_, err = env.roles.EnsureDefaultRoles(ctx)
	require.NoError(t, err)
	_, err = env.communities.CreateCommunity(ctx, "Gophers", owner.ID)
	assert.NoError(t, err)
}

func TestCreateCommunity_UnknownOwner(t *testing.T) {
	env := seeded(t)

	_, err := env.communities.CreateCommunity(context.Background(), "Gophers", "01HUNKNOWNUSER")
	assert.ErrorIs(t, err, ErrInvalidReference)

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "owner", refErr.Param)
}

func TestListOwnedCommunities_OnlyCallerRows(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	ada := env.user(t, "ada")
	bob := env.user(t, "bob")

	for _, name := range []string{"Gophers", "Rustaceans"} {
		_, err := env.communities.CreateCommunity(ctx, name, ada.ID)
		require.NoError(t, err)
	}
	_, err := env.communities.CreateCommunity(ctx, "Pythonistas", bob.ID)
	require.NoError(t, err)

	owned, err := env.communities.ListOwnedCommunities(ctx, ada.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, owned.Total)
	for _, c := range owned.Items {
		assert.Equal(t, model.UserSummary{ID: ada.ID, Name: ada.Name}, c.Owner)
	}
}

func TestListCommunitiesForCaller_IgnoresPageSize(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	owner := env.user(t, "ada")

	for i := range 12 {
		_, err := env.communities.CreateCommunity(ctx, "Community "+string(rune('A'+i)), owner.ID)
		require.NoError(t, err)
	}

	paged, err := env.communities.ListOwnedCommunities(ctx, owner.ID, 0)
	require.NoError(t, err)
	assert.Len(t, paged.Items, 10)

	all, err := env.communities.ListCommunitiesForCaller(ctx, owner.ID, 1)
	require.NoError(t, err)
	assert.Len(t, all.Items, 12)
	assert.Equal(t, 12, all.Total)
	assert.Equal(t, 2, all.Number())
	assert.Equal(t, 2, all.Pages())
}

func TestListJoinedCommunities(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()
	ada := env.user(t, "ada")
	bob := env.user(t, "bob")

	gophers, err := env.communities.CreateCommunity(ctx, "Gophers", ada.ID)
	require.NoError(t, err)
	_, err = env.communities.CreateCommunity(ctx, "Rustaceans", bob.ID)
	require.NoError(t, err)

	memberRole, err := env.store.GetRoleByName(ctx, model.RoleCommunityMember)
	require.NoError(t, err)
	_, err = env.members.AddMember(ctx, AddMemberInput{
		ActorID:     ada.ID,
		CommunityID: gophers.ID,
		UserID:      bob.ID,
		RoleID:      memberRole.ID,
	})
	require.NoError(t, err)

	joined, err := env.communities.ListJoinedCommunities(ctx, bob.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, joined.Total)

	slugs := []string{joined.Items[0].Slug, joined.Items[1].Slug}
	assert.ElementsMatch(t, []string{"gophers", "rustaceans"}, slugs)
}
