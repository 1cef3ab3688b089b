package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

func TestListMembers_EmptyAndUnknownCommunity(t *testing.T) {
	env := seeded(t)
	ctx := context.Background()

	for _, id := range []string{"", "01HNOSUCHCOMMUNITY"} {
		page, err := env.members.ListMembers(ctx, id, 0)
		require.NoError(t, err)
		assert.Zero(t, page.Total)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, 1, page.Pages())
	}
}

func TestListMembers_StoreUnavailable(t *testing.T) {
	env := seeded(t)
	members := NewMemberService(failingStore{Store: env.store, err: repository.ErrUnavailable}, Options{})

	_, err := members.ListMembers(context.Background(), "01HANY", 0)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestListMembers_OtherErrorsAreNotUnavailable(t *testing.T) {
	env := seeded(t)
	boom := errors.New("syntax error")
	members := NewMemberService(failingStore{Store: env.store, err: boom}, Options{})

	_, err := members.ListMembers(context.Background(), "01HANY", 0)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
}

type memberFixture struct {
	env       *testEnv
	owner     *model.User
	guest     *model.User
	community *model.Community
	member    *model.Role
}

func newMemberFixture(t *testing.T) *memberFixture {
	t.Helper()
	env := seeded(t)
	ctx := context.Background()

	owner := env.user(t, "ada")
	guest := env.user(t, "bob")
	community, err := env.communities.CreateCommunity(ctx, "Gophers", owner.ID)
	require.NoError(t, err)
	memberRole, err := env.store.GetRoleByName(ctx, model.RoleCommunityMember)
	require.NoError(t, err)

	return &memberFixture{env: env, owner: owner, guest: guest, community: community, member: memberRole}
}

func TestAddMember(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	member, err := f.env.members.AddMember(ctx, AddMemberInput{
		ActorID:     f.owner.ID,
		CommunityID: f.community.ID,
		UserID:      f.guest.ID,
		RoleID:      f.member.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.guest.ID, member.User)

	page, err := f.env.members.ListMembers(ctx, f.community.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestAddMember_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   func(f *memberFixture) AddMemberInput
		wantErr error
		param   string
	}{
		{
			name: "actor is not a member",
			input: func(f *memberFixture) AddMemberInput {
				return AddMemberInput{ActorID: f.guest.ID, CommunityID: f.community.ID, UserID: f.guest.ID, RoleID: f.member.ID}
			},
			wantErr: ErrNotAllowed,
		},
		{
			name: "unknown community",
			input: func(f *memberFixture) AddMemberInput {
				return AddMemberInput{ActorID: f.owner.ID, CommunityID: "01HNOPE", UserID: f.guest.ID, RoleID: f.member.ID}
			},
			wantErr: ErrInvalidReference,
			param:   "community",
		},
		{
			name: "unknown user",
			input: func(f *memberFixture) AddMemberInput {
				return AddMemberInput{ActorID: f.owner.ID, CommunityID: f.community.ID, UserID: "01HNOPE", RoleID: f.member.ID}
			},
			wantErr: ErrInvalidReference,
			param:   "user",
		},
		{
			name: "unknown role",
			input: func(f *memberFixture) AddMemberInput {
				return AddMemberInput{ActorID: f.owner.ID, CommunityID: f.community.ID, UserID: f.guest.ID, RoleID: "01HNOPE"}
			},
			wantErr: ErrInvalidReference,
			param:   "role",
		},
		{
			name: "already a member",
			input: func(f *memberFixture) AddMemberInput {
				return AddMemberInput{ActorID: f.owner.ID, CommunityID: f.community.ID, UserID: f.owner.ID, RoleID: f.member.ID}
			},
			wantErr: ErrAlreadyMember,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMemberFixture(t)
			ctx := context.Background()

			_, err := f.env.members.AddMember(ctx, tc.input(f))
			require.ErrorIs(t, err, tc.wantErr)

			if tc.param != "" {
				var refErr *ReferenceError
				require.ErrorAs(t, err, &refErr)
				assert.Equal(t, tc.param, refErr.Param)
			}

			page, err := f.env.members.ListMembers(ctx, f.community.ID, 0)
			require.NoError(t, err)
			assert.Equal(t, 1, page.Total)
		})
	}
}

func TestAddMember_NonAdminMemberCannotAdd(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	_, err := f.env.members.AddMember(ctx, AddMemberInput{
		ActorID: f.owner.ID, CommunityID: f.community.ID, UserID: f.guest.ID, RoleID: f.member.ID,
	})
	require.NoError(t, err)

	third := f.env.user(t, "cy")
	_, err = f.env.members.AddMember(ctx, AddMemberInput{
		ActorID: f.guest.ID, CommunityID: f.community.ID, UserID: third.ID, RoleID: f.member.ID,
	})
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestAddMember_RequiresFields(t *testing.T) {
	f := newMemberFixture(t)

	_, err := f.env.members.AddMember(context.Background(), AddMemberInput{ActorID: f.owner.ID, CommunityID: f.community.ID})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "user", ve.Param)
}
