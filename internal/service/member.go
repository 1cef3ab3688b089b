package service

import (
	"context"
	"errors"

	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

// MemberService lists and adds community members.
type MemberService struct {
	base
}

// NewMemberService creates a new MemberService.
func NewMemberService(store repository.Store, opts Options) *MemberService {
	return &MemberService{base: newBase(store, opts, "service.member")}
}

// ListMembers returns one page of a community's members with user and role summaries.
// Unknown and empty communities yield an empty page.
func (s *MemberService) ListMembers(ctx context.Context, communityID string, page int) (*model.Page[*model.MemberDetail], error) {
	page = model.NormalizePageIndex(page)

	var (
		members []*model.MemberDetail
		total   int
	)
	err := s.run(ctx, "list members", func(ctx context.Context) error {
		var err error
		members, total, err = s.store.ListMembersByCommunity(ctx, communityID, repository.PageRange(page))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &model.Page[*model.MemberDetail]{Items: members, Index: page, Total: total}, nil
}

// AddMemberInput defines input for adding a member.
type AddMemberInput struct {
	ActorID     string
	CommunityID string
	UserID      string
	RoleID      string
}

// AddMember grants UserID the role RoleID in the community.
// The actor must hold "Community Admin" in that community.
func (s *MemberService) AddMember(ctx context.Context, input AddMemberInput) (*model.Member, error) {
	switch {
	case input.CommunityID == "":
		return nil, invalid("community", "Community is required")
	case input.UserID == "":
		return nil, invalid("user", "User is required")
	case input.RoleID == "":
		return nil, invalid("role", "Role is required")
	}

	now := s.now()
	member := &model.Member{
		ID:        s.ids.Next(),
		User:      input.UserID,
		Community: input.CommunityID,
		Role:      input.RoleID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.run(ctx, "add member", func(ctx context.Context) error {
		return s.store.InTx(ctx, func(tx repository.Store) error {
			if _, err := tx.GetCommunityByID(ctx, input.CommunityID); err != nil {
				return resolve(err, repository.ErrCommunityNotFound, "community")
			}
			if err := requireAdmin(ctx, tx, input.CommunityID, input.ActorID); err != nil {
				return err
			}
			return insertMember(ctx, tx, member)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("member added", "community_id", member.Community, "user_id", member.User, "role_id", member.Role)
	s.metrics.IncMemberAdded()
	s.publish(ctx, events.TypeMemberAdded, member)
	return member, nil
}

// requireAdmin fails with ErrNotAllowed unless actorID holds a role named
// "Community Admin" in the community.
func requireAdmin(ctx context.Context, tx repository.Store, communityID, actorID string) error {
	membership, err := tx.GetMember(ctx, communityID, actorID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return ErrNotAllowed
	}
	if err != nil {
		return err
	}

	role, err := tx.GetRoleByID(ctx, membership.Role)
	if errors.Is(err, repository.ErrRoleNotFound) {
		return ErrNotAllowed
	}
	if err != nil {
		return err
	}
	if role.Name != model.RoleCommunityAdmin {
		return ErrNotAllowed
	}
	return nil
}

// insertMember checks that every reference resolves, then writes the row.
func insertMember(ctx context.Context, tx repository.Store, member *model.Member) error {
	if _, err := tx.GetUserByID(ctx, member.User); err != nil {
		return resolve(err, repository.ErrUserNotFound, "user")
	}
	if _, err := tx.GetCommunityByID(ctx, member.Community); err != nil {
		return resolve(err, repository.ErrCommunityNotFound, "community")
	}
	if _, err := tx.GetRoleByID(ctx, member.Role); err != nil {
		return resolve(err, repository.ErrRoleNotFound, "role")
	}
	return tx.CreateMember(ctx, member)
}
