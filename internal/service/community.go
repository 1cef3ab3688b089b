package service

import (
	"context"
	"unicode/utf8"

	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

const minCommunityNameLength = 3

// CommunityService creates communities and lists them for their owners and members.
type CommunityService struct {
	base
	roles *RoleService
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(store repository.Store, roles *RoleService, opts Options) *CommunityService {
	return &CommunityService{
		base:  newBase(store, opts, "service.community"),
		roles: roles,
	}
}

// CreateCommunity creates a community owned by ownerID together with the
// owner's "Community Admin" membership. Both rows commit or neither does.
func (s *CommunityService) CreateCommunity(ctx context.Context, name, ownerID string) (*model.Community, error) {
	if utf8.RuneCountInString(name) < minCommunityNameLength {
		return nil, invalid("name", "Name must be at least 3 characters long")
	}

	now := s.now()
	community := &model.Community{
		ID:        s.ids.Next(),
		Name:      name,
		Slug:      model.Slugify(name),
		Owner:     ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var founder *model.Member

	err := s.run(ctx, "create community", func(ctx context.Context) error {
		return s.store.InTx(ctx, func(tx repository.Store) error {
			if _, err := tx.GetUserByID(ctx, ownerID); err != nil {
				return resolve(err, repository.ErrUserNotFound, "owner")
			}

			if err := tx.CreateCommunity(ctx, community); err != nil {
				return err
			}

			admin, err := s.roles.AdminRole(ctx, tx)
			if err != nil {
				return err
			}

			founder = &model.Member{
				ID:        s.ids.Next(),
				User:      ownerID,
				Community: community.ID,
				Role:      admin.ID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			return insertMember(ctx, tx, founder)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("community created", "community_id", community.ID, "slug", community.Slug, "owner", ownerID)
	s.metrics.IncCommunityCreated()
	s.metrics.IncMemberAdded()
	s.publish(ctx, events.TypeCommunityCreated, community)
	s.publish(ctx, events.TypeMemberAdded, founder)
	return community, nil
}

// ListOwnedCommunities returns one page of communities owned by userID.
func (s *CommunityService) ListOwnedCommunities(ctx context.Context, userID string, page int) (*model.Page[*model.CommunityDetail], error) {
	page = model.NormalizePageIndex(page)
	return s.list(ctx, "list owned communities", page, func(ctx context.Context) ([]*model.CommunityDetail, int, error) {
		return s.store.ListCommunitiesByOwner(ctx, userID, repository.PageRange(page))
	})
}

// ListCommunitiesForCaller returns every community owned by userID in one listing.
// No limit or offset applies; page only feeds the reported metadata.
func (s *CommunityService) ListCommunitiesForCaller(ctx context.Context, userID string, page int) (*model.Page[*model.CommunityDetail], error) {
	page = model.NormalizePageIndex(page)
	return s.list(ctx, "list caller communities", page, func(ctx context.Context) ([]*model.CommunityDetail, int, error) {
		return s.store.ListCommunitiesByOwner(ctx, userID, repository.Range{})
	})
}

// ListJoinedCommunities returns one page of communities userID is a member of.
func (s *CommunityService) ListJoinedCommunities(ctx context.Context, userID string, page int) (*model.Page[*model.CommunityDetail], error) {
	page = model.NormalizePageIndex(page)
	return s.list(ctx, "list joined communities", page, func(ctx context.Context) ([]*model.CommunityDetail, int, error) {
		return s.store.ListCommunitiesByMember(ctx, userID, repository.PageRange(page))
	})
}

func (s *CommunityService) list(
	ctx context.Context,
	op string,
	page int,
	query func(ctx context.Context) ([]*model.CommunityDetail, int, error),
) (*model.Page[*model.CommunityDetail], error) {
	var (
		items []*model.CommunityDetail
		total int
	)
	err := s.run(ctx, op, func(ctx context.Context) error {
		var err error
		items, total, err = query(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &model.Page[*model.CommunityDetail]{Items: items, Index: page, Total: total}, nil
}
