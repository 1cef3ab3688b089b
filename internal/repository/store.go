package repository

import (
	"context"
	"errors"

	"github.com/commons/commons/internal/model"
)

// Store errors shared by every backend.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRoleNotFound      = errors.New("role not found")
	ErrCommunityNotFound = errors.New("community not found")
	ErrMemberNotFound    = errors.New("member not found")

	ErrEmailExists       = errors.New("email already exists")
	ErrSlugExists        = errors.New("slug already exists")
	ErrMemberExists      = errors.New("member already exists")
	ErrReferenceNotFound = errors.New("referenced row does not exist")
	ErrUnavailable       = errors.New("store unavailable")
)

// Range selects a window of rows. A non-positive Limit selects every row.
type Range struct {
	Limit  int
	Offset int
}

// Unbounded reports whether the range selects every row.
func (r Range) Unbounded() bool {
	return r.Limit <= 0
}

// PageRange returns the range for a zero-indexed page of model.PageSize rows.
func PageRange(index int) Range {
	return Range{Limit: model.PageSize, Offset: model.PageOffset(index)}
}

// Store is the transactional entity store for users, roles, communities and members.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	CreateRole(ctx context.Context, role *model.Role) error
	GetRoleByID(ctx context.Context, id string) (*model.Role, error)
	// GetRoleByName returns the earliest role with exactly this name.
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context, rng Range) ([]*model.Role, int, error)

	CreateCommunity(ctx context.Context, community *model.Community) error
	GetCommunityByID(ctx context.Context, id string) (*model.Community, error)
	ListCommunitiesByOwner(ctx context.Context, ownerID string, rng Range) ([]*model.CommunityDetail, int, error)
	ListCommunitiesByMember(ctx context.Context, userID string, rng Range) ([]*model.CommunityDetail, int, error)

	CreateMember(ctx context.Context, member *model.Member) error
	GetMember(ctx context.Context, communityID, userID string) (*model.Member, error)
	ListMembersByCommunity(ctx context.Context, communityID string, rng Range) ([]*model.MemberDetail, int, error)

	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}
