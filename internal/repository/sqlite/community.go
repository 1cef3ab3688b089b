package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

const communityDetailColumns = `c.id, c.name, c.slug, u.id, u.name, c.created_at, c.updated_at`

// CreateCommunity inserts a new community.
func (s *Store) CreateCommunity(ctx context.Context, community *model.Community) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO communities (id, name, slug, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		community.ID,
		community.Name,
		community.Slug,
		community.Owner,
		toMillis(community.CreatedAt),
		toMillis(community.UpdatedAt),
	)
	return classifyError("create community", err)
}

// GetCommunityByID retrieves a community by ID.
func (s *Store) GetCommunityByID(ctx context.Context, id string) (*model.Community, error) {
	var (
		c                    model.Community
		createdAt, updatedAt int64
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT id, name, slug, owner_id, created_at, updated_at FROM communities WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Owner, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrCommunityNotFound
		}
		return nil, classifyError("get community by ID", err)
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

// ListCommunitiesByOwner returns communities owned by a user, joined with the owner summary.
func (s *Store) ListCommunitiesByOwner(ctx context.Context, ownerID string, rng repository.Range) ([]*model.CommunityDetail, int, error) {
	var total int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM communities WHERE owner_id = ?`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError("count owned communities", err)
	}

	query, args := appendRange(`
		SELECT `+communityDetailColumns+`
		FROM communities c
		JOIN users u ON u.id = c.owner_id
		WHERE c.owner_id = ?
		ORDER BY c.id`, []any{ownerID}, rng)

	communities, err := s.queryCommunityDetails(ctx, "list owned communities", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return communities, total, nil
}

// ListCommunitiesByMember returns communities the user belongs to, joined with the owner summary.
func (s *Store) ListCommunitiesByMember(ctx context.Context, userID string, rng repository.Range) ([]*model.CommunityDetail, int, error) {
	var total int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError("count joined communities", err)
	}

	query, args := appendRange(`
		SELECT `+communityDetailColumns+`
		FROM members m
		JOIN communities c ON c.id = m.community_id
		JOIN users u ON u.id = c.owner_id
		WHERE m.user_id = ?
		ORDER BY c.id`, []any{userID}, rng)

	communities, err := s.queryCommunityDetails(ctx, "list joined communities", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return communities, total, nil
}

func (s *Store) queryCommunityDetails(ctx context.Context, op, query string, args ...any) ([]*model.CommunityDetail, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(op, err)
	}
	defer rows.Close()

	communities := make([]*model.CommunityDetail, 0)
	for rows.Next() {
		var (
			c                    model.CommunityDetail
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Owner.ID, &c.Owner.Name, &createdAt, &updatedAt); err != nil {
			return nil, classifyError(op, err)
		}
		c.CreatedAt = fromMillis(createdAt)
		c.UpdatedAt = fromMillis(updatedAt)
		communities = append(communities, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(op, err)
	}

	return communities, nil
}
