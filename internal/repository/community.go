package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/commons/commons/internal/model"
)

const communityDetailColumns = `
	c.id, c.name, c.slug, u.id, u.name, c.created_at, c.updated_at
`

// CreateCommunity inserts a new community.
// Returns ErrSlugExists when the slug is already taken.
func (r *Repository) CreateCommunity(ctx context.Context, community *model.Community) error {
	query := `
		INSERT INTO communities (id, name, slug, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		community.ID,
		community.Name,
		community.Slug,
		community.Owner,
		community.CreatedAt,
		community.UpdatedAt,
	)

	return classifyError("create community", err)
}

// GetCommunityByID retrieves a community by ID.
func (r *Repository) GetCommunityByID(ctx context.Context, id string) (*model.Community, error) {
	query := `
		SELECT id, name, slug, owner_id, created_at, updated_at
		FROM communities
		WHERE id = $1
	`

	var c model.Community
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Owner,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommunityNotFound
		}
		return nil, classifyError("get community by ID", err)
	}

	return &c, nil
}

// ListCommunitiesByOwner returns communities owned by a user, joined with the owner summary.
func (r *Repository) ListCommunitiesByOwner(ctx context.Context, ownerID string, rng Range) ([]*model.CommunityDetail, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM communities WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError("count owned communities", err)
	}

	query := `
		SELECT ` + communityDetailColumns + `
		FROM communities c
		JOIN users u ON u.id = c.owner_id
		WHERE c.owner_id = $1
		ORDER BY c.id
	`
	query, args := appendRange(query, []any{ownerID}, rng)

	communities, err := r.queryCommunityDetails(ctx, "list owned communities", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return communities, total, nil
}

// ListCommunitiesByMember returns communities the user belongs to, joined with the owner summary.
func (r *Repository) ListCommunitiesByMember(ctx context.Context, userID string, rng Range) ([]*model.CommunityDetail, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError("count joined communities", err)
	}

	query := `
		SELECT ` + communityDetailColumns + `
		FROM members m
		JOIN communities c ON c.id = m.community_id
		JOIN users u ON u.id = c.owner_id
		WHERE m.user_id = $1
		ORDER BY c.id
	`
	query, args := appendRange(query, []any{userID}, rng)

	communities, err := r.queryCommunityDetails(ctx, "list joined communities", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return communities, total, nil
}

func (r *Repository) queryCommunityDetails(ctx context.Context, op, query string, args ...any) ([]*model.CommunityDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyError(op, err)
	}
	defer rows.Close()

	communities := make([]*model.CommunityDetail, 0)
	for rows.Next() {
		var c model.CommunityDetail
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Slug,
			&c.Owner.ID,
			&c.Owner.Name,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, classifyError(op, err)
		}
		communities = append(communities, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError(op, err)
	}

	return communities, nil
}
