package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/commons/commons/internal/model"
)

// CreateMember inserts a new member row.
// Returns ErrMemberExists when the user already belongs to the community.
func (r *Repository) CreateMember(ctx context.Context, member *model.Member) error {
	query := `
		INSERT INTO members (id, user_id, community_id, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		member.ID,
		member.User,
		member.Community,
		member.Role,
		member.CreatedAt,
		member.UpdatedAt,
	)

	return classifyError("create member", err)
}

// GetMember retrieves a user's membership in a community.
func (r *Repository) GetMember(ctx context.Context, communityID, userID string) (*model.Member, error) {
	query := `
		SELECT id, user_id, community_id, role_id, created_at, updated_at
		FROM members
		WHERE community_id = $1 AND user_id = $2
	`

	var m model.Member
	err := r.db.QueryRow(ctx, query, communityID, userID).Scan(
		&m.ID,
		&m.User,
		&m.Community,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, classifyError("get member", err)
	}

	return &m, nil
}

// ListMembersByCommunity returns a community's members joined with user and role summaries.
// An unknown community yields an empty result.
func (r *Repository) ListMembersByCommunity(ctx context.Context, communityID string, rng Range) ([]*model.MemberDetail, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE community_id = $1`, communityID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError("count members", err)
	}

	query := `
		SELECT m.id, m.community_id, u.id, u.name, ro.id, ro.name, m.created_at, m.updated_at
		FROM members m
		JOIN users u ON u.id = m.user_id
		JOIN roles ro ON ro.id = m.role_id
		WHERE m.community_id = $1
		ORDER BY m.id
	`
	query, args := appendRange(query, []any{communityID}, rng)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyError("list members", err)
	}
	defer rows.Close()

	members := make([]*model.MemberDetail, 0)
	for rows.Next() {
		var m model.MemberDetail
		if err := rows.Scan(
			&m.ID,
			&m.Community,
			&m.User.ID,
			&m.User.Name,
			&m.Role.ID,
			&m.Role.Name,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, 0, classifyError("scan member", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, classifyError("iterate members", err)
	}

	return members, total, nil
}
