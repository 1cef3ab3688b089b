package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

// CreateMember inserts a new member row.
func (s *Store) CreateMember(ctx context.Context, member *model.Member) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO members (id, user_id, community_id, role_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.User,
		member.Community,
		member.Role,
		toMillis(member.CreatedAt),
		toMillis(member.UpdatedAt),
	)
	return classifyError("create member", err)
}

// GetMember retrieves a user's membership in a community.
func (s *Store) GetMember(ctx context.Context, communityID, userID string) (*model.Member, error) {
	var (
		m                    model.Member
		createdAt, updatedAt int64
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT id, user_id, community_id, role_id, created_at, updated_at
		 FROM members WHERE community_id = ? AND user_id = ?`, communityID, userID,
	).Scan(&m.ID, &m.User, &m.Community, &m.Role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMemberNotFound
		}
		return nil, classifyError("get member", err)
	}
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return &m, nil
}

// ListMembersByCommunity returns a community's members joined with user and role summaries.
func (s *Store) ListMembersByCommunity(ctx context.Context, communityID string, rng repository.Range) ([]*model.MemberDetail, int, error) {
	var total int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE community_id = ?`, communityID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError("count members", err)
	}

	query, args := appendRange(`
		SELECT m.id, m.community_id, u.id, u.name, ro.id, ro.name, m.created_at, m.updated_at
		FROM members m
		JOIN users u ON u.id = m.user_id
		JOIN roles ro ON ro.id = m.role_id
		WHERE m.community_id = ?
		ORDER BY m.id`, []any{communityID}, rng)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyError("list members", err)
	}
	defer rows.Close()

	members := make([]*model.MemberDetail, 0)
	for rows.Next() {
		var (
			m                    model.MemberDetail
			createdAt, updatedAt int64
		)
		if err := rows.Scan(
			&m.ID,
			&m.Community,
			&m.User.ID,
			&m.User.Name,
			&m.Role.ID,
			&m.Role.Name,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, 0, classifyError("scan member", err)
		}
		m.CreatedAt = fromMillis(createdAt)
		m.UpdatedAt = fromMillis(updatedAt)
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyError("iterate members", err)
	}

	return members, total, nil
}
