package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

const minRoleNameLength = 2

// RoleService is the role registry.
type RoleService struct {
	base
}

// NewRoleService creates a new RoleService.
func NewRoleService(store repository.Store, opts Options) *RoleService {
	return &RoleService{base: newBase(store, opts, "service.role")}
}

// CreateRole persists a new role. Role names need not be unique.
func (s *RoleService) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	if utf8.RuneCountInString(name) < minRoleNameLength {
		return nil, invalid("name", "Name must be at least 2 characters long")
	}

	now := s.now()
	role := &model.Role{ID: s.ids.Next(), Name: name, CreatedAt: now, UpdatedAt: now}

	err := s.run(ctx, "create role", func(ctx context.Context) error {
		return s.store.CreateRole(ctx, role)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRoleCreated()
	s.publish(ctx, events.TypeRoleCreated, role)
	return role, nil
}

// ListRoles returns one page of roles in creation order. Negative pages read page 0.
func (s *RoleService) ListRoles(ctx context.Context, page int) (*model.Page[*model.Role], error) {
	page = model.NormalizePageIndex(page)

	var (
		roles []*model.Role
		total int
	)
	err := s.run(ctx, "list roles", func(ctx context.Context) error {
		var err error
		roles, total, err = s.store.ListRoles(ctx, repository.PageRange(page))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &model.Page[*model.Role]{Items: roles, Index: page, Total: total}, nil
}

// EnsureDefaultRoles creates each default role that has no row with its exact name.
// It is safe to call on every start and returns the resolved default roles.
func (s *RoleService) EnsureDefaultRoles(ctx context.Context) ([]*model.Role, error) {
	resolved := make([]*model.Role, 0, len(model.DefaultRoleNames))
	created := make([]*model.Role, 0, len(model.DefaultRoleNames))

	err := s.run(ctx, "ensure default roles", func(ctx context.Context) error {
		return s.store.InTx(ctx, func(tx repository.Store) error {
			for _, name := range model.DefaultRoleNames {
				role, err := tx.GetRoleByName(ctx, name)
				if err == nil {
					resolved = append(resolved, role)
					continue
				}
				if !errors.Is(err, repository.ErrRoleNotFound) {
					return err
				}

				now := s.now()
				role = &model.Role{ID: s.ids.Next(), Name: name, CreatedAt: now, UpdatedAt: now}
				if err := tx.CreateRole(ctx, role); err != nil {
					return err
				}
				resolved = append(resolved, role)
				created = append(created, role)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	for _, role := range created {
		s.logger.Info("default role created", "role_id", role.ID, "name", role.Name)
		s.metrics.IncRoleCreated()
		s.publish(ctx, events.TypeRoleCreated, role)
	}
	return resolved, nil
}

// AdminRole resolves the "Community Admin" role through store, which may be a transaction.
// A missing role is reported as ErrDependencyNotFound.
func (s *RoleService) AdminRole(ctx context.Context, store repository.Store) (*model.Role, error) {
	if store == nil {
		store = s.store
	}
	role, err := store.GetRoleByName(ctx, model.RoleCommunityAdmin)
	if errors.Is(err, repository.ErrRoleNotFound) {
		s.logger.Error("admin role missing; run default role bootstrap", "name", model.RoleCommunityAdmin)
		return nil, ErrDependencyNotFound
	}
	return role, err
}
