package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commons/commons/internal/handler/dto"
	"github.com/commons/commons/internal/repository"
	"github.com/commons/commons/internal/service"
)

func (c *cli) roleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage roles",
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store repository.Store) error {
				role, err := service.NewRoleService(store, c.serviceOptions()).CreateRole(ctx, args[0])
				if err != nil {
					return fmt.Errorf("create role: %w", err)
				}
				return c.printJSON(role)
			})
		},
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List roles, ten per page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store repository.Store) error {
				roles, err := service.NewRoleService(store, c.serviceOptions()).ListRoles(ctx, page)
				if err != nil {
					return fmt.Errorf("list roles: %w", err)
				}
				return c.printJSON(dto.List(roles).Content)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "zero-indexed page")

	cmd.AddCommand(create, list)
	return cmd
}
