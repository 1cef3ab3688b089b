package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commons/commons/internal/database"
	"github.com/commons/commons/internal/repository"
	"github.com/commons/commons/internal/service"
)

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := database.MigrateUp(cmd.Context(), c.databaseURL)
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				fmt.Fprintf(c.out, "applied %d migration(s)\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every applied migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := database.MigrateDown(cmd.Context(), c.databaseURL)
				if err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintf(c.out, "reverted %d migration(s)\n", n)
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default roles when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store repository.Store) error {
				created, err := service.NewRoleService(store, c.serviceOptions()).EnsureDefaultRoles(ctx)
				if err != nil {
					return fmt.Errorf("seed roles: %w", err)
				}
				for _, role := range created {
					fmt.Fprintf(c.out, "created role %q (%s)\n", role.Name, role.ID)
				}
				if len(created) == 0 {
					fmt.Fprintln(c.out, "default roles already present")
				}
				return nil
			})
		},
	}
}
