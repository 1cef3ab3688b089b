package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/commons/commons/internal/idgen"
	"github.com/commons/commons/internal/model"
	"github.com/commons/commons/internal/repository"
)

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var name, email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long: `Create a user. Users cannot be created over HTTP.

The password is stored as given; credential handling belongs to the
identity provider that issues tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := newUser(name, email, password, time.Now().UTC())
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(ctx context.Context, store repository.Store) error {
				if err := store.CreateUser(ctx, user); err != nil {
					if errors.Is(err, repository.ErrEmailExists) {
						return fmt.Errorf("email %s is already registered", user.Email)
					}
					return fmt.Errorf("create user: %w", err)
				}
				return c.printJSON(user)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&password, "password", "", "opaque credential")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(create)
	return cmd
}

func newUser(name, email, password string, now time.Time) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("--name must not be blank")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("--email: %w", err)
	}
	return &model.User{
		ID:        idgen.NewULID().Next(),
		Name:      name,
		Password:  password,
		Email:     strings.ToLower(addr.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
