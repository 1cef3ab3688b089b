package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/commons/commons/internal/auth"
	"github.com/commons/commons/internal/repository"
)

func (c *cli) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens",
	}

	var (
		userID string
		ttl    time.Duration
		secret string
		issuer string
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := auth.NewTokens(secret, issuer)
			if err != nil {
				return fmt.Errorf("--secret or JWT_SECRET: %w", err)
			}
			return c.withStore(cmd, func(ctx context.Context, store repository.Store) error {
				if _, err := store.GetUserByID(ctx, userID); err != nil {
					if errors.Is(err, repository.ErrUserNotFound) {
						return fmt.Errorf("user %s does not exist", userID)
					}
					return fmt.Errorf("look up user: %w", err)
				}
				token, err := tokens.Issue(userID, ttl)
				if err != nil {
					return fmt.Errorf("issue token: %w", err)
				}
				fmt.Fprintln(c.out, token)
				return nil
			})
		},
	}
	issue.Flags().StringVar(&userID, "user", "", "user ID the token identifies")
	issue.Flags().DurationVar(&ttl, "ttl", auth.DefaultTTL, "token lifetime")
	issue.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HS256 signing secret")
	issue.Flags().StringVar(&issuer, "issuer", envOr("JWT_ISSUER", "commons"), "token issuer")
	_ = issue.MarkFlagRequired("user")

	cmd.AddCommand(issue)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
