package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/commons/commons/internal/events"
)

func (c *cli) eventsCmd() *cobra.Command {
	var redisURL string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the community event stream",
		// The stream lives in Redis; no store is needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if redisURL == "" {
				return fmt.Errorf("--redis-url or REDIS_URL is required")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&redisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")

	var count int64
	recent := &cobra.Command{
		Use:   "recent",
		Short: "Print the newest events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := redis.ParseURL(redisURL)
			if err != nil {
				return fmt.Errorf("parse redis url: %w", err)
			}
			client := redis.NewClient(opts)
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			records, skipped, err := events.NewReader(client).Recent(ctx, count)
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d malformed record(s)\n", skipped)
			}
			return c.printJSON(records)
		},
	}
	recent.Flags().Int64VarP(&count, "count", "n", 20, "number of events")

	cmd.AddCommand(recent)
	return cmd
}
