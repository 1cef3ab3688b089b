// Command commonsctl administers a Commons deployment: schema, seed data,
// users, roles and bearer tokens.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/commons/commons/internal/database"
	"github.com/commons/commons/internal/idgen"
	"github.com/commons/commons/internal/metrics"
	"github.com/commons/commons/internal/repository"
	"github.com/commons/commons/internal/service"
)

const commandTimeout = 30 * time.Second

// cli holds global flags shared by every subcommand.
type cli struct {
	databaseURL string
	verbose     bool
	out         io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "commonsctl",
		Short:         "Administer a Commons deployment",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			_, err := database.Backend(c.databaseURL)
			return err
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres:// or sqlite:// store URL")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log service activity to stderr")

	root.AddCommand(
		c.migrateCmd(),
		c.seedCmd(),
		c.userCmd(),
		c.roleCmd(),
		c.tokenCmd(),
		c.eventsCmd(),
	)
	return root
}

func (c *cli) logger() *slog.Logger {
	if !c.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// withStore opens the store for the duration of fn.
func (c *cli) withStore(cmd *cobra.Command, fn func(ctx context.Context, store repository.Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	store, err := database.Open(ctx, c.databaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	return fn(ctx, store)
}

func (c *cli) serviceOptions() service.Options {
	return service.Options{
		Logger:  c.logger(),
		Metrics: metrics.NewNoop(),
		IDs:     idgen.NewULID(),
	}
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
