// Package main is the operator CLI for the outreach services: domain and email
// lookups, offline ranking, finder runs and API tokens.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/octobees/outreach-api/internal/app"
	"github.com/octobees/outreach-api/internal/config"
	"github.com/octobees/outreach-api/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "outreachctl",
		Short:         "Outreach operator tool",
		Long:          "outreachctl resolves company domains and work emails, ranks contacts and runs the recruiter and hiring-manager finders against the configured providers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newDomainCmd(),
		newResolveCmd(),
		newRankCmd(),
		newFindCmd(),
		newTokenCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withServices loads configuration, builds the services and runs fn. Logs go
// to stderr so stdout stays machine readable.
func withServices(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	services, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer services.Close()
	return fn(services)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
