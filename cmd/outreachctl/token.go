package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/octobees/outreach-api/internal/auth"
	"github.com/octobees/outreach-api/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		Long:  "Signs a token with JWT_SECRET and JWT_ISSUER. The subject owns the contacts saved with the token.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}
			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, ttl).GenerateToken(subject, email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "User id the token is issued to (required)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime, defaults to JWT_TTL")
	if err := cmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}
	return cmd
}
