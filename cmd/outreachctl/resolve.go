package main

import (
	"github.com/spf13/cobra"

	"github.com/octobees/outreach-api/internal/app"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
)

func newResolveCmd() *cobra.Command {
	var req emailresolve.Request
	var profileURL string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one person's work email",
		Long:  "Resolves the best work email for a person from their name and company, or from a profile URL when --profile is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), func(a *app.App) error {
				if profileURL != "" {
					rc, err := a.Resolver.ResolveProfile(cmd.Context(), a.PDL, profileURL, req.Company)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), rc)
				}
				return writeJSON(cmd.OutOrStdout(), a.Resolver.Resolve(cmd.Context(), req))
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.FirstName, "first", "", "First name")
	flags.StringVar(&req.LastName, "last", "", "Last name")
	flags.StringVarP(&req.Company, "company", "c", "", "Company name")
	flags.StringVar(&req.CompanyWebsite, "website", "", "Company website")
	flags.StringVar(&req.TargetDomain, "domain", "", "Email domain, skips domain resolution")
	flags.StringVar(&req.ProviderEmail, "pdl-email", "", "Email already known from the enrichment provider")
	flags.BoolVar(&req.SkipPersonal, "skip-personal", false, "Never fall back to a personal address")
	flags.StringVar(&profileURL, "profile", "", "Profile URL to enrich before resolving")
	cmd.MarkFlagsOneRequired("company", "domain", "profile")
	return cmd
}
