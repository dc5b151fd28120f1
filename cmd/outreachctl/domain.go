package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octobees/outreach-api/internal/app"
)

func newDomainCmd() *cobra.Command {
	var website string
	cmd := &cobra.Command{
		Use:   "domain <company>",
		Short: "Resolve a company's email domain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company := strings.Join(args, " ")
			return withServices(cmd.Context(), func(a *app.App) error {
				domain, ok := a.Domains.Resolve(cmd.Context(), company, website)
				if !ok {
					return fmt.Errorf("no domain found for %q", company)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), domain)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&website, "website", "w", "", "Company website, preferred over the name when set")
	return cmd
}
