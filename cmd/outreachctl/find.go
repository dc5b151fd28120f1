package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octobees/outreach-api/internal/app"
	"github.com/octobees/outreach-api/internal/service/finder"
)

func newFindCmd() *cobra.Command {
	var req finder.Request
	cmd := &cobra.Command{
		Use:       "find <recruiters|hiring-managers>",
		Short:     "Run a finder cascade against the enrichment provider",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"recruiters", "hiring-managers"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(a *app.App) error {
				var result finder.Result
				if args[0] == "recruiters" {
					result = a.Recruiters.Find(cmd.Context(), req)
				} else {
					result = a.HiringManagers.Find(cmd.Context(), req)
				}
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if result.Error != "" {
					return fmt.Errorf("finder failed: %s", result.Error)
				}
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&req.Company, "company", "c", "", "Hiring company (required)")
	flags.StringVarP(&req.JobTitle, "job-title", "t", "", "Job title")
	flags.StringVar(&req.JobDescription, "job-description", "", "Job description")
	flags.StringVar(&req.City, "city", "", "Job city")
	flags.StringVar(&req.State, "state", "", "Job state")
	flags.IntVarP(&req.MaxResults, "max", "n", finder.DefaultMaxResults, "Maximum contacts to return")
	flags.BoolVar(&req.VerifyEmails, "verify", false, "Run full email verification for every contact")
	flags.BoolVar(&req.GenerateOutreach, "outreach", false, "Draft an outreach message per contact")
	if err := cmd.MarkFlagRequired("company"); err != nil {
		panic(fmt.Sprintf("failed to mark company flag as required: %v", err))
	}
	return cmd
}
