package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/service/scoring"
)

type rankOptions struct {
	input       string
	company     string
	jobTitle    string
	description string
	jobType     string
	city        string
	state       string
	hiring      bool
}

type rankOutput struct {
	JobType  scoring.JobType        `json:"job_type"`
	Contacts []entity.RankedContact `json:"contacts"`
}

func newRankCmd() *cobra.Command {
	var opts rankOptions
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank contacts from a JSON file without calling any provider",
		Long:  "Reads a JSON array of contacts (or - for stdin) and prints them ranked as recruiters, or as hiring managers with --hiring.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Path to a JSON array of contacts, - for stdin (required)")
	flags.StringVarP(&opts.company, "company", "c", "", "Target company")
	flags.StringVarP(&opts.jobTitle, "job-title", "t", "", "Job title, used to classify the job type")
	flags.StringVar(&opts.description, "job-description", "", "Job description, used to classify the job type")
	flags.StringVar(&opts.jobType, "job-type", "", "Explicit job type (engineering, sales, marketing, finance, intern, general)")
	flags.StringVar(&opts.city, "city", "", "Job city")
	flags.StringVar(&opts.state, "state", "", "Job state")
	flags.BoolVar(&opts.hiring, "hiring", false, "Rank as hiring managers instead of recruiters")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}
	return cmd
}

func runRank(stdin io.Reader, out io.Writer, opts rankOptions) error {
	var raw []byte
	var err error
	if opts.input == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(opts.input)
	}
	if err != nil {
		return fmt.Errorf("failed to read contacts %s: %w", opts.input, err)
	}

	var contacts []entity.Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return fmt.Errorf("failed to unmarshal contacts JSON: %w", err)
	}

	jobType := scoring.ClassifyJobType(opts.jobTitle, opts.description)
	if opts.jobType != "" {
		jobType = scoring.ParseJobType(opts.jobType)
	}
	loc := scoring.Location{City: opts.city, State: opts.state}

	var ranked []entity.RankedContact
	if opts.hiring {
		ranked = scoring.RankHiringManagers(contacts, jobType, opts.company, loc)
	} else {
		ranked = scoring.RankRecruiters(contacts, jobType, opts.company, loc)
	}
	if ranked == nil {
		ranked = []entity.RankedContact{}
	}
	return writeJSON(out, rankOutput{JobType: jobType, Contacts: ranked})
}
