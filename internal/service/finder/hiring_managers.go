package finder

import (
	"context"
	"fmt"
	"strings"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
	"github.com/octobees/outreach-api/internal/service/scoring"
)

// DefaultSmallCompanyThreshold is the contact count below which a company is
// treated as small.
const DefaultSmallCompanyThreshold = 5

// executiveTierCutoff skips the executive tier once more contacts than this
// were found in earlier tiers.
const executiveTierCutoff = 5

// HiringManagerFinder accumulates contacts across the five hiring tiers.
type HiringManagerFinder struct {
	deps
}

// NewHiringManagerFinder builds a hiring-manager finder.
func NewHiringManagerFinder(search Searcher, batch *emailresolve.Batch, opts ...Option) *HiringManagerFinder {
	return &HiringManagerFinder{deps: newDeps(search, batch, opts)}
}

// Find walks every tier, stopping once MaxResults contacts are collected.
func (f *HiringManagerFinder) Find(ctx context.Context, req Request) Result {
	req = req.normalized()
	jobType := scoring.ClassifyJobType(req.JobTitle, req.JobDescription)
	if req.Company == "" {
		return errorResult(jobType, ErrCompanyRequired)
	}
	if !f.search.Configured() {
		return Result{Contacts: []entity.ResolvedContact{}, JobType: jobType, Message: messageNotConfigured}
	}

	var found []entity.Contact
	seen := make(map[string]struct{})
	for tier := scoring.TierRecruiting; tier <= scoring.TierExecutive && len(found) < req.MaxResults; tier++ {
		if tier == scoring.TierExecutive && len(found) > executiveTierCutoff {
			f.logger.Debugf("skipping executive tier company=%q found=%d", req.Company, len(found))
			break
		}
		contacts, err := f.searchTier(ctx, req, scoring.TierTitles(tier, jobType), req.MaxResults)
		if err != nil {
			f.logger.Warnf("hiring manager search failed company=%q tier=%d err=%v", req.Company, tier, err)
			return errorResult(jobType, err)
		}
		for _, c := range contacts {
			key := contactKey(c)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			found = append(found, c)
		}
	}

	if len(found) == 0 {
		return Result{
			Contacts: []entity.ResolvedContact{},
			JobType:  jobType,
			Tier:     TierNone,
			Message:  fmt.Sprintf("no hiring managers found at %s", req.Company),
		}
	}

	filtered := f.filterBySize(found)
	ranked := truncate(scoring.RankHiringManagers(filtered, jobType, req.Company, req.location()), req.MaxResults)
	f.logger.Infof("hiring manager search done company=%q found=%d returned=%d", req.Company, len(found), len(ranked))
	return Result{
		Contacts: f.finish(ctx, req, jobType, ranked),
		JobType:  jobType,
		Message:  fmt.Sprintf("found %d hiring contacts", len(ranked)),
	}
}

// filterBySize drops executives at companies large enough to have other
// contacts. Small companies keep everyone.
func (f *HiringManagerFinder) filterBySize(contacts []entity.Contact) []entity.Contact {
	if len(contacts) < f.smallCompany {
		return contacts
	}
	out := make([]entity.Contact, 0, len(contacts))
	for _, c := range contacts {
		if !scoring.IsExecutive(c.Title) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return contacts
	}
	return out
}

func contactKey(c entity.Contact) string {
	if c.ID != "" {
		return "id:" + c.ID
	}
	if c.ProfileURL != "" {
		return "url:" + strings.ToLower(c.ProfileURL)
	}
	return "name:" + strings.ToLower(c.DisplayName()) + "|" + strings.ToLower(c.Title)
}
