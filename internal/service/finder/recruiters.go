package finder

import (
	"context"
	"fmt"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
	"github.com/octobees/outreach-api/internal/service/scoring"
)

// Recruiter search tiers.
const (
	TierRecruiters = "recruiters"
	TierHR         = "hr"
	TierExecutives = "executives"
	TierNone       = "none"
)

// Messages describing which tier produced the contacts.
const (
	MessageHRFallback        = "no dedicated recruiters, found HR"
	MessageExecutiveFallback = "no recruiters or HR found, showing executives"
	messageNoneFound         = "no recruiters, HR or executives found at %s"
	messageNotConfigured     = "contact search is not configured"
)

// RecruiterFinder looks for recruiters, falling back to HR and then to
// executives when a tier comes back empty.
type RecruiterFinder struct {
	deps
}

// NewRecruiterFinder builds a recruiter finder.
func NewRecruiterFinder(search Searcher, batch *emailresolve.Batch, opts ...Option) *RecruiterFinder {
	return &RecruiterFinder{deps: newDeps(search, batch, opts)}
}

type recruiterTier struct {
	name    string
	titles  []string
	limit   int
	message string
}

func (f *RecruiterFinder) tiers(req Request, jobType scoring.JobType) []recruiterTier {
	execLimit := req.MaxResults / 2
	if execLimit < 1 {
		execLimit = 1
	}
	return []recruiterTier{
		{name: TierRecruiters, titles: scoring.RecruiterTitles(jobType), limit: req.MaxResults},
		{name: TierHR, titles: scoring.HRTitles, limit: req.MaxResults, message: MessageHRFallback},
		{name: TierExecutives, titles: scoring.ExecutiveTitles, limit: execLimit, message: MessageExecutiveFallback},
	}
}

// Find walks the tiers in order and returns the first non-empty one, ranked.
func (f *RecruiterFinder) Find(ctx context.Context, req Request) Result {
	req = req.normalized()
	jobType := scoring.ClassifyJobType(req.JobTitle, req.JobDescription)
	if req.Company == "" {
		return errorResult(jobType, ErrCompanyRequired)
	}
	if !f.search.Configured() {
		return Result{Contacts: []entity.ResolvedContact{}, JobType: jobType, Message: messageNotConfigured}
	}

	for _, tier := range f.tiers(req, jobType) {
		found, err := f.searchTier(ctx, req, tier.titles, tier.limit*2)
		if err != nil {
			f.logger.Warnf("recruiter search failed company=%q tier=%s err=%v", req.Company, tier.name, err)
			return errorResult(jobType, err)
		}
		if len(found) == 0 {
			f.logger.Debugf("recruiter tier empty company=%q tier=%s", req.Company, tier.name)
			continue
		}

		selected := preferCurrent(found, tier.limit)
		ranked := truncate(scoring.RankRecruiters(selected, jobType, req.Company, req.location()), tier.limit)
		message := tier.message
		if message == "" {
			message = fmt.Sprintf("found %d recruiters", len(ranked))
		}
		f.logger.Infof("recruiter search done company=%q tier=%s contacts=%d", req.Company, tier.name, len(ranked))
		return Result{
			Contacts: f.finish(ctx, req, jobType, ranked),
			JobType:  jobType,
			Tier:     tier.name,
			Message:  message,
		}
	}

	return Result{
		Contacts: []entity.ResolvedContact{},
		JobType:  jobType,
		Tier:     TierNone,
		Message:  fmt.Sprintf(messageNoneFound, req.Company),
	}
}
