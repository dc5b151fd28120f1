// Package finder searches the enrichment provider for people worth contacting
// about a role, walking fallback tiers until something useful turns up.
package finder

import (
	"context"
	"errors"
	"strings"

	"github.com/kataras/golog"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider"
	"github.com/octobees/outreach-api/internal/provider/pdl"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
	"github.com/octobees/outreach-api/internal/service/scoring"
)

const (
	DefaultMaxResults = 10
	MaxResultsLimit   = 50
	searchCountry     = "united states"
)

// ErrCompanyRequired is returned for requests without a company.
var ErrCompanyRequired = errors.New("company is required")

// Searcher runs enrichment-provider person searches.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, q pdl.Query) ([]entity.Contact, error)
}

// Request describes the role being hired for.
type Request struct {
	Company          string
	JobTitle         string
	JobDescription   string
	City             string
	State            string
	MaxResults       int
	VerifyEmails     bool
	GenerateOutreach bool
}

func (r Request) normalized() Request {
	r.Company = strings.TrimSpace(r.Company)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.MaxResults > MaxResultsLimit {
		r.MaxResults = MaxResultsLimit
	}
	return r
}

func (r Request) location() scoring.Location {
	return scoring.Location{City: r.City, State: r.State}
}

// Result is returned by every finder branch. Callers check Error rather than
// the shape of the payload.
type Result struct {
	Contacts []entity.ResolvedContact `json:"contacts"`
	JobType  scoring.JobType          `json:"job_type"`
	Tier     string                   `json:"tier,omitempty"`
	Message  string                   `json:"message,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

func errorResult(jobType scoring.JobType, err error) Result {
	return Result{Contacts: []entity.ResolvedContact{}, JobType: jobType, Error: err.Error()}
}

// deps holds what both finders share.
type deps struct {
	search       Searcher
	batch        *emailresolve.Batch
	writer       OutreachWriter
	logger       *golog.Logger
	smallCompany int
}

// Option configures a finder.
type Option func(*deps)

// WithOutreachWriter enables outreach text generation.
func WithOutreachWriter(w OutreachWriter) Option {
	return func(d *deps) {
		if w != nil {
			d.writer = w
		}
	}
}

// WithSmallCompanyThreshold overrides DefaultSmallCompanyThreshold for the
// hiring-manager executive filter.
func WithSmallCompanyThreshold(n int) Option {
	return func(d *deps) {
		if n > 0 {
			d.smallCompany = n
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *golog.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

func newDeps(search Searcher, batch *emailresolve.Batch, opts []Option) deps {
	if search == nil || batch == nil {
		panic("finder: search and batch are required")
	}
	d := deps{search: search, batch: batch, logger: golog.Default, smallCompany: DefaultSmallCompanyThreshold}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// searchTier runs one title query. A provider 404 is an empty tier.
func (d deps) searchTier(ctx context.Context, req Request, titles []string, size int) ([]entity.Contact, error) {
	contacts, err := d.search.Search(ctx, pdl.Query{
		Titles:  titles,
		Company: req.Company,
		Country: searchCountry,
		Size:    size,
	})
	if err != nil {
		if provider.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return contacts, nil
}

// preferCurrent keeps current employees and tops up from former ones only
// when there are fewer than limit current employees.
func preferCurrent(contacts []entity.Contact, limit int) []entity.Contact {
	var current, former []entity.Contact
	for _, c := range contacts {
		if c.IsCurrentlyAtTarget {
			current = append(current, c)
		} else {
			former = append(former, c)
		}
	}
	if len(current) >= limit {
		return current
	}
	need := limit - len(current)
	if need > len(former) {
		need = len(former)
	}
	return append(current, former[:need]...)
}

// finish resolves emails for the ranked contacts and attaches outreach text.
func (d deps) finish(ctx context.Context, req Request, jobType scoring.JobType, ranked []entity.RankedContact) []entity.ResolvedContact {
	contacts := make([]entity.Contact, len(ranked))
	for i, r := range ranked {
		contacts[i] = r.Contact
	}

	var batch emailresolve.BatchResult
	if req.VerifyEmails {
		batch = d.batch.ResolveAll(ctx, contacts, req.Company)
	} else {
		batch = d.batch.GenerateAll(ctx, contacts, req.Company)
	}
	for i := range batch.Items {
		batch.Items[i].Score = ranked[i].Score
		batch.Items[i].Breakdown = ranked[i].Breakdown
		batch.Items[i].Tier = ranked[i].Tier
	}

	items := batch.Items
	if req.VerifyEmails {
		items = batch.VerifiedFirst()
	}
	if req.GenerateOutreach && d.writer != nil {
		d.writeOutreach(ctx, req, jobType, items)
	}
	return items
}

func truncate(ranked []entity.RankedContact, limit int) []entity.RankedContact {
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
