// Package emailresolve decides the single best work email for a person by
// combining the enrichment record, the finder, domain patterns and the
// verifier, and fans that decision out over batches of contacts.
package emailresolve

import (
	"context"
	"strings"

	"github.com/kataras/golog"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider/hunter"
)

// Acceptance thresholds, in verifier or finder score points.
const (
	ProviderEmailMinScore    = 80
	FinderMinScore           = 70
	PatternValidMinScore     = 70
	PatternAcceptAllMinScore = 75
	PersonalEmailMinScore    = 85
)

// EmailFinder looks up one person's address at a domain.
type EmailFinder interface {
	Configured() bool
	FindEmail(ctx context.Context, first, last, domain string) (hunter.FinderResult, error)
}

// Request is the input of a single resolution.
type Request struct {
	ProviderEmail  string
	FirstName      string
	LastName       string
	Company        string
	CompanyWebsite string
	TargetDomain   string
	SkipPersonal   bool
}

// Resolver runs the resolution steps for one person.
type Resolver struct {
	domains  *DomainResolver
	patterns *PatternService
	verifier *Verifier
	finder   EmailFinder
	logger   *golog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger overrides the resolver logger.
func WithLogger(l *golog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver wires the resolution collaborators. domains, patterns and
// verifier are required.
func NewResolver(domains *DomainResolver, patterns *PatternService, verifier *Verifier, finder EmailFinder, opts ...ResolverOption) *Resolver {
	if domains == nil || patterns == nil || verifier == nil {
		panic("emailresolve: NewResolver requires domains, patterns and verifier")
	}
	r := &Resolver{
		domains:  domains,
		patterns: patterns,
		verifier: verifier,
		finder:   finder,
		logger:   golog.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the best email for req. It never fails: provider problems
// degrade to an unverified or empty Resolution.
func (r *Resolver) Resolve(ctx context.Context, req Request) entity.Resolution {
	req.ProviderEmail = strings.ToLower(strings.TrimSpace(req.ProviderEmail))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	domain := r.targetDomain(ctx, req)
	if domain != "" {
		res := r.resolveAt(ctx, req, domain)
		if !res.Verified {
			res = r.tryAlternates(ctx, req, domain, res)
		}
		if res.Found() {
			return res
		}
	}

	if res, ok := r.personalFallback(ctx, req); ok {
		return res
	}
	return entity.NoResolution
}

// ResolveContact resolves a provider contact. targetCompany, when set,
// replaces the contact's own employer for domain determination.
func (r *Resolver) ResolveContact(ctx context.Context, c entity.Contact, targetCompany string, skipPersonal bool) entity.ResolvedContact {
	return entity.ResolvedContact{
		Contact:    c,
		Resolution: r.Resolve(ctx, RequestForContact(c, targetCompany, skipPersonal)),
	}
}

// RequestForContact builds a resolution request from a contact.
func RequestForContact(c entity.Contact, targetCompany string, skipPersonal bool) Request {
	req := Request{
		ProviderEmail:  c.PrimaryEmail(),
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Company:        c.Company,
		CompanyWebsite: c.CompanyWebsite,
		SkipPersonal:   skipPersonal,
	}
	if company := strings.TrimSpace(targetCompany); company != "" && !strings.EqualFold(company, c.Company) {
		req.Company = company
		req.CompanyWebsite = ""
	}
	return req
}

func (r *Resolver) targetDomain(ctx context.Context, req Request) string {
	if d := normalizeDomain(req.TargetDomain); d != "" {
		if IsPersonalDomain(d) {
			return ""
		}
		return d
	}
	d, _ := r.domains.Resolve(ctx, req.Company, req.CompanyWebsite)
	if IsPersonalDomain(d) {
		return ""
	}
	return d
}

// resolveAt runs the provider-email, finder and pattern steps against domain.
func (r *Resolver) resolveAt(ctx context.Context, req Request, domain string) entity.Resolution {
	if req.ProviderEmail != "" && domainsMatch(EmailDomain(req.ProviderEmail), domain) {
		return r.checkProviderEmail(ctx, req.ProviderEmail)
	}

	if req.FirstName == "" || req.LastName == "" {
		return entity.NoResolution
	}

	if email, ok := r.findEmail(ctx, req, domain); ok {
		return entity.Resolution{Email: email, Verified: true, Source: entity.EmailSourceHunter}
	}

	pattern, ok := r.patterns.Pattern(ctx, domain)
	if !ok {
		return entity.Resolution{Email: NaiveEmail(req.FirstName, req.LastName, domain), Source: entity.EmailSourceHunter}
	}
	candidate := GenerateEmail(req.FirstName, req.LastName, domain, pattern)
	verdict, checked := r.verifier.Verify(ctx, candidate)
	return entity.Resolution{
		Email:    candidate,
		Verified: checked && patternAccepted(verdict),
		Source:   entity.EmailSourceHunter,
	}
}

func (r *Resolver) checkProviderEmail(ctx context.Context, email string) entity.Resolution {
	verdict, checked := r.verifier.Verify(ctx, email)
	return entity.Resolution{
		Email:    email,
		Verified: checked && verdict.Score >= ProviderEmailMinScore,
		Source:   entity.EmailSourcePDL,
	}
}

func (r *Resolver) findEmail(ctx context.Context, req Request, domain string) (string, bool) {
	if r.finder == nil || !r.finder.Configured() {
		return "", false
	}
	found, err := r.finder.FindEmail(ctx, req.FirstName, req.LastName, domain)
	if err != nil {
		r.logger.Warnf("email finder failed domain=%s err=%v", domain, err)
		return "", false
	}
	email := strings.ToLower(strings.TrimSpace(found.Email))
	if email == "" || found.Score < FinderMinScore {
		return "", false
	}
	return email, true
}

func (r *Resolver) personalFallback(ctx context.Context, req Request) (entity.Resolution, bool) {
	if req.SkipPersonal || req.ProviderEmail == "" || !IsPersonalDomain(EmailDomain(req.ProviderEmail)) {
		return entity.NoResolution, false
	}
	verdict, checked := r.verifier.Verify(ctx, req.ProviderEmail)
	if !checked || verdict.Score < PersonalEmailMinScore {
		return entity.NoResolution, false
	}
	return entity.Resolution{Email: req.ProviderEmail, Verified: true, Source: entity.EmailSourcePDL}, true
}

func patternAccepted(v entity.Verification) bool {
	switch v.Status {
	case entity.StatusValid:
		return v.Score >= PatternValidMinScore
	case entity.StatusAcceptAll:
		return v.Score >= PatternAcceptAllMinScore
	}
	return false
}

// domainsMatch treats equal domains and subdomains in either direction as the same employer.
func domainsMatch(a, b string) bool {
	a, b = normalizeDomain(a), normalizeDomain(b)
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}
