package emailresolve

import (
	"context"
	"strings"

	"github.com/kataras/golog"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/outreach-api/internal/entity"
)

// BatchConcurrency caps simultaneous per-contact or per-domain work.
const BatchConcurrency = 5

// DraftPolicy decides which resolved contacts are eligible for drafting.
type DraftPolicy struct {
	AllowUnverified bool
}

// BatchResult holds one ResolvedContact per input contact, in input order.
type BatchResult struct {
	Items []entity.ResolvedContact
}

// VerifiedFirst returns the items ordered verified, then unverified, then
// without email. Relative order inside each bucket is preserved.
func (b BatchResult) VerifiedFirst() []entity.ResolvedContact {
	out := make([]entity.ResolvedContact, 0, len(b.Items))
	for _, idx := range b.order(true) {
		out = append(out, b.Items[idx])
	}
	for i, item := range b.Items {
		if !item.Resolution.Found() {
			out = append(out, b.Items[i])
		}
	}
	return out
}

// DraftOrder returns the indices of items to draft, verified first. Unverified
// addresses are included only when the policy allows them.
func (b BatchResult) DraftOrder(policy DraftPolicy) []int {
	return b.order(policy.AllowUnverified)
}

func (b BatchResult) order(withUnverified bool) []int {
	var verified, unverified []int
	for i, item := range b.Items {
		switch {
		case !item.Resolution.Found():
		case item.Resolution.Verified:
			verified = append(verified, i)
		default:
			unverified = append(unverified, i)
		}
	}
	if withUnverified {
		return append(verified, unverified...)
	}
	return verified
}

// Counts returns the number of verified, unverified and empty results.
func (b BatchResult) Counts() (verified, unverified, none int) {
	for _, item := range b.Items {
		switch {
		case !item.Resolution.Found():
			none++
		case item.Resolution.Verified:
			verified++
		default:
			unverified++
		}
	}
	return verified, unverified, none
}

// Batch resolves many contacts at once.
type Batch struct {
	resolver    *Resolver
	concurrency int
	logger      *golog.Logger
}

// NewBatch wraps resolver for batch use.
func NewBatch(resolver *Resolver) *Batch {
	return &Batch{resolver: resolver, concurrency: BatchConcurrency, logger: resolver.logger}
}

// ResolveAll runs the full resolution for every contact with bounded
// concurrency. result.Items[i] always belongs to contacts[i].
func (b *Batch) ResolveAll(ctx context.Context, contacts []entity.Contact, targetCompany string) BatchResult {
	items := make([]entity.ResolvedContact, len(contacts))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i := range contacts {
		g.Go(func() error {
			items[i] = b.resolver.ResolveContact(ctx, contacts[i], targetCompany, false)
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Items: items}
	v, u, n := res.Counts()
	b.logger.Infof("batch resolve done contacts=%d verified=%d unverified=%d none=%d", len(contacts), v, u, n)
	return res
}

// GenerateAll synthesises emails without verification. Each unique domain's
// pattern is fetched once; contacts fall back to their provider email, then
// to no email.
func (b *Batch) GenerateAll(ctx context.Context, contacts []entity.Contact, targetCompany string) BatchResult {
	requests := make([]Request, len(contacts))
	for i, c := range contacts {
		requests[i] = RequestForContact(c, targetCompany, false)
	}

	domainByCompany := b.resolveCompanies(ctx, requests)
	patternByDomain := b.fetchPatterns(ctx, domainByCompany)

	items := make([]entity.ResolvedContact, len(contacts))
	for i, req := range requests {
		items[i] = entity.ResolvedContact{Contact: contacts[i]}
		domain := domainByCompany[companyKey(req)]
		first, last := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)

		if pattern, ok := patternByDomain[domain]; ok && first != "" && last != "" {
			items[i].Resolution = entity.Resolution{Email: GenerateEmail(first, last, domain, pattern), Source: entity.EmailSourceHunter}
			continue
		}
		if email := strings.ToLower(strings.TrimSpace(req.ProviderEmail)); email != "" {
			items[i].Resolution = entity.Resolution{Email: email, Source: entity.EmailSourcePDL}
		}
	}
	return BatchResult{Items: items}
}

func companyKey(req Request) string {
	return normalizeCompanyName(req.Company) + "|" + strings.ToLower(strings.TrimSpace(req.CompanyWebsite))
}

// resolveCompanies resolves each distinct company once.
func (b *Batch) resolveCompanies(ctx context.Context, requests []Request) map[string]string {
	unique := make(map[string]Request)
	for _, req := range requests {
		key := companyKey(req)
		if _, seen := unique[key]; !seen {
			unique[key] = req
		}
	}
	keys := make([]string, 0, len(unique))
	for k := range unique {
		keys = append(keys, k)
	}

	domains := make([]string, len(keys))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			req := unique[key]
			domains[i], _ = b.resolver.domains.Resolve(ctx, req.Company, req.CompanyWebsite)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]string, len(keys))
	for i, key := range keys {
		out[key] = domains[i]
	}
	return out
}

// fetchPatterns looks up one pattern per distinct non-empty domain.
func (b *Batch) fetchPatterns(ctx context.Context, domainByCompany map[string]string) map[string]string {
	seen := make(map[string]struct{})
	var domains []string
	for _, d := range domainByCompany {
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
	}

	patterns := make([]string, len(domains))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, d := range domains {
		g.Go(func() error {
			patterns[i], _ = b.resolver.patterns.Pattern(ctx, d)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]string, len(domains))
	for i, d := range domains {
		if patterns[i] != "" {
			out[d] = patterns[i]
		}
	}
	return out
}
