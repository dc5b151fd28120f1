package emailresolve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kataras/golog"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/octobees/outreach-api/internal/cache"
	"github.com/octobees/outreach-api/internal/llm"
)

const (
	complexNameLength   = 30
	minHeuristicLabel   = 2
	maxHeuristicLabel   = 25
	domainLookupSystem  = "You map company names to the email domain their employees use. Reply with the bare domain only, or the word unknown."
	domainLookupMessage = "What is the email domain for employees at '%s'? Reply with only the domain, for example example.com, or unknown."
)

var (
	complexKeywords = []string{"county", "department", "university", "college", "school", "hospital", "medical", "health"}
	legalSuffixes   = map[string]struct{}{
		"inc": {}, "incorporated": {}, "llc": {}, "corp": {}, "corporation": {}, "ltd": {}, "limited": {},
		"co": {}, "company": {}, "plc": {}, "lp": {}, "llp": {}, "gmbh": {}, "ag": {}, "sa": {},
	}
	alnumOnly      = regexp.MustCompile(`^[a-z0-9]+$`)
	nameSeparators = strings.NewReplacer(",", " ", ".", " ", "-", " ", "/", " ")
	trailingPunct  = ".,;:!?\"'`)"
)

// DomainResolver maps a company name, optionally with its website, to the
// domain its employees receive mail at. Every answer, including "none", is
// remembered per normalized company name until the cache is reset.
type DomainResolver struct {
	cache     *cache.Typed[string]
	completer llm.Completer
	logger    *golog.Logger
}

// DomainOption configures a DomainResolver.
type DomainOption func(*DomainResolver)

// WithCompleter sets the generative-text collaborator for complex names.
func WithCompleter(c llm.Completer) DomainOption {
	return func(r *DomainResolver) {
		if c != nil {
			r.completer = c
		}
	}
}

// WithDomainLogger overrides the logger.
func WithDomainLogger(l *golog.Logger) DomainOption {
	return func(r *DomainResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewDomainResolver builds a resolver caching into store.
func NewDomainResolver(store cache.Store, opts ...DomainOption) *DomainResolver {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	r := &DomainResolver{completer: llm.Disabled{}, logger: golog.Default}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = cache.NewTyped[string](store, "domain", cache.NoExpiry, r.logger)
	return r
}

// Resolve returns the company's email domain, or ok=false when none could be
// determined.
func (r *DomainResolver) Resolve(ctx context.Context, company, website string) (string, bool) {
	name := normalizeCompanyName(company)
	if name == "" {
		d := domainFromWebsite(website)
		return d, d != ""
	}
	domain := r.cache.Fetch(ctx, name, func(ctx context.Context) (string, bool) {
		return r.resolveUncached(ctx, name, website)
	})
	return domain, domain != ""
}

// Reset forgets every cached domain resolution.
func (r *DomainResolver) Reset(ctx context.Context) error {
	return r.cache.Reset(ctx)
}

// resolveUncached reports the domain and whether the answer may be cached.
// Consumer mail providers are never returned, whichever step produced them.
func (r *DomainResolver) resolveUncached(ctx context.Context, name, website string) (string, bool) {
	d, cacheable := r.lookup(ctx, name, website)
	if IsPersonalDomain(d) {
		return "", true
	}
	return d, cacheable
}

func (r *DomainResolver) lookup(ctx context.Context, name, website string) (string, bool) {
	if d, ok := lookupKnownDomain(name); ok {
		return d, true
	}
	if d := domainFromWebsite(website); d != "" {
		return d, true
	}
	if isComplexName(name) {
		return r.askCompleter(ctx, name)
	}
	return heuristicDomain(name), true
}

// askCompleter returns cacheable=false when the lookup failed for a reason
// that may clear on the next attempt.
func (r *DomainResolver) askCompleter(ctx context.Context, name string) (string, bool) {
	text, err := r.completer.Complete(ctx, domainLookupSystem, fmt.Sprintf(domainLookupMessage, name))
	switch {
	case errors.Is(err, llm.ErrRateLimited), errors.Is(err, llm.ErrUnavailable):
		r.logger.Warnf("domain lookup via completer unavailable company=%q err=%v", name, err)
		return "", false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.logger.Debugf("domain lookup via completer interrupted company=%q err=%v", name, err)
		return "", false
	case err != nil:
		r.logger.Debugf("domain lookup via completer failed company=%q err=%v", name, err)
		return "", true
	}
	return parseCompletedDomain(text), true
}

// parseCompletedDomain accepts a single token with a dot that is not "unknown".
func parseCompletedDomain(text string) string {
	candidate := strings.ToLower(strings.TrimSpace(llm.CleanText(text)))
	candidate = strings.TrimRight(candidate, trailingPunct)
	candidate = strings.TrimLeft(candidate, "\"'`(")
	if candidate == "" || candidate == "unknown" {
		return ""
	}
	if strings.ContainsAny(candidate, " \t\r\n") || !strings.Contains(candidate, ".") {
		return ""
	}
	candidate = stripURLParts(candidate)
	if candidate == "" || IsPersonalDomain(candidate) {
		return ""
	}
	return candidate
}

func lookupKnownDomain(name string) (string, bool) {
	if d, ok := knownDomains[name]; ok {
		return d, true
	}
	if stripped := stripLegalSuffixes(name); stripped != name {
		if d, ok := knownDomains[stripped]; ok {
			return d, true
		}
	}
	return "", false
}

// domainFromWebsite strips scheme, www, path and query from a website and
// returns its registrable domain unless it is a personal mail provider.
func domainFromWebsite(website string) string {
	host := stripURLParts(website)
	if host == "" || !strings.Contains(host, ".") {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil && etld1 != "" {
		host = etld1
	}
	if IsPersonalDomain(host) {
		return ""
	}
	return host
}

func stripURLParts(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.Trim(s, ".")
}

func isComplexName(name string) bool {
	if utf8.RuneCountInString(name) > complexNameLength || strings.ContainsAny(name, "&'’") {
		return true
	}
	for _, kw := range complexKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// heuristicDomain drops legal suffixes and spaces and appends .com.
func heuristicDomain(name string) string {
	label := strings.ReplaceAll(stripLegalSuffixes(foldDiacritics(name)), " ", "")
	if len(label) < minHeuristicLabel || len(label) > maxHeuristicLabel || !alnumOnly.MatchString(label) {
		return ""
	}
	return label + ".com"
}

func stripLegalSuffixes(name string) string {
	words := strings.Fields(nameSeparators.Replace(name))
	for len(words) > 1 {
		if _, ok := legalSuffixes[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool { return unicode.Is(unicode.Mn, r) }), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func normalizeCompanyName(company string) string {
	return strings.Join(strings.Fields(strings.ToLower(company)), " ")
}

func normalizeDomain(domain string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
}
