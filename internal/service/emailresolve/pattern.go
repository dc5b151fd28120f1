package emailresolve

import (
	"context"
	"time"

	"github.com/kataras/golog"

	"github.com/octobees/outreach-api/internal/cache"
)

// PatternTTL bounds how long a discovered pattern is reused.
const PatternTTL = time.Hour

// PatternSource discovers the dominant local-part pattern of a domain.
type PatternSource interface {
	Configured() bool
	DomainSearch(ctx context.Context, domain string) (string, error)
}

// PatternService caches domain patterns for PatternTTL.
type PatternService struct {
	source PatternSource
	cache  *cache.Typed[string]
	logger *golog.Logger
}

// NewPatternService builds a pattern service over source, caching into store.
func NewPatternService(source PatternSource, store cache.Store, logger *golog.Logger) *PatternService {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	if logger == nil {
		logger = golog.Default
	}
	return &PatternService{
		source: source,
		cache:  cache.NewTyped[string](store, "pattern", PatternTTL, logger),
		logger: logger,
	}
}

// Pattern returns the cached or freshly discovered pattern for domain.
// Personal mail domains are refused without a provider call. Provider
// failures yield ok=false and are not cached.
func (s *PatternService) Pattern(ctx context.Context, domain string) (string, bool) {
	domain = normalizeDomain(domain)
	if domain == "" || IsPersonalDomain(domain) {
		return "", false
	}
	if s.source == nil || !s.source.Configured() {
		return "", false
	}
	pattern := s.cache.Fetch(ctx, domain, func(ctx context.Context) (string, bool) {
		p, err := s.source.DomainSearch(ctx, domain)
		if err != nil {
			s.logger.Warnf("pattern lookup failed domain=%s err=%v", domain, err)
			return "", false
		}
		return p, p != ""
	})
	return pattern, pattern != ""
}
