package emailresolve

import (
	"context"

	"github.com/octobees/outreach-api/internal/entity"
)

// tryAlternates reruns the domain steps on each alternate of domain. The first
// verified answer wins; an unverified alternate only replaces an empty primary.
func (r *Resolver) tryAlternates(ctx context.Context, req Request, domain string, primary entity.Resolution) entity.Resolution {
	best := primary
	for _, alt := range AlternateDomains(domain) {
		res := r.resolveAt(ctx, req, alt)
		if res.Verified {
			r.logger.Debugf("resolved via alternate domain primary=%s alternate=%s", domain, alt)
			return res
		}
		if !best.Found() && res.Found() {
			best = res
		}
	}
	return best
}
