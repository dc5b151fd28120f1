package emailresolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider"
)

// ErrProfileNotFound is returned when the enrichment provider has no record.
var ErrProfileNotFound = errors.New("profile not found")

// Enricher looks a person up by profile URL.
type Enricher interface {
	Configured() bool
	Enrich(ctx context.Context, profileURL string) (entity.Contact, error)
}

// ResolveProfile enriches profileURL and resolves an email for the person.
// Enrichment failures are returned; resolution itself never fails.
func (r *Resolver) ResolveProfile(ctx context.Context, enricher Enricher, profileURL, targetCompany string) (entity.ResolvedContact, error) {
	if enricher == nil || !enricher.Configured() {
		return entity.ResolvedContact{}, provider.ErrNotConfigured
	}
	contact, err := enricher.Enrich(ctx, profileURL)
	if err != nil {
		if provider.IsNotFound(err) {
			return entity.ResolvedContact{}, ErrProfileNotFound
		}
		return entity.ResolvedContact{}, fmt.Errorf("enrich profile: %w", err)
	}
	return r.ResolveContact(ctx, contact, targetCompany, false), nil
}
