package emailresolve

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kataras/golog"

	"github.com/octobees/outreach-api/internal/cache"
	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider"
	"github.com/octobees/outreach-api/internal/provider/hunter"
)

// VerificationTTL bounds how long a verdict is reused.
const VerificationTTL = time.Hour

// uncertainScore is reported for "could not verify" answers.
const uncertainScore = 50

// VerifySource scores the deliverability of one address.
type VerifySource interface {
	Configured() bool
	VerifyEmail(ctx context.Context, email string) (hunter.VerifyResult, error)
}

// Verifier classifies provider verdicts and caches real answers.
type Verifier struct {
	source VerifySource
	cache  *cache.Typed[entity.Verification]
	logger *golog.Logger
}

// NewVerifier builds a verifier over source, caching into store.
func NewVerifier(source VerifySource, store cache.Store, logger *golog.Logger) *Verifier {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	if logger == nil {
		logger = golog.Default
	}
	return &Verifier{
		source: source,
		cache:  cache.NewTyped[entity.Verification](store, "verify", VerificationTTL, logger),
		logger: logger,
	}
}

// Verify returns the verdict for email. ok is false only when no verifier is
// configured; provider failures come back as a Verification with Status
// "error" and a Meta describing the failure.
func (v *Verifier) Verify(ctx context.Context, email string) (entity.Verification, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || v.source == nil || !v.source.Configured() {
		return entity.Verification{}, false
	}
	verdict := v.cache.Fetch(ctx, email, func(ctx context.Context) (entity.Verification, bool) {
		res := v.fetch(ctx, email)
		return res, res.Cacheable()
	})
	return verdict, true
}

func (v *Verifier) fetch(ctx context.Context, email string) entity.Verification {
	res, err := v.source.VerifyEmail(ctx, email)
	if err != nil {
		return v.classifyError(email, err)
	}
	switch {
	case res.ErrorCode == hunter.ErrorCodeUncertain:
		return entity.Verification{Email: email, Status: entity.StatusUnknown, Score: uncertainScore, Meta: entity.MetaUnknown}
	case res.ErrorCode != 0:
		v.logger.Warnf("verifier returned error code email=%s code=%d", email, res.ErrorCode)
		return failedVerification(email, entity.MetaError)
	case !res.HasData:
		return failedVerification(email, entity.MetaError)
	}
	return entity.Verification{
		Email:     email,
		Status:    parseStatus(res.Status),
		Score:     res.Score,
		AcceptAll: res.AcceptAll,
		Meta:      entity.MetaSuccess,
	}
}

func (v *Verifier) classifyError(email string, err error) entity.Verification {
	switch {
	case errors.Is(err, provider.ErrRateLimited):
		v.logger.Warnf("verifier rate limited after retries email=%s", email)
		return failedVerification(email, entity.MetaRateLimited)
	case provider.IsStatus(err, http.StatusUnauthorized):
		v.logger.Errorf("verifier rejected credentials")
		return failedVerification(email, entity.MetaAuthError)
	default:
		v.logger.Warnf("verification failed email=%s err=%v", email, err)
		return failedVerification(email, entity.MetaError)
	}
}

func failedVerification(email string, meta entity.VerificationMeta) entity.Verification {
	return entity.Verification{Email: email, Status: entity.StatusError, Score: 0, Meta: meta}
}

func parseStatus(raw string) entity.VerificationStatus {
	switch entity.VerificationStatus(strings.ToLower(raw)) {
	case entity.StatusValid:
		return entity.StatusValid
	case entity.StatusInvalid:
		return entity.StatusInvalid
	case entity.StatusAcceptAll:
		return entity.StatusAcceptAll
	case entity.StatusUnknown:
		return entity.StatusUnknown
	}
	// webmail marks a deliverable consumer mailbox.
	if raw == "webmail" {
		return entity.StatusValid
	}
	return entity.StatusUnknown
}
