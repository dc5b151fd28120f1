package emailresolve

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/octobees/outreach-api/internal/cache"
	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider"
	"github.com/octobees/outreach-api/internal/provider/hunter"
)

func TestVerifier_CachesSuccess(t *testing.T) {
	h := &mockHunter{verify: verdict("valid", 91)}
	v := NewVerifier(h, cache.NewMemoryStore(), nil)

	first, ok := v.Verify(context.Background(), "Jane@Acme.com")
	if !ok || first.Status != entity.StatusValid || first.Score != 91 || first.Meta != entity.MetaSuccess {
		t.Fatalf("unexpected verdict %+v", first)
	}
	second, _ := v.Verify(context.Background(), "jane@acme.com")
	if second != first {
		t.Fatalf("expected cached verdict, got %+v", second)
	}
	if calls := h.verifiedEmails(); len(calls) != 1 || calls[0] != "jane@acme.com" {
		t.Fatalf("expected one normalized provider call, got %v", calls)
	}
}

func TestVerifier_RateLimitedNotCached(t *testing.T) {
	h := &mockHunter{
		verify: func(context.Context, string) (hunter.VerifyResult, error) {
			return hunter.VerifyResult{}, fmt.Errorf("%w: %w", provider.ErrRateLimited, &provider.HTTPError{Op: "verify", StatusCode: 429})
		},
	}
	v := NewVerifier(h, cache.NewMemoryStore(), nil)

	res, ok := v.Verify(context.Background(), "jane@acme.com")
	if !ok || res.Status != entity.StatusError || res.Score != 0 || res.Meta != entity.MetaRateLimited {
		t.Fatalf("unexpected verdict %+v", res)
	}
	v.Verify(context.Background(), "jane@acme.com")
	if len(h.verifiedEmails()) != 2 {
		t.Fatalf("rate limited verdicts must not be cached")
	}
}

func TestVerifier_AuthError(t *testing.T) {
	h := &mockHunter{
		verify: func(context.Context, string) (hunter.VerifyResult, error) {
			return hunter.VerifyResult{}, &provider.HTTPError{Op: "verify", StatusCode: 401}
		},
	}
	res, _ := NewVerifier(h, nil, nil).Verify(context.Background(), "jane@acme.com")
	if res.Meta != entity.MetaAuthError || res.Status != entity.StatusError {
		t.Fatalf("unexpected verdict %+v", res)
	}
}

func TestVerifier_GenericErrorNotCached(t *testing.T) {
	h := &mockHunter{
		verify: func(context.Context, string) (hunter.VerifyResult, error) {
			return hunter.VerifyResult{}, errors.New("connection reset")
		},
	}
	v := NewVerifier(h, nil, nil)
	res, _ := v.Verify(context.Background(), "jane@acme.com")
	if res.Meta != entity.MetaError {
		t.Fatalf("unexpected verdict %+v", res)
	}
	v.Verify(context.Background(), "jane@acme.com")
	if len(h.verifiedEmails()) != 2 {
		t.Fatalf("errors must not be cached")
	}
}

func TestVerifier_UncertainIsCached(t *testing.T) {
	h := &mockHunter{
		verify: func(context.Context, string) (hunter.VerifyResult, error) {
			return hunter.VerifyResult{ErrorCode: hunter.ErrorCodeUncertain}, nil
		},
	}
	v := NewVerifier(h, nil, nil)

	res, _ := v.Verify(context.Background(), "jane@acme.com")
	want := entity.Verification{Email: "jane@acme.com", Status: entity.StatusUnknown, Score: 50, Meta: entity.MetaUnknown}
	if res != want {
		t.Fatalf("expected %+v, got %+v", want, res)
	}
	v.Verify(context.Background(), "jane@acme.com")
	if len(h.verifiedEmails()) != 1 {
		t.Fatalf("uncertain verdicts should be cached")
	}
}

func TestVerifier_OtherErrorCode(t *testing.T) {
	h := &mockHunter{
		verify: func(context.Context, string) (hunter.VerifyResult, error) {
			return hunter.VerifyResult{ErrorCode: 400}, nil
		},
	}
	res, _ := NewVerifier(h, nil, nil).Verify(context.Background(), "jane@acme.com")
	if res.Meta != entity.MetaError || res.Score != 0 {
		t.Fatalf("unexpected verdict %+v", res)
	}
}

func TestVerifier_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore().WithClock(func() time.Time { return now })
	h := &mockHunter{verify: verdict("valid", 80)}
	v := NewVerifier(h, store, nil)

	v.Verify(context.Background(), "jane@acme.com")
	now = now.Add(VerificationTTL - time.Second)
	v.Verify(context.Background(), "jane@acme.com")
	if len(h.verifiedEmails()) != 1 {
		t.Fatalf("expected cache hit before TTL")
	}
	now = now.Add(time.Second)
	v.Verify(context.Background(), "jane@acme.com")
	if len(h.verifiedEmails()) != 2 {
		t.Fatalf("expected refetch at TTL")
	}
}

func TestVerifier_Unconfigured(t *testing.T) {
	h := &mockHunter{disabled: true}
	if _, ok := NewVerifier(h, nil, nil).Verify(context.Background(), "jane@acme.com"); ok {
		t.Fatalf("expected ok=false without a configured verifier")
	}
	if _, ok := NewVerifier(nil, nil, nil).Verify(context.Background(), "jane@acme.com"); ok {
		t.Fatalf("expected ok=false with nil source")
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]entity.VerificationStatus{
		"valid":      entity.StatusValid,
		"VALID":      entity.StatusValid,
		"invalid":    entity.StatusInvalid,
		"accept_all": entity.StatusAcceptAll,
		"webmail":    entity.StatusValid,
		"disposable": entity.StatusUnknown,
		"":           entity.StatusUnknown,
	}
	for raw, want := range cases {
		if got := parseStatus(raw); got != want {
			t.Fatalf("parseStatus(%q) = %q want %q", raw, got, want)
		}
	}
}

func TestPatternService_CachesForTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore().WithClock(func() time.Time { return now })
	h := &mockHunter{search: func(context.Context, string) (string, error) { return "{first}.{last}", nil }}
	s := NewPatternService(h, store, nil)

	for i := 0; i < 3; i++ {
		if p, ok := s.Pattern(context.Background(), "Acme.com"); !ok || p != "{first}.{last}" {
			t.Fatalf("unexpected pattern %q", p)
		}
	}
	if len(h.searchedDomains()) != 1 {
		t.Fatalf("expected one provider call, got %d", len(h.searchedDomains()))
	}
	now = now.Add(PatternTTL)
	s.Pattern(context.Background(), "acme.com")
	if len(h.searchedDomains()) != 2 {
		t.Fatalf("expected refetch after TTL")
	}
}

func TestPatternService_PersonalDomainSkipsProvider(t *testing.T) {
	h := &mockHunter{}
	s := NewPatternService(h, nil, nil)
	if _, ok := s.Pattern(context.Background(), "gmail.com"); ok {
		t.Fatalf("expected no pattern for gmail.com")
	}
	if len(h.searchedDomains()) != 0 {
		t.Fatalf("expected no provider call for a personal domain")
	}
}

func TestPatternService_FailuresNotCached(t *testing.T) {
	calls := 0
	h := &mockHunter{
		search: func(context.Context, string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("timeout")
			}
			return "{f}{last}", nil
		},
	}
	s := NewPatternService(h, nil, nil)
	if _, ok := s.Pattern(context.Background(), "acme.com"); ok {
		t.Fatalf("expected failure")
	}
	if p, ok := s.Pattern(context.Background(), "acme.com"); !ok || p != "{f}{last}" {
		t.Fatalf("expected retry to succeed, got %q", p)
	}
}
