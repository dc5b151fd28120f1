package emailresolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/octobees/outreach-api/internal/cache"
	"github.com/octobees/outreach-api/internal/llm"
)

func TestDomainResolver_StaticTable(t *testing.T) {
	r := NewDomainResolver(cache.NewMemoryStore())

	cases := map[string]string{
		"Google":              "google.com",
		"  google  ":          "google.com",
		"Goldman Sachs":       "gs.com",
		"Google LLC":          "google.com",
		"Stanford University": "stanford.edu",
	}
	for company, want := range cases {
		got, ok := r.Resolve(context.Background(), company, "")
		if !ok || got != want {
			t.Fatalf("Resolve(%q) = %q,%v want %q", company, got, ok, want)
		}
	}
}

func TestDomainResolver_IdempotentAndCached(t *testing.T) {
	completer := &countingCompleter{answer: "alameda.gov"}
	r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

	first, ok := r.Resolve(context.Background(), "Alameda County Health Department", "")
	if !ok || first != "alameda.gov" {
		t.Fatalf("expected alameda.gov, got %q", first)
	}
	second, _ := r.Resolve(context.Background(), "alameda county health department", "")
	if second != first {
		t.Fatalf("expected identical answer, got %q then %q", first, second)
	}
	if completer.count() != 1 {
		t.Fatalf("expected one completer call, got %d", completer.count())
	}
}

func TestDomainResolver_CachesNull(t *testing.T) {
	completer := &countingCompleter{answer: "unknown"}
	r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

	for i := 0; i < 3; i++ {
		if d, ok := r.Resolve(context.Background(), "St. Mary's Hospital", ""); ok {
			t.Fatalf("expected no domain, got %q", d)
		}
	}
	if completer.count() != 1 {
		t.Fatalf("expected null result to be cached, completer called %d times", completer.count())
	}

	if err := r.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	r.Resolve(context.Background(), "St. Mary's Hospital", "")
	if completer.count() != 2 {
		t.Fatalf("expected lookup after reset, completer called %d times", completer.count())
	}
}

func TestDomainResolver_Website(t *testing.T) {
	r := NewDomainResolver(cache.NewMemoryStore())

	got, ok := r.Resolve(context.Background(), "Initech", "https://www.careers.initech.io/jobs?id=4")
	if !ok || got != "initech.io" {
		t.Fatalf("expected initech.io, got %q", got)
	}

	got, _ = r.Resolve(context.Background(), "Tiny Shop", "http://gmail.com/tinyshop")
	if got != "tinyshop.com" {
		t.Fatalf("expected personal website ignored and heuristic used, got %q", got)
	}
}

func TestDomainResolver_Heuristic(t *testing.T) {
	r := NewDomainResolver(cache.NewMemoryStore())

	cases := map[string]string{
		"Acme Corp":                    "acme.com",
		"Acme, Inc.":                   "acme.com",
		"Globex Corporation":           "globex.com",
		"Crème Brûlée Co":              "cremebrulee.com",
		"X":                            "x.com",
		"Q":                            "",
		"Supercalifragilistic Widgets": "",
		"Acme (US) Holdings":           "",
	}
	for company, want := range cases {
		got, _ := r.Resolve(context.Background(), company, "")
		if got != want {
			t.Fatalf("Resolve(%q) = %q want %q", company, got, want)
		}
	}
}

func TestDomainResolver_ComplexNamesUseCompleter(t *testing.T) {
	completer := &countingCompleter{answer: "Johnsonandjohnson.com."}
	r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

	got, _ := r.Resolve(context.Background(), "Smith & Sons", "")
	if got != "johnsonandjohnson.com" {
		t.Fatalf("expected cleaned completer answer, got %q", got)
	}
}

func TestDomainResolver_CompleterFailureIsNull(t *testing.T) {
	completer := &countingCompleter{err: errors.New("boom")}
	r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

	if d, ok := r.Resolve(context.Background(), "Springfield University", ""); ok {
		t.Fatalf("expected null, got %q", d)
	}
}

func TestDomainResolver_NeverReturnsPersonalDomains(t *testing.T) {
	completer := &countingCompleter{answer: "gmail.com"}
	r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

	for _, company := range []string{"Zoho", "AOL", "Gmail", "Hotmail", "Yandex", "Gmail & Co"} {
		if d, ok := r.Resolve(context.Background(), company, ""); ok {
			t.Fatalf("Resolve(%q) = %q, expected no domain", company, d)
		}
	}
}

func TestDomainResolver_TransientFailuresAreRetried(t *testing.T) {
	for _, transient := range []error{llm.ErrRateLimited, llm.ErrUnavailable, context.Canceled, context.DeadlineExceeded} {
		t.Run(transient.Error(), func(t *testing.T) {
			completer := &countingCompleter{err: fmt.Errorf("complete: %w", transient)}
			r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

			if d, ok := r.Resolve(context.Background(), "Memorial Hospital of Springfield", ""); ok {
				t.Fatalf("expected no domain while the completer fails, got %q", d)
			}

			completer.err = nil
			completer.answer = "springfieldmemorial.org"
			got, ok := r.Resolve(context.Background(), "Memorial Hospital of Springfield", "")
			if !ok || got != "springfieldmemorial.org" {
				t.Fatalf("expected a fresh lookup after a transient failure, got %q", got)
			}
			if completer.count() != 2 {
				t.Fatalf("expected two completer calls, got %d", completer.count())
			}
		})
	}
}

func TestDomainResolver_CancelledCallerStillResolves(t *testing.T) {
	calls := 0
	completer := llm.CompleterFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "springfieldmemorial.org", nil
	})
	r := NewDomainResolver(cache.NewMemoryStore(), WithCompleter(completer))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got, _ := r.Resolve(ctx, "Memorial Hospital of Springfield", ""); got != "springfieldmemorial.org" {
		t.Fatalf("expected the lookup to finish for a departed caller, got %q", got)
	}
	if got, _ := r.Resolve(context.Background(), "Memorial Hospital of Springfield", ""); got != "springfieldmemorial.org" {
		t.Fatalf("expected cached domain, got %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected one completer call, got %d", calls)
	}
}

func TestIsComplexNameCountsRunes(t *testing.T) {
	if isComplexName(strings.Repeat("é", 20)) {
		t.Fatalf("20 accented letters should not count as a long name")
	}
	if !isComplexName(strings.Repeat("é", 31)) {
		t.Fatalf("31 letters should count as a long name")
	}
}

func TestParseCompletedDomain(t *testing.T) {
	cases := map[string]string{
		"acme.com":               "acme.com",
		"  ACME.COM.  ":          "acme.com",
		"unknown":                "",
		"Unknown.":               "",
		"acme":                   "",
		"the domain is acme.com": "",
		"https://www.acme.org/":  "acme.org",
		"gmail.com":              "",
	}
	for in, want := range cases {
		if got := parseCompletedDomain(in); got != want {
			t.Fatalf("parseCompletedDomain(%q) = %q want %q", in, got, want)
		}
	}
}

func TestIsPersonalDomain(t *testing.T) {
	if !IsPersonalDomain("Gmail.com") {
		t.Fatalf("expected gmail.com personal")
	}
	if IsPersonalDomain("acme.com") {
		t.Fatalf("expected acme.com corporate")
	}
}

func TestAlternateDomains(t *testing.T) {
	alts := AlternateDomains("meta.com")
	if !contains(alts, "fb.com") || !contains(alts, "facebook.com") {
		t.Fatalf("unexpected alternates %v", alts)
	}
	if len(AlternateDomains("acme.com")) != 0 {
		t.Fatalf("expected no alternates for acme.com")
	}
}
