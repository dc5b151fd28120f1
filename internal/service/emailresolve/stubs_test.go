package emailresolve

import (
	"context"
	"errors"
	"sync"

	"github.com/octobees/outreach-api/internal/cache"
	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider/hunter"
)

type mockHunter struct {
	mu sync.Mutex

	disabled bool
	search   func(ctx context.Context, domain string) (string, error)
	find     func(ctx context.Context, first, last, domain string) (hunter.FinderResult, error)
	verify   func(ctx context.Context, email string) (hunter.VerifyResult, error)

	searched []string
	found    []string
	verified []string
}

func (m *mockHunter) Configured() bool { return !m.disabled }

func (m *mockHunter) DomainSearch(ctx context.Context, domain string) (string, error) {
	m.mu.Lock()
	m.searched = append(m.searched, domain)
	m.mu.Unlock()
	if m.search != nil {
		return m.search(ctx, domain)
	}
	return "", nil
}

func (m *mockHunter) FindEmail(ctx context.Context, first, last, domain string) (hunter.FinderResult, error) {
	m.mu.Lock()
	m.found = append(m.found, domain)
	m.mu.Unlock()
	if m.find != nil {
		return m.find(ctx, first, last, domain)
	}
	return hunter.FinderResult{}, nil
}

func (m *mockHunter) VerifyEmail(ctx context.Context, email string) (hunter.VerifyResult, error) {
	m.mu.Lock()
	m.verified = append(m.verified, email)
	m.mu.Unlock()
	if m.verify != nil {
		return m.verify(ctx, email)
	}
	return hunter.VerifyResult{}, errors.New("verify not implemented")
}

func (m *mockHunter) verifiedEmails() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.verified...)
}

func (m *mockHunter) searchedDomains() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searched...)
}

func (m *mockHunter) finderDomains() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.found...)
}

type countingCompleter struct {
	mu     sync.Mutex
	calls  int
	answer string
	err    error
}

func (c *countingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.answer, c.err
}

func (c *countingCompleter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func verdict(status string, score int) func(context.Context, string) (hunter.VerifyResult, error) {
	return func(context.Context, string) (hunter.VerifyResult, error) {
		return hunter.VerifyResult{Status: status, Score: score, HasData: true}, nil
	}
}

func newTestResolver(h *mockHunter, opts ...DomainOption) *Resolver {
	domains := NewDomainResolver(cache.NewMemoryStore(), opts...)
	patterns := NewPatternService(h, cache.NewMemoryStore(), nil)
	verifier := NewVerifier(h, cache.NewMemoryStore(), nil)
	return NewResolver(domains, patterns, verifier, h)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func contact(first, last, company, email string, typ entity.EmailType) entity.Contact {
	c := entity.Contact{FirstName: first, LastName: last, Company: company}
	if email != "" {
		c.Emails = []entity.EmailAddress{{Address: email, Type: typ}}
	}
	return c
}
