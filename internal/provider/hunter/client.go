// Package hunter talks to the Hunter.io domain-search, email-finder and
// email-verifier endpoints.
package hunter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/octobees/outreach-api/internal/provider"
)

// DefaultBaseURL is the public Hunter API root.
const DefaultBaseURL = "https://api.hunter.io"

// ErrorCodeUncertain is the verifier code for "could not verify, server answered oddly".
const ErrorCodeUncertain = 222

// Client is a Hunter API client. A client without an API key is valid and
// reports Configured() == false.
type Client struct {
	apiKey    string
	transport *provider.Transport
	sleep     func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	transports []provider.TransportOption
	sleep      func(ctx context.Context, d time.Duration) error
}

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithTransportOptions forwards options to the underlying transport.
func WithTransportOptions(opts ...provider.TransportOption) Option {
	return func(o *clientOptions) { o.transports = append(o.transports, opts...) }
}

// WithSleep replaces the backoff sleep.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *clientOptions) { o.sleep = sleep }
}

// NewClient builds a Hunter client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	o := clientOptions{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		apiKey:    strings.TrimSpace(apiKey),
		transport: provider.NewTransport(o.baseURL, o.transports...),
		sleep:     o.sleep,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// FinderResult is the email-finder answer.
type FinderResult struct {
	Email string
	Score int
}

// VerifyResult is the raw email-verifier answer.
type VerifyResult struct {
	Status    string
	Score     int
	AcceptAll bool
	// ErrorCode is the first code in the response errors array, 0 when absent.
	ErrorCode int
	HasData   bool
}

// DomainSearch returns the dominant email pattern for domain, "" when Hunter
// does not know one. Retries only on 429.
func (c *Client) DomainSearch(ctx context.Context, domain string) (string, error) {
	if !c.Configured() {
		return "", provider.ErrNotConfigured
	}
	resp, err := c.get(ctx, "domainSearch", "/v2/domain-search", url.Values{"domain": {domain}}, provider.RateLimitPolicy())
	if err != nil {
		return "", err
	}
	var payload struct {
		Data struct {
			Pattern *string `json:"pattern"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return "", err
	}
	if payload.Data.Pattern == nil {
		return "", nil
	}
	return strings.TrimSpace(*payload.Data.Pattern), nil
}

// FindEmail asks the finder for the best address of first/last at domain.
// Retries only on 429.
func (c *Client) FindEmail(ctx context.Context, first, last, domain string) (FinderResult, error) {
	if !c.Configured() {
		return FinderResult{}, provider.ErrNotConfigured
	}
	q := url.Values{
		"domain":     {domain},
		"first_name": {first},
		"last_name":  {last},
	}
	resp, err := c.get(ctx, "emailFinder", "/v2/email-finder", q, provider.RateLimitPolicy())
	if err != nil {
		return FinderResult{}, err
	}
	var payload struct {
		Data struct {
			Email *string  `json:"email"`
			Score *float64 `json:"score"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return FinderResult{}, err
	}
	var out FinderResult
	if payload.Data.Email != nil {
		out.Email = strings.TrimSpace(*payload.Data.Email)
	}
	if payload.Data.Score != nil {
		out.Score = int(*payload.Data.Score)
	}
	return out, nil
}

// VerifyEmail scores the deliverability of email. Retries on 429 and on
// timeouts or network failures.
func (c *Client) VerifyEmail(ctx context.Context, email string) (VerifyResult, error) {
	if !c.Configured() {
		return VerifyResult{}, provider.ErrNotConfigured
	}
	resp, err := c.get(ctx, "emailVerifier", "/v2/email-verifier", url.Values{"email": {email}}, provider.TransientPolicy())
	if err != nil {
		return VerifyResult{}, err
	}
	var payload struct {
		Data *struct {
			Status    string   `json:"status"`
			Score     *float64 `json:"score"`
			AcceptAll bool     `json:"accept_all"`
		} `json:"data"`
		Errors []struct {
			Code    int    `json:"code"`
			Details string `json:"details"`
		} `json:"errors"`
	}
	if len(resp.Body) > 0 {
		if err := resp.DecodeJSON(&payload); err != nil {
			return VerifyResult{}, err
		}
	}

	var out VerifyResult
	if len(payload.Errors) > 0 {
		out.ErrorCode = payload.Errors[0].Code
	} else if resp.StatusCode == ErrorCodeUncertain {
		out.ErrorCode = ErrorCodeUncertain
	}
	if payload.Data != nil {
		out.HasData = true
		out.Status = strings.ToLower(strings.TrimSpace(payload.Data.Status))
		out.AcceptAll = payload.Data.AcceptAll
		if payload.Data.Score != nil {
			out.Score = int(*payload.Data.Score)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, policy provider.RetryPolicy) (*provider.Response, error) {
	q.Set("api_key", c.apiKey)
	if c.sleep != nil {
		policy.Sleep = c.sleep
	}
	out := provider.Do(ctx, policy, func(ctx context.Context) (*provider.Response, error) {
		return c.transport.Get(ctx, path, q)
	})
	return out.Result(op)
}

// IsAuthError reports a rejected API key.
func IsAuthError(err error) bool {
	return provider.IsStatus(err, http.StatusUnauthorized)
}
