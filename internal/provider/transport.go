package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// RequestTimeout bounds every provider round trip.
const RequestTimeout = 10 * time.Second

const maxBodyBytes = 2 << 20

// Response is a fully read provider response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the response body into dst.
func (r *Response) DecodeJSON(dst any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// HTTPDoer is the subset of *http.Client used by provider transports.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport performs single provider round trips against a base URL.
type Transport struct {
	client  HTTPDoer
	baseURL string
	limiter *rate.Limiter
	headers http.Header
}

// TransportOption configures optional Transport behaviour.
type TransportOption func(*Transport)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) TransportOption {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithLimiter shares a global request limiter across transports.
func WithLimiter(limiter *rate.Limiter) TransportOption {
	return func(t *Transport) {
		t.limiter = limiter
	}
}

// WithHeader adds a static header sent on every request.
func WithHeader(key, value string) TransportOption {
	return func(t *Transport) {
		t.headers.Set(key, value)
	}
}

// NewTransport builds a transport for baseURL.
func NewTransport(baseURL string, opts ...TransportOption) *Transport {
	t := &Transport{
		client:  &http.Client{Timeout: RequestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewLimiter returns a limiter for rps requests per second, or nil when rps <= 0.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Get issues a GET request for path with the given query.
func (t *Transport) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	target := t.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return t.do(req)
}

// PostJSON issues a POST request with payload encoded as JSON.
func (t *Transport) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req)
}

func (t *Transport) do(req *http.Request) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	for key, values := range t.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	ctx, cancel := context.WithTimeout(req.Context(), RequestTimeout)
	defer cancel()

	resp, err := t.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, RedactSecrets(err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
