// Package pdl is the People Data Labs person search and enrichment client.
// Records are parsed into entity.Contact at this boundary.
package pdl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/provider"
)

// DefaultBaseURL is the public People Data Labs API root.
const DefaultBaseURL = "https://api.peopledatalabs.com"

// DefaultCountry scopes searches to the United States.
const DefaultCountry = "united states"

// Query describes a person search.
type Query struct {
	Titles  []string
	Company string
	Country string
	State   string
	City    string
	Size    int
}

// Client calls the person search and enrich endpoints.
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

// NewClient builds a client for apiKey. The key travels in the X-Api-Key header.
func NewClient(apiKey string, opts ...Option) *Client {
	apiKey = strings.TrimSpace(apiKey)
	o := clientOptions{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	topts := append([]provider.TransportOption{provider.WithHeader("X-Api-Key", apiKey)}, o.transports...)
	return &Client{
		apiKey:    apiKey,
		transport: provider.NewTransport(o.baseURL, topts...),
		sleep:     o.sleep,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Search runs a person search. A provider 404 means no match and surfaces as
// an *provider.HTTPError for which provider.IsNotFound is true.
func (c *Client) Search(ctx context.Context, q Query) ([]entity.Contact, error) {
	if !c.Configured() {
		return nil, provider.ErrNotConfigured
	}
	size := q.Size
	if size <= 0 {
		size = 10
	}
	body := map[string]any{
		"query":     buildQuery(q),
		"size":      size,
		"titlecase": false,
	}

	out := provider.Do(ctx, c.policy(), func(ctx context.Context) (*provider.Response, error) {
		return c.transport.PostJSON(ctx, "/v5/person/search", body)
	})
	resp, err := out.Result("personSearch")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, err
	}
	contacts := make([]entity.Contact, 0, len(payload.Data))
	for _, raw := range payload.Data {
		if contact, ok := ParseRecord(raw, q.Company); ok {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

// Enrich looks a person up by profile URL.
func (c *Client) Enrich(ctx context.Context, profileURL string) (entity.Contact, error) {
	if !c.Configured() {
		return entity.Contact{}, provider.ErrNotConfigured
	}
	profile := strings.TrimSpace(profileURL)
	if profile == "" {
		return entity.Contact{}, fmt.Errorf("profile url is required")
	}

	out := provider.Do(ctx, c.policy(), func(ctx context.Context) (*provider.Response, error) {
		return c.transport.Get(ctx, "/v5/person/enrich", url.Values{"profile": {profile}})
	})
	resp, err := out.Result("personEnrich")
	if err != nil {
		return entity.Contact{}, err
	}

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return entity.Contact{}, err
	}
	contact, ok := ParseRecord(payload.Data, "")
	if !ok {
		return entity.Contact{}, fmt.Errorf("personEnrich: unusable record")
	}
	if contact.ProfileURL == "" {
		contact.ProfileURL = profile
	}
	return contact, nil
}

func (c *Client) policy() provider.RetryPolicy {
	p := provider.RateLimitPolicy()
	if c.sleep != nil {
		p.Sleep = c.sleep
	}
	return p
}

// buildQuery renders q as an Elasticsearch bool query.
func buildQuery(q Query) map[string]any {
	var must []any

	if titles := nonEmpty(q.Titles); len(titles) > 0 {
		should := make([]any, 0, len(titles))
		for _, t := range titles {
			should = append(should, map[string]any{"match_phrase": map[string]any{"job_title": strings.ToLower(t)}})
		}
		must = append(must, map[string]any{"bool": map[string]any{"should": should}})
	}
	if company := strings.ToLower(strings.TrimSpace(q.Company)); company != "" {
		must = append(must, map[string]any{"bool": map[string]any{"should": []any{
			map[string]any{"match_phrase": map[string]any{"job_company_name": company}},
			map[string]any{"match_phrase": map[string]any{"experience.company.name": company}},
		}}})
	}
	country := strings.ToLower(strings.TrimSpace(q.Country))
	if country == "" {
		country = DefaultCountry
	}
	must = append(must, map[string]any{"term": map[string]any{"location_country": country}})
	if state := strings.ToLower(strings.TrimSpace(q.State)); state != "" {
		must = append(must, map[string]any{"match": map[string]any{"location_region": state}})
	}
	if city := strings.ToLower(strings.TrimSpace(q.City)); city != "" {
		must = append(must, map[string]any{"match": map[string]any{"location_locality": city}})
	}
	return map[string]any{"bool": map[string]any{"must": must}}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
