package entity

import "strings"

// EmailType tags where an address is believed to deliver.
type EmailType string

const (
	EmailTypeWork     EmailType = "work"
	EmailTypePersonal EmailType = "personal"
	EmailTypeUnknown  EmailType = "unknown"
)

// EmailAddress is a single typed address attached to a contact record.
type EmailAddress struct {
	Address string    `json:"address"`
	Type    EmailType `json:"type"`
}

// Location is a normalized person location.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Contact is a candidate person returned by the enrichment provider.
//
// Contacts are read-only once parsed; resolution results travel next to them
// in ResolvedContact rather than being written into the record.
type Contact struct {
	ID                  string         `json:"id,omitempty"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	FullName            string         `json:"full_name,omitempty"`
	Company             string         `json:"company"`
	CompanyWebsite      string         `json:"company_website,omitempty"`
	Title               string         `json:"title"`
	Location            Location       `json:"location"`
	Emails              []EmailAddress `json:"emails,omitempty"`
	Phones              []string       `json:"phones,omitempty"`
	ProfileURL          string         `json:"profile_url,omitempty"`
	PastCompanies       []string       `json:"past_companies,omitempty"`
	IsCurrentlyAtTarget bool           `json:"is_currently_at_target"`
	Extra               map[string]any `json:"extra,omitempty"`
}

// DisplayName returns the best human readable name for the contact.
func (c Contact) DisplayName() string {
	if name := strings.TrimSpace(c.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// PrimaryEmail picks the address handed to the resolver as the provider email.
// Work addresses win over unknown ones, unknown over personal.
func (c Contact) PrimaryEmail() string {
	best := ""
	bestRank := -1
	for _, e := range c.Emails {
		addr := strings.TrimSpace(e.Address)
		if addr == "" {
			continue
		}
		rank := 0
		switch e.Type {
		case EmailTypeWork:
			rank = 2
		case EmailTypeUnknown:
			rank = 1
		}
		if rank > bestRank {
			best = addr
			bestRank = rank
		}
	}
	return best
}

// RankedContact is a contact with the score assigned by a ranker.
type RankedContact struct {
	Contact   Contact        `json:"contact"`
	Score     int            `json:"score"`
	Breakdown map[string]int `json:"breakdown,omitempty"`
	Tier      int            `json:"tier,omitempty"`
}
