package entity

import "encoding/json"

// EmailSource records which provider path produced a resolved email.
type EmailSource string

const (
	EmailSourceNone   EmailSource = ""
	EmailSourcePDL    EmailSource = "pdl"
	EmailSourceHunter EmailSource = "hunter.io"
)

// MarshalJSON encodes the empty source as null.
func (s EmailSource) MarshalJSON() ([]byte, error) {
	if s == EmailSourceNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts null as the empty source.
func (s *EmailSource) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = EmailSourceNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = EmailSource(raw)
	return nil
}

// Resolution is the terminal answer of the email resolver for one contact.
type Resolution struct {
	Email    string      `json:"email"`
	Verified bool        `json:"email_verified"`
	Source   EmailSource `json:"email_source"`
}

// NoResolution is returned when no path produced an address.
var NoResolution = Resolution{}

// Found reports whether an address was produced.
func (r Resolution) Found() bool {
	return r.Email != ""
}

// MarshalJSON encodes an empty email as null.
func (r Resolution) MarshalJSON() ([]byte, error) {
	var email *string
	if r.Email != "" {
		email = &r.Email
	}
	return json.Marshal(struct {
		Email    *string     `json:"email"`
		Verified bool        `json:"email_verified"`
		Source   EmailSource `json:"email_source"`
	}{email, r.Verified, r.Source})
}

// ResolvedContact pairs an untouched contact with the resolution computed for it.
type ResolvedContact struct {
	Contact    Contact        `json:"contact"`
	Resolution Resolution     `json:"resolution"`
	Score      int            `json:"score,omitempty"`
	Breakdown  map[string]int `json:"breakdown,omitempty"`
	Tier       int            `json:"tier,omitempty"`
	Outreach   string         `json:"outreach,omitempty"`
}

// VerificationStatus is the deliverability class reported by the verifier.
type VerificationStatus string

const (
	StatusValid     VerificationStatus = "valid"
	StatusInvalid   VerificationStatus = "invalid"
	StatusUnknown   VerificationStatus = "unknown"
	StatusAcceptAll VerificationStatus = "accept_all"
	StatusError     VerificationStatus = "error"
)

// VerificationMeta distinguishes real answers from transport failures.
type VerificationMeta string

const (
	MetaSuccess     VerificationMeta = "success"
	MetaUnknown     VerificationMeta = "unknown"
	MetaRateLimited VerificationMeta = "rate_limited"
	MetaAuthError   VerificationMeta = "auth_error"
	MetaError       VerificationMeta = "error"
)

// Verification is the verifier's verdict for one literal address.
type Verification struct {
	Email     string             `json:"email"`
	Status    VerificationStatus `json:"status"`
	Score     int                `json:"score"`
	AcceptAll bool               `json:"accept_all"`
	Meta      VerificationMeta   `json:"verification_status"`
}

// Cacheable reports whether the verdict is a real answer worth remembering.
func (v Verification) Cacheable() bool {
	return v.Meta == MetaSuccess || v.Meta == MetaUnknown
}
