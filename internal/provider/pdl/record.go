package pdl

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/outreach-api/internal/entity"
)

const defaultPhoneRegion = "US"

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// rawRecord is a person record with every loosely typed field kept raw.
type rawRecord map[string]json.RawMessage

// ParseRecord converts one provider person payload into a Contact. Fields may
// be missing, null, strings, lists or objects; anything unusable is dropped.
// targetCompany, when set, drives IsCurrentlyAtTarget.
func ParseRecord(data []byte, targetCompany string) (entity.Contact, bool) {
	var rec rawRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec == nil {
		return entity.Contact{}, false
	}
	return rec.contact(targetCompany), true
}

func (r rawRecord) contact(targetCompany string) entity.Contact {
	c := entity.Contact{
		ID:             r.str("id"),
		FirstName:      titleCase(r.str("first_name")),
		LastName:       titleCase(r.str("last_name")),
		FullName:       titleCase(r.str("full_name")),
		Company:        r.str("job_company_name"),
		CompanyWebsite: r.str("job_company_website"),
		Title:          r.str("job_title"),
		Location: entity.Location{
			City:    r.str("location_locality"),
			State:   r.str("location_region"),
			Country: r.str("location_country"),
		},
		ProfileURL: r.str("linkedin_url"),
	}
	if parts := strings.Fields(c.FullName); len(parts) > 0 {
		if c.FirstName == "" {
			c.FirstName = parts[0]
		}
		if c.LastName == "" && len(parts) > 1 {
			c.LastName = parts[len(parts)-1]
		}
	}
	if c.ProfileURL != "" && !strings.Contains(c.ProfileURL, "://") {
		c.ProfileURL = "https://" + c.ProfileURL
	}

	current, past := r.experience()
	if c.Company == "" {
		c.Company = current.company
	}
	if c.CompanyWebsite == "" {
		c.CompanyWebsite = current.website
	}
	if c.Title == "" {
		c.Title = current.title
	}
	c.PastCompanies = past

	c.Emails = r.emails()
	c.Phones = r.phones()

	if target := normalizeCompany(targetCompany); target != "" {
		c.IsCurrentlyAtTarget = strings.Contains(normalizeCompany(c.Company), target)
	}
	return c
}

type job struct {
	company string
	website string
	title   string
}

// experience returns the primary job and the names of earlier employers.
func (r rawRecord) experience() (job, []string) {
	var entries []json.RawMessage
	if !decodeList(r["experience"], &entries) {
		return job{}, nil
	}
	var current job
	seen := map[string]struct{}{}
	var past []string
	for _, raw := range entries {
		var entry rawRecord
		if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
			continue
		}
		j := job{
			company: entry.str("company"),
			website: nested(entry["company"], "website"),
			title:   entry.str("title"),
		}
		if j.company == "" {
			continue
		}
		isPrimary := entry.boolean("is_primary")
		ended := entry.str("end_date") != ""
		if isPrimary && current.company == "" {
			current = j
			continue
		}
		if !ended && current.company == "" {
			current = j
			continue
		}
		key := strings.ToLower(j.company)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		past = append(past, j.company)
	}
	return current, past
}

func (r rawRecord) emails() []entity.EmailAddress {
	var out []entity.EmailAddress
	seen := map[string]struct{}{}
	add := func(addr string, typ entity.EmailType) {
		addr = cleanEmail(addr)
		if addr == "" {
			return
		}
		if _, dup := seen[addr]; dup {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, entity.EmailAddress{Address: addr, Type: typ})
	}

	add(r.str("work_email"), entity.EmailTypeWork)
	for _, item := range flexItems(r["emails"]) {
		addr := firstNonEmpty(item.fields["address"], item.fields["email"], item.text)
		add(addr, emailType(item.fields["type"]))
	}
	for _, addr := range flexStrings(r["personal_emails"]) {
		add(addr, entity.EmailTypePersonal)
	}
	for _, addr := range flexStrings(r["recommended_personal_email"]) {
		add(addr, entity.EmailTypePersonal)
	}
	return out
}

func (r rawRecord) phones() []string {
	candidates := append(flexStrings(r["mobile_phone"]), flexStrings(r["phone_numbers"])...)
	seen := map[string]struct{}{}
	var out []string
	for _, raw := range candidates {
		n := normalizePhone(raw)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func emailType(raw string) entity.EmailType {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "professional"), t == "work":
		return entity.EmailTypeWork
	case strings.Contains(t, "personal"):
		return entity.EmailTypePersonal
	default:
		return entity.EmailTypeUnknown
	}
}

func cleanEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return ""
	}
	at := strings.LastIndex(email, "@")
	domain, err := idna.Lookup.ToASCII(email[at+1:])
	if err != nil || domain == "" {
		return ""
	}
	return email[:at+1] + domain
}

func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// str reads a field that should be a string. Objects with a "name" key and
// single-element lists are unwrapped; booleans and numbers yield "".
func (r rawRecord) str(key string) string {
	if r == nil {
		return ""
	}
	items := flexStrings(r[key])
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func (r rawRecord) boolean(key string) bool {
	var b bool
	return r != nil && json.Unmarshal(r[key], &b) == nil && b
}

type flexItem struct {
	text   string
	fields map[string]string
}

// flexItems normalises a string, object or list of either into items.
func flexItems(raw json.RawMessage) []flexItem {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) != nil || strings.TrimSpace(s) == "" {
			return nil
		}
		return []flexItem{{text: strings.TrimSpace(s)}}
	case '{':
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			return nil
		}
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			var s string
			if json.Unmarshal(v, &s) == nil {
				fields[k] = strings.TrimSpace(s)
			}
		}
		return []flexItem{{fields: fields}}
	case '[':
		var list []json.RawMessage
		if json.Unmarshal(raw, &list) != nil {
			return nil
		}
		var out []flexItem
		for _, el := range list {
			out = append(out, flexItems(el)...)
		}
		return out
	}
	return nil
}

// flexStrings returns the textual values of a loosely typed field.
func flexStrings(raw json.RawMessage) []string {
	var out []string
	for _, item := range flexItems(raw) {
		v := firstNonEmpty(item.text, item.fields["name"], item.fields["address"], item.fields["number"])
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func decodeList(raw json.RawMessage, dst *[]json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func nested(raw json.RawMessage, key string) string {
	var obj rawRecord
	if json.Unmarshal(raw, &obj) != nil {
		return ""
	}
	return obj.str(key)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// titleCase capitalises all-lowercase words, leaving mixed case ("McDonald") alone.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w != strings.ToLower(w) {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func normalizeCompany(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
