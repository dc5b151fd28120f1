package emailresolve

import "strings"

// GenerateEmail fills pattern's {first}, {last}, {f} and {l} placeholders with
// the lowercased names and appends the domain. The result is not validated.
func GenerateEmail(first, last, domain, pattern string) string {
	first = strings.ToLower(strings.TrimSpace(first))
	last = strings.ToLower(strings.TrimSpace(last))

	local := strings.NewReplacer(
		"{first}", first,
		"{last}", last,
		"{f}", initial(first),
		"{l}", initial(last),
	).Replace(pattern)
	return local + "@" + normalizeDomain(domain)
}

// NaiveEmail is the {f}{last} guess used when no pattern is known.
func NaiveEmail(first, last, domain string) string {
	return GenerateEmail(first, last, domain, "{f}{last}")
}

func initial(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// EmailDomain returns the part after the last @, lowercased.
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return normalizeDomain(email[i+1:])
}
