package provider

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	// ErrNotConfigured is returned by clients constructed without an API key.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrRateLimited is returned once the retry policy gave up on 429 responses.
	ErrRateLimited = errors.New("provider rate limited")
)

// HTTPError is a non-2xx provider response with a redacted body hint.
type HTTPError struct {
	Op         string
	StatusCode int
	Snippet    string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "provider http error"
	}
	msg := fmt.Sprintf("provider api error: op=%s status=%d", strings.TrimSpace(e.Op), e.StatusCode)
	if s := strings.TrimSpace(e.Snippet); s != "" {
		msg += " body=" + s
	}
	return msg
}

// NewHTTPError builds an HTTPError from a provider response.
func NewHTTPError(op string, resp *Response) *HTTPError {
	h := &HTTPError{Op: op}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Snippet = redactAndTruncate(resp.Body)
	}
	return h
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == status
}

// IsNotFound reports a provider 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

var (
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)
	apiKeyKVRe    = regexp.MustCompile(`(?i)\b(api[_-]?key|x-api-key)\b\s*[:=]\s*[^\s"'&]+`)
)

// RedactSecrets removes API keys and bearer tokens from error and log strings.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := bearerTokenRe.ReplaceAllString(s, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "${1}=<redacted>")
	return strings.TrimSpace(out)
}

func redactAndTruncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := RedactSecrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
