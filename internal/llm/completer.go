// Package llm wraps the generative-text providers behind a single-turn
// Completer used for domain lookups and outreach drafts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by NewCompleter.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	// ErrDisabled is returned by the no-op completer used when no key is configured.
	ErrDisabled = errors.New("generative text provider not configured")
	// ErrRateLimited marks a provider quota rejection.
	ErrRateLimited = errors.New("generative text provider rate limited")
	// ErrUnavailable marks a provider-side failure.
	ErrUnavailable = errors.New("generative text provider unavailable")
)

// Completer produces text for a system and user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider     string
	OpenAIKey    string
	OpenAIModel  string
	OpenAIURL    string
	GeminiKey    string
	GeminiModel  string
	Temperature  float32
	MaxOutTokens int
}

// NewCompleter returns the configured provider, or Disabled when its key is empty.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return Disabled{}, nil
		}
		return NewOpenAI(cfg), nil
	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return Disabled{}, nil
		}
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Disabled is the Completer used when no provider is configured.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system, user string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// CleanText trims whitespace and markdown fences from a completion.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
