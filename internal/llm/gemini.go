package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when Config.GeminiModel is empty.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// Gemini is a Completer backed by the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewGemini creates a Gemini completer. Close releases the underlying client.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, temperature: cfg.Temperature, maxTokens: cfg.MaxOutTokens}, nil
}

func (g *Gemini) Complete(ctx context.Context, system, user string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.maxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// Close releases the Gemini client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// classifyGeminiError tags quota and server failures so callers can tell a
// throttled model from a broken prompt.
func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}
