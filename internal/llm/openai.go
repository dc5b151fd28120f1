package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when Config.OpenAIModel is empty.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI is a Completer backed by the chat completions API.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAI builds an OpenAI completer from cfg.
func NewOpenAI(cfg Config) *OpenAI {
	oc := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIURL != "" {
		oc.BaseURL = cfg.OpenAIURL
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutTokens,
	}
}

func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
				return "", fmt.Errorf("%w: openai completion: status=%d", ErrRateLimited, apiErr.HTTPStatusCode)
			}
			return "", fmt.Errorf("openai completion: status=%d type=%s", apiErr.HTTPStatusCode, apiErr.Type)
		}
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices in response")
	}
	return CleanText(resp.Choices[0].Message.Content), nil
}
