// Package anthropic provides a completion service adapter using the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/p7raneeth/docqa/internal/adapters/driven/guard"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// Default configuration values.
const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024
)

// Config holds configuration for the Anthropic completion service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the model to use (default: claude-sonnet-4-5).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// CompletionService produces chat completions using Claude.
type CompletionService struct {
	client anthropic.Client
	model  string
}

// NewCompletionService creates a new Anthropic completion service.
// The SDK's own retries are disabled; retry policy is applied by the guard.
func NewCompletionService(cfg Config) (*CompletionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is required", domain.ErrProviderUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &CompletionService{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Complete sends the conversation to Messages.New. System messages are
// lifted into the request's system prompt.
func (s *CompletionService) Complete(ctx context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	turns, system := convertMessages(messages)
	if len(turns) == 0 {
		return "", fmt.Errorf("anthropic: at least one user message is required")
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   int64(maxTokens),
		Messages:    turns,
		Temperature: anthropic.Float(opts.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", translate(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: response has no text content")
	}
	return text.String(), nil
}

// ModelName returns the name of the model being used.
func (s *CompletionService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models.
func (s *CompletionService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return translate(err)
	}
	return nil
}

// Close releases resources.
func (s *CompletionService) Close() error {
	return nil
}

// convertMessages splits system text from the user and assistant turns.
func convertMessages(messages []driven.ChatMessage) ([]anthropic.MessageParam, string) {
	var system []string
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case driven.ChatRoleSystem:
			system = append(system, m.Content)
		case driven.ChatRoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return turns, strings.Join(system, "\n\n")
}

// translate turns SDK API errors into guard.StatusError so retry
// classification works the same for every provider.
func translate(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &guard.StatusError{Provider: "anthropic", Status: apiErr.StatusCode, Body: apiErr.Error()}
	}
	return fmt.Errorf("anthropic: %w", err)
}
