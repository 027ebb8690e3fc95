// Package gemini provides a completion service adapter using the Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	embedgemini "github.com/p7raneeth/docqa/internal/adapters/driven/embedding/gemini"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini completion service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the chat model (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// CompletionService produces chat completions using Gemini.
type CompletionService struct {
	client *genai.Client
	model  string
}

// NewCompletionService creates a Gemini completion service.
func NewCompletionService(ctx context.Context, cfg Config) (*CompletionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", domain.ErrProviderUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := embedgemini.NewClient(ctx, cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &CompletionService{client: client, model: cfg.Model}, nil
}

// Complete calls GenerateContent and concatenates the text parts of the
// first candidate that has any.
func (s *CompletionService) Complete(ctx context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	contents, system := convertMessages(messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("gemini: at least one user message is required")
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", embedgemini.Translate(err)
	}

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: response has no text content")
	}
	return text, nil
}

// ModelName returns the name of the model being used.
func (s *CompletionService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata.
func (s *CompletionService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return embedgemini.Translate(err)
	}
	return nil
}

// Close releases resources.
func (s *CompletionService) Close() error {
	return nil
}

// convertMessages maps assistant turns to the model role and lifts system
// messages into a single system instruction.
func convertMessages(messages []driven.ChatMessage) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case driven.ChatRoleSystem:
			system = append(system, m.Content)
		case driven.ChatRoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}
