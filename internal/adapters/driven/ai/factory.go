// Package ai builds the embedding and completion adapters named by settings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	geminiembed "github.com/p7raneeth/docqa/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/p7raneeth/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/p7raneeth/docqa/internal/adapters/driven/embedding/openai"
	"github.com/p7raneeth/docqa/internal/adapters/driven/guard"
	anthropicllm "github.com/p7raneeth/docqa/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/p7raneeth/docqa/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/p7raneeth/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/p7raneeth/docqa/internal/adapters/driven/llm/openai"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the provider adapters, already wrapped by the guard.
type Services struct {
	Embedding  driven.EmbeddingService
	Completion driven.CompletionService
}

// Close releases all resources held by the services.
func (s *Services) Close() error {
	var errs []error
	if s.Embedding != nil {
		errs = append(errs, s.Embedding.Close())
	}
	if s.Completion != nil {
		errs = append(errs, s.Completion.Close())
	}
	return errors.Join(errs...)
}

// NewServices creates both adapters from settings and wraps them with the
// request retry and rate limit policy. No connectivity check is made.
func NewServices(ctx context.Context, settings *domain.AppSettings) (*Services, error) {
	cfg := guard.ConfigFrom(settings.Requests)
	timeout := settings.Requests.Timeout

	embedder, err := CreateEmbeddingService(ctx, &settings.Embedding, timeout)
	if err != nil {
		return nil, err
	}

	llm, err := CreateCompletionService(ctx, &settings.LLM, timeout)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	return &Services{
		Embedding:  guard.Embedding(embedder, cfg),
		Completion: guard.Completion(llm, cfg),
	}, nil
}

// CreateEmbeddingService creates the embedding adapter for settings.Provider.
// The error wraps domain.ErrProviderUnavailable when the provider is not
// usable as configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings, timeout time.Duration) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, unconfigured("embedding", "")
	}
	if !settings.IsConfigured() {
		return nil, unconfigured("embedding", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		svc, err := ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderGemini:
		svc, err := geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %s does not support embeddings", domain.ErrProviderUnavailable, settings.Provider)
	}
}

// CreateCompletionService creates the completion adapter for settings.Provider.
func CreateCompletionService(ctx context.Context, settings *domain.LLMSettings, timeout time.Duration) (driven.CompletionService, error) {
	if settings == nil {
		return nil, unconfigured("completion", "")
	}
	if !settings.IsConfigured() {
		return nil, unconfigured("completion", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewCompletionService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewCompletionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.NewCompletionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderGemini:
		svc, err := geminillm.NewCompletionService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unsupported completion provider %q", domain.ErrProviderUnavailable, settings.Provider)
	}
}

// ValidateEmbeddingConfig creates an embedding adapter and pings it.
// Unconfigured settings have nothing to validate and return nil.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateEmbeddingService(ctx, settings, pingTimeout)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", domain.ErrProviderUnavailable, settings.Provider, err)
	}
	return nil
}

// ValidateLLMConfig creates a completion adapter and pings it.
// Unconfigured settings have nothing to validate and return nil.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateCompletionService(ctx, settings, pingTimeout)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", domain.ErrProviderUnavailable, settings.Provider, err)
	}
	return nil
}

func unconfigured(component string, provider domain.AIProvider) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: no usable %s provider configured (%q)", domain.ErrProviderUnavailable, component, provider)
	}
	if component == "embedding" && !provider.SupportsEmbedding() {
		return fmt.Errorf("%w: %s does not support embeddings", domain.ErrProviderUnavailable, provider)
	}
	return fmt.Errorf("%w: %s provider %s needs an API key. Run 'docqa settings' to fix",
		domain.ErrProviderUnavailable, component, provider)
}
