package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p7raneeth/docqa/internal/adapters/driven/guard"
	"github.com/p7raneeth/docqa/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  bool
		model    string
		dims     int
	}{
		{name: "nil settings", settings: nil, wantErr: true},
		{name: "empty settings", settings: &domain.EmbeddingSettings{}, wantErr: true},
		{
			name:     "ollama",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
			model:    "nomic-embed-text",
			dims:     768,
		},
		{
			name:     "openai",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-large", APIKey: "k"},
			model:    "text-embedding-3-large",
			dims:     3072,
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-small"},
			wantErr:  true,
		},
		{
			name:     "gemini",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderGemini, Model: "gemini-embedding-001", APIKey: "k", Dimensions: 768},
			model:    "gemini-embedding-001",
			dims:     768,
		},
		{
			name:     "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, Model: "x", APIKey: "k"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings, time.Second)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.model, svc.ModelName())
			assert.Equal(t, tt.dims, svc.Dimensions())
		})
	}
}

func TestCreateCompletionService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantErr  bool
	}{
		{name: "nil settings", settings: nil, wantErr: true},
		{name: "unknown provider", settings: &domain.LLMSettings{Provider: "mystery", Model: "m"}, wantErr: true},
		{name: "ollama", settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"}},
		{name: "openai", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o", APIKey: "k"}},
		{name: "anthropic", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, Model: "claude-sonnet-4-5", APIKey: "k"}},
		{name: "gemini", settings: &domain.LLMSettings{Provider: domain.AIProviderGemini, Model: "gemini-2.5-flash", APIKey: "k"}},
		{name: "anthropic without key", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, Model: "m"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateCompletionService(context.Background(), tt.settings, time.Second)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.settings.Model, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestNewServices_WrapsWithGuard(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "k"
	settings.LLM.APIKey = "k"

	svcs, err := NewServices(context.Background(), &settings)

	require.NoError(t, err)
	assert.IsType(t, &guard.EmbeddingService{}, svcs.Embedding)
	assert.IsType(t, &guard.CompletionService{}, svcs.Completion)
	assert.Equal(t, 1536, svcs.Embedding.Dimensions())
	assert.NoError(t, svcs.Close())
}

func TestNewServices_MissingKey(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "k"

	_, err := NewServices(context.Background(), &settings)

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.ErrorContains(t, err, "needs an API key")
}

func TestServices_CloseEmpty(t *testing.T) {
	assert.NoError(t, (&Services{}).Close())
}

func TestValidateEmbeddingConfig(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{}))

	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer up.Close()

	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, Model: "nomic-embed-text", BaseURL: up.URL,
	}))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, Model: "nomic-embed-text", BaseURL: down.URL,
	})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestValidateLLMConfig(t *testing.T) {
	assert.NoError(t, ValidateLLMConfig(nil))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI, Model: "gpt-4o", APIKey: "good", BaseURL: srv.URL,
	}))

	err := ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI, Model: "gpt-4o", APIKey: "bad", BaseURL: srv.URL,
	})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.ErrorContains(t, err, "401")
}
