package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p7raneeth/docqa/internal/adapters/driven/storage/memory"
	"github.com/p7raneeth/docqa/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.RAG, settings.RAG)
	assert.Equal(t, defaults.Upload, settings.Upload)
	assert.Equal(t, defaults.Requests, settings.Requests)
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Embedding.Model, settings.Embedding.Model)
	assert.Equal(t, 1536, settings.Embedding.Dimensions)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.InDelta(t, 0.1, settings.LLM.Temperature, 1e-9)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		"rag.chunk_size":          int64(500),
		"rag.chunk_overlap":       0,
		"rag.top_k":               3,
		"upload.max_size":         1024,
		"llm.provider":            "anthropic",
		"llm.temperature":         0.0,
		"embedding.provider":      "ollama",
		"requests.timeout":        "15s",
		"requests.retry_delay":    2,
		"requests.rate_limit":     1.5,
		"requests.retry_attempts": 3,
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 500, settings.RAG.ChunkSize)
	assert.Equal(t, 0, settings.RAG.ChunkOverlap, "explicit zero is kept")
	assert.Equal(t, 3, settings.RAG.TopK)
	assert.Equal(t, int64(1024), settings.Upload.MaxSize)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], settings.LLM.Model)
	assert.Zero(t, settings.LLM.Temperature)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, domain.DefaultEmbeddingModels()[domain.AIProviderOllama], settings.Embedding.Model)
	assert.Equal(t, 15*time.Second, settings.Requests.Timeout)
	assert.Equal(t, 2*time.Second, settings.Requests.RetryDelay)
	assert.InDelta(t, 1.5, settings.Requests.RateLimit, 1e-9)
	assert.Equal(t, uint(3), settings.Requests.RetryAttempts)
}

func TestSettingsService_Get_InvalidDuration(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{"requests.timeout": "soon"})
	service := NewSettingsService(store, nil)

	_, err := service.Get()

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSettingsService_Get_ProviderKeyFallback(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		"keys.openai":  "sk-shared",
		"llm.api_key":  "sk-llm",
		"llm.provider": "openai",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-shared", settings.Embedding.APIKey)
	assert.Equal(t, "sk-llm", settings.LLM.APIKey)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	want := domain.DefaultAppSettings()
	want.RAG.ChunkSize = 750
	want.RAG.ChunkOverlap = 50
	want.Requests.Timeout = 30 * time.Second
	want.LLM.Temperature = 0.4
	want.LLM.APIKey = "sk-llm"
	want.Embedding.APIKey = "sk-embed"

	require.NoError(t, service.Save(&want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Equal(t, "30s", store.GetString("requests.timeout"))
}

func TestSettingsService_Save_EmptyAPIKeyNotWritten(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
	_, ok = store.Get("embedding.api_key")
	assert.False(t, ok)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.AIProvider
		model    string
		apiKey   string
		wantURL  string
		wantDims int
	}{
		{"ollama default model", domain.AIProviderOllama, "", "", "http://localhost:11434", 768},
		{"openai large", domain.AIProviderOpenAI, "text-embedding-3-large", "sk-test", "", 3072},
		{"gemini default model", domain.AIProviderGemini, "", "g-key", "", 768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			require.NoError(t, service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey))

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantURL, settings.Embedding.BaseURL)
			assert.Equal(t, tt.wantDims, settings.Embedding.Dimensions)
			if tt.model != "" {
				assert.Equal(t, tt.model, settings.Embedding.Model)
			} else {
				assert.Equal(t, domain.DefaultEmbeddingModels()[tt.provider], settings.Embedding.Model)
			}
		})
	}
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.ErrorIs(t, service.SetEmbeddingProvider("nope", "", ""), domain.ErrInvalidConfig)
	assert.ErrorIs(t, service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key"), domain.ErrInvalidConfig)
	assert.ErrorIs(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""), domain.ErrInvalidConfig)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], settings.LLM.Model)
	assert.Equal(t, "sk-ant", settings.LLM.APIKey)
	assert.Empty(t, settings.LLM.BaseURL)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "llama3.2", ""))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", settings.LLM.Model)
	assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
}

func TestSettingsService_SetLLMProvider_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.ErrorIs(t, service.SetLLMProvider("nope", "", ""), domain.ErrInvalidConfig)
	assert.ErrorIs(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", ""), domain.ErrInvalidConfig)
}

func TestSettingsService_Validate(t *testing.T) {
	configured := map[string]any{"keys.openai": "sk-test"}

	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{"defaults with key", configured, false},
		{"missing api key", map[string]any{}, true},
		{"overlap equals chunk size", merge(configured, map[string]any{"rag.chunk_size": 100, "rag.chunk_overlap": 100}), true},
		{"zero chunk size", merge(configured, map[string]any{"rag.chunk_size": 0}), true},
		{"top_k above max", merge(configured, map[string]any{"rag.top_k": 20}), true},
		{"file type without dot", merge(configured, map[string]any{"upload.file_type": "pdf"}), true},
		{"unknown llm provider", merge(configured, map[string]any{"llm.provider": "mystery"}), true},
		{"embedding by anthropic", merge(configured, map[string]any{"embedding.provider": "anthropic", "keys.anthropic": "k"}), true},
		{"local providers need no key", map[string]any{
			"embedding.provider": "ollama",
			"llm.provider":       "ollama",
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStoreFrom(tt.values), nil)

			err := service.Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	v := &mockValidator{llmErr: errors.New("unreachable")}
	store := memory.NewConfigStoreFrom(map[string]any{"embedding.model": "text-embedding-3-large"})
	service := NewSettingsService(store, v)

	require.NoError(t, service.ValidateEmbeddingConfig())
	require.NotNil(t, v.embedded)
	assert.Equal(t, "text-embedding-3-large", v.embedded.Model)

	assert.EqualError(t, service.ValidateLLMConfig(), "unreachable")

	noValidator := NewSettingsService(store, nil)
	assert.NoError(t, noValidator.ValidateEmbeddingConfig())
	assert.NoError(t, noValidator.ValidateLLMConfig())
}

func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
