package services

import (
	"fmt"
	"time"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTemperature  = "llm.temperature"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyChunkSize       = "rag.chunk_size"
	keyChunkOverlap    = "rag.chunk_overlap"
	keyTopK            = "rag.top_k"
	keyMaxTopK         = "rag.max_top_k"
	keyMaxHistory      = "rag.max_history_messages"
	keyRewriteWindow   = "rag.rewrite_window"
	keyUploadMaxSize   = "upload.max_size"
	keyUploadFileType  = "upload.file_type"
	keyRequestTimeout  = "requests.timeout"
	keyRetryAttempts   = "requests.retry_attempts"
	keyRetryDelay      = "requests.retry_delay"
	keyRateLimit       = "requests.rate_limit"
	keyProviderKeyRoot = "keys."
)

// ProviderKeyConfigKey returns the config key holding a provider's shared API key.
// It is consulted when embedding.api_key or llm.api_key is empty.
func ProviderKeyConfigKey(p domain.AIProvider) string {
	return keyProviderKeyRoot + p.String()
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings with defaults filled in.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	embedModel := s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider])
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	timeout, err := s.getDuration(keyRequestTimeout, defaults.Requests.Timeout)
	if err != nil {
		return nil, err
	}
	retryDelay, err := s.getDuration(keyRetryDelay, defaults.Requests.RetryDelay)
	if err != nil {
		return nil, err
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      embedModel,
			Dimensions: s.getInt(keyEmbedDims, domain.EmbeddingDimensions()[embedModel]),
			BatchSize:  s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.apiKey(keyEmbedAPIKey, embedProvider),
		},
		LLM: domain.LLMSettings{
			Provider:    llmProvider,
			Model:       s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.apiKey(keyLLMAPIKey, llmProvider),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		RAG: domain.RAGSettings{
			ChunkSize:          s.getInt(keyChunkSize, defaults.RAG.ChunkSize),
			ChunkOverlap:       s.getInt(keyChunkOverlap, defaults.RAG.ChunkOverlap),
			TopK:               s.getInt(keyTopK, defaults.RAG.TopK),
			MaxTopK:            s.getInt(keyMaxTopK, defaults.RAG.MaxTopK),
			MaxHistoryMessages: s.getInt(keyMaxHistory, defaults.RAG.MaxHistoryMessages),
			RewriteWindow:      s.getInt(keyRewriteWindow, defaults.RAG.RewriteWindow),
		},
		Upload: domain.UploadSettings{
			MaxSize:  int64(s.getInt(keyUploadMaxSize, int(defaults.Upload.MaxSize))),
			FileType: s.getString(keyUploadFileType, defaults.Upload.FileType),
		},
		Requests: domain.RequestSettings{
			Timeout:       timeout,
			RetryAttempts: uint(max(s.getInt(keyRetryAttempts, int(defaults.Requests.RetryAttempts)), 0)),
			RetryDelay:    retryDelay,
			RateLimit:     s.getFloat(keyRateLimit, defaults.Requests.RateLimit),
		},
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set so environment-provided keys never land on disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyChunkSize, settings.RAG.ChunkSize},
		{keyChunkOverlap, settings.RAG.ChunkOverlap},
		{keyTopK, settings.RAG.TopK},
		{keyMaxTopK, settings.RAG.MaxTopK},
		{keyMaxHistory, settings.RAG.MaxHistoryMessages},
		{keyRewriteWindow, settings.RAG.RewriteWindow},
		{keyUploadMaxSize, int(settings.Upload.MaxSize)},
		{keyUploadFileType, settings.Upload.FileType},
		{keyRequestTimeout, settings.Requests.Timeout.String()},
		{keyRetryAttempts, int(settings.Requests.RetryAttempts)},
		{keyRetryDelay, settings.Requests.RetryDelay.String()},
		{keyRateLimit, settings.Requests.RateLimit},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidConfig, provider)
	}
	if !provider.SupportsEmbedding() {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidConfig, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidConfig, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Index dimension follows the model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the completion provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidConfig, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidConfig, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the effective settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// ValidateSettings checks field bounds, provider capabilities and credentials.
// Every failure wraps domain.ErrInvalidConfig.
func ValidateSettings(settings *domain.AppSettings) error {
	if err := validate.Struct(settings); err != nil {
		return validationError(domain.ErrInvalidConfig, err)
	}
	if !settings.Embedding.Provider.SupportsEmbedding() {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidConfig, settings.Embedding.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s requires an API key", domain.ErrInvalidConfig, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %s is not configured", domain.ErrInvalidConfig, settings.LLM.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current completion configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.
// Numeric keys are looked up by presence so an explicit zero is honoured.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getDuration accepts a duration string ("30s") or a number of seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal, nil
	}
	if str, ok := val.(string); ok {
		if str == "" {
			return defaultVal, nil
		}
		d, err := time.ParseDuration(str)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfig, key, err)
		}
		return d, nil
	}
	return time.Duration(s.configStore.GetFloat(key) * float64(time.Second)), nil
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return domain.AIProvider(val)
}

// apiKey prefers the component-specific key, then the provider's shared key.
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.configStore.GetString(ProviderKeyConfigKey(provider))
}
