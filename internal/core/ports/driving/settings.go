package driving

import "github.com/p7raneeth/docqa/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves the effective application settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the completion provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks the effective settings and returns an error wrapping
	// domain.ErrInvalidConfig when they cannot be used.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current completion configuration by pinging the provider.
	ValidateLLMConfig() error
}
