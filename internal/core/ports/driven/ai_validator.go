package driven

import "github.com/p7raneeth/docqa/internal/core/domain"

// AIConfigValidator checks provider settings by building a client and pinging
// it. Used by `docqa settings check`.
type AIConfigValidator interface {
	// ValidateEmbedding returns an error wrapping domain.ErrProviderUnavailable
	// when the provider cannot be reached. Unconfigured settings pass.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM is ValidateEmbedding for the completion provider.
	ValidateLLM(config *domain.LLMSettings) error
}
