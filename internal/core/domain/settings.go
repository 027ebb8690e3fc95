package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// SupportsEmbedding returns true if the provider can produce embeddings.
func (p AIProvider) SupportsEmbedding() bool {
	for _, e := range AllEmbeddingProviders() {
		if e == p {
			return true
		}
	}
	return false
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"required"`

	// Model is the embedding model name.
	Model string `validate:"required"`

	// Dimensions is the vector size the model produces and the index stores.
	Dimensions int `validate:"gt=0"`

	// BatchSize caps texts per embedding call. Zero sends a document in one call.
	BatchSize int `validate:"gte=0"`

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbedding() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider `validate:"required"`

	// Model is the completion model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// Temperature is the sampling temperature for answers.
	Temperature float64 `validate:"gte=0,lte=2"`

	// MaxTokens caps the length of an answer.
	MaxTokens int `validate:"gt=0"`
}

// IsConfigured returns true if the completion provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RAGSettings holds chunking and retrieval configuration.
type RAGSettings struct {
	// ChunkSize is the chunk window length in characters.
	ChunkSize int `validate:"gt=0"`

	// ChunkOverlap is how many characters consecutive windows share.
	// Must be smaller than ChunkSize.
	ChunkOverlap int `validate:"gte=0,ltfield=ChunkSize"`

	// TopK is the default number of chunks retrieved per query.
	TopK int `validate:"gt=0,ltefield=MaxTopK"`

	// MaxTopK is the largest top_k a request may ask for.
	MaxTopK int `validate:"gt=0"`

	// MaxHistoryMessages bounds the history sent to the answer generator.
	MaxHistoryMessages int `validate:"gte=0"`

	// RewriteWindow bounds the history sent to the query rewriter.
	RewriteWindow int `validate:"gte=0"`
}

// UploadSettings holds upload acceptance rules.
type UploadSettings struct {
	// MaxSize is the largest accepted upload in bytes.
	MaxSize int64 `validate:"gt=0"`

	// FileType is the accepted filename extension, including the dot.
	FileType string `validate:"required,startswith=."`
}

// RequestSettings bounds every external call.
type RequestSettings struct {
	// Timeout is the per-call deadline.
	Timeout time.Duration `validate:"gt=0"`

	// RetryAttempts is the number of attempts per call. One means no retry.
	RetryAttempts uint `validate:"gte=1"`

	// RetryDelay is the initial backoff between attempts.
	RetryDelay time.Duration `validate:"gte=0"`

	// RateLimit caps outbound calls per second per provider. Zero disables it.
	RateLimit float64 `validate:"gte=0"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	RAG       RAGSettings
	Upload    UploadSettings
	Requests  RequestSettings
}

// Default values for AppSettings.
const (
	DefaultChunkSize          = 1000
	DefaultChunkOverlap       = 200
	DefaultTopK               = 5
	DefaultMaxTopK            = 10
	DefaultMaxHistoryMessages = 4
	DefaultRewriteWindow      = 4
	DefaultMaxFileSize        = 20 * 1024 * 1024
	DefaultFileType           = ".pdf"
	DefaultTemperature        = 0.1
	DefaultMaxTokens          = 1000
	DefaultRequestTimeout     = 60 * time.Second
	DefaultRetryDelay         = 500 * time.Millisecond
)

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the environment or config file.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOpenAI,
			Model:      DefaultEmbeddingModels()[AIProviderOpenAI],
			Dimensions: EmbeddingDimensions()[DefaultEmbeddingModels()[AIProviderOpenAI]],
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModels()[AIProviderOpenAI],
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		RAG: RAGSettings{
			ChunkSize:          DefaultChunkSize,
			ChunkOverlap:       DefaultChunkOverlap,
			TopK:               DefaultTopK,
			MaxTopK:            DefaultMaxTopK,
			MaxHistoryMessages: DefaultMaxHistoryMessages,
			RewriteWindow:      DefaultRewriteWindow,
		},
		Upload: UploadSettings{
			MaxSize:  DefaultMaxFileSize,
			FileType: DefaultFileType,
		},
		Requests: RequestSettings{
			Timeout:       DefaultRequestTimeout,
			RetryAttempts: 1,
			RetryDelay:    DefaultRetryDelay,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "gemini-embedding-001",
	}
}

// DefaultLLMModels returns default models for each completion provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o",
		AIProviderAnthropic: "claude-sonnet-4-5",
		AIProviderGemini:    "gemini-2.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"gemini-embedding-001": 768,
		"text-embedding-004":   768,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the chunking pipeline configuration from RAG settings.
func PipelineConfigFor(rag RAGSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": rag.ChunkSize,
				"overlap":    rag.ChunkOverlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings().RAG)
}
