// Package env overlays environment variables on another ConfigStore.
//
// Variables are read once at construction. DOCQA_* variables map onto the
// dotted config keys (DOCQA_TOP_K becomes rag.top_k) and the providers'
// conventional key variables (OPENAI_API_KEY, ANTHROPIC_API_KEY,
// GEMINI_API_KEY) become keys.<provider>. A .env file in the working
// directory is loaded first without replacing variables already set.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/p7raneeth/docqa/internal/adapters/driven/config/values"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ConfigStore = (*Store)(nil)

// Prefix is prepended to every docqa variable name.
const Prefix = "DOCQA_"

// overrides lists the supported variables. Nil pointers are unset.
type overrides struct {
	ChunkSize          *int           `env:"CHUNK_SIZE" key:"rag.chunk_size"`
	ChunkOverlap       *int           `env:"CHUNK_OVERLAP" key:"rag.chunk_overlap"`
	TopK               *int           `env:"TOP_K" key:"rag.top_k"`
	MaxTopK            *int           `env:"MAX_TOP_K" key:"rag.max_top_k"`
	MaxHistoryMessages *int           `env:"MAX_HISTORY_MESSAGES" key:"rag.max_history_messages"`
	RewriteWindow      *int           `env:"REWRITE_WINDOW" key:"rag.rewrite_window"`
	MaxFileSize        *int           `env:"MAX_FILE_SIZE" key:"upload.max_size"`
	FileType           *string        `env:"FILE_TYPE" key:"upload.file_type"`
	EmbeddingProvider  *string        `env:"EMBEDDING_PROVIDER" key:"embedding.provider"`
	EmbeddingModel     *string        `env:"EMBEDDING_MODEL" key:"embedding.model"`
	EmbeddingDim       *int           `env:"EMBEDDING_DIM" key:"embedding.dimensions"`
	EmbeddingBatchSize *int           `env:"EMBEDDING_BATCH_SIZE" key:"embedding.batch_size"`
	EmbeddingBaseURL   *string        `env:"EMBEDDING_BASE_URL" key:"embedding.base_url"`
	EmbeddingAPIKey    *string        `env:"EMBEDDING_API_KEY" key:"embedding.api_key"`
	LLMProvider        *string        `env:"LLM_PROVIDER" key:"llm.provider"`
	LLMModel           *string        `env:"LLM_MODEL" key:"llm.model"`
	LLMBaseURL         *string        `env:"LLM_BASE_URL" key:"llm.base_url"`
	LLMAPIKey          *string        `env:"LLM_API_KEY" key:"llm.api_key"`
	Temperature        *float64       `env:"TEMPERATURE" key:"llm.temperature"`
	MaxTokens          *int           `env:"MAX_TOKENS" key:"llm.max_tokens"`
	RequestTimeout     *time.Duration `env:"REQUEST_TIMEOUT" key:"requests.timeout"`
	RetryAttempts      *int           `env:"RETRY_ATTEMPTS" key:"requests.retry_attempts"`
	RetryDelay         *time.Duration `env:"RETRY_DELAY" key:"requests.retry_delay"`
	RateLimit          *float64       `env:"RATE_LIMIT" key:"requests.rate_limit"`
}

// providerKeys are read without the docqa prefix.
type providerKeys struct {
	OpenAI    *string `env:"OPENAI_API_KEY" key:"keys.openai"`
	Anthropic *string `env:"ANTHROPIC_API_KEY" key:"keys.anthropic"`
	Gemini    *string `env:"GEMINI_API_KEY" key:"keys.gemini"`
}

// Options configures where variables come from.
type Options struct {
	// Environment replaces the process environment when non-nil.
	Environment map[string]string

	// DotEnvFiles are loaded into the process environment before parsing.
	// Missing files are skipped. Ignored when Environment is set.
	DotEnvFiles []string
}

// Store reads environment overrides first and falls through to a base store.
// Writes go to the base store; an environment override keeps shadowing the
// written value for the life of the process.
type Store struct {
	base      driven.ConfigStore
	overrides map[string]any
}

// NewStore parses the environment and wraps base.
func NewStore(base driven.ConfigStore, opts Options) (*Store, error) {
	if opts.Environment == nil {
		for _, f := range opts.DotEnvFiles {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	var o overrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: Prefix, Environment: opts.Environment}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	var k providerKeys
	if err := env.ParseWithOptions(&k, env.Options{Environment: opts.Environment}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	found := make(map[string]any)
	collect(found, o)
	collect(found, k)

	return &Store{base: base, overrides: found}, nil
}

// Overridden reports the config keys set from the environment.
func (s *Store) Overridden() []string {
	keys := make([]string, 0, len(s.overrides))
	for k := range s.overrides {
		keys = append(keys, k)
	}
	return keys
}

// Get returns the environment value when set, otherwise the base value.
func (s *Store) Get(key string) (any, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *Store) GetString(key string) string {
	v, _ := s.Get(key)
	return values.String(v)
}

// GetInt retrieves an integer configuration value.
func (s *Store) GetInt(key string) int {
	v, _ := s.Get(key)
	return values.Int(v)
}

// GetFloat retrieves a numeric configuration value as float64.
func (s *Store) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	return values.Float(v)
}

// GetBool retrieves a boolean configuration value.
func (s *Store) GetBool(key string) bool {
	v, _ := s.Get(key)
	return values.Bool(v)
}

// GetStringSlice retrieves a string slice configuration value.
func (s *Store) GetStringSlice(key string) []string {
	v, _ := s.Get(key)
	return values.StringSlice(v)
}

// Set writes to the base store.
func (s *Store) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the base store.
func (s *Store) Save() error {
	return s.base.Save()
}

// Load reloads the base store. Environment values are fixed at construction.
func (s *Store) Load() error {
	return s.base.Load()
}

// Path returns the base store's path.
func (s *Store) Path() string {
	return s.base.Path()
}
