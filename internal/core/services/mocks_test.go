package services

import (
	"context"
	"strings"
	"sync"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService. Each text maps to a
// vector keyed on which keywords it contains, so similar texts land close.
type mockEmbedder struct {
	mu       sync.Mutex
	dims     int
	keywords []string
	err      error
	calls    [][]string
	// shortBy drops this many vectors from every batch reply.
	shortBy int
	// wrongDims overrides the size of returned vectors when positive.
	wrongDims int
}

func newMockEmbedder(keywords ...string) *mockEmbedder {
	return &mockEmbedder{dims: len(keywords) + 1, keywords: keywords}
}

func (m *mockEmbedder) vector(text string) []float32 {
	dims := m.dims
	if m.wrongDims > 0 {
		dims = m.wrongDims
	}
	v := make([]float32, dims)
	lower := strings.ToLower(text)
	for i, kw := range m.keywords {
		if i < dims && strings.Contains(lower, kw) {
			v[i] = 1
		}
	}
	v[dims-1] = 0.1
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, []string{text})
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts[:max(len(texts)-m.shortBy, 0)] {
		out = append(out, m.vector(t))
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.CompletionService and records every call.
type mockLLM struct {
	mu      sync.Mutex
	replies []string
	reply   func(messages []driven.ChatMessage) string
	err     error
	calls   [][]driven.ChatMessage
	opts    []driven.CompletionOptions
}

func (m *mockLLM) Complete(_ context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	if m.reply != nil {
		return m.reply(messages), nil
	}
	if len(m.replies) > 0 {
		r := m.replies[0]
		m.replies = m.replies[1:]
		return r, nil
	}
	return "", nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockExtractor implements driven.PDFExtractor.
type mockExtractor struct {
	pages []domain.Page
	err   error
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte) ([]domain.Page, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

// mockIndex implements driven.VectorIndex over a slice.
type mockIndex struct {
	dims      int
	chunks    []string
	metadata  []domain.ChunkMetadata
	results   []domain.RetrievalResult
	addErr    error
	searchErr error
	lastTopK  int
}

func (m *mockIndex) Add(_ context.Context, chunks []string, _ [][]float32, metadata []domain.ChunkMetadata) (int, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.chunks = append(m.chunks, chunks...)
	m.metadata = append(m.metadata, metadata...)
	return len(chunks), nil
}

func (m *mockIndex) Search(_ context.Context, _ []float32, topK int) ([]domain.RetrievalResult, error) {
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK < len(m.results) {
		return m.results[:topK], nil
	}
	return m.results, nil
}

func (m *mockIndex) Stats() domain.IndexStats {
	return domain.IndexStats{TotalChunks: len(m.chunks), IndexedVectors: len(m.chunks)}
}

func (m *mockIndex) Dimensions() int { return m.dims }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// failingRegistry implements driven.DocumentRegistry and always fails.
type failingRegistry struct{ err error }

func (f failingRegistry) Save(_ context.Context, _ *domain.DocumentRecord) error { return f.err }
func (f failingRegistry) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return nil, f.err
}
func (f failingRegistry) List(_ context.Context) ([]domain.DocumentRecord, error) { return nil, f.err }

// mockValidator implements driven.AIConfigValidator.
type mockValidator struct {
	embedErr error
	llmErr   error
	embedded *domain.EmbeddingSettings
	llm      *domain.LLMSettings
}

func (m *mockValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	m.embedded = cfg
	return m.embedErr
}

func (m *mockValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	m.llm = cfg
	return m.llmErr
}
