package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/p7raneeth/docqa/internal/adapters/driven/ai"
	"github.com/p7raneeth/docqa/internal/app"
	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/logger"
)

const testDims = 16

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	validateErr error
	embedErr    error
	llmErr      error

	embedProvider domain.AIProvider
	embedModel    string
	embedKey      string
	llmProvider   domain.AIProvider
	llmModel      string
	llmKey        string
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultAppSettings()
	s.Embedding.Dimensions = testDims
	s.Embedding.APIKey = "sk-embed-test-key"
	s.LLM.APIKey = "sk-llm-test-key"
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embedProvider, m.embedModel, m.embedKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmProvider, m.llmModel, m.llmKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) Validate() error                 { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error  { return m.embedErr }
func (m *mockSettingsService) ValidateLLMConfig() error        { return m.llmErr }

// fakeEmbedder hashes characters into a small vector.
type fakeEmbedder struct {
	pingErr error
}

func (f *fakeEmbedder) vector(text string) []float32 {
	v := make([]float32, testDims)
	for _, r := range strings.ToLower(text) {
		v[int(r)%testDims]++
	}
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return testDims }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeEmbedder) Close() error                 { return nil }

// fakeLLM answers with a fixed reply and records the requests it saw.
type fakeLLM struct {
	mu      sync.Mutex
	pingErr error
	calls   [][]driven.ChatMessage
}

func (f *fakeLLM) Complete(_ context.Context, messages []driven.ChatMessage, _ driven.CompletionOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	if len(messages) > 0 && messages[0].Role == driven.ChatRoleSystem {
		return "stub answer", nil
	}
	return "resolved question", nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeLLM) Close() error                 { return nil }

// fakeExtractor returns the same page text for every PDF.
type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, _ []byte) ([]domain.Page, error) {
	return []domain.Page{
		{Number: 1, Text: "Invoices are due within thirty days of receipt."},
		{Number: 2, Text: "Late payments incur a two percent monthly fee."},
	}, nil
}

type testServices struct {
	settings *mockSettingsService
	embedder *fakeEmbedder
	llm      *fakeLLM
}

// setupTestServices installs mock settings and an engine factory backed by
// fakes, and resets command flags. The returned function restores globals.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		settings: newMockSettingsService(),
		embedder: &fakeEmbedder{},
		llm:      &fakeLLM{},
	}

	prevSettings, prevFactory := settingsService, engineFactory
	settingsFactory = nil
	settingsService = ts.settings
	engineFactory = func(ctx context.Context, settings *domain.AppSettings) (*app.Engine, error) {
		return app.New(ctx, settings, app.Options{
			Services:  &ai.Services{Embedding: ts.embedder, Completion: ts.llm},
			Extractor: fakeExtractor{},
		})
	}
	resetFlags()

	return ts, func() {
		settingsService, engineFactory = prevSettings, prevFactory
		resetFlags()
		logger.SetVerbose(false)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

func resetFlags() {
	verbose, skipPing, noConfig = false, false, false
	askPDFs, askTopK, askJSON = nil, 0, false
	chatPDFs = nil
	mcpHTTPAddr, mcpPDFs, mcpWatchDir = "", nil, ""
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%stub\n"), 0600))
	return path
}
