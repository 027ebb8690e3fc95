package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/logger"
)

// Ensure AnswerGenerator accepts custom prompts.
var _ driven.PromptStoreAware = (*AnswerGenerator)(nil)

// AnswerGenerator asks the completion model for an answer grounded in
// retrieved chunks. It makes exactly one call per answer and never retries.
type AnswerGenerator struct {
	llm        driven.CompletionService
	prompts    driven.PromptStore
	maxHistory int
	opts       driven.CompletionOptions
	timeout    time.Duration
}

// NewAnswerGenerator creates a generator from completion settings.
// maxHistory bounds how many trailing history messages are sent.
func NewAnswerGenerator(llm driven.CompletionService, settings domain.LLMSettings, maxHistory int, timeout time.Duration) *AnswerGenerator {
	return &AnswerGenerator{
		llm:        llm,
		maxHistory: maxHistory,
		opts: driven.CompletionOptions{
			Temperature: settings.Temperature,
			MaxTokens:   settings.MaxTokens,
		},
		timeout: timeout,
	}
}

// SetPromptStore sets the prompt store for the answer templates.
func (g *AnswerGenerator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Generate returns the model's answer verbatim.
// Failures wrap domain.ErrGenerationFailure.
func (g *AnswerGenerator) Generate(
	ctx context.Context, query string, chunks []domain.RetrievalResult, history []domain.Message,
) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, domain.ErrProviderUnavailable)
	}

	messages := g.BuildMessages(query, chunks, history)
	logger.Debug("generating answer with %s: %d context chunks, %d messages", g.llm.ModelName(), len(chunks), len(messages))

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	answer, err := g.llm.Complete(callCtx, messages, g.opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}
	return answer, nil
}

// BuildMessages assembles the prompt: system instruction, bounded history,
// then the user turn carrying either labelled context or the no-context notice.
func (g *AnswerGenerator) BuildMessages(
	query string, chunks []domain.RetrievalResult, history []domain.Message,
) []driven.ChatMessage {
	recent := lastMessages(history, g.maxHistory)
	messages := make([]driven.ChatMessage, 0, len(recent)+2)

	messages = append(messages, driven.ChatMessage{
		Role:    driven.ChatRoleSystem,
		Content: loadPrompt(g.prompts, driven.PromptAnswerSystem),
	})
	for _, m := range recent {
		messages = append(messages, driven.ChatMessage{Role: m.Role.String(), Content: m.Content})
	}

	var user string
	if len(chunks) == 0 {
		user = fmt.Sprintf(loadPrompt(g.prompts, driven.PromptAnswerNoContext), query)
	} else {
		user = fmt.Sprintf(loadPrompt(g.prompts, driven.PromptAnswerContext), FormatContext(chunks), query)
	}

	return append(messages, driven.ChatMessage{Role: driven.ChatRoleUser, Content: user})
}

// FormatContext renders ranked chunks as "[Source i — Page p]" blocks in rank order.
func FormatContext(chunks []domain.RetrievalResult) string {
	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = fmt.Sprintf("[Source %d — Page %s]\n%s", i+1, c.Metadata().PageLabel(), c.Content)
	}
	return strings.Join(blocks, "\n\n")
}
