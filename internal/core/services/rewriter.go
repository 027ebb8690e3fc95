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

// Rewrite calls are short and near-deterministic.
const (
	rewriteTemperature = 0.3
	rewriteMaxTokens   = 200
)

// Ensure QueryRewriter accepts custom prompts.
var _ driven.PromptStoreAware = (*QueryRewriter)(nil)

// QueryRewriter turns a follow-up question into a standalone one using the
// recent conversation. The model's reply is trusted as-is.
type QueryRewriter struct {
	llm     driven.CompletionService
	prompts driven.PromptStore
	window  int
	timeout time.Duration
}

// NewQueryRewriter creates a rewriter that considers the last window messages.
func NewQueryRewriter(llm driven.CompletionService, window int, timeout time.Duration) *QueryRewriter {
	return &QueryRewriter{
		llm:     llm,
		window:  window,
		timeout: timeout,
	}
}

// SetPromptStore sets the prompt store for the rewrite template.
func (r *QueryRewriter) SetPromptStore(store driven.PromptStore) {
	r.prompts = store
}

// Rewrite returns a self-contained form of query.
// With no usable history the query is returned unchanged and no call is made.
func (r *QueryRewriter) Rewrite(ctx context.Context, query string, history []domain.Message) (string, error) {
	recent := lastMessages(history, r.window)
	if len(recent) == 0 {
		logger.Debug("no history, query used as-is")
		return query, nil
	}
	if r.llm == nil {
		return "", fmt.Errorf("rewrite query: %w", domain.ErrProviderUnavailable)
	}

	lines := make([]string, len(recent))
	for i, m := range recent {
		lines[i] = strings.ToUpper(m.Role.String()) + ": " + m.Content
	}
	prompt := fmt.Sprintf(loadPrompt(r.prompts, driven.PromptQueryRewrite), strings.Join(lines, "\n"), query)

	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.llm.Complete(callCtx,
		[]driven.ChatMessage{{Role: driven.ChatRoleUser, Content: prompt}},
		driven.CompletionOptions{Temperature: rewriteTemperature, MaxTokens: rewriteMaxTokens},
	)
	if err != nil {
		return "", fmt.Errorf("%w: rewrite query: %w", domain.ErrExternalService, err)
	}

	rewritten := strings.TrimSpace(reply)
	if rewritten == "" {
		logger.Warn("rewriter returned nothing, keeping original query")
		return query, nil
	}

	logger.Debug("rewritten query: %q -> %q", query, rewritten)
	return rewritten, nil
}
