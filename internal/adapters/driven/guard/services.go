package guard

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// Ensure the wrappers implement the interfaces.
var (
	_ driven.EmbeddingService  = (*EmbeddingService)(nil)
	_ driven.CompletionService = (*CompletionService)(nil)
)

// EmbeddingService guards an embedding provider.
type EmbeddingService struct {
	driven.EmbeddingService
	runner *Runner
}

// Embedding wraps svc with cfg's limiter and retry policy.
func Embedding(svc driven.EmbeddingService, cfg Config) *EmbeddingService {
	return &EmbeddingService{EmbeddingService: svc, runner: NewRunner("embedding "+svc.ModelName(), cfg)}
}

// Embed embeds one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.runner.Do(ctx, func(ctx context.Context) error {
		v, err := s.EmbeddingService.Embed(ctx, text)
		out = v
		return err
	})
	return out, err
}

// EmbedBatch embeds texts in one guarded call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := s.runner.Do(ctx, func(ctx context.Context) error {
		v, err := s.EmbeddingService.EmbedBatch(ctx, texts)
		out = v
		return err
	})
	return out, err
}

// CompletionService guards a completion provider.
type CompletionService struct {
	driven.CompletionService
	runner *Runner
}

// Completion wraps svc with cfg's limiter and retry policy.
func Completion(svc driven.CompletionService, cfg Config) *CompletionService {
	return &CompletionService{CompletionService: svc, runner: NewRunner("completion "+svc.ModelName(), cfg)}
}

// Complete runs one guarded completion.
func (s *CompletionService) Complete(ctx context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	var out string
	err := s.runner.Do(ctx, func(ctx context.Context) error {
		reply, err := s.CompletionService.Complete(ctx, messages, opts)
		out = reply
		return err
	})
	return out, err
}
