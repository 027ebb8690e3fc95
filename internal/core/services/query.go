package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
	"github.com/p7raneeth/docqa/internal/logger"
)

// Ensure QueryService implements the interfaces.
var (
	_ driving.QueryService = (*QueryService)(nil)
	_ driving.StatsService = (*QueryService)(nil)
)

// QueryService answers questions in one pass:
// rewrite -> embed -> search -> generate. It keeps no state between calls.
type QueryService struct {
	rewriter  *QueryRewriter
	embedder  *EmbeddingGateway
	index     driven.VectorIndex
	generator *AnswerGenerator
	rag       domain.RAGSettings
}

// NewQueryService creates a new query service.
func NewQueryService(
	rewriter *QueryRewriter,
	embedder *EmbeddingGateway,
	index driven.VectorIndex,
	generator *AnswerGenerator,
	rag domain.RAGSettings,
) *QueryService {
	return &QueryService{
		rewriter:  rewriter,
		embedder:  embedder,
		index:     index,
		generator: generator,
		rag:       rag,
	}
}

// Query answers req. Rewrite, embedding and search failures wrap
// domain.ErrRetrievalFailure; answer failures wrap domain.ErrGenerationFailure.
func (s *QueryService) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	logger.Section("Query")

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)
	topK := req.TopK
	if topK == 0 {
		topK = s.rag.TopK
	}
	logger.Debug("query %q, top_k %d, history %d", query, topK, len(req.History))

	resolved, err := s.rewriter.Rewrite(ctx, query, req.History)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailure, err)
	}

	vector, err := s.embedder.EmbedQuery(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailure, err)
	}

	sources, err := s.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", domain.ErrRetrievalFailure, err)
	}
	logger.Debug("retrieved %d chunks", len(sources))

	answer, err := s.generator.Generate(ctx, query, sources, req.History)
	if err != nil {
		return nil, err
	}

	return &domain.QueryResponse{
		Answer:        answer,
		Query:         req.Query,
		ResolvedQuery: resolved,
		Sources:       sources,
	}, nil
}

// Stats returns the current index counts.
func (s *QueryService) Stats(_ context.Context) domain.IndexStats {
	return s.index.Stats()
}

func (s *QueryService) validateRequest(req domain.QueryRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query is blank", domain.ErrInvalidInput)
	}
	if s.rag.MaxTopK > 0 && req.TopK > s.rag.MaxTopK {
		return fmt.Errorf("%w: top_k %d exceeds maximum %d", domain.ErrInvalidInput, req.TopK, s.rag.MaxTopK)
	}
	return nil
}
