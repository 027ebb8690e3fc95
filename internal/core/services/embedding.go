package services

import (
	"context"
	"fmt"
	"time"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/logger"
)

// EmbeddingGateway turns text into vectors through an EmbeddingService and
// checks every reply: one vector per input, in order, of the expected size.
type EmbeddingGateway struct {
	svc        driven.EmbeddingService
	dimensions int
	batchSize  int
	timeout    time.Duration
}

// NewEmbeddingGateway creates a gateway expecting vectors of the given size.
// A batchSize of zero sends all texts of a document in one call.
func NewEmbeddingGateway(svc driven.EmbeddingService, dimensions, batchSize int, timeout time.Duration) *EmbeddingGateway {
	return &EmbeddingGateway{
		svc:        svc,
		dimensions: dimensions,
		batchSize:  batchSize,
		timeout:    timeout,
	}
}

// Dimensions returns the expected vector size.
func (g *EmbeddingGateway) Dimensions() int {
	return g.dimensions
}

// Embed returns one vector per text in input order.
// Any failure wraps domain.ErrEmbeddingFailure and no vectors are returned.
func (g *EmbeddingGateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if g.svc == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, domain.ErrProviderUnavailable)
	}

	size := g.batchSize
	if size <= 0 || size > len(texts) {
		size = len(texts)
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch := texts[start:end]

		logger.Debug("embedding batch %d-%d of %d with %s", start, end, len(texts), g.svc.ModelName())
		vectors, err := g.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}

	return out, nil
}

// EmbedQuery embeds a single query string.
func (g *EmbeddingGateway) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if g.svc == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, domain.ErrProviderUnavailable)
	}

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	vector, err := g.svc.Embed(callCtx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(vector) != g.dimensions {
		return nil, fmt.Errorf("%w: query vector has dimension %d, expected %d",
			domain.ErrEmbeddingFailure, len(vector), g.dimensions)
	}
	return vector, nil
}

func (g *EmbeddingGateway) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	vectors, err := g.svc.EmbedBatch(callCtx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts",
			domain.ErrEmbeddingFailure, len(vectors), len(batch))
	}
	for i, v := range vectors {
		if len(v) != g.dimensions {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				domain.ErrEmbeddingFailure, i, len(v), g.dimensions)
		}
	}
	return vectors, nil
}
