package driving

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// QueryService answers questions against the indexed documents.
type QueryService interface {
	// Query rewrites the question against history, retrieves context and
	// generates a grounded answer. Any step's failure fails the whole query.
	Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
}

// StatsService reports the size of the vector index.
type StatsService interface {
	// Stats returns the current chunk and vector counts.
	Stats(ctx context.Context) domain.IndexStats
}
