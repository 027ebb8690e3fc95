package driven

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// VectorIndex stores chunk vectors with their text and metadata and answers
// nearest-neighbour queries by inner product over L2-normalised vectors.
type VectorIndex interface {
	// Add appends chunks with their vectors and metadata. The three slices are
	// parallel and must share a length; every vector must match Dimensions.
	// On any mismatch nothing is added and the error wraps domain.ErrShapeMismatch.
	// Returns the number of chunks added.
	Add(ctx context.Context, chunks []string, vectors [][]float32, metadata []domain.ChunkMetadata) (int, error)

	// Search returns at most topK results ordered by descending score,
	// ties broken by insertion order. An empty index yields an empty slice.
	Search(ctx context.Context, query []float32, topK int) ([]domain.RetrievalResult, error)

	// Stats reports the number of stored chunks and vectors.
	Stats() domain.IndexStats

	// Dimensions returns the vector size the index accepts.
	Dimensions() int
}
