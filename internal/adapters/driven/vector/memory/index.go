// Package memory provides an in-process flat vector index.
//
// Vectors are L2-normalised on insert and at query time, so the inner product
// used for ranking equals cosine similarity. Search is exhaustive.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an append-only flat inner-product index.
// The four parallel slices always share length and order.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	vectors    [][]float32
	chunks     []string
	ids        []string
	metadata   []domain.ChunkMetadata
}

// New creates an empty index for vectors of the given size.
func New(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: vector dimensions must be positive, got %d", domain.ErrInvalidConfig, dimensions)
	}
	return &Index{dimensions: dimensions}, nil
}

// Dimensions returns the vector size the index accepts.
func (x *Index) Dimensions() int {
	return x.dimensions
}

// Add appends chunks, vectors and metadata as one unit.
// Inputs are checked in full before the lock is taken; on any failure the
// index is left untouched.
func (x *Index) Add(ctx context.Context, chunks []string, vectors [][]float32, metadata []domain.ChunkMetadata) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(chunks) != len(vectors) || len(chunks) != len(metadata) {
		return 0, fmt.Errorf("%w: %d chunks, %d vectors, %d metadata entries",
			domain.ErrShapeMismatch, len(chunks), len(vectors), len(metadata))
	}

	normalised := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != x.dimensions {
			return 0, fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				domain.ErrShapeMismatch, i, len(v), x.dimensions)
		}
		if strings.TrimSpace(chunks[i]) == "" {
			return 0, fmt.Errorf("%w: chunk %d is empty", domain.ErrInvalidInput, i)
		}
		normalised[i] = normalise(v)
	}

	ids := make([]string, len(chunks))
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.vectors = append(x.vectors, normalised...)
	x.chunks = append(x.chunks, chunks...)
	x.ids = append(x.ids, ids...)
	x.metadata = append(x.metadata, metadata...)

	return len(chunks), nil
}

// Search ranks every stored vector against the query.
func (x *Index) Search(ctx context.Context, query []float32, topK int) ([]domain.RetrievalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			domain.ErrShapeMismatch, len(query), x.dimensions)
	}

	q := normalise(query)

	x.mu.RLock()
	defer x.mu.RUnlock()

	n := len(x.vectors)
	if n == 0 || topK <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	scores := make([]float64, n)
	order := make([]int, n)
	for i, v := range x.vectors {
		scores[i] = dot(v, q)
		order[i] = i
	}

	// Stable sort keeps insertion order among equal scores.
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	if topK > n {
		topK = n
	}

	results := make([]domain.RetrievalResult, topK)
	for r, i := range order[:topK] {
		meta := x.metadata[i]
		results[r] = domain.RetrievalResult{
			Content:    x.chunks[i],
			Score:      scores[i],
			ChunkID:    x.ids[i],
			PageNumber: meta.PageNumber,
			Filename:   meta.Filename,
		}
	}
	return results, nil
}

// Stats reports stored chunk and vector counts.
func (x *Index) Stats() domain.IndexStats {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return domain.IndexStats{
		TotalChunks:    len(x.chunks),
		IndexedVectors: len(x.vectors),
	}
}

// normalise returns a unit-length copy of v. A zero vector is copied unchanged.
func normalise(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}

	norm := math.Sqrt(sum)
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
