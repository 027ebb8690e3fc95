package driven

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// DocumentRegistry records uploads and their ingestion state.
// It holds bookkeeping only; chunk text lives in the VectorIndex.
type DocumentRegistry interface {
	// Save stores or replaces a record.
	Save(ctx context.Context, record *domain.DocumentRecord) error

	// Get retrieves a record by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// List returns all records, oldest first.
	List(ctx context.Context) ([]domain.DocumentRecord, error)
}
