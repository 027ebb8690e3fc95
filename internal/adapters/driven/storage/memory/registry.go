package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

// Ensure DocumentRegistry implements the interface.
var _ driven.DocumentRegistry = (*DocumentRegistry)(nil)

// DocumentRegistry is an in-memory implementation of driven.DocumentRegistry.
// Records are stored by value so callers cannot mutate them after Save.
type DocumentRegistry struct {
	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
}

// NewDocumentRegistry creates an empty registry.
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		records: make(map[string]domain.DocumentRecord),
	}
}

// Save stores or replaces a record.
func (r *DocumentRegistry) Save(_ context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("%w: document record requires an id", domain.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = *record
	return nil
}

// Get retrieves a record by ID.
func (r *DocumentRegistry) Get(_ context.Context, id string) (*domain.DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &rec, nil
}

// List returns all records ordered by creation time, then ID.
func (r *DocumentRegistry) List(_ context.Context) ([]domain.DocumentRecord, error) {
	r.mu.RLock()
	out := make([]domain.DocumentRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.DocumentRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
