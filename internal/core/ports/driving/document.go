package driving

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// IngestService turns uploaded PDFs into indexed chunks.
type IngestService interface {
	// Ingest validates, extracts, chunks, embeds and indexes one upload.
	// The index is untouched unless every stage succeeds.
	Ingest(ctx context.Context, data []byte, filename string) (*domain.IngestResult, error)

	// IngestFile reads a file from disk and ingests it under its base name.
	IngestFile(ctx context.Context, path string) (*domain.IngestResult, error)
}

// DocumentService lists uploads and their ingestion state.
type DocumentService interface {
	// List returns every upload seen by this process, oldest first.
	List(ctx context.Context) ([]domain.DocumentRecord, error)

	// Get retrieves one upload record by ID.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, error)
}
