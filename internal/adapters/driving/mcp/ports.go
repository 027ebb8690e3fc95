package mcp

import (
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest adds PDFs to the index.
	Ingest driving.IngestService

	// Query answers questions against the index.
	Query driving.QueryService

	// Documents lists ingested uploads.
	Documents driving.DocumentService

	// Stats reports index size.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	// Documents and Stats are optional
	return nil
}
