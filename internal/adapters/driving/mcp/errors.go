// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants ingest PDFs and ask grounded questions about them.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")
