package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "docqa://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "docqa://documents/doc-456/pages",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		server, err := NewServer(requiredPorts())
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists records", func(t *testing.T) {
		ports := requiredPorts()
		ports.Documents = &mockDocumentService{documents: []domain.DocumentRecord{
			{ID: "doc-1", Filename: "a.pdf", Pages: 2, TotalChunks: 5, State: domain.IngestStateIndexed},
			{ID: "doc-2", Filename: "b.pdf", State: domain.IngestStateFailed, Error: "no text"},
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"filename": "a.pdf"`)
		assert.Contains(t, text, `"state": "indexed"`)
		assert.Contains(t, text, `"error": "no text"`)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		ports := requiredPorts()
		ports.Documents = &mockDocumentService{err: errors.New("boom")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		server, err := NewServer(requiredPorts())
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest("docqa://documents/doc-1"))

		require.Error(t, err)
	})

	t.Run("unknown ID returns not found", func(t *testing.T) {
		ports := requiredPorts()
		ports.Documents = &mockDocumentService{err: domain.ErrNotFound}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest("docqa://documents/missing"))

		require.Error(t, err)
	})

	t.Run("returns the record", func(t *testing.T) {
		ports := requiredPorts()
		ports.Documents = &mockDocumentService{document: &domain.DocumentRecord{ID: "doc-1", Filename: "a.pdf"}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("docqa://documents/doc-1"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "a.pdf")
	})
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil stats service returns not found", func(t *testing.T) {
		server, err := NewServer(requiredPorts())
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("docqa://stats"))

		require.Error(t, err)
	})

	t.Run("returns counts", func(t *testing.T) {
		ports := requiredPorts()
		ports.Stats = &mockStatsService{stats: domain.IndexStats{TotalChunks: 9, IndexedVectors: 9}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleStatsResource(ctx, makeReadResourceRequest("docqa://stats"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"total_chunks": 9`)
		assert.Contains(t, result.Contents[0].Text, `"indexed_vectors": 9`)
	})
}
