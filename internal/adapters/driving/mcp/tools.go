package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// IngestInput is the input schema for the ingest_pdf tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of the PDF file to ingest"`
}

// IngestOutput is the output schema for the ingest_pdf tool.
type IngestOutput struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	Pages       int    `json:"pages"`
	TotalChunks int    `json:"total_chunks"`
}

// MessageInput is one prior turn of a conversation.
type MessageInput struct {
	Role    string `json:"role" jsonschema:"user or assistant"`
	Content string `json:"content" jsonschema:"the message text"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query   string         `json:"query" jsonschema:"the question to answer from the ingested documents"`
	History []MessageInput `json:"history,omitempty" jsonschema:"earlier turns, oldest first, used to resolve follow-up questions"`
	TopK    int            `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default from settings)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer        string         `json:"answer"`
	ResolvedQuery string         `json:"resolved_query"`
	Sources       []SourceOutput `json:"sources"`
}

// SourceOutput is one retrieved chunk, with its content shortened.
type SourceOutput struct {
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	ChunkID    string  `json:"chunk_id"`
	PageNumber *int    `json:"page_number,omitempty"`
	Filename   string  `json:"filename,omitempty"`
}

// StatsInput is the empty input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	TotalChunks    int `json:"total_chunks"`
	IndexedVectors int `json:"indexed_vectors"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_pdf",
		Description: "Extract, chunk, embed and index a PDF file so it can be queried",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using only the ingested documents, with cited sources",
	}, s.handleQuery)

	if s.ports.Stats != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Report how many chunks and vectors are indexed",
		}, s.handleStats)
	}
}

// handleIngest handles the ingest_pdf tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Path == "" {
		return nil, IngestOutput{}, errors.New("path is required")
	}

	result, err := s.ports.Ingest.IngestFile(ctx, input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("ingesting %s: %w", input.Path, err)
	}

	return nil, IngestOutput{
		DocumentID:  result.DocumentID,
		Filename:    result.Filename,
		Pages:       result.Pages,
		TotalChunks: result.TotalChunks,
	}, nil
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	req := domain.QueryRequest{
		Query:   input.Query,
		History: make([]domain.Message, len(input.History)),
		TopK:    input.TopK,
	}
	for i, m := range input.History {
		req.History[i] = domain.Message{Role: domain.Role(m.Role), Content: m.Content}
	}

	resp, err := s.ports.Query.Query(ctx, req)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:        resp.Answer,
		ResolvedQuery: resp.ResolvedQuery,
		Sources:       make([]SourceOutput, len(resp.Sources)),
	}
	for i, src := range resp.Sources {
		output.Sources[i] = SourceOutput{
			Content:    src.Preview(domain.PreviewLength),
			Score:      src.Score,
			ChunkID:    src.ChunkID,
			PageNumber: src.PageNumber,
			Filename:   src.Filename,
		}
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats := s.ports.Stats.Stats(ctx)
	return nil, StatsOutput{
		TotalChunks:    stats.TotalChunks,
		IndexedVectors: stats.IndexedVectors,
	}, nil
}
