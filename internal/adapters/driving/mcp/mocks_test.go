package mcp

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result   *domain.IngestResult
	err      error
	lastPath string
}

func (m *mockIngestService) Ingest(_ context.Context, _ []byte, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*domain.IngestResult, error) {
	m.lastPath = path
	return m.result, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	response *domain.QueryResponse
	err      error
	lastReq  domain.QueryRequest
}

func (m *mockQueryService) Query(_ context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	m.lastReq = req
	return m.response, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentRecord
	document  *domain.DocumentRecord
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.DocumentRecord, error) {
	return m.document, m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats domain.IndexStats
}

func (m *mockStatsService) Stats(_ context.Context) domain.IndexStats {
	return m.stats
}

func requiredPorts() *Ports {
	return &Ports{
		Ingest: &mockIngestService{},
		Query:  &mockQueryService{},
	}
}
