package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
	"github.com/p7raneeth/docqa/internal/logger"
)

// Ensure IngestService implements the interfaces.
var (
	_ driving.IngestService   = (*IngestService)(nil)
	_ driving.DocumentService = (*IngestService)(nil)
)

// IngestService drives an upload through
// received -> extracted -> chunked -> embedded -> indexed.
// The vector index is written only in the last step, so a failure at any
// earlier stage leaves it untouched.
type IngestService struct {
	extractor driven.PDFExtractor
	pipeline  driven.PostProcessorPipeline
	embedder  *EmbeddingGateway
	index     driven.VectorIndex
	registry  driven.DocumentRegistry
	upload    domain.UploadSettings
	now       func() time.Time
}

// NewIngestService creates a new ingest service.
// The registry parameter is optional (can be nil).
func NewIngestService(
	extractor driven.PDFExtractor,
	pipeline driven.PostProcessorPipeline,
	embedder *EmbeddingGateway,
	index driven.VectorIndex,
	registry driven.DocumentRegistry,
	upload domain.UploadSettings,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		registry:  registry,
		upload:    upload,
		now:       time.Now,
	}
}

// IngestFile reads path and ingests it under its base name.
// Oversized files are rejected before they are read.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if err := s.checkUpload(filepath.Base(path), info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Ingest(ctx, data, filepath.Base(path))
}

// Ingest validates, extracts, chunks, embeds and indexes one upload.
func (s *IngestService) Ingest(ctx context.Context, data []byte, filename string) (*domain.IngestResult, error) {
	logger.Section("Ingest " + filename)

	record := &domain.DocumentRecord{
		ID:        uuid.NewString(),
		Filename:  filename,
		Size:      int64(len(data)),
		State:     domain.IngestStateReceived,
		CreatedAt: s.now(),
	}
	s.track(ctx, record)

	if err := s.checkUpload(filename, int64(len(data))); err != nil {
		return nil, s.fail(ctx, record, err)
	}
	if len(data) == 0 {
		return nil, s.fail(ctx, record, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, filename))
	}

	// Extracted
	pages, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, s.fail(ctx, record, fmt.Errorf("extract %s: %w", filename, err))
	}
	doc := &domain.Document{
		ID:        record.ID,
		Filename:  filename,
		Pages:     pages,
		Size:      record.Size,
		CreatedAt: record.CreatedAt,
	}
	if !doc.HasText() {
		return nil, s.fail(ctx, record, fmt.Errorf("%s: %w", filename, domain.ErrNoTextExtracted))
	}
	record.Pages = countTextPages(pages)
	s.advance(ctx, record, domain.IngestStateExtracted)

	// Chunked
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, s.fail(ctx, record, fmt.Errorf("chunk %s: %w", filename, err))
	}
	if len(chunks) == 0 {
		return nil, s.fail(ctx, record, fmt.Errorf("%s: %w", filename, domain.ErrNoTextExtracted))
	}
	s.advance(ctx, record, domain.IngestStateChunked)

	texts := make([]string, len(chunks))
	metadata := make([]domain.ChunkMetadata, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
		metadata[i] = c.Metadata
	}

	// Embedded
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, s.fail(ctx, record, fmt.Errorf("embed %s: %w", filename, err))
	}
	s.advance(ctx, record, domain.IngestStateEmbedded)

	// Indexed
	added, err := s.index.Add(ctx, texts, vectors, metadata)
	if err != nil {
		return nil, s.fail(ctx, record, fmt.Errorf("index %s: %w", filename, err))
	}
	record.TotalChunks = added
	s.advance(ctx, record, domain.IngestStateIndexed)

	logger.L().Info("document indexed",
		zap.String("filename", filename),
		zap.Int("pages", record.Pages),
		zap.Int("chunks", added),
	)

	return &domain.IngestResult{
		DocumentID:  record.ID,
		Filename:    filename,
		Pages:       record.Pages,
		TotalChunks: added,
	}, nil
}

// List returns every upload seen by this process, oldest first.
func (s *IngestService) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	if s.registry == nil {
		return []domain.DocumentRecord{}, nil
	}
	return s.registry.List(ctx)
}

// Get retrieves one upload record by ID.
func (s *IngestService) Get(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	if s.registry == nil {
		return nil, domain.ErrNotFound
	}
	return s.registry.Get(ctx, id)
}

// checkUpload enforces the accepted file type and size limit.
func (s *IngestService) checkUpload(filename string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), s.upload.FileType) {
		return fmt.Errorf("%w: %q, only %s files are accepted", domain.ErrUnsupportedFileType, filename, s.upload.FileType)
	}
	if s.upload.MaxSize > 0 && size > s.upload.MaxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrFileTooLarge, filename, size, s.upload.MaxSize)
	}
	return nil
}

func (s *IngestService) advance(ctx context.Context, record *domain.DocumentRecord, state domain.IngestState) {
	logger.Debug("%s: %s -> %s", record.Filename, record.State, state)
	record.State = state
	s.track(ctx, record)
}

func (s *IngestService) fail(ctx context.Context, record *domain.DocumentRecord, err error) error {
	logger.Warn("%s failed at %s: %v", record.Filename, record.State, err)
	record.State = domain.IngestStateFailed
	record.Error = err.Error()
	s.track(ctx, record)
	return err
}

// track stores a copy of the record. Registry failures are logged, not
// returned, since the registry is bookkeeping only.
func (s *IngestService) track(ctx context.Context, record *domain.DocumentRecord) {
	if s.registry == nil {
		return
	}
	record.UpdatedAt = s.now()
	snapshot := *record
	if err := s.registry.Save(ctx, &snapshot); err != nil {
		logger.Warn("record %s: %v", record.ID, err)
	}
}

func countTextPages(pages []domain.Page) int {
	n := 0
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			n++
		}
	}
	return n
}
