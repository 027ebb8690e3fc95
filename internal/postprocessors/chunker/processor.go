// Package chunker provides a boundary-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits page text into overlapping chunks that prefer to end at
// a sentence terminator or newline. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// The overlap must be smaller than the chunk size or the scan could never advance.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, p.chunkSize)
	}
	if p.overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidConfig, p.overlap)
	}
	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			domain.ErrInvalidConfig, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split cuts text into trimmed, non-empty chunks.
// Lengths are counted in runes so multi-byte text is never cut mid-character.
func (p *Processor) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	chunks := make([]string, 0, n/(p.chunkSize-p.overlap)+1)
	start := 0

	for start < n {
		end := start + p.chunkSize
		if end >= n {
			end = n
		} else if bp := lastBreak(runes[start:end]); 2*bp > p.chunkSize && bp+1 > p.overlap {
			end = start + bp + 1
		}

		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}

		if end == n {
			break
		}
		start = end - p.overlap
	}

	return chunks
}

// lastBreak returns the index of the last '.' or '\n' in window, or -1.
func lastBreak(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}

// Process chunks every page of the document, tagging each chunk with the
// document filename and its page number. Pages without text contribute nothing.
// Input chunks are ignored; this processor creates new chunks from page text.
// Chunk IDs are left empty; the vector index assigns them.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	position := 0

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, content := range p.Split(page.Text) {
			chunks = append(chunks, domain.Chunk{
				DocumentID: doc.ID,
				Content:    content,
				Position:   position,
				Metadata: domain.ChunkMetadata{
					Filename:   doc.Filename,
					PageNumber: domain.PageRef(page.Number),
				},
			})
			position++
		}
	}

	return chunks, nil
}
