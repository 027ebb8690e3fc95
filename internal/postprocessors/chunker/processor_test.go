package chunker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

func mustNew(t *testing.T, opts ...Option) *Processor {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := mustNew(t)
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
		if p.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.Overlap())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p := mustNew(t, WithChunkSize(500), WithOverlap(0))
		if p.ChunkSize() != 500 || p.Overlap() != 0 {
			t.Errorf("expected 500/0, got %d/%d", p.ChunkSize(), p.Overlap())
		}
	})

	invalid := []struct {
		name string
		opts []Option
	}{
		{"overlap equals chunk size", []Option{WithChunkSize(100), WithOverlap(100)}},
		{"overlap exceeds chunk size", []Option{WithChunkSize(100), WithOverlap(150)}},
		{"zero chunk size", []Option{WithChunkSize(0)}},
		{"negative overlap", []Option{WithOverlap(-1)}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts...)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if p != nil {
				t.Error("expected nil processor on error")
			}
		})
	}
}

func TestProcessor_Name(t *testing.T) {
	if name := mustNew(t).Name(); name != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", name)
	}
}

func TestSplit_Empty(t *testing.T) {
	p := mustNew(t)
	if chunks := p.Split(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
	if chunks := p.Split(" \n\t "); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace, got %d", len(chunks))
	}
}

func TestSplit_ShortTextIsOneChunk(t *testing.T) {
	p := mustNew(t)

	chunks := p.Split("The capital of France is Paris.")
	if len(chunks) != 1 || chunks[0] != "The capital of France is Paris." {
		t.Fatalf("unexpected chunks: %q", chunks)
	}

	// Longer than size-overlap but shorter than size must not emit a tail chunk.
	text := strings.Repeat("a", 900)
	chunks = p.Split(text)
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("expected a single 900-char chunk, got %d chunks", len(chunks))
	}
}

func TestSplit_FixedWindowsWithoutBreaks(t *testing.T) {
	p := mustNew(t, WithChunkSize(10), WithOverlap(2))

	chunks := p.Split(strings.Repeat("x", 25))

	want := []int{10, 10, 9}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i, n := range want {
		if len(chunks[i]) != n {
			t.Errorf("chunk %d: expected length %d, got %d", i, n, len(chunks[i]))
		}
	}
}

func TestSplit_BreaksAtSentenceBoundary(t *testing.T) {
	p := mustNew(t, WithChunkSize(10), WithOverlap(2))

	chunks := p.Split("abcdefg.hijklmnopqrstu")

	want := []string{"abcdefg.", "g.hijklmno", "nopqrstu"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %q, got %q", want, chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplit_BreaksAtNewline(t *testing.T) {
	p := mustNew(t, WithChunkSize(10), WithOverlap(0))

	chunks := p.Split("abcdefg\nhijklmnop")

	if len(chunks) != 2 || chunks[0] != "abcdefg" || chunks[1] != "hijklmnop" {
		t.Errorf("unexpected chunks: %q", chunks)
	}
}

func TestSplit_IgnoresEarlyBreak(t *testing.T) {
	p := mustNew(t, WithChunkSize(10), WithOverlap(0))

	// The only terminator sits in the first half of the window.
	chunks := p.Split("ab.defghijklmnop")

	if len(chunks) != 2 || chunks[0] != "ab.defghij" {
		t.Errorf("expected full first window, got %q", chunks)
	}
}

func TestSplit_TerminatesWithLargeOverlap(t *testing.T) {
	p := mustNew(t, WithChunkSize(10), WithOverlap(9))

	chunks := p.Split("abcdef.ghijklmnopq.rstuvwxyz")

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 10 {
			t.Errorf("chunk %d longer than chunk size: %q", i, c)
		}
	}
}

func TestSplit_MultiByteText(t *testing.T) {
	p := mustNew(t, WithChunkSize(10), WithOverlap(2))

	chunks := p.Split(strings.Repeat("é", 25))

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if n := utf8.RuneCountInString(chunks[0]); n != 10 {
		t.Errorf("expected 10 runes in first chunk, got %d", n)
	}
}

// TestSplit_CoverageAndOverlap checks that consecutive chunks start exactly
// overlap characters before the previous chunk ended and that the last chunk
// reaches the end of the text.
func TestSplit_CoverageAndOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "s%04d.", i)
	}
	text := b.String()

	for _, cfg := range []struct{ size, overlap int }{{50, 10}, {37, 0}, {100, 49}, {64, 20}} {
		t.Run(fmt.Sprintf("size=%d/overlap=%d", cfg.size, cfg.overlap), func(t *testing.T) {
			p := mustNew(t, WithChunkSize(cfg.size), WithOverlap(cfg.overlap))
			chunks := p.Split(text)

			pos := 0
			for i, c := range chunks {
				if !strings.HasPrefix(text[pos:], c) {
					t.Fatalf("chunk %d %q does not start at offset %d", i, c, pos)
				}
				if len(c) > cfg.size {
					t.Fatalf("chunk %d exceeds chunk size: %d", i, len(c))
				}
				end := pos + len(c)
				if i == len(chunks)-1 {
					if end != len(text) {
						t.Fatalf("last chunk ends at %d, text length %d", end, len(text))
					}
					break
				}
				if len(c) <= cfg.overlap {
					t.Fatalf("chunk %d too short to advance: %d", i, len(c))
				}
				pos = end - cfg.overlap
			}
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	p := mustNew(t, WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:       "doc-1",
		Filename: "report.pdf",
		Pages: []domain.Page{
			{Number: 1, Text: "Page one text."},
			{Number: 2, Text: "   "},
			{Number: 3, Text: "Third page."},
		},
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	for i, want := range []struct {
		content string
		page    int
	}{{"Page one text.", 1}, {"Third page.", 3}} {
		c := chunks[i]
		if c.Content != want.content {
			t.Errorf("chunk %d: expected %q, got %q", i, want.content, c.Content)
		}
		if c.Metadata.PageNumber == nil || *c.Metadata.PageNumber != want.page {
			t.Errorf("chunk %d: expected page %d, got %v", i, want.page, c.Metadata.PageNumber)
		}
		if c.Metadata.Filename != "report.pdf" || c.DocumentID != "doc-1" {
			t.Errorf("chunk %d: wrong origin %+v", i, c)
		}
		if c.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, c.Position)
		}
		if c.ID != "" {
			t.Errorf("chunk %d: expected empty ID before indexing, got %q", i, c.ID)
		}
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p := mustNew(t)
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: "fresh"}}}
	input := []domain.Chunk{{Content: "stale"}}

	chunks, err := p.Process(context.Background(), doc, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "fresh" {
		t.Errorf("expected input chunks to be replaced, got %+v", chunks)
	}
}

func TestProcessor_Process_Cancelled(t *testing.T) {
	p := mustNew(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &domain.Document{Pages: []domain.Page{{Number: 1, Text: "text"}}}
	if _, err := p.Process(ctx, doc, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
