package domain

import (
	"strconv"
	"strings"
	"time"
)

// Page is the text extracted from one page of a PDF.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the raw extracted text.
	Text string
}

// Document represents an uploaded PDF after text extraction.
// It is never mutated once extracted; only its chunks outlive ingestion.
type Document struct {
	// ID is the unique identifier assigned at ingestion.
	ID string

	// Filename is the name the document was uploaded under.
	Filename string

	// Pages holds extracted text in page order.
	Pages []Page

	// Size is the upload size in bytes.
	Size int64

	// CreatedAt is when the upload was received.
	CreatedAt time.Time
}

// HasText reports whether any page carries non-whitespace text.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// ChunkMetadata records where a chunk came from.
type ChunkMetadata struct {
	// Filename is the source document's filename.
	Filename string `json:"filename"`

	// PageNumber is the 1-based page the chunk was cut from, nil when unknown.
	PageNumber *int `json:"page_number,omitempty"`
}

// PageLabel renders the page number for display, "N/A" when unknown.
func (m ChunkMetadata) PageLabel() string {
	if m.PageNumber == nil {
		return "N/A"
	}
	return strconv.Itoa(*m.PageNumber)
}

// PageRef returns a pointer to a copy of n for use in ChunkMetadata.
func PageRef(n int) *int {
	return &n
}

// Chunk is a contiguous span of a page's text, the unit of retrieval.
type Chunk struct {
	// ID is assigned by the vector index on insertion.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the trimmed, non-empty chunk text.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata records the chunk's origin.
	Metadata ChunkMetadata
}

// IngestState is a stage in the ingestion lifecycle.
type IngestState string

// Ingestion states in the order a successful upload passes through them.
const (
	IngestStateReceived  IngestState = "received"
	IngestStateExtracted IngestState = "extracted"
	IngestStateChunked   IngestState = "chunked"
	IngestStateEmbedded  IngestState = "embedded"
	IngestStateIndexed   IngestState = "indexed"
	IngestStateFailed    IngestState = "failed"
)

// IsTerminal returns true when no further transition is possible.
func (s IngestState) IsTerminal() bool {
	return s == IngestStateIndexed || s == IngestStateFailed
}

// String returns the string representation.
func (s IngestState) String() string {
	return string(s)
}

// IngestResult reports a successful ingestion.
type IngestResult struct {
	// DocumentID identifies the ingested document.
	DocumentID string `json:"document_id"`

	// Filename is the uploaded filename.
	Filename string `json:"filename"`

	// Pages is the number of pages that yielded text.
	Pages int `json:"pages"`

	// TotalChunks is the number of chunks added to the index.
	TotalChunks int `json:"total_chunks"`
}

// DocumentRecord tracks one upload through the ingestion lifecycle.
type DocumentRecord struct {
	ID          string      `json:"id"`
	Filename    string      `json:"filename"`
	Size        int64       `json:"size"`
	Pages       int         `json:"pages"`
	TotalChunks int         `json:"total_chunks"`
	State       IngestState `json:"state"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
