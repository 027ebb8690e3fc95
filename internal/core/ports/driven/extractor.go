package driven

import (
	"context"

	"github.com/p7raneeth/docqa/internal/core/domain"
)

// PDFExtractor extracts text from PDF bytes, one entry per page in page order.
// Pages without text are returned with empty Text so page numbers stay aligned.
type PDFExtractor interface {
	// Extract returns the document's pages. Unreadable input is an error.
	Extract(ctx context.Context, data []byte) ([]domain.Page, error)
}
