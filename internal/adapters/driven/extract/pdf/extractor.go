// Package pdf extracts per-page text from PDF documents.
//
// pdfcpu parses and validates the document and supplies the page count.
// Text comes from poppler's pdftotext when it is installed, split on the
// form feed it writes after every page; otherwise the page content streams
// are decoded by pdfcpu and their text-showing operators read directly.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PDFExtractor = (*Extractor)(nil)

// pageBreak is the separator pdftotext writes after each page.
const pageBreak = "\f"

var disableConfigDir sync.Once

// Extractor implements driven.PDFExtractor.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor that uses pdftotext when it is on PATH.
func New() *Extractor {
	if err := CheckAvailable(); err != nil {
		logger.Debug("pdf: %v; falling back to content stream text", err)
		return &Extractor{}
	}
	return &Extractor{runner: &ExecRunner{}}
}

// NewWithRunner creates an extractor with an explicit pdftotext runner.
// A nil runner selects the content stream reader.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract returns one page per PDF page, in order. Pages without text keep
// their slot with empty Text. Bytes pdfcpu cannot parse are rejected with
// an error wrapping domain.ErrInvalidInput.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfCtx, err := readContext(data)
	if err != nil {
		return nil, err
	}
	if pdfCtx.Encrypt != nil {
		logger.Debug("pdf: document is encrypted, relying on the empty user password")
	}

	var texts []string
	if e.runner != nil {
		texts, err = e.pdftotext(ctx, data)
	} else {
		texts, err = contentText(pdfCtx)
	}
	if err != nil {
		return nil, err
	}

	pages := make([]domain.Page, pdfCtx.PageCount)
	for i := range pages {
		pages[i].Number = i + 1
		if i < len(texts) {
			pages[i].Text = texts[i]
		}
	}
	return pages, nil
}

// PageCount validates data and returns its number of pages.
func PageCount(data []byte) (int, error) {
	pdfCtx, err := readContext(data)
	if err != nil {
		return 0, err
	}
	return pdfCtx.PageCount, nil
}

func readContext(data []byte) (*model.Context, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrInvalidInput)
	}

	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable PDF: %w", domain.ErrInvalidInput, err)
	}
	if err := api.ValidateContext(pdfCtx); err != nil {
		return nil, fmt.Errorf("%w: invalid PDF: %w", domain.ErrInvalidInput, err)
	}
	return pdfCtx, nil
}

// pdftotext runs poppler against a temporary copy of data.
func (e *Extractor) pdftotext(ctx context.Context, data []byte) ([]string, error) {
	f, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", f.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output on form feeds. The feed after the
// last page would otherwise yield a phantom empty page.
func splitPages(out string) []string {
	out = strings.TrimSuffix(out, pageBreak)
	if out == "" {
		return nil
	}
	return strings.Split(out, pageBreak)
}

// contentText reads the text operators of every page's content stream.
func contentText(pdfCtx *model.Context) ([]string, error) {
	texts := make([]string, pdfCtx.PageCount)
	for i := range texts {
		r, err := pdfcpu.ExtractPageContent(pdfCtx, i+1)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d content: %w", domain.ErrInvalidInput, i+1, err)
		}
		if r == nil {
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read page %d content: %w", i+1, err)
		}
		texts[i] = showText(raw)
	}
	return texts, nil
}

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler-utils")
