// Package watch ingests PDFs as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driving"
	"github.com/p7raneeth/docqa/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is ingested.
const DefaultSettle = 500 * time.Millisecond

// ErrMissingIngestService is returned when no ingest service is provided.
var ErrMissingIngestService = errors.New("watch: ingest service is required")

// Options configures a Watcher.
type Options struct {
	// FileType is the accepted extension, including the dot. Defaults to ".pdf".
	FileType string

	// Settle is the quiet period after the last write. Defaults to DefaultSettle.
	Settle time.Duration

	// IngestExisting also ingests matching files already in the directory.
	IngestExisting bool

	// OnIngest is called after every ingestion attempt.
	OnIngest func(path string, result *domain.IngestResult, err error)
}

// Watcher feeds new files in one directory to an ingest service.
// Files are ingested one at a time, in the order they settle.
type Watcher struct {
	dir    string
	ingest driving.IngestService
	opts   Options
	seen   map[string]time.Time
}

// New creates a watcher for dir. The directory must exist.
func New(dir string, ingest driving.IngestService, opts Options) (*Watcher, error) {
	if ingest == nil {
		return nil, ErrMissingIngestService
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	if opts.FileType == "" {
		opts.FileType = ".pdf"
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}

	return &Watcher{
		dir:    dir,
		ingest: ingest,
		opts:   opts,
		seen:   make(map[string]time.Time),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watch: %s", w.dir)

	if w.opts.IngestExisting {
		if err := w.ingestExisting(ctx); err != nil {
			return err
		}
	}

	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path := w.candidate(event)
			if path == "" {
				continue
			}
			if t, exists := pending[path]; exists {
				t.Reset(w.opts.Settle)
				continue
			}
			pending[path] = time.AfterFunc(w.opts.Settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			w.ingestFile(ctx, path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// candidate returns the event's path if it names a file worth ingesting.
func (w *Watcher) candidate(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if !w.matches(event.Name) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}
	return event.Name
}

func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), w.opts.FileType)
}

func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !w.matches(entry.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// ingestFile ingests path unless it is unchanged since the last attempt.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("watch: %s vanished: %v", path, err)
		return
	}
	if last, ok := w.seen[path]; ok && last.Equal(info.ModTime()) {
		logger.Debug("watch: %s unchanged, skipping", path)
		return
	}
	w.seen[path] = info.ModTime()

	result, err := w.ingest.IngestFile(ctx, path)
	if err != nil {
		logger.Warn("watch: ingest %s: %v", path, err)
	} else {
		logger.Info("watch: ingested %s (%d chunks)", result.Filename, result.TotalChunks)
	}
	if w.opts.OnIngest != nil {
		w.opts.OnIngest(path, result, err)
	}
}
