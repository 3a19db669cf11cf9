package library

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"trackforge/logger"
)

// Watcher monitors an inbox directory and imports audio files dropped
// into it. Files are imported once their size stops changing, so a file
// still being copied in is not picked up half-written.
type Watcher struct {
	lib      *Library
	inboxDir string

	// PollInterval controls how often a candidate file's size is
	// re-checked while waiting for it to settle.
	PollInterval time.Duration
	// SettleChecks is the number of consecutive unchanged size readings
	// required before a file counts as stable.
	SettleChecks int

	mu      sync.Mutex
	pending map[string]bool
}

// NewWatcher creates an inbox watcher for the given library.
func NewWatcher(lib *Library, inboxDir string) *Watcher {
	return &Watcher{
		lib:          lib,
		inboxDir:     inboxDir,
		PollInterval: 500 * time.Millisecond,
		SettleChecks: 3,
		pending:      make(map[string]bool),
	}
}

// Run watches the inbox until the context is cancelled. Existing files in
// the inbox are imported first, then create and rename events trigger
// imports as they arrive. Each import runs on its own goroutine so a file
// that is still settling never blocks the event loop; per-file failures
// are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.inboxDir, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.inboxDir); err != nil {
		return err
	}

	w.importExisting(ctx)

	logger.Info("watching inbox", logger.String("dir", w.inboxDir))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsImportable(event.Name) {
				continue
			}
			w.enqueue(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox watcher error", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		logger.Warn("failed to list inbox", logger.ErrorField(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !IsImportable(entry.Name()) {
			continue
		}
		w.enqueue(ctx, filepath.Join(w.inboxDir, entry.Name()))
	}
}

// enqueue starts an import goroutine for the path unless one is already
// running; create followed by rename on the same file imports once.
func (w *Watcher) enqueue(ctx context.Context, path string) {
	w.mu.Lock()
	if w.pending[path] {
		w.mu.Unlock()
		return
	}
	w.pending[path] = true
	w.mu.Unlock()

	go func() {
		defer func() {
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
		}()
		w.importWhenStable(ctx, path)
	}()
}

// importWhenStable waits for the file to stop growing, then imports it.
func (w *Watcher) importWhenStable(ctx context.Context, path string) {
	var lastSize int64 = -1
	stable := 0
	for stable < w.SettleChecks {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.PollInterval):
		}
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("inbox file vanished", logger.String("path", path))
			return
		}
		if info.Size() == lastSize {
			stable++
		} else {
			stable = 0
			lastSize = info.Size()
		}
	}

	record, err := w.lib.ImportTrack(ctx, path, nil)
	if err != nil {
		logger.Error("inbox import failed",
			logger.String("path", path), logger.ErrorField(err))
		return
	}
	logger.Info("inbox import complete",
		logger.String("path", path), logger.String("id", record.ID))
}
