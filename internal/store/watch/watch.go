// Package watch turns filesystem changes to the storage file into change
// signals. Another remedia process writing the same data directory is the
// terminal equivalent of another browser tab writing local storage.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the create+rename pair an atomic write produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a function whenever a single file changes on disk.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	file     string
	onChange func()
	debounce time.Duration
	log      *zap.Logger

	pending time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool
}

// New watches path. The file need not exist yet; its directory must.
func New(path string, debounce time.Duration, log *zap.Logger, onChange func()) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	// Watch the directory: atomic rename replaces the inode, which drops a
	// watch placed on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{
		fs:       fw,
		file:     filepath.Clean(path),
		onChange: onChange,
		debounce: debounce,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start runs the event loop in a goroutine until ctx ends or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return
	}
	w.running = true
	fw := w.fs
	w.mu.Unlock()
	go w.run(ctx, fw)
}

// Close stops the loop and releases the fsnotify handle. Safe to call twice.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.fs.Close()
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("storage watch error", zap.Error(err))
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.file {
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("storage file changed", zap.String("op", ev.Op.String()))
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if due {
		w.pending = time.Time{}
	}
	w.mu.Unlock()
	if due && w.onChange != nil {
		w.onChange()
	}
}
