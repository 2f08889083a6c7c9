package recipe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hammamikhairi/recipebox/internal/logger"
)

const defaultDebounce = 300 * time.Millisecond

// DirWatcher re-imports recipe files when they change on disk. Events are
// debounced per file so an editor's burst of writes triggers one import.
// Removing a file does not delete the stored recipe.
type DirWatcher struct {
	mu       sync.Mutex
	dir      string
	importer *Importer
	log      *logger.Logger
	debounce time.Duration
	pending  map[string]time.Time
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	onImport func(path string, res ImportResult, err error)
}

// WatcherOption configures a DirWatcher.
type WatcherOption func(*DirWatcher)

// WithDebounce sets how long a file must be quiet before it is imported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *DirWatcher) { w.debounce = d }
}

// WithImportHook is called after every import attempt. Used by tests.
func WithImportHook(fn func(path string, res ImportResult, err error)) WatcherOption {
	return func(w *DirWatcher) { w.onImport = fn }
}

// NewDirWatcher creates a watcher for dir. Call Start to begin watching.
func NewDirWatcher(dir string, importer *Importer, log *logger.Logger, opts ...WatcherOption) *DirWatcher {
	w := &DirWatcher{
		dir:      dir,
		importer: importer,
		log:      log,
		debounce: defaultDebounce,
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	return w
}

// Start begins watching. It returns an error if the directory cannot be
// watched. Calling Start on a running watcher is a no-op.
func (w *DirWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fs watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	go w.run(ctx, fw, w.stopCh, w.doneCh)
	w.log.Info("watching recipe dir %s", w.dir)
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *DirWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh, fw := w.stopCh, w.doneCh, w.watcher
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	if err := fw.Close(); err != nil {
		w.log.Error("closing recipe watcher: %v", err)
	}
	w.log.Debug("recipe watcher stopped")
}

func (w *DirWatcher) run(ctx context.Context, fw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	tick := time.NewTicker(max(w.debounce/3, time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
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
			w.log.Error("recipe watcher: %v", err)
		case <-tick.C:
			w.flush(ctx)
		}
	}
}

func (w *DirWatcher) handle(ev fsnotify.Event) {
	if !IsRecipeFile(ev.Name) {
		return
	}
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.mu.Lock()
		w.pending[ev.Name] = time.Now()
		w.mu.Unlock()
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.pending, ev.Name)
		w.mu.Unlock()
		w.log.Info("recipe file removed: %s (stored recipe kept)", ev.Name)
	}
}

func (w *DirWatcher) flush(ctx context.Context) {
	now := time.Now()
	var ready []string

	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		res, err := w.importer.ImportFile(ctx, path)
		if err != nil {
			w.log.Warn("importing %s: %v", path, err)
		} else {
			w.log.Debug("recipe file %s: %s", path, res)
		}
		if w.onImport != nil {
			w.onImport(path, res, err)
		}
	}
}
