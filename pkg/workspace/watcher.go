package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports a source file that changed under a watched root.
type Event struct {
	Path    string
	Removed bool
}

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce groups rapid changes to the same file (default 200ms).
	Debounce time.Duration

	// Include and Exclude filter events the same way Discover filters files.
	Include []string
	Exclude []string
}

// Watcher reports changes to the source files under a root. Writes are
// debounced per file; removals and renames are reported immediately.
//
//	w, err := NewWatcher(root, opts, func(ev Event) { ... }, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	err = w.Start()
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	onChange func(Event)
	options  WatchOptions
	logger   *slog.Logger

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher for root. onChange is called from the
// watcher's goroutines.
func NewWatcher(root string, options WatchOptions, onChange func(Event), logger *slog.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watcher: onChange is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.Debounce <= 0 {
		options.Debounce = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:           root,
		watcher:        fw,
		onChange:       onChange,
		options:        options,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches root and every directory below it that is not excluded.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.started = true
	w.logger.Info("file watcher started", "root", w.root)

	go w.eventLoop()
	return nil
}

// addTree watches dir and its subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel := relative(w.root, path); rel != "." && matchAny(w.options.Exclude, rel) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher. Pending debounced events are dropped. Safe to
// call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) && isDir(path) {
		if err := w.addTree(path); err != nil {
			w.logger.Warn("failed to watch new directory", "path", path, "error", err)
		}
		return
	}
	if !Match(w.root, path, w.options.Include, w.options.Exclude) {
		return
	}
	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancelPending(path)
		w.onChange(Event{Path: path, Removed: true})
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounce(path)
	}
}

// debounce reports path once no further writes arrive within the window.
func (w *Watcher) debounce(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(w.options.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		select {
		case <-w.stopChan:
			return
		default:
		}
		w.onChange(Event{Path: path})
	})
}

func (w *Watcher) cancelPending(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
}

// GetStats returns watcher statistics.
func (w *Watcher) GetStats() WatcherStats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return WatcherStats{PendingEvents: pending, IsRunning: running}
}

// WatcherStats contains watcher statistics.
type WatcherStats struct {
	PendingEvents int
	IsRunning     bool
}
