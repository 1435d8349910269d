// Package watch reports when a file-backed task list changes on disk.
//
// The watcher observes the directory holding the file rather than the file
// itself, because atomic writes replace the file with a rename and a watch on
// the old inode would go quiet after the first save.
package watch

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must be quiet before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Debounce collapses bursts of events into one change (default: 100ms).
	Debounce time.Duration

	// Logger for watcher activity (default: discard).
	Logger *log.Logger
}

// Watcher emits on Changes() after the watched file is created, written or
// renamed into place.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	dir      string
	debounce time.Duration
	logger   *log.Logger

	changes chan struct{}
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New creates a Watcher for path. The watcher must be started with Start()
// before it will emit changes.
func New(path string, config *Config) (*Watcher, error) {
	if config == nil {
		config = &Config{}
	}
	debounce := config.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  w,
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: debounce,
		logger:   logger,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching the file's directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	w.logger.Printf("Watching %s", w.path)
	return nil
}

// Stop stops watching and blocks until the event loop has exited.
// Changes() and Errors() are closed afterwards.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)

	err := w.watcher.Close()
	w.wg.Wait()

	close(w.changes)
	close(w.errors)

	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Changes emits once per debounced burst of changes to the file.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors emits errors reported by the underlying watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			// changes has room for one pending signal; extra signals coalesce.
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Watcher error: %v", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// relevant reports whether event touches the watched file with an operation
// that can change its contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
