package document

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/abhishekshiv/litpro/internal/extract"
	"github.com/abhishekshiv/litpro/internal/metrics"
)

// Loader reads a literate source file and watches it for changes.
type Loader struct {
	path     string
	opts     extract.Options
	mu       sync.RWMutex
	current  *Snapshot
	onChange []func(*Snapshot)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string, opts extract.Options) (*Loader, error) {
	l := &Loader{path: path, opts: opts}
	snap, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = snap
	return l, nil
}

// Snapshot returns the current (latest) parsed snapshot.
func (l *Loader) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the document reloads.
func (l *Loader) OnChange(fn func(*Snapshot)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that re-parses the document on
// file changes. A reload that fails (cycle, strict-mode parse error)
// keeps the previous snapshot. Call the returned stop function to
// clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("document watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("document watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					snap, err := l.load()
					if err != nil {
						metrics.Reloads.WithLabelValues("error").Inc()
						continue
					}
					metrics.Reloads.WithLabelValues("ok").Inc()
					l.swap(snap)
				}
			case <-w.Errors:
				// Ignore watcher errors; the next event retries.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the source file.
func (l *Loader) Reload() (*Snapshot, error) {
	snap, err := l.load()
	if err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Reloads.WithLabelValues("ok").Inc()
	l.swap(snap)
	return snap, nil
}

func (l *Loader) swap(snap *Snapshot) {
	l.mu.Lock()
	l.current = snap
	callbacks := make([]func(*Snapshot), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(snap)
	}
}

func (l *Loader) load() (*Snapshot, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", l.path, err)
	}
	return Parse(l.path, string(data), l.opts)
}
