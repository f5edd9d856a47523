package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/trowel/internal/logging"
	"github.com/dshills/trowel/internal/plugin"
)

// Change reports how the watcher updated the registry.
type Change struct {
	Name    string
	Source  string
	Removed bool
	Err     error
}

// Watcher re-registers plugins when their files change.
type Watcher struct {
	mu sync.Mutex

	loader   *Loader
	registry *plugin.Registry
	logger   *logging.Logger
	onChange func(Change)

	watcher *fsnotify.Watcher

	// Registered plugin name by source path
	names map[string]string

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithChangeHandler sets a function called after every registry update.
// It runs on the watcher goroutine and must not block.
func WithChangeHandler(fn func(Change)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// NewWatcher creates a watcher over the loader's search paths.
// Call Start to begin watching.
func NewWatcher(loader *Loader, registry *plugin.Registry, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		loader:   loader,
		registry: registry,
		logger:   logging.Default(),
		watcher:  fsw,
		names:    make(map[string]string),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("lua-watcher")
	return w, nil
}

// Start watches every existing search path and plugin directory and
// starts the event loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	for _, base := range w.loader.Paths() {
		if _, err := os.Stat(base); err != nil {
			continue
		}
		if err := w.watcher.Add(base); err != nil {
			return err
		}
	}

	plugins, err := w.loader.Discover()
	if err != nil {
		return err
	}
	for _, info := range plugins {
		w.names[info.Source] = info.Name
		if info.Source == info.Dir {
			if err := w.watcher.Add(info.Dir); err != nil {
				return err
			}
		}
	}

	w.closedWg.Add(1)
	go w.processLoop()
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
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
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// handleEvent maps a file event to the plugin it belongs to.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Chmod) && !event.Op.Has(fsnotify.Write) {
		return
	}

	source, ok := w.sourceOf(event.Name)
	if !ok {
		return
	}

	info := w.loader.Inspect(source)
	if info == nil {
		w.remove(source)
		return
	}

	if info.Source == info.Dir && event.Op.Has(fsnotify.Create) && event.Name == source {
		if err := w.watcher.Add(source); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			w.logger.Warn("watch %s: %v", source, err)
		}
	}

	w.register(info)
}

// sourceOf returns the search-path child that contains path.
func (w *Watcher) sourceOf(path string) (string, bool) {
	for _, base := range w.loader.Paths() {
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
		return filepath.Join(base, first), true
	}
	return "", false
}

func (w *Watcher) register(info *Info) {
	change := Change{Name: info.Name, Source: info.Source}

	if err := w.loader.Register(w.registry, info); err != nil {
		change.Err = err
		w.logger.Warn("reload %s: %v", info.Name, err)
	} else {
		w.mu.Lock()
		if old, ok := w.names[info.Source]; ok && old != info.Name {
			w.registry.Unregister(old)
		}
		w.names[info.Source] = info.Name
		w.mu.Unlock()
		w.logger.Info("reloaded plugin %s", info.Name)
	}

	w.notify(change)
}

func (w *Watcher) remove(source string) {
	w.mu.Lock()
	name, ok := w.names[source]
	if ok {
		delete(w.names, source)
	}
	w.mu.Unlock()

	if !ok {
		return
	}
	w.registry.Unregister(name)
	w.logger.Info("removed plugin %s", name)
	w.notify(Change{Name: name, Source: source, Removed: true})
}

func (w *Watcher) notify(change Change) {
	if w.onChange != nil {
		w.onChange(change)
	}
}
