package config

import (
	"log/slog"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 1500 * time.Millisecond

// Watcher reloads a config file when it changes and hands the loaded value
// to every registered handler. Handlers run only when the value differs from
// the last one loaded, so touching the file without editing it is a no-op.
type Watcher[T any] struct {
	path     string
	debounce time.Duration
	loader   func(path string) (T, error)
	onError  func(error)
	logger   *slog.Logger

	mu       sync.Mutex
	handlers map[int]func(T)
	nextID   int
	last     *T
	fsw      *fsnotify.Watcher

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithDebounce sets how long the file must stay quiet before a reload.
func WithDebounce[T any](d time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.debounce = d
	}
}

// WithErrorHandler is called when a reload fails. Failures are always logged.
func WithErrorHandler[T any](handler func(error)) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.onError = handler
	}
}

// NewConfigWatcher creates a watcher for path. loader parses the file.
func NewConfigWatcher[T any](
	path string,
	loader func(path string) (T, error),
	logger *slog.Logger,
	opts ...WatcherOption[T],
) *Watcher[T] {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher[T]{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		loader:   loader,
		logger:   logger,
		handlers: make(map[int]func(T)),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnReload registers handler and returns a func that removes it.
func (w *Watcher[T]) OnReload(handler func(T)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = handler

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// Start loads the current file as the baseline and begins watching. The
// parent directory is watched so saves by rename are seen too.
func (w *Watcher[T]) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.fsw = fsw
	if v, loadErr := w.loader(w.path); loadErr == nil {
		w.last = &v
	}
	w.mu.Unlock()

	w.logger.Info("Config watcher started", "path", w.path, "debounce", w.debounce)
	go w.run(fsw)
	return nil
}

// Stop ends watching and waits for the watch loop to exit.
func (w *Watcher[T]) Stop() error {
	w.stopOnce.Do(func() { close(w.stop) })

	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-w.done
	return err
}

func (w *Watcher[T]) run(fsw *fsnotify.Watcher) {
	defer close(w.done)

	reload := time.NewTimer(w.debounce)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case <-w.stop:
			w.logger.Debug("Config watcher stopped")
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Config file change detected", "op", ev.Op.String())
			reload.Reset(w.debounce)

		case <-reload.C:
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}

func (w *Watcher[T]) reload() {
	v, err := w.loader(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload config", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	if w.last != nil && reflect.DeepEqual(*w.last, v) {
		w.mu.Unlock()
		w.logger.Debug("Config file unchanged")
		return
	}
	w.last = &v
	handlers := make([]func(T), 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	w.logger.Info("Config reloaded", "path", w.path)
	for _, h := range handlers {
		h(v)
	}
}
