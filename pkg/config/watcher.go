package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/telemetry"
)

// Watcher reloads a config file when it changes on disk and hands every
// successfully validated config to the registered callbacks. A failed reload
// keeps the previous config.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	logger  *logging.Logger
	metrics *telemetry.Metrics
	hub     *telemetry.Hub

	mu        sync.Mutex
	current   *Config
	callbacks []func(*Config)
	started   bool
	wg        sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger logs reloads.
func WithWatchLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithWatchMetrics counts reloads.
func WithWatchMetrics(m *telemetry.Metrics) WatcherOption {
	return func(w *Watcher) { w.metrics = m }
}

// WithWatchHub publishes config.reloaded and config.failed events.
func WithWatchHub(h *telemetry.Hub) WatcherOption {
	return func(w *Watcher) { w.hub = h }
}

// NewWatcher loads path and prepares to watch it. The parent directory is
// watched so editors that replace the file are still seen.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(expandHomeDir(path))
	if err != nil {
		return nil, pkerrors.Wrap(err, pkerrors.ErrCodeConfigLoad, "resolving config path")
	}
	cfg, err := LoadFromPath(abs)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pkerrors.Wrap(err, pkerrors.ErrCodeConfigLoad, "creating file watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, pkerrors.Wrap(err, pkerrors.ErrCodeConfigLoad, "watching config directory").
			WithContext("path", abs)
	}

	w := &Watcher{path: abs, fs: fsw, current: cfg}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Current returns the last valid config.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// OnChange registers a callback for every successful reload.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins processing file events. It is a no-op when already started.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.loop()
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug(logging.CategoryConfig, "fs_event", "config file changed", map[string]any{
				"op":   ev.Op.String(),
				"file": ev.Name,
			})
			_ = w.Reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(logging.CategoryConfig, "watch_error", err.Error(), nil)
		}
	}
}

// Reload re-reads the file. On success the new config becomes current and
// callbacks run outside the lock.
func (w *Watcher) Reload() error {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		w.metrics.ConfigReloaded(false)
		w.logger.Warn(logging.CategoryConfig, "reload_failed", "failed to reload config", map[string]any{
			"path":  w.path,
			"error": err.Error(),
		})
		w.hub.Publish(telemetry.Event{
			Type: telemetry.EventConfigFailed,
			Data: map[string]any{"path": w.path, "error": err.Error()},
		})
		return err
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.metrics.ConfigReloaded(true)
	w.logger.Info(logging.CategoryConfig, "reloaded", "config reloaded", map[string]any{"path": w.path})
	w.hub.Publish(telemetry.Event{
		Type: telemetry.EventConfigReloaded,
		Data: map[string]any{"path": w.path},
	})
	for _, callback := range callbacks {
		callback(cfg)
	}
	return nil
}
