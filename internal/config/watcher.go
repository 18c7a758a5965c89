package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the freshly loaded config after the file changes
type ChangeHandler func(cfg *Config)

// DefaultDebounce is how long the watcher waits after the last write
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the config file when it changes on disk
type Watcher struct {
	path          string
	debounceDelay time.Duration
	handler       ChangeHandler
	logger        *slog.Logger
	watcher       *fsnotify.Watcher
	stopChan      chan struct{}
	doneChan      chan struct{}
	stopOnce      sync.Once

	mu      sync.Mutex
	timer   *time.Timer
	started bool
}

// NewWatcher creates a watcher for the config file at path.
// A zero debounce uses DefaultDebounce and a nil logger uses slog.Default().
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger, handler ChangeHandler) (*Watcher, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:          abs,
		debounceDelay: debounce,
		handler:       handler,
		logger:        logger,
		watcher:       fsWatcher,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so that editors
// which replace the file on save are still seen. Stop must be called even
// when Start fails.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.processEvents()

	w.logger.Info("config watcher started",
		"path", w.path,
		"debounce_ms", w.debounceDelay.Milliseconds(),
	)
	return nil
}

// Stop stops watching, cancels any pending reload and releases the
// fsnotify watcher. It is safe to call without a successful Start.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.doneChan
		}

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.doneChan)

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
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
		w.logger.Debug("config event detected", "event", event.Op.String())
		w.scheduleReload()
	}
}

// scheduleReload restarts the debounce timer
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.reload)
}

// reload loads the file; an invalid config is logged and ignored
func (w *Watcher) reload() {
	w.mu.Lock()
	w.timer = nil
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("ignoring invalid config change", "path", w.path, "error", err)
		return
	}

	w.logger.Info("config reloaded", "path", w.path)
	if w.handler != nil {
		w.handler(cfg)
	}
}
