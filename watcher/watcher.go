// Package watcher reloads the calculator config when its file changes
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bond-kaneko/go-calc/config"
	"github.com/bond-kaneko/go-calc/filenotify"
)

// DefaultDebounceDelay coalesces the burst of events editors produce on save
const DefaultDebounceDelay = 150 * time.Millisecond

// ConfigWatcher watches a config file and reports every successful reload
type ConfigWatcher struct {
	path          string
	debounceDelay time.Duration
	watcher       filenotify.FileWatcher
	onReload      func(config.Config)
	logger        *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewConfigWatcher creates a watcher for path.
// onReload is called from the watcher's goroutine; front-ends hand the
// config over to their own loop instead of touching the engine directly.
func NewConfigWatcher(path string, onReload func(config.Config), logger *slog.Logger, opts ...filenotify.Option) (*ConfigWatcher, error) {
	if path == "" {
		return nil, errors.New("no config file to watch")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := filenotify.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ConfigWatcher{
		path:          abs,
		debounceDelay: DefaultDebounceDelay,
		watcher:       w,
		onReload:      onReload,
		logger:        logger,
	}, nil
}

// SetDebounceDelay sets the delay between the last change and the reload
func (cw *ConfigWatcher) SetDebounceDelay(delay time.Duration) {
	cw.debounceDelay = delay
}

// Path returns the absolute path being watched
func (cw *ConfigWatcher) Path() string {
	return cw.path
}

// Watch blocks until ctx is done or the underlying watcher closes.
// The file's directory is watched as well so that editors which save by
// renaming a temporary file are noticed.
func (cw *ConfigWatcher) Watch(ctx context.Context) error {
	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("error setting up config watch: %w", err)
	}
	if err := cw.watcher.Add(cw.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error setting up config watch: %w", err)
	}
	cw.logger.Info("watching config", "path", cw.path)

	defer cw.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-cw.watcher.Events():
			if !ok {
				return nil
			}
			if !cw.relevant(event) {
				continue
			}
			cw.logger.Debug("config changed", "op", event.Op.String())
			cw.schedule()

		case err, ok := <-cw.watcher.Errors():
			if !ok {
				return nil
			}
			cw.logger.Warn("config watch error", "err", err)
		}
	}
}

// Close stops watching
func (cw *ConfigWatcher) Close() error {
	cw.stopTimer()
	return cw.watcher.Close()
}

// Reload loads the file now and reports it. A broken or deleted file is
// logged and skipped so the running calculator keeps its last good settings.
func (cw *ConfigWatcher) Reload() (config.Config, error) {
	if _, err := os.Stat(cw.path); err != nil {
		cw.logger.Warn("config file unavailable, keeping current settings", "path", cw.path, "err", err)
		return config.Config{}, fmt.Errorf("config file unavailable: %w", err)
	}
	cfg, err := config.Load(cw.path)
	if err != nil {
		cw.logger.Warn("config reload failed", "path", cw.path, "err", err)
		return cfg, err
	}
	cw.logger.Info("config reloaded", "path", cw.path,
		"history_cap", cfg.HistoryCap, "chain", cfg.Chain, "theme", cfg.Theme)
	if cw.onReload != nil {
		cw.onReload(cfg)
	}
	return cfg, nil
}

func (cw *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != cw.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// schedule debounces reloads so one save triggers one reload
func (cw *ConfigWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounceDelay, func() {
		_, _ = cw.Reload()
	})
}

func (cw *ConfigWatcher) stopTimer() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
		cw.timer = nil
	}
}
