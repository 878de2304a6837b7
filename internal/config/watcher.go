package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of write events into one reload.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a configuration file and republishes the parsed config
// each time the file changes. Readers poll Latest between simulation steps;
// the version increases by one per successful reload.
type Watcher struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.RWMutex
	config  *Config
	version uint64

	fsWatcher *fsnotify.Watcher
	reloads   chan uint64
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher loads path once and prepares to watch it. The parent directory
// is watched so editors that replace the file by rename are still seen.
// A nil logger discards watcher messages.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	initial, err := LoadFromFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loading initial config: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	return &Watcher{
		path:      abs,
		logger:    logger,
		debounce:  DefaultDebounce,
		config:    initial,
		fsWatcher: fsWatcher,
		reloads:   make(chan uint64, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start runs the event loop until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(ctx)
}

// Close stops the event loop and releases the file watcher.
// Safe to call more than once and from several goroutines; only the first
// call reports the watcher's close error.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

// Latest returns the most recently loaded config and its version. Version 0
// is the config loaded by NewWatcher. Callers must not mutate the result.
func (w *Watcher) Latest() (*Config, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config, w.version
}

// Reloads delivers the version after each successful reload. Sends are
// non-blocking, so a slow reader sees only the newest pending version.
func (w *Watcher) Reloads() <-chan uint64 {
	return w.reloads
}

// Reload re-reads the file immediately. On a parse or validation error the
// previous config stays current.
func (w *Watcher) Reload() error {
	next, err := LoadFromFile(w.path)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("validating reloaded config: %w", err)
	}

	w.mu.Lock()
	w.config = next
	w.version++
	version := w.version
	w.mu.Unlock()

	select {
	case w.reloads <- version:
	default:
		select {
		case <-w.reloads:
		default:
		}
		select {
		case w.reloads <- version:
		default:
		}
	}

	w.logger.Info("config reloaded", "path", w.path, "version", version)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				w.logger.Warn("config reload failed", "path", w.path, "error", err)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}
