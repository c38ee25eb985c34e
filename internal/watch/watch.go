// Package watch re-runs an action whenever the task file is rewritten.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Config configures the watcher.
type Config struct {
	TaskFile string
	Debounce time.Duration
	// OnChange runs after the task file settles with new content. Calls never overlap.
	OnChange func(ctx context.Context)
	Logger   *slog.Logger
}

// Watcher monitors the task file's directory. The file is watched through its
// directory because writers replace it with a rename.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *slog.Logger

	fsWatcher *fsnotify.Watcher

	mu       sync.Mutex
	timer    *time.Timer
	lastHash string

	fire chan struct{}
}

// New creates a watcher. Start must be called to begin watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.TaskFile == "" {
		return nil, errors.New("task file is required")
	}
	if cfg.OnChange == nil {
		return nil, errors.New("change callback is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path, err := filepath.Abs(cfg.TaskFile)
	if err != nil {
		return nil, fmt.Errorf("resolve task file: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:      path,
		debounce:  debounce,
		onChange:  cfg.OnChange,
		logger:    logger,
		fsWatcher: fsWatcher,
		fire:      make(chan struct{}, 1),
	}
	// Existing content does not count as a change.
	w.lastHash, _ = hashFile(path)
	return w, nil
}

// Start watches until ctx is cancelled. It always closes the underlying watcher.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.stop()

	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching task file", "path", w.path, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("task file watcher stopping", "reason", "context cancelled")
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)

		case <-w.fire:
			w.handleDebounced(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("task file event", "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

// handleDebounced runs the callback when the content hash changed.
func (w *Watcher) handleDebounced(ctx context.Context) {
	hash, err := hashFile(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("failed to read task file", "path", w.path, "error", err)
		}
		return
	}

	w.mu.Lock()
	unchanged := hash == w.lastHash
	w.lastHash = hash
	w.mu.Unlock()
	if unchanged {
		w.logger.Debug("task file content unchanged, skipping")
		return
	}

	w.onChange(ctx)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.Warn("close fsnotify watcher", "error", err)
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
