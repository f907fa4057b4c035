// Package watcher regenerates the output whenever one of its inputs changes.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	Debounce       time.Duration // Quiet period before regenerating (default: 500ms)
	IgnorePatterns []string      // Glob patterns of temp files to ignore
	Logger         *zap.Logger
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		Debounce:       500 * time.Millisecond,
		IgnorePatterns: DefaultIgnorePatterns(),
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	Regenerations int
	Failures      int
	Ignored       int
	Duration      time.Duration
}

// Handler regenerates the output. changed lists the files that triggered it.
type Handler func(changed []string) error

// Watcher monitors input files and calls the handler once per burst of changes.
// Handler calls never overlap.
type Watcher struct {
	config    *WatchConfig
	handler   Handler
	logger    *zap.Logger
	fsWatcher *fsnotify.Watcher
	filter    *FileFilter
	debouncer *Debouncer
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	runMu   sync.Mutex
	stopped bool

	// Statistics tracking
	mu            sync.Mutex
	regenerations int
	failures      int
	ignored       int
}

// New creates a new Watcher with the given configuration.
// If config is nil, default configuration is used.
func New(config *WatchConfig, handler Handler) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		config:  config,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
	w.debouncer = NewDebouncer(config.Debounce, w.regenerate)
	return w
}

// Start begins watching the given files. Their parent directories are
// watched so that editors replacing a file by rename are noticed.
func (w *Watcher) Start(files []string) error {
	targets := make([]string, 0, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		targets = append(targets, abs)
		dirs[filepath.Dir(abs)] = true
	}
	w.filter = NewFileFilter(targets, w.config.IgnorePatterns)

	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			w.fsWatcher.Close()
			return err
		}
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts the watcher down and returns a summary of the session.
// A regeneration already running is allowed to finish first.
func (w *Watcher) Stop() *WatchSummary {
	close(w.done)
	w.wg.Wait()

	w.debouncer.Cancel()
	w.runMu.Lock()
	w.stopped = true
	w.runMu.Unlock()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return &WatchSummary{
		Regenerations: w.regenerations,
		Failures:      w.failures,
		Ignored:       w.ignored,
		Duration:      time.Since(w.startTime),
	}
}

// processEvents handles file system events from fsnotify.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleFileEvent(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(path string) {
	if w.filter.ShouldIgnore(path) {
		w.mu.Lock()
		w.ignored++
		w.mu.Unlock()
		return
	}
	w.logger.Debug("input changed", zap.String("path", path))
	w.debouncer.Add(path)
}

// regenerate runs the handler for one settled burst of changes.
func (w *Watcher) regenerate(changed []string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if w.stopped || w.handler == nil {
		return
	}

	err := w.handler(changed)

	w.mu.Lock()
	if err != nil {
		w.failures++
	} else {
		w.regenerations++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("regeneration failed", zap.Strings("changed", changed), zap.Error(err))
	}
}

// GetConfig returns the current watcher configuration.
func (w *Watcher) GetConfig() *WatchConfig {
	return w.config
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	select {
	case <-w.done:
		return false
	default:
		return w.fsWatcher != nil
	}
}
