package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches one file using fsnotify, falling back to polling.
type FileWatcher struct {
	path        string
	fsWatcher   *fsnotify.Watcher
	pollWatcher *PollingWatcher
	debouncer   *Debouncer
	events      chan FileEvent
	errors      chan error
	stopCh      chan struct{}
	mu          sync.RWMutex
	stopped     bool
}

// NewFileWatcher prepares a watcher for path. The watch is registered
// before NewFileWatcher returns, so changes made after it are not missed
// even if Start runs later.
func NewFileWatcher(path string, opts Options) (*FileWatcher, error) {
	opts = opts.WithDefaults()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	w := &FileWatcher{
		path:      absPath,
		debouncer: NewDebouncer(opts.DebounceWindow),
		events:    make(chan FileEvent, 1),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	if !opts.ForcePolling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			if err = fsw.Add(filepath.Dir(absPath)); err == nil {
				w.fsWatcher = fsw
				return w, nil
			}
			_ = fsw.Close()
		}
		slog.Warn("fsnotify unavailable, falling back to polling",
			slog.String("path", absPath),
			slog.String("error", err.Error()))
	}

	w.pollWatcher = NewPollingWatcher(absPath, opts.PollInterval)
	return w, nil
}

// Start delivers events until ctx is cancelled or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	go w.forwardDebouncedEvents(ctx)

	if w.fsWatcher != nil {
		return w.startFsnotify(ctx)
	}
	return w.startPolling(ctx)
}

func (w *FileWatcher) startFsnotify(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *FileWatcher) startPolling(ctx context.Context) error {
	go func() {
		events, errs := w.pollWatcher.Events(), w.pollWatcher.Errors()
		for events != nil || errs != nil {
			select {
			case <-w.stopCh:
				return
			case event, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				w.debouncer.Add(event)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				w.emitError(err)
			}
		}
	}()

	err := w.pollWatcher.Start(ctx)
	if ctx.Err() != nil {
		_ = w.Stop()
	}
	return err
}

// handleFsnotifyEvent filters directory events down to the watched file.
func (w *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		op = OpDelete
	default:
		// chmod
		return
	}

	w.debouncer.Add(FileEvent{
		Path:      w.path,
		Operation: op,
		Timestamp: time.Now(),
	})
}

func (w *FileWatcher) forwardDebouncedEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emitEvent(event)
		}
	}
}

func (w *FileWatcher) emitEvent(event FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}

	select {
	case w.events <- event:
	default:
		// The consumer has not picked up the previous change yet.
	}
}

func (w *FileWatcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}

	select {
	case w.errors <- err:
	default:
	}
}

// Stop stops the watcher and releases resources. Safe to call multiple times.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.stopped = true
	close(w.stopCh)
	w.debouncer.Stop()

	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	if w.pollWatcher != nil {
		_ = w.pollWatcher.Stop()
	}

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel of debounced changes.
func (w *FileWatcher) Events() <-chan FileEvent {
	return w.events
}

// Errors returns the channel of non-fatal watcher errors.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// WatcherType returns "fsnotify" or "polling".
func (w *FileWatcher) WatcherType() string {
	if w.fsWatcher != nil {
		return "fsnotify"
	}
	return "polling"
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Run watches path and calls onChange for every debounced change until
// ctx is cancelled. onChange runs on the calling goroutine, so changes that
// arrive while it runs are coalesced into one follow-up call.
func Run(ctx context.Context, path string, opts Options, onChange func(context.Context, FileEvent)) error {
	w, err := NewFileWatcher(path, opts)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	slog.Info("watch_started",
		slog.String("path", w.Path()),
		slog.String("type", w.WatcherType()))

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	events, errs := w.Events(), w.Errors()
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			<-done
			return nil
		case err := <-done:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			onChange(ctx, ev)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}
