package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// PollingWatcher detects changes to one file by periodically stat-ing it.
// Used as a fallback when fsnotify is not available or fails.
type PollingWatcher struct {
	interval time.Duration
	path     string
	last     fileSnapshot
	events   chan FileEvent
	errors   chan error
	stopCh   chan struct{}
	mu       sync.Mutex
	stopped  bool
}

type fileSnapshot struct {
	exists  bool
	modTime time.Time
	size    int64
}

// NewPollingWatcher creates a polling watcher for path and records its
// current state as the baseline.
func NewPollingWatcher(path string, interval time.Duration) *PollingWatcher {
	p := &PollingWatcher{
		interval: interval,
		path:     path,
		events:   make(chan FileEvent, 16),
		errors:   make(chan error, 10),
		stopCh:   make(chan struct{}),
	}
	p.last, _ = snapshot(path)
	return p
}

// Start polls until ctx is cancelled or Stop is called.
func (p *PollingWatcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return ctx.Err()
		case <-p.stopCh:
			return nil
		case <-ticker.C:
			if err := p.detectChange(); err != nil {
				p.mu.Lock()
				if !p.stopped {
					select {
					case p.errors <- err:
					default:
					}
				}
				p.mu.Unlock()
			}
		}
	}
}

func snapshot(path string) (fileSnapshot, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileSnapshot{}, nil
	}
	if err != nil {
		return fileSnapshot{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return fileSnapshot{exists: true, modTime: info.ModTime(), size: info.Size()}, nil
}

func (p *PollingWatcher) detectChange() error {
	cur, err := snapshot(p.path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.last
	p.last = cur

	switch {
	case !prev.exists && cur.exists:
		p.emitEvent(OpCreate)
	case prev.exists && !cur.exists:
		p.emitEvent(OpDelete)
	case cur.exists && (prev.modTime != cur.modTime || prev.size != cur.size):
		p.emitEvent(OpModify)
	}
	return nil
}

// emitEvent must be called with the lock held.
func (p *PollingWatcher) emitEvent(op Operation) {
	if p.stopped {
		return
	}

	select {
	case p.events <- FileEvent{Path: p.path, Operation: op, Timestamp: time.Now()}:
	default:
		slog.Warn("polling watcher buffer full, dropping event",
			slog.String("path", p.path),
			slog.String("op", op.String()))
	}
}

// Stop stops the polling watcher. Safe to call multiple times.
func (p *PollingWatcher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}

	p.stopped = true
	close(p.stopCh)
	close(p.events)
	close(p.errors)
	return nil
}

// Events returns the channel of raw, undebounced events.
func (p *PollingWatcher) Events() <-chan FileEvent {
	return p.events
}

// Errors returns the channel of stat errors.
func (p *PollingWatcher) Errors() <-chan error {
	return p.errors
}
