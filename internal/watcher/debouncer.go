package watcher

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces a burst of events for the watched file into one.
// Within the window:
//   - CREATE + MODIFY = CREATE (file is still new)
//   - CREATE + DELETE = nothing (file never really existed)
//   - MODIFY + DELETE = DELETE (file is gone)
//   - DELETE + CREATE = MODIFY (file was replaced)
type Debouncer struct {
	window  time.Duration
	pending *FileEvent
	firstOp Operation
	mu      sync.Mutex
	output  chan FileEvent
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer that emits after window of quiet.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		output: make(chan FileEvent, 1),
	}
}

// Add records an event and restarts the quiet period.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.pending == nil {
		ev := event
		d.pending = &ev
		d.firstOp = event.Operation
	} else {
		d.pending = coalesce(d.firstOp, event)
		if d.pending == nil {
			// Cancelled out; the next event starts a fresh burst.
			if d.timer != nil {
				d.timer.Stop()
			}
			return
		}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// coalesce merges next into a burst that started with first.
// Returns nil if the burst cancels out.
func coalesce(first Operation, next FileEvent) *FileEvent {
	switch {
	case first == OpCreate && next.Operation == OpDelete:
		return nil
	case first == OpCreate:
		next.Operation = OpCreate
	case first == OpDelete && next.Operation != OpDelete:
		next.Operation = OpModify
	}
	return &next
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || d.pending == nil {
		return
	}

	ev := *d.pending
	d.pending = nil

	select {
	case d.output <- ev:
	default:
		// A change is already queued; its consumer reads the latest file state.
		slog.Debug("debouncer output full, coalescing",
			slog.String("path", ev.Path),
			slog.String("op", ev.Operation.String()))
	}
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan FileEvent {
	return d.output
}

// Stop stops the debouncer and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
