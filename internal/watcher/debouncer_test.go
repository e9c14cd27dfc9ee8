package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(op Operation) FileEvent {
	return FileEvent{Path: "/words.txt", Operation: op, Timestamp: time.Now()}
}

func TestDebouncer_SingleEvent_PassesThrough(t *testing.T) {
	// Given: a debouncer with short window
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	// When: a single event is added
	d.Add(ev(OpModify))

	// Then: the event passes through after the debounce window
	select {
	case got := <-d.Output():
		assert.Equal(t, "/words.txt", got.Path)
		assert.Equal(t, OpModify, got.Operation)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for debounced event")
	}
}

func TestDebouncer_Burst_Coalesces(t *testing.T) {
	// Given: a debouncer with short window
	d := NewDebouncer(100 * time.Millisecond)
	defer d.Stop()

	// When: several modifications arrive rapidly
	for i := 0; i < 5; i++ {
		d.Add(ev(OpModify))
		time.Sleep(10 * time.Millisecond)
	}

	// Then: exactly one event comes out
	select {
	case got := <-d.Output():
		assert.Equal(t, OpModify, got.Operation)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for debounced event")
	}

	select {
	case got := <-d.Output():
		t.Fatalf("unexpected second event %v", got.Operation)
	case <-time.After(250 * time.Millisecond):
	}
}

func TestDebouncer_CoalescingRules(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want Operation
	}{
		{name: "create then modify", ops: []Operation{OpCreate, OpModify}, want: OpCreate},
		{name: "modify then delete", ops: []Operation{OpModify, OpDelete}, want: OpDelete},
		{name: "delete then create", ops: []Operation{OpDelete, OpCreate}, want: OpModify},
		{name: "modify twice", ops: []Operation{OpModify, OpModify}, want: OpModify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDebouncer(30 * time.Millisecond)
			defer d.Stop()

			for _, op := range tt.ops {
				d.Add(ev(op))
			}

			select {
			case got := <-d.Output():
				assert.Equal(t, tt.want, got.Operation)
			case <-time.After(time.Second):
				t.Fatal("timeout waiting for debounced event")
			}
		})
	}
}

func TestDebouncer_CreateThenDelete_EmitsNothing(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	d.Add(ev(OpCreate))
	d.Add(ev(OpDelete))

	select {
	case got := <-d.Output():
		t.Fatalf("unexpected event %v", got.Operation)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncer_Stop_IsIdempotent(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	d.Add(ev(OpModify))

	d.Stop()
	d.Stop()

	// Output is closed and Add after Stop is ignored
	d.Add(ev(OpModify))
	_, ok := <-d.Output()
	require.False(t, ok)
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "MODIFY", OpModify.String())
	assert.Equal(t, "DELETE", OpDelete.String())
	assert.Equal(t, "UNKNOWN", Operation(42).String())
}

func TestOptions_WithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	assert.Equal(t, DefaultOptions().DebounceWindow, opts.DebounceWindow)
	assert.Equal(t, DefaultOptions().PollInterval, opts.PollInterval)

	custom := Options{DebounceWindow: time.Second}.WithDefaults()
	assert.Equal(t, time.Second, custom.DebounceWindow)
}
