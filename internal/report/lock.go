package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is created next to the report outputs while they are written.
const LockFileName = ".wordseq.lock"

// lockRetryDelay is how often a held lock is polled.
const lockRetryDelay = 50 * time.Millisecond

// OutputLock serializes report writers across processes, so two runs
// writing to the same directory cannot interleave their file pairs.
type OutputLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewOutputLock creates a lock for outputs in dir.
func NewOutputLock(dir string) *OutputLock {
	path := filepath.Join(dir, LockFileName)
	return &OutputLock{
		path:  path,
		flock: flock.New(path),
	}
}

// Lock blocks until the lock is acquired or ctx is done.
func (l *OutputLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.path, err)
	}
	if !acquired {
		return fmt.Errorf("lock %s not acquired", l.path)
	}

	l.locked = true
	return nil
}

// Unlock releases the lock. Safe to call when not locked.
func (l *OutputLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	return l.path
}
