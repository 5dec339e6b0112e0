package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultLockTimeout is the maximum time a run waits for the lock.
	DefaultLockTimeout = 30 * time.Second
	// lockRetryInterval is the pause between acquisition attempts.
	lockRetryInterval = 100 * time.Millisecond
)

// ErrLockHeld is returned while another process holds the workspace lock.
var ErrLockHeld = errors.New("workspace is locked by another process")

// RunLock serializes runs against one workspace, so two processes never
// reconcile or process the same cache concurrently. Status readers take the
// shared side.
type RunLock interface {
	Acquire(ctx context.Context) error
	AcquireShared(ctx context.Context) error
	Release() error
}

// flockRunLock implements RunLock with an advisory file lock.
type flockRunLock struct {
	lock    *flock.Flock
	timeout time.Duration
}

// NewRunLock creates a lock backed by the file at path. A zero timeout uses
// DefaultLockTimeout.
func NewRunLock(path string, timeout time.Duration) RunLock {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &flockRunLock{lock: flock.New(path), timeout: timeout}
}

// Acquire takes the exclusive lock, polling until the timeout elapses.
func (l *flockRunLock) Acquire(ctx context.Context) error {
	return l.acquire(ctx, l.lock.TryLock)
}

// AcquireShared takes a shared lock for read-only access.
func (l *flockRunLock) AcquireShared(ctx context.Context) error {
	return l.acquire(ctx, l.lock.TryRLock)
}

func (l *flockRunLock) acquire(ctx context.Context, try func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	err := retry.Do(ctx, retry.NewConstant(lockRetryInterval), func(_ context.Context) error {
		locked, err := try()
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if !locked {
			return retry.RetryableError(ErrLockHeld)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to lock workspace %s: %w", l.lock.Path(), err)
	}
	return nil
}

// Release drops the lock.
func (l *flockRunLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock workspace: %w", err)
	}
	return nil
}
