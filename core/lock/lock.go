package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotObtained is returned when a lock is held by someone else.
var ErrNotObtained = errors.New("lock not obtained")

// Lock is a held lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out mutually exclusive locks by key.
type Locker interface {
	// TryLock returns ErrNotObtained immediately when key is held.
	TryLock(ctx context.Context, key string) (Lock, error)
	// Lock waits until key is free or ctx is done.
	Lock(ctx context.Context, key string) (Lock, error)
}

// ConnectionKey is the lock key guarding runs of one connection.
func ConnectionKey(connectionID uint) string {
	return fmt.Sprintf("connection:%d", connectionID)
}

// retryObtain calls obtain until it stops returning ErrNotObtained or ctx is done.
func retryObtain(ctx context.Context, key string, interval time.Duration, obtain func(context.Context) (Lock, error)) (Lock, error) {
	for {
		l, err := obtain(ctx)
		if !errors.Is(err, ErrNotObtained) {
			return l, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lock %s: %w", key, ctx.Err())
		case <-time.After(interval):
		}
	}
}
