package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_TryLock(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	first, err := l.TryLock(ctx, "connection:1")
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "connection:1")
	assert.ErrorIs(t, err, ErrNotObtained)

	other, err := l.TryLock(ctx, "connection:2")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, first.Release(ctx))
	// Double release is harmless.
	require.NoError(t, first.Release(ctx))

	again, err := l.TryLock(ctx, "connection:1")
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestLocal_LockWaits(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	held, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	acquired := make(chan Lock)
	go func() {
		got, err := l.Lock(ctx, "k")
		if err == nil {
			acquired <- got
		}
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, held.Release(ctx))

	select {
	case got := <-acquired:
		require.NoError(t, got.Release(ctx))
	case <-time.After(time.Second):
		t.Fatal("lock not acquired after release")
	}
}

func TestLocal_LockContextCancelled(t *testing.T) {
	l := NewLocal()
	held, err := l.TryLock(context.Background(), "k")
	require.NoError(t, err)
	defer held.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
