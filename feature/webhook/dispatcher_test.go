package webhook

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher(t *testing.T) {
	var mu sync.Mutex
	seen := map[string][]string{}
	done := make(chan struct{}, 100)

	handle := func(_ context.Context, eventID string) {
		var conn string
		var seq int
		_, _ = fmt.Sscanf(eventID, "%s %d", &conn, &seq)
		mu.Lock()
		seen[conn] = append(seen[conn], eventID)
		mu.Unlock()
		done <- struct{}{}
	}

	d, err := NewDispatcher(Config{Workers: 4, Buffer: 64}, handle, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Serve(ctx) }()

	for seq := 0; seq < 10; seq++ {
		for conn := uint(1); conn <= 3; conn++ {
			require.NoError(t, d.Enqueue(ctx, conn, fmt.Sprintf("c%d %d", conn, seq)))
		}
	}

	for i := 0; i < 30; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of 30 events handled", i)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for conn := 1; conn <= 3; conn++ {
		key := fmt.Sprintf("c%d", conn)
		require.Len(t, seen[key], 10)
		for seq, id := range seen[key] {
			assert.Equal(t, fmt.Sprintf("%s %d", key, seq), id)
		}
	}
}

func TestDispatcher_LaneIsStable(t *testing.T) {
	d, err := NewDispatcher(Config{Workers: 8, Buffer: 1}, func(context.Context, string) {}, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	for id := uint(1); id < 50; id++ {
		lane := d.Lane(id)
		assert.Equal(t, lane, d.Lane(id))
		assert.GreaterOrEqual(t, lane, 0)
		assert.Less(t, lane, 8)
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	handled := make(chan string, 2)
	handle := func(_ context.Context, eventID string) {
		if eventID == "bad" {
			panic("boom")
		}
		handled <- eventID
	}

	d, err := NewDispatcher(Config{Workers: 1, Buffer: 4}, handle, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Serve(ctx) }()

	require.NoError(t, d.Enqueue(ctx, 1, "bad"))
	require.NoError(t, d.Enqueue(ctx, 1, "good"))

	select {
	case id := <-handled:
		assert.Equal(t, "good", id)
	case <-time.After(5 * time.Second):
		t.Fatal("lane stopped after panic")
	}
}

func TestDispatcher_FullLaneDoesNotBlock(t *testing.T) {
	d, err := NewDispatcher(Config{Workers: 1, Buffer: 1}, func(context.Context, string) {}, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Enqueue(context.Background(), 1, "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- d.Enqueue(ctx, 1, "second") }()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full lane")
	}
}

func TestDispatcher_EnqueueHonoursCancelledContext(t *testing.T) {
	d, err := NewDispatcher(Config{Workers: 1, Buffer: 4}, func(context.Context, string) {}, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = d.Enqueue(ctx, 1, "late")
	assert.ErrorIs(t, err, context.Canceled)
}
