package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"asset-sync/core/lock"
	"asset-sync/core/models"
	"asset-sync/core/reconcile"
	"asset-sync/feature/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, f *fixture, conn *models.Connection, body string) *models.WebhookEvent {
	t.Helper()
	event, _, err := f.service.Receive(context.Background(), signed(conn.ID, body, nil))
	require.NoError(t, err)
	return event
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("Processed", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		f.vendor.On("MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything).
			Return([]provider.NormalizedAsset{{ExternalID: "5", Name: "laptop"}}, nil)
		event := receive(t, f, conn, `{"asset":{"id":5}}`)

		got, err := f.processor.Process(ctx, event.EventID)
		require.NoError(t, err)
		assert.Equal(t, models.EventProcessed, got.Status)
		require.NotNil(t, got.SyncRunID)
		assert.NotNil(t, got.ProcessedAt)

		run, err := f.store.GetRun(ctx, *got.SyncRunID)
		require.NoError(t, err)
		assert.Equal(t, models.DirectionPush, run.Direction)
		assert.Equal(t, 1, run.ItemsCreated)
	})

	t.Run("Redelivery Only Updates", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		f.vendor.On("MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything).
			Return([]provider.NormalizedAsset{{ExternalID: "5"}}, nil)

		first := receive(t, f, conn, `{"asset":{"id":5}}`)
		_, err := f.processor.Process(ctx, first.EventID)
		require.NoError(t, err)

		second := receive(t, f, conn, `{"asset":{"id":5}}`)
		got, err := f.processor.Process(ctx, second.EventID)
		require.NoError(t, err)

		run, err := f.store.GetRun(ctx, *got.SyncRunID)
		require.NoError(t, err)
		assert.Zero(t, run.ItemsCreated)
		assert.Equal(t, 1, run.ItemsUpdated)

		n, err := f.store.CountAssets(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Inactive Connection Ignored", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		event := receive(t, f, conn, `{"id":5}`)
		require.NoError(t, f.store.SetConnectionActive(ctx, conn.ID, false))

		got, err := f.processor.Process(ctx, event.EventID)
		require.NoError(t, err)
		assert.Equal(t, models.EventIgnored, got.Status)
		assert.Nil(t, got.SyncRunID)
		assert.Contains(t, got.ErrorMessage, "inactive")

		runs, err := f.store.ListRuns(ctx, conn.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})

	t.Run("Mapping Failure Fails Event", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		f.vendor.On("MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("unrecognized payload shape"))
		event := receive(t, f, conn, `{"hello":"world"}`)

		got, err := f.processor.Process(ctx, event.EventID)
		require.NoError(t, err)
		assert.Equal(t, models.EventFailed, got.Status)
		assert.Contains(t, got.ErrorMessage, "unrecognized")
		require.NotNil(t, got.SyncRunID)
	})

	t.Run("Settled Event Skipped", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		require.NoError(t, f.store.CreateEvent(ctx, &models.WebhookEvent{
			EventID: "done", ConnectionID: conn.ID, Status: models.EventProcessed, Payload: "{}",
		}))

		got, err := f.processor.Process(ctx, "done")
		require.NoError(t, err)
		assert.Equal(t, models.EventProcessed, got.Status)
		f.vendor.AssertNotCalled(t, "MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Panic Marks Failed", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		f.vendor.On("MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { panic("adapter bug") })
		event := receive(t, f, conn, `{"id":5}`)

		got, err := f.processor.Process(ctx, event.EventID)
		require.NoError(t, err)
		assert.Equal(t, models.EventFailed, got.Status)
		assert.Contains(t, got.ErrorMessage, "adapter bug")
	})
}

func TestProcess_LockUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.rebuild(busyLocker{}, reconcile.New(f.store, time.Minute, zap.NewNop()))
	conn := f.connection(t, true)
	event := receive(t, f, conn, `{"asset":{"id":5}}`)

	got, err := f.processor.Process(ctx, event.EventID)
	assert.ErrorIs(t, err, lock.ErrNotObtained)
	assert.Equal(t, models.EventReceived, got.Status)
	assert.Nil(t, got.ProcessedAt)

	stored, err := f.store.GetEvent(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventReceived, stored.Status, "event must not stay processing")

	// Once stale, the sweep hands it back to the queue.
	f.service.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	n, err := f.service.RecoverStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.vendor.AssertNotCalled(t, "MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_ReconcilePanicFailsRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	// A nil reconciler panics as soon as it sees an item.
	f.rebuild(lock.NewLocal(), nil)
	conn := f.connection(t, true)
	f.vendor.On("MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything).
		Return([]provider.NormalizedAsset{{ExternalID: "5"}}, nil)
	event := receive(t, f, conn, `{"asset":{"id":5}}`)

	got, err := f.processor.Process(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventFailed, got.Status)
	require.NotNil(t, got.SyncRunID)

	run, err := f.store.GetRun(ctx, *got.SyncRunID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "panic")
	assert.NotNil(t, run.FinishedAt)

	running, err := f.store.HasRunningRun(ctx, conn.ID)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conn := f.connection(t, true)
	f.vendor.On("MapWebhookPayload", mock.Anything, mock.Anything, mock.Anything).
		Return([]provider.NormalizedAsset{{ExternalID: "1"}, {ExternalID: "2"}}, nil)

	run, err := f.processor.Replay(ctx, conn.ID, []byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	assert.Equal(t, models.RunSuccess, run.Status)
	assert.Equal(t, 2, run.ItemsCreated)
}
