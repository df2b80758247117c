package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"asset-sync/core/lock"
	"asset-sync/core/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func failedRun(t *testing.T, f *fixture, connectionID uint, retryCount int) *models.SyncRun {
	t.Helper()
	due := t0.Add(-time.Minute)
	finished := t0.Add(-2 * time.Minute)
	run := &models.SyncRun{
		RunID:        uuid.NewString(),
		ConnectionID: connectionID,
		Direction:    models.DirectionPull,
		Status:       models.RunFailed,
		RetryCount:   retryCount,
		NextRetryAt:  &due,
		StartedAt:    t0.Add(-3 * time.Minute),
		FinishedAt:   &finished,
		ErrorMessage: "503",
	}
	require.NoError(t, f.store.CreateRun(context.Background(), run))
	return run
}

func TestRetryFailedRuns(t *testing.T) {
	ctx := context.Background()

	t.Run("Recovers On Same Run", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		run := failedRun(t, f, conn.ID, 2)
		f.vendor.On("FetchAssets", mock.Anything, mock.Anything, mock.Anything).Return(items("1"), nil)

		report, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Retried)
		assert.Equal(t, 1, report.Recovered)

		got, err := f.store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.RetryCount)
		assert.Equal(t, models.RunSuccess, got.Status)
		assert.Equal(t, 1, got.ItemsCreated)
		assert.Empty(t, got.ErrorMessage)
		assert.Nil(t, got.NextRetryAt)

		runs, err := f.store.ListRuns(ctx, conn.ID, 0)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("Fails Again With Backoff", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		run := failedRun(t, f, conn.ID, 1)
		f.vendor.On("FetchAssets", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("503"))

		_, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)

		got, err := f.store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RunFailed, got.Status)
		assert.Equal(t, 2, got.RetryCount)
		require.NotNil(t, got.NextRetryAt)
		assert.True(t, got.NextRetryAt.Equal(t0.Add(4*time.Minute)))
	})

	t.Run("Budget Exhausted", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		run := failedRun(t, f, conn.ID, 4)
		f.vendor.On("FetchAssets", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("503"))

		_, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)

		got, err := f.store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.RetryCount)
		assert.Nil(t, got.NextRetryAt)

		report, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Candidates)
	})

	t.Run("Not Yet Due", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		run := failedRun(t, f, conn.ID, 0)
		later := t0.Add(time.Hour)
		run.NextRetryAt = &later
		require.NoError(t, f.store.SaveRun(ctx, run))

		report, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Candidates)
	})

	t.Run("Inactive Connection Abandoned", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, false)
		run := failedRun(t, f, conn.ID, 0)

		report, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Abandoned)

		got, err := f.store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RunFailed, got.Status)
		assert.Equal(t, 1, got.RetryCount)
		assert.Nil(t, got.NextRetryAt)
		f.vendor.AssertNotCalled(t, "FetchAssets", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Busy Connection Skipped", func(t *testing.T) {
		f := newFixture(t)
		conn := f.connection(t, true)
		run := failedRun(t, f, conn.ID, 0)
		held, err := f.locker.TryLock(ctx, lock.ConnectionKey(conn.ID))
		require.NoError(t, err)
		defer held.Release(ctx)

		report, err := f.svc.RetryFailedRuns(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)

		got, err := f.store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Zero(t, got.RetryCount)
	})
}

func TestSweepStaleRuns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conn := f.connection(t, true)

	stuck := &models.SyncRun{
		RunID: "stuck", ConnectionID: conn.ID, Direction: models.DirectionPull,
		Status: models.RunRunning, StartedAt: t0.Add(-3 * time.Hour),
	}
	fresh := &models.SyncRun{
		RunID: "fresh", ConnectionID: conn.ID, Direction: models.DirectionPull,
		Status: models.RunRunning, StartedAt: t0.Add(-time.Minute),
	}
	require.NoError(t, f.store.CreateRun(ctx, stuck))
	require.NoError(t, f.store.CreateRun(ctx, fresh))

	swept, err := f.svc.SweepStaleRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	got, err := f.store.GetRun(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, got.Status)
	assert.NotNil(t, got.NextRetryAt)
	assert.Contains(t, got.ErrorMessage, "abandoned")

	got, err = f.store.GetRun(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunRunning, got.Status)
}
