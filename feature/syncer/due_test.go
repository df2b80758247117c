package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDueConnections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	synced := f.connection(t, true)
	never := f.connection(t, true)
	f.connection(t, false)
	require.NoError(t, f.store.MarkSynced(ctx, synced.ID, t0))

	f.now = t0.Add(30 * time.Minute)
	due, err := f.svc.DueConnections(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, never.ID, due[0].ID)

	f.now = t0.Add(61 * time.Minute)
	due, err = f.svc.DueConnections(ctx)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestSyncDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.connection(t, true)
	f.connection(t, true)
	f.connection(t, false)
	f.vendor.On("FetchAssets", mock.Anything, mock.Anything, mock.Anything).Return(items("1"), nil)

	report, err := f.svc.SyncDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Due)
	assert.Equal(t, 2, report.Started)
	assert.Len(t, report.Runs, 2)

	// Both connections just synced, nothing is due anymore.
	report, err = f.svc.SyncDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Due)
}
