package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"asset-sync/core/database"
	"asset-sync/core/models"
	"asset-sync/core/store"
	"asset-sync/feature/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReconciler(t *testing.T) (*Reconciler, *store.Store, *models.Connection) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := store.New(db)
	require.NoError(t, s.Migrate(context.Background()))

	conn := &models.Connection{Name: "Acme", ProviderKey: "hudu", BaseURL: "https://hudu.example.com", Active: true}
	require.NoError(t, s.CreateConnection(context.Background(), conn))
	return New(s, time.Minute, zap.NewNop()), s, conn
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	seen := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Insert Then Update", func(t *testing.T) {
		r, s, conn := newTestReconciler(t)
		item := provider.NormalizedAsset{ExternalID: "42", ExternalType: "device", Name: "web-01", LastSeenAt: seen}

		out, err := r.Reconcile(ctx, conn, item)
		require.NoError(t, err)
		assert.Equal(t, Created, out)

		item.Name = "web-01-renamed"
		item.LastSeenAt = seen.Add(time.Hour)
		out, err = r.Reconcile(ctx, conn, item)
		require.NoError(t, err)
		assert.Equal(t, Updated, out)

		got, err := s.FindAsset(ctx, conn.ID, "42", "device")
		require.NoError(t, err)
		assert.Equal(t, "web-01-renamed", got.Name)
		assert.True(t, got.LastSeenAt.Equal(seen.Add(time.Hour)))

		n, err := s.CountAssets(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Missing External ID Skipped", func(t *testing.T) {
		r, s, conn := newTestReconciler(t)
		out, err := r.Reconcile(ctx, conn, provider.NormalizedAsset{ExternalID: "  ", Name: "ghost"})
		require.NoError(t, err)
		assert.Equal(t, Skipped, out)

		n, err := s.CountAssets(ctx, conn.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Default Type", func(t *testing.T) {
		r, s, conn := newTestReconciler(t)
		_, err := r.Reconcile(ctx, conn, provider.NormalizedAsset{ExternalID: "7"})
		require.NoError(t, err)

		got, err := s.FindAsset(ctx, conn.ID, "7", models.DefaultExternalType)
		require.NoError(t, err)
		assert.False(t, got.LastSeenAt.IsZero())
	})

	t.Run("Client From Mapping", func(t *testing.T) {
		r, s, conn := newTestReconciler(t)
		require.NoError(t, s.SaveMapping(ctx, &models.ClientMapping{
			ConnectionID: conn.ID, ExternalClientID: "site-9", ClientID: 77, Active: true,
		}))

		_, err := r.Reconcile(ctx, conn, provider.NormalizedAsset{ExternalID: "1", ExternalClientID: "site-9"})
		require.NoError(t, err)

		got, err := s.FindAsset(ctx, conn.ID, "1", models.DefaultExternalType)
		require.NoError(t, err)
		require.NotNil(t, got.ClientID)
		assert.Equal(t, uint(77), *got.ClientID)
	})

	t.Run("Client From Connection", func(t *testing.T) {
		r, s, conn := newTestReconciler(t)
		own := uint(12)
		conn.ClientID = &own

		_, err := r.Reconcile(ctx, conn, provider.NormalizedAsset{ExternalID: "1", ExternalClientID: "unmapped"})
		require.NoError(t, err)

		got, err := s.FindAsset(ctx, conn.ID, "1", models.DefaultExternalType)
		require.NoError(t, err)
		require.NotNil(t, got.ClientID)
		assert.Equal(t, own, *got.ClientID)
	})

	t.Run("Inactive Mapping Ignored", func(t *testing.T) {
		r, s, conn := newTestReconciler(t)
		require.NoError(t, s.SaveMapping(ctx, &models.ClientMapping{
			ConnectionID: conn.ID, ExternalClientID: "site-9", ClientID: 77, Active: false,
		}))

		_, err := r.Reconcile(ctx, conn, provider.NormalizedAsset{ExternalID: "1", ExternalClientID: "site-9"})
		require.NoError(t, err)

		got, err := s.FindAsset(ctx, conn.ID, "1", models.DefaultExternalType)
		require.NoError(t, err)
		assert.Nil(t, got.ClientID)
	})
}

type failingStore struct {
	err error
}

func (f failingStore) UpsertAsset(context.Context, *models.ExternalAsset) (bool, error) {
	return false, f.err
}

func (f failingStore) FindActiveMapping(context.Context, uint, string) (*models.ClientMapping, error) {
	return nil, nil
}

func TestReconcileAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts Outcomes", func(t *testing.T) {
		r, _, conn := newTestReconciler(t)
		_, err := r.Reconcile(ctx, conn, provider.NormalizedAsset{ExternalID: "existing"})
		require.NoError(t, err)

		tally, err := r.ReconcileAll(ctx, conn, []provider.NormalizedAsset{
			{ExternalID: "existing"},
			{ExternalID: "new-1"},
			{ExternalID: "new-2"},
			{ExternalID: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, tally.Processed)
		assert.Equal(t, 2, tally.Created)
		assert.Equal(t, 1, tally.Updated)
		assert.Equal(t, 1, tally.Skipped)
		assert.Zero(t, tally.Failed)
	})

	t.Run("Failures Do Not Stop The Loop", func(t *testing.T) {
		r := New(failingStore{err: errors.New("disk full")}, time.Minute, zap.NewNop())
		conn := &models.Connection{ID: 1, ProviderKey: "custom"}

		tally, err := r.ReconcileAll(ctx, conn, []provider.NormalizedAsset{{ExternalID: "a"}, {ExternalID: "b"}})
		require.NoError(t, err)
		assert.Equal(t, 2, tally.Failed)
		assert.Equal(t, 2, tally.Processed)
		assert.Len(t, tally.Errors, 2)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		r, _, conn := newTestReconciler(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		tally, err := r.ReconcileAll(cctx, conn, []provider.NormalizedAsset{{ExternalID: "a"}})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, tally.Processed)
	})
}

func TestTally(t *testing.T) {
	tally := &Tally{}
	tally.Record(Created, nil)
	tally.Record(Updated, nil)
	tally.Record(Skipped, nil)
	for i := 0; i < 7; i++ {
		tally.Record(Created, errors.New("bad item"))
	}

	assert.Equal(t, 9, tally.Processed)
	assert.Equal(t, 7, tally.Failed)
	assert.Equal(t, 2, tally.Succeeded())
	assert.Len(t, tally.Errors, maxErrors)
	assert.Contains(t, tally.Summary(), "processed=9 created=1 updated=1 failed=7 skipped=1")

	run := &models.SyncRun{}
	tally.Apply(run)
	assert.Equal(t, 9, run.ItemsProcessed)
	assert.Equal(t, 7, run.ItemsFailed)
}
