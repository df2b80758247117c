package webhook

import (
	"context"
	"sync"
	"testing"
	"time"

	"asset-sync/core/database"
	"asset-sync/core/lock"
	"asset-sync/core/models"
	"asset-sync/core/reconcile"
	"asset-sync/core/store"
	"asset-sync/feature/provider/mocks"
	"asset-sync/feature/provider/registry"
	"asset-sync/feature/syncer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "hook-secret"

type recordingQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *recordingQueue) Enqueue(_ context.Context, _ uint, eventID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, eventID)
	return nil
}

func (q *recordingQueue) Enqueued() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.ids...)
}

type fixture struct {
	store     *store.Store
	vendor    *mocks.Provider
	sync      *syncer.Service
	processor *Processor
	service   *Service
	queue     *recordingQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate(context.Background()))

	vendor := new(mocks.Provider)
	vendor.On("Key").Return("fake")

	logger := zap.NewNop()
	svc := syncer.NewService(st, registry.New(vendor), reconcile.New(st, time.Minute, logger), lock.NewLocal(), syncer.DefaultConfig(), logger)
	queue := &recordingQueue{}

	return &fixture{
		store:     st,
		vendor:    vendor,
		sync:      svc,
		processor: NewProcessor(svc, logger),
		service:   NewService(st, nil, queue, DefaultConfig(), logger),
		queue:     queue,
	}
}

// rebuild swaps the sync service behind the processor.
func (f *fixture) rebuild(locker lock.Locker, rec *reconcile.Reconciler) {
	logger := zap.NewNop()
	f.sync = syncer.NewService(f.store, registry.New(f.vendor), rec, locker, syncer.DefaultConfig(), logger)
	f.processor = NewProcessor(f.sync, logger)
}

// busyLocker never hands out a lock.
type busyLocker struct{}

func (busyLocker) TryLock(context.Context, string) (lock.Lock, error) {
	return nil, lock.ErrNotObtained
}

func (busyLocker) Lock(context.Context, string) (lock.Lock, error) {
	return nil, lock.ErrNotObtained
}

func (f *fixture) connection(t *testing.T, active bool) *models.Connection {
	t.Helper()
	conn := &models.Connection{
		Name:          "Acme Docs",
		ProviderKey:   "fake",
		BaseURL:       "https://docs.example.com",
		WebhookSecret: testSecret,
		Active:        active,
	}
	require.NoError(t, f.store.CreateConnection(context.Background(), conn))
	return conn
}

func signed(connectionID uint, body string, extra map[string]string) Delivery {
	ts := time.Now().UTC().Format(time.RFC3339)
	headers := map[string]string{
		HeaderTimestamp: ts,
		HeaderSignature: "sha256=" + Sign(testSecret, ts, []byte(body)),
		"Content-Type":  "application/json",
	}
	for k, v := range extra {
		headers[k] = v
	}
	return Delivery{ConnectionID: connectionID, Headers: headers, Body: []byte(body)}
}
