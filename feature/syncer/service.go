package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"asset-sync/core/lock"
	"asset-sync/core/logger"
	"asset-sync/core/metrics"
	"asset-sync/core/models"
	"asset-sync/core/reconcile"
	"asset-sync/core/store"
	"asset-sync/feature/provider"
	"asset-sync/feature/provider/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs pull and push syncs against connections.
type Service struct {
	store      *store.Store
	registry   *registry.Registry
	reconciler *reconcile.Reconciler
	locker     lock.Locker
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time

	background sync.WaitGroup
}

// NewService creates a new sync service.
func NewService(st *store.Store, reg *registry.Registry, rec *reconcile.Reconciler, locker lock.Locker, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:      st,
		registry:   reg,
		reconciler: rec,
		locker:     locker,
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// Registry returns the provider registry.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Reconciler returns the asset reconciler.
func (s *Service) Reconciler() *reconcile.Reconciler {
	return s.reconciler
}

// Locker returns the per-connection locker.
func (s *Service) Locker() lock.Locker {
	return s.locker
}

// LoadConnection returns an active connection and its adapter.
func (s *Service) LoadConnection(ctx context.Context, connectionID uint) (*models.Connection, provider.Provider, error) {
	conn, err := s.store.GetConnection(ctx, connectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %d", ErrConnectionNotFound, connectionID)
		}
		return nil, nil, err
	}
	if !conn.Active {
		return conn, nil, fmt.Errorf("%w: %d", ErrConnectionInactive, connectionID)
	}

	p, err := s.registry.Get(conn.ProviderKey)
	if err != nil {
		return conn, nil, err
	}
	return conn, p, nil
}

// SyncConnection pulls every asset of a connection changed since its last
// successful sync and records the outcome as a new run. It returns
// ErrSyncInProgress without creating a run when the connection is busy.
func (s *Service) SyncConnection(ctx context.Context, connectionID uint) (*models.SyncRun, error) {
	conn, p, held, run, err := s.claim(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, held)

	s.pull(ctx, conn, p, run)
	return run, nil
}

// StartSync claims the connection and creates its running pull run, then
// performs the pull in the background. Claim errors are returned as from
// SyncConnection. The returned run is a snapshot taken before the pull; the
// pull outlives cancellation of ctx.
func (s *Service) StartSync(ctx context.Context, connectionID uint) (*models.SyncRun, error) {
	conn, p, held, run, err := s.claim(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	started := *run

	bg := context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer s.release(bg, held)
		s.pull(bg, conn, p, run)
	}()
	return &started, nil
}

// Wait blocks until pulls started by StartSync have finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// claim loads and locks the connection and opens a running pull run on it.
func (s *Service) claim(ctx context.Context, connectionID uint) (*models.Connection, provider.Provider, lock.Lock, *models.SyncRun, error) {
	conn, p, err := s.LoadConnection(ctx, connectionID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	held, err := s.acquire(ctx, conn.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	run := &models.SyncRun{
		RunID:        uuid.NewString(),
		ConnectionID: conn.ID,
		Direction:    models.DirectionPull,
		Status:       models.RunRunning,
		StartedAt:    s.now(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		s.release(ctx, held)
		return nil, nil, nil, nil, err
	}
	return conn, p, held, run, nil
}

// acquire takes the connection lock and checks the run table, so a run left
// by another process still blocks.
func (s *Service) acquire(ctx context.Context, connectionID uint) (lock.Lock, error) {
	held, err := s.locker.TryLock(ctx, lock.ConnectionKey(connectionID))
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return nil, fmt.Errorf("%w: %d", ErrSyncInProgress, connectionID)
		}
		return nil, fmt.Errorf("failed to lock connection %d: %w", connectionID, err)
	}

	running, err := s.store.HasRunningRun(ctx, connectionID)
	if err != nil {
		s.release(ctx, held)
		return nil, err
	}
	if running {
		s.release(ctx, held)
		return nil, fmt.Errorf("%w: %d", ErrSyncInProgress, connectionID)
	}
	return held, nil
}

func (s *Service) release(ctx context.Context, held lock.Lock) {
	if err := held.Release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("Failed to release connection lock", zap.Error(err))
	}
}

// pull fetches and reconciles on an already created running run.
func (s *Service) pull(ctx context.Context, conn *models.Connection, p provider.Provider, run *models.SyncRun) {
	defer s.failOnPanic(ctx, conn, run)

	l := s.logger.With(logger.Connection(conn.ID, conn.ProviderKey)...).With(logger.Run(run.RunID, run.Direction)...)
	l.Info("Sync started", zap.Int("retry_count", run.RetryCount))

	items, fetchErr := p.FetchAssets(ctx, conn, conn.LastSyncedAt)
	if fetchErr != nil {
		l.Warn("Fetch failed", zap.Int("items", len(items)), zap.Error(fetchErr))
	}

	tally, err := s.reconciler.ReconcileAll(ctx, conn, items)
	if err != nil && fetchErr == nil {
		fetchErr = err
	}

	s.finish(ctx, conn, run, tally, fetchErr)
}

// Push reconciles items delivered by a webhook inside a new push run. A
// non-nil mapErr is recorded on the run as the fetch error would be. The
// caller holds the connection lock.
func (s *Service) Push(ctx context.Context, conn *models.Connection, items []provider.NormalizedAsset, mapErr error) (run *models.SyncRun, err error) {
	run = &models.SyncRun{
		RunID:        uuid.NewString(),
		ConnectionID: conn.ID,
		Direction:    models.DirectionPush,
		Status:       models.RunRunning,
		StartedAt:    s.now(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	defer s.failOnPanic(ctx, conn, run)

	tally, err := s.reconciler.ReconcileAll(ctx, conn, items)
	if mapErr != nil {
		err = mapErr
	}
	s.finish(ctx, conn, run, tally, err)
	return run, nil
}

// failOnPanic is deferred by run bodies. A panic fails a run that is still
// running instead of leaving it to block the connection.
func (s *Service) failOnPanic(ctx context.Context, conn *models.Connection, run *models.SyncRun) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.Error("Sync panicked",
		append(logger.Connection(conn.ID, conn.ProviderKey), zap.String("run_id", run.RunID), zap.Any("panic", r))...)
	if run.Status == models.RunRunning {
		s.finish(ctx, conn, run, &reconcile.Tally{}, fmt.Errorf("panic: %v", r))
	}
}

// finish stamps the terminal state on a run, schedules its retry and
// advances the connection's sync watermark.
func (s *Service) finish(ctx context.Context, conn *models.Connection, run *models.SyncRun, tally *reconcile.Tally, runErr error) {
	ctx = context.WithoutCancel(ctx)
	finished := s.now()

	tally.Apply(run)
	run.Status = RunStatus(tally, runErr)
	run.Summary = tally.Summary()
	run.ErrorMessage = ""
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	run.FinishedAt = &finished
	run.NextRetryAt = nil
	if run.Status == models.RunFailed {
		run.NextRetryAt = s.nextRetry(run, finished)
	}

	l := s.logger.With(logger.Connection(conn.ID, conn.ProviderKey)...).With(logger.Run(run.RunID, run.Direction)...)
	if err := s.store.SaveRun(ctx, run); err != nil {
		l.Error("Failed to save sync run", zap.Error(err))
	}

	if run.Direction == models.DirectionPull && run.Status != models.RunFailed {
		if err := s.store.MarkSynced(ctx, conn.ID, run.StartedAt); err != nil {
			l.Error("Failed to advance last synced time", zap.Error(err))
		} else {
			started := run.StartedAt
			conn.LastSyncedAt = &started
		}
	}

	metrics.ObserveRun(conn.ProviderKey, run.Direction, run.Status, run.StartedAt, finished)

	fields := []zap.Field{
		zap.String("direction", run.Direction),
		zap.String("status", run.Status),
		zap.Int("processed", run.ItemsProcessed),
		zap.Int("created", run.ItemsCreated),
		zap.Int("updated", run.ItemsUpdated),
		zap.Int("failed", run.ItemsFailed),
		zap.Duration("took", finished.Sub(run.StartedAt)),
	}
	if run.NextRetryAt != nil {
		fields = append(fields, zap.Time("next_retry_at", *run.NextRetryAt))
	}
	if run.Status == models.RunSuccess {
		l.Info("Sync finished", fields...)
	} else {
		l.Warn("Sync finished with errors", append(fields, zap.String("error", run.ErrorMessage))...)
	}
}

// nextRetry returns when a failed pull run should be retried, or nil when its
// budget is spent. Push runs are never retried; the event is resubmitted instead.
func (s *Service) nextRetry(run *models.SyncRun, from time.Time) *time.Time {
	if run.Direction != models.DirectionPull || run.RetryCount >= s.cfg.MaxRetries {
		return nil
	}
	at := from.Add(s.cfg.Backoff(run.RetryCount))
	return &at
}
