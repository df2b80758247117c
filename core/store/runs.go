package store

import (
	"context"
	"fmt"
	"time"

	"asset-sync/core/models"

	"gorm.io/gorm"
)

// CreateRun inserts a sync run.
func (s *Store) CreateRun(ctx context.Context, run *models.SyncRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	return nil
}

// SaveRun persists every field of a sync run.
func (s *Store) SaveRun(ctx context.Context, run *models.SyncRun) error {
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to save sync run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun loads a sync run by primary key.
func (s *Store) GetRun(ctx context.Context, id uint) (*models.SyncRun, error) {
	var run models.SyncRun
	if err := s.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("sync run %d", id))
	}
	return &run, nil
}

// HasRunningRun reports whether a connection has a run in the running state.
func (s *Store) HasRunningRun(ctx context.Context, connectionID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SyncRun{}).
		Where("connection_id = ? AND status = ?", connectionID, models.RunRunning).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check running runs of connection %d: %w", connectionID, err)
	}
	return count > 0, nil
}

// ListRuns returns the most recent runs of a connection, newest first.
func (s *Store) ListRuns(ctx context.Context, connectionID uint, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.SyncRun
	err := s.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs of connection %d: %w", connectionID, err)
	}
	return runs, nil
}

// RetryableRuns returns failed pull runs whose retry is due and whose budget remains.
func (s *Store) RetryableRuns(ctx context.Context, now time.Time, maxRetries int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := s.db.WithContext(ctx).
		Where("status = ? AND direction = ?", models.RunFailed, models.DirectionPull).
		Where("next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Where("retry_count < ?", maxRetries).
		Order("next_retry_at").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list retryable runs: %w", err)
	}
	return runs, nil
}

// ClaimRetry moves a failed run back to running and bumps its retry count.
// The update is conditional on the run still being failed with the observed count,
// so two concurrent sweeps cannot both claim it. It reports whether the claim won.
func (s *Store) ClaimRetry(ctx context.Context, run *models.SyncRun, startedAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.SyncRun{}).
		Where("id = ? AND status = ? AND retry_count = ?", run.ID, models.RunFailed, run.RetryCount).
		Updates(map[string]any{
			"status":      models.RunRunning,
			"retry_count": gorm.Expr("retry_count + 1"),
			"started_at":  startedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim sync run %s for retry: %w", run.RunID, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	run.Status = models.RunRunning
	run.RetryCount++
	run.StartedAt = startedAt
	return true, nil
}

// StaleRunningRuns returns runs stuck in running since before cutoff.
func (s *Store) StaleRunningRuns(ctx context.Context, cutoff time.Time) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := s.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", models.RunRunning, cutoff).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale runs: %w", err)
	}
	return runs, nil
}
