package store

import (
	"context"
	"fmt"
	"time"

	"asset-sync/core/models"
)

// GetConnection loads a connection by id.
func (s *Store) GetConnection(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := s.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("connection %d", id))
	}
	return &conn, nil
}

// ListConnections returns connections ordered by id, optionally only active ones.
func (s *Store) ListConnections(ctx context.Context, activeOnly bool) ([]models.Connection, error) {
	var conns []models.Connection
	q := s.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&conns).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// CreateConnection inserts a new connection.
func (s *Store) CreateConnection(ctx context.Context, conn *models.Connection) error {
	if err := s.db.WithContext(ctx).Create(conn).Error; err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

// MarkSynced records the last successful sync time of a connection.
func (s *Store) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to update last synced time of connection %d: %w", id, err)
	}
	return nil
}

// SetConnectionActive toggles the soft-deactivation flag.
func (s *Store) SetConnectionActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update connection %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	return nil
}
