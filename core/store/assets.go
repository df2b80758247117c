package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-sync/core/models"

	"gorm.io/gorm"
)

// FindAsset looks up an asset by its natural key.
func (s *Store) FindAsset(ctx context.Context, connectionID uint, externalID, externalType string) (*models.ExternalAsset, error) {
	var asset models.ExternalAsset
	err := s.db.WithContext(ctx).
		Where("connection_id = ? AND external_id = ? AND external_type = ?", connectionID, externalID, externalType).
		First(&asset).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("asset %s/%s", externalType, externalID))
	}
	return &asset, nil
}

// UpsertAsset inserts the asset or updates the mutable fields of the row with the
// same natural key. It reports whether a new row was created.
// A unique violation on insert means a concurrent writer won the race; the
// operation is then retried once as an update.
func (s *Store) UpsertAsset(ctx context.Context, asset *models.ExternalAsset) (bool, error) {
	created, err := s.upsertAsset(ctx, asset)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		created, err = s.upsertAsset(ctx, asset)
	}
	if err != nil {
		return false, fmt.Errorf("failed to upsert asset %s/%s: %w", asset.ExternalType, asset.ExternalID, err)
	}
	return created, nil
}

func (s *Store) upsertAsset(ctx context.Context, asset *models.ExternalAsset) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ExternalAsset
		err := tx.Where("connection_id = ? AND external_id = ? AND external_type = ?",
			asset.ConnectionID, asset.ExternalID, asset.ExternalType).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(asset).Error
		}
		if err != nil {
			return err
		}

		asset.ID = existing.ID
		asset.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Select(
			"name", "hostname", "ip_address", "status",
			"external_client_id", "external_client_name",
			"metadata", "last_seen_at", "client_id",
		).Updates(asset).Error
	})
	return created, err
}

// CountAssets returns the number of assets stored for a connection.
func (s *Store) CountAssets(ctx context.Context, connectionID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ExternalAsset{}).
		Where("connection_id = ?", connectionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assets of connection %d: %w", connectionID, err)
	}
	return count, nil
}

// StaleAssets lists assets of a connection that were last seen before cutoff.
// Nothing is deleted; callers decide what staleness means.
func (s *Store) StaleAssets(ctx context.Context, connectionID uint, cutoff time.Time) ([]models.ExternalAsset, error) {
	var assets []models.ExternalAsset
	err := s.db.WithContext(ctx).
		Where("connection_id = ? AND last_seen_at < ?", connectionID, cutoff).
		Order("last_seen_at").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale assets of connection %d: %w", connectionID, err)
	}
	return assets, nil
}
