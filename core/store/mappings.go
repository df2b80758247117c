package store

import (
	"context"
	"errors"
	"fmt"

	"asset-sync/core/models"

	"gorm.io/gorm"
)

// FindActiveMapping returns the active client mapping for a vendor tenant,
// or nil when none exists. Absence is not an error.
func (s *Store) FindActiveMapping(ctx context.Context, connectionID uint, externalClientID string) (*models.ClientMapping, error) {
	var mapping models.ClientMapping
	err := s.db.WithContext(ctx).
		Where("connection_id = ? AND external_client_id = ? AND active = ?", connectionID, externalClientID, true).
		First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load client mapping %s: %w", externalClientID, err)
	}
	return &mapping, nil
}

// SaveMapping creates or updates a client mapping.
func (s *Store) SaveMapping(ctx context.Context, mapping *models.ClientMapping) error {
	if err := s.db.WithContext(ctx).Save(mapping).Error; err != nil {
		return fmt.Errorf("failed to save client mapping %s: %w", mapping.ExternalClientID, err)
	}
	return nil
}

// ListMappings returns the client mappings of a connection.
func (s *Store) ListMappings(ctx context.Context, connectionID uint) ([]models.ClientMapping, error) {
	var mappings []models.ClientMapping
	if err := s.db.WithContext(ctx).Where("connection_id = ?", connectionID).Order("id").Find(&mappings).Error; err != nil {
		return nil, fmt.Errorf("failed to list client mappings of connection %d: %w", connectionID, err)
	}
	return mappings, nil
}

// UpsertMapping creates the mapping of (connection, external client id) or
// replaces the existing one.
func (s *Store) UpsertMapping(ctx context.Context, mapping *models.ClientMapping) error {
	var existing models.ClientMapping
	err := s.db.WithContext(ctx).
		Where("connection_id = ? AND external_client_id = ?", mapping.ConnectionID, mapping.ExternalClientID).
		First(&existing).Error
	switch {
	case err == nil:
		mapping.ID = existing.ID
		mapping.CreatedAt = existing.CreatedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to look up client mapping %s: %w", mapping.ExternalClientID, err)
	}
	return s.SaveMapping(ctx, mapping)
}
