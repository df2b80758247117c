package store

import (
	"context"
	"errors"
	"fmt"

	"asset-sync/core/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the GORM-backed persistence layer for connections, sync runs,
// external assets, client mappings and webhook events.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for schema inspection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the tables for every model.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// notFound converts gorm's not-found error into ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
