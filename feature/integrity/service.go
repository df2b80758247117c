package integrity

import (
	"context"

	"asset-sync/core/models"
	"asset-sync/core/storage"
	"asset-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db         *gorm.DB
	client     storage.Client
	storageCfg storage.Config
	logger     *zap.Logger
}

// NewService creates a new integrity service.
// client may be nil when webhook archiving is disabled.
func NewService(db *gorm.DB, client storage.Client, storageCfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		client:     client,
		storageCfg: storageCfg,
		logger:     logger,
	}
}

// CheckSchema compares the live tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}

// CheckArchive verifies the webhook archive bucket, creating it when fix is set.
func (s *Service) CheckArchive(ctx context.Context, fix bool) (*checks.ArchiveReport, error) {
	return checks.CheckArchive(ctx, s.client, s.storageCfg, fix, s.logger)
}
