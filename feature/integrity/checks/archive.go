package checks

import (
	"context"
	"fmt"

	"asset-sync/core/storage"

	"go.uber.org/zap"
)

// ArchiveReport describes the webhook archive bucket.
type ArchiveReport struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket"`
	Exists  bool   `json:"exists"`
	Created bool   `json:"created"`
	Status  string `json:"status"` // "disabled", "ok", "missing" or "fixed"
}

// CheckArchive verifies the archive bucket exists and creates it when fix is set.
// A nil client means archiving is disabled.
func CheckArchive(ctx context.Context, client storage.Client, cfg storage.Config, fix bool, logger *zap.Logger) (*ArchiveReport, error) {
	report := &ArchiveReport{Bucket: cfg.Bucket, Status: "disabled"}
	if client == nil {
		return report, nil
	}
	report.Enabled = true

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if exists {
		report.Status = "ok"
		return report, nil
	}

	report.Status = "missing"
	if !fix {
		return report, nil
	}

	if err := storage.NewArchive(client, cfg).EnsureBucket(ctx); err != nil {
		logger.Error("Failed to create archive bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
		return nil, err
	}
	logger.Info("Created missing archive bucket", zap.String("bucket", cfg.Bucket))

	report.Exists = true
	report.Created = true
	report.Status = "fixed"
	return report, nil
}
