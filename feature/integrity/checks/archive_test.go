package checks

import (
	"context"
	"testing"

	"asset-sync/core/storage"
	"asset-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckArchive(t *testing.T) {
	ctx := context.Background()
	cfg := storage.Config{Bucket: "hooks"}
	logger := zap.NewNop()

	t.Run("Disabled", func(t *testing.T) {
		report, err := CheckArchive(ctx, nil, cfg, false, logger)
		require.NoError(t, err)
		assert.False(t, report.Enabled)
		assert.Equal(t, "disabled", report.Status)
	})

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "hooks").Return(true, nil)

		report, err := CheckArchive(ctx, client, cfg, false, logger)
		require.NoError(t, err)
		assert.True(t, report.Exists)
		assert.Equal(t, "ok", report.Status)
	})

	t.Run("Missing Without Fix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "hooks").Return(false, nil)

		report, err := CheckArchive(ctx, client, cfg, false, logger)
		require.NoError(t, err)
		assert.False(t, report.Exists)
		assert.Equal(t, "missing", report.Status)
		client.AssertNotCalled(t, "MakeBucket")
	})

	t.Run("Missing With Fix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "hooks").Return(false, nil)
		client.On("MakeBucket", ctx, "hooks", minio.MakeBucketOptions{}).Return(nil)

		report, err := CheckArchive(ctx, client, cfg, true, logger)
		require.NoError(t, err)
		assert.True(t, report.Created)
		assert.Equal(t, "fixed", report.Status)
		client.AssertExpectations(t)
	})

	t.Run("Check Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "hooks").Return(false, assert.AnError)

		_, err := CheckArchive(ctx, client, cfg, false, logger)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
