package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"asset-sync/core/database"
	"asset-sync/core/models"
	"asset-sync/core/storage"
	"asset-sync/core/storage/mocks"
	"asset-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, client storage.Client, migrate bool) *fiber.App {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	if migrate {
		require.NoError(t, db.AutoMigrate(models.All()...))
	}

	svc := NewService(db, client, storage.Config{Bucket: "hooks"}, zap.NewNop())
	feature := NewFeature(svc)
	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func TestHandleSchemaCheck(t *testing.T) {
	t.Run("Matched", func(t *testing.T) {
		app := setupTestApp(t, nil, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var report checks.SchemaReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.True(t, report.Matched)
		assert.Equal(t, "sqlite", report.Driver)
	})

	t.Run("Unmigrated", func(t *testing.T) {
		app := setupTestApp(t, nil, false)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var report checks.SchemaReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.False(t, report.Matched)
		assert.Equal(t, "missing", report.Tables["connections"].Status)
	})
}

func TestHandleArchiveCheck(t *testing.T) {
	t.Run("Fix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "hooks").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "hooks", minio.MakeBucketOptions{}).Return(nil)
		app := setupTestApp(t, client, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var report checks.ArchiveReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, "fixed", report.Status)
		client.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "hooks").Return(false, assert.AnError)
		app := setupTestApp(t, client, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app := setupTestApp(t, nil, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["schema"]["matched"])
	assert.Equal(t, "disabled", body["archive"]["status"])
}
