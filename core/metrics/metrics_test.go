package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	start := time.Now()
	ObserveRun("datto", "pull", "success", start, start.Add(time.Second))
	AssetsReconciledTotal.WithLabelValues("hudu", "created").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `asset_sync_assets_reconciled_total{outcome="created",provider="hudu"}`)
	assert.Contains(t, string(body), `asset_sync_runs_total{direction="pull",provider="datto",status="success"}`)
}
