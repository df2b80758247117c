package itglue

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-sync/core/models"
	"asset-sync/feature/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchAssets(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		if r.URL.Query().Get("cursor") == "" {
			assert.Equal(t, "1", r.URL.Query().Get("page[number]"))
			assert.Equal(t, "1000", r.URL.Query().Get("page[size]"))
			assert.Equal(t, "2026-02-01T00:00:00Z,*", r.URL.Query().Get("filter[updated_at]"))
			fmt.Fprintf(w, `{"data":[{"id":"1","type":"configurations","attributes":{
				"name":"FW","hostname":"fw.local","primary-ip":"10.0.0.1",
				"configuration-status-name":"Active","organization-id":9,"organization-name":"Acme",
				"updated-at":"2026-02-10T00:00:00.000Z"}}],
				"links":{"next":"%s/configurations?cursor=2"}}`, srv.URL)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"2","type":"configurations","attributes":{"name":"SW"}}],"links":{}}`))
	}))
	defer srv.Close()

	p := New(provider.NewRequester(provider.Config{MaxPages: 5, RateLimit: 1000, RateBurst: 1000}, zap.NewNop()))
	conn := &models.Connection{ID: 1, BaseURL: srv.URL, Credentials: map[string]string{"api_key": "key"}}

	assets, err := p.FetchAssets(context.Background(), conn, &since)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	a := assets[0]
	assert.Equal(t, "1", a.ExternalID)
	assert.Equal(t, "configuration", a.ExternalType)
	assert.Equal(t, "FW", a.Name)
	assert.Equal(t, "fw.local", a.Hostname)
	assert.Equal(t, "10.0.0.1", a.IPAddress)
	assert.Equal(t, "Active", a.Status)
	assert.Equal(t, "9", a.ExternalClientID)
	assert.Equal(t, "Acme", a.ExternalClientName)
	assert.Equal(t, "SW", assets[1].Name)
}

func TestMapWebhookPayload_JSONAPIEnvelope(t *testing.T) {
	p := New(provider.NewRequester(provider.DefaultConfig(), zap.NewNop()))
	assets, err := p.MapWebhookPayload(context.Background(), nil, []byte(`{"data":{"id":"5","type":"configurations","attributes":{"name":"AP-1"}}}`))
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "5", assets[0].ExternalID)
	assert.Equal(t, "AP-1", assets[0].Name)
}
