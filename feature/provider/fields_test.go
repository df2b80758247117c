package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestLookup(t *testing.T) {
	item := map[string]any{
		"id":          float64(7),
		"attributes":  map[string]any{"name": "SRV"},
		"ipAddresses": []any{"10.0.0.1", "10.0.0.2"},
	}

	v, ok := Lookup(item, "attributes.name")
	assert.True(t, ok)
	assert.Equal(t, "SRV", v)

	v, ok = Lookup(item, "ipAddresses.1")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.2", v)

	_, ok = Lookup(item, "ipAddresses.5")
	assert.False(t, ok)
	_, ok = Lookup(item, "attributes.missing")
	assert.False(t, ok)
	_, ok = Lookup(item, "id.nested")
	assert.False(t, ok)
}

func TestFirstString(t *testing.T) {
	item := map[string]any{
		"id":          float64(123),
		"external_id": "ext",
		"name":        "  ",
		"nested":      map[string]any{"x": 1},
	}
	assert.Equal(t, "123", FirstString(item, "id", "external_id"))
	assert.Equal(t, "ext", FirstString(item, "missing", "external_id"))
	assert.Equal(t, "", FirstString(item, "name", "nested"))
}

func TestNormalize_Defaults(t *testing.T) {
	asset, ok := Normalize(map[string]any{"id": float64(123)}, DefaultFields, testNow)
	require.True(t, ok)

	assert.Equal(t, "123", asset.ExternalID)
	assert.Equal(t, "asset", asset.ExternalType)
	assert.Equal(t, DefaultAssetName, asset.Name)
	assert.Equal(t, testNow, asset.LastSeenAt)
	assert.Equal(t, float64(123), asset.Metadata["id"])
}

func TestNormalize_FieldsAndAdjust(t *testing.T) {
	m := FieldMap{
		ID:          []string{"uid"},
		Name:        []string{"hostname"},
		Hostname:    []string{"hostname"},
		LastSeen:    []string{"seen"},
		DefaultType: "device",
		DefaultName: "Unnamed Device",
		Adjust: func(item map[string]any, a *NormalizedAsset) {
			a.Status = "custom"
		},
	}

	asset, ok := Normalize(map[string]any{"uid": "u-1", "hostname": "pc-1", "seen": "2026-02-01T00:00:00Z"}, m, testNow)
	require.True(t, ok)
	assert.Equal(t, "device", asset.ExternalType)
	assert.Equal(t, "pc-1", asset.Name)
	assert.Equal(t, "custom", asset.Status)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), asset.LastSeenAt)

	asset, ok = Normalize(map[string]any{"uid": "u-2"}, m, testNow)
	require.True(t, ok)
	assert.Equal(t, "Unnamed Device", asset.Name)
}

func TestNormalizeAll_SkipsItemsWithoutID(t *testing.T) {
	items := []any{
		map[string]any{"id": float64(123), "name": "Server1"},
		map[string]any{"name": "NoId"},
		"not an object",
	}

	assets := NormalizeAll(items, DefaultFields, testNow)
	require.Len(t, assets, 1)
	assert.Equal(t, "123", assets[0].ExternalID)
	assert.Equal(t, "Server1", assets[0].Name)
}

func TestNormalize_JSONAPI(t *testing.T) {
	item := map[string]any{
		"id":   "55",
		"type": "configurations",
		"attributes": map[string]any{
			"name":       "FW-01",
			"hostname":   "fw01.local",
			"ip_address": "192.168.1.1",
			"updated_at": "2026-01-05T10:00:00Z",
		},
	}
	asset, ok := Normalize(item, DefaultFields, testNow)
	require.True(t, ok)
	assert.Equal(t, "asset", asset.ExternalType)
	assert.Equal(t, "FW-01", asset.Name)
	assert.Equal(t, "fw01.local", asset.Hostname)
	assert.Equal(t, "192.168.1.1", asset.IPAddress)
}

func TestWithFallback(t *testing.T) {
	m := FieldMap{ID: []string{"uid"}}.WithFallback(DefaultFields)
	assert.Equal(t, "uid", m.ID[0])
	assert.Contains(t, m.ID, "id")

	asset, ok := Normalize(map[string]any{"id": "x"}, m, testNow)
	require.True(t, ok)
	assert.Equal(t, "x", asset.ExternalID)
}

func TestExtractWebhookItems(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ids     []string
	}{
		{"Bare Item", `{"id":1,"name":"a"}`, []string{"1"}},
		{"Array", `[{"id":1},{"id":2}]`, []string{"1", "2"}},
		{"Asset Wrapper", `{"event":"updated","asset":{"id":3}}`, []string{"3"}},
		{"Assets Wrapper", `{"assets":[{"id":4},{"id":5}]}`, []string{"4", "5"}},
		{"Data Envelope", `{"data":{"id":6,"attributes":{"name":"x"}}}`, []string{"6"}},
		{"Data Array", `{"data":[{"id":7}]}`, []string{"7"}},
		{"Data Wrapping Assets", `{"data":{"assets":[{"id":8}]}}`, []string{"8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ExtractWebhookItems([]byte(tt.payload))
			require.NoError(t, err)

			var ids []string
			for _, it := range items {
				ids = append(ids, FirstString(it, "id"))
			}
			assert.Equal(t, tt.ids, ids)
		})
	}

	_, err := ExtractWebhookItems([]byte(`not json`))
	assert.Error(t, err)
}

func TestMapWebhook(t *testing.T) {
	assets, err := MapWebhook([]byte(`{"assets":[{"id":123,"name":"Server1"},{"name":"NoId"}]}`), DefaultFields, testNow)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "123", assets[0].ExternalID)
}

func TestItemsAtAndClients(t *testing.T) {
	body := map[string]any{"sites": []any{
		map[string]any{"uid": "s1", "name": "HQ"},
		map[string]any{"name": "no id"},
	}}
	items := ItemsAt(body, "devices", "sites")
	require.Len(t, items, 2)

	clients := Clients(items, []string{"uid"}, []string{"name"})
	assert.Equal(t, []DiscoveredClient{{ExternalID: "s1", Name: "HQ"}}, clients)

	assert.Nil(t, ItemsAt(map[string]any{"x": 1}, "sites"))
}
