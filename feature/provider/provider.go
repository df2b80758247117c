package provider

import (
	"context"
	"errors"
	"time"

	"asset-sync/core/models"
)

var (
	// ErrPageLimit is returned when a pagination loop hits the page cap with more pages announced.
	ErrPageLimit = errors.New("page limit reached")
	// ErrRepeatedCursor is returned when a vendor hands back a cursor it already returned.
	ErrRepeatedCursor = errors.New("vendor returned a cursor twice")
	// ErrMissingCredential is returned when a connection lacks a credential its auth scheme needs.
	ErrMissingCredential = errors.New("missing credential")
)

// Provider is the uniform contract every vendor adapter implements.
type Provider interface {
	// Key is the stable registry key stored on connections.
	Key() string
	// DisplayName is shown in configuration UIs.
	DisplayName() string
	// FetchAssets pulls inventory, incrementally when since is set and the vendor supports it.
	// On a mid-pagination failure it returns the items gathered so far together with the error.
	FetchAssets(ctx context.Context, conn *models.Connection, since *time.Time) ([]NormalizedAsset, error)
	// DiscoverClients lists vendor-side tenants for client mapping.
	DiscoverClients(ctx context.Context, conn *models.Connection) ([]DiscoveredClient, error)
	// MapWebhookPayload converts one push payload into normalized items.
	MapWebhookPayload(ctx context.Context, conn *models.Connection, payload []byte) ([]NormalizedAsset, error)
}

// NormalizedAsset is the vendor-neutral shape of one inventory item.
type NormalizedAsset struct {
	ExternalID         string         `json:"external_id"`
	ExternalType       string         `json:"external_type"`
	Name               string         `json:"name"`
	Hostname           string         `json:"hostname"`
	IPAddress          string         `json:"ip_address"`
	Status             string         `json:"status"`
	ExternalClientID   string         `json:"external_client_id,omitempty"`
	ExternalClientName string         `json:"external_client_name,omitempty"`
	Metadata           map[string]any `json:"metadata"`
	LastSeenAt         time.Time      `json:"last_seen_at"`
}

// DiscoveredClient is a vendor-side tenant (company, site, organization).
type DiscoveredClient struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// Config holds limits applied to outbound vendor calls.
type Config struct {
	// MaxPages caps every pagination loop.
	MaxPages int `mapstructure:"max_pages" default:"500" validate:"gte=1"`
	// RateLimit is the sustained requests per second allowed per connection.
	RateLimit float64 `mapstructure:"rate_limit" default:"5" validate:"gt=0"`
	// RateBurst is the token bucket size per connection.
	RateBurst int `mapstructure:"rate_burst" default:"10" validate:"gte=1"`
	// BreakerFailures is the number of consecutive failures that opens a connection's breaker.
	BreakerFailures uint32 `mapstructure:"breaker_failures" default:"5" validate:"gte=1"`
	// BreakerTimeoutSeconds is how long an open breaker rejects calls before probing.
	BreakerTimeoutSeconds int `mapstructure:"breaker_timeout_seconds" default:"60" validate:"gte=1"`
}

// DefaultConfig mirrors the struct tag defaults for callers that do not load configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:              500,
		RateLimit:             5,
		RateBurst:             10,
		BreakerFailures:       5,
		BreakerTimeoutSeconds: 60,
	}
}
