package models

import (
	"time"
)

// Auth types a connection can declare. Vendor adapters with a fixed scheme ignore it.
const (
	AuthBearer    = "bearer"
	AuthBasic     = "basic"
	AuthHeader    = "header"
	AuthComposite = "composite"
	AuthNone      = "none"
)

const (
	// DefaultSyncFrequencyMinutes is applied when a connection has no frequency set.
	DefaultSyncFrequencyMinutes = 60
	// DefaultTimeout bounds every vendor HTTP call unless the connection overrides it.
	DefaultTimeout = 30 * time.Second
)

// Connection is one configured integration instance of a vendor.
type Connection struct {
	ID                   uint               `gorm:"primaryKey" json:"id"`
	Name                 string             `gorm:"column:name;type:varchar(191)" json:"name" validate:"required"`
	ProviderKey          string             `gorm:"column:provider_key;type:varchar(64);index" json:"provider_key" validate:"required"`
	AuthType             string             `gorm:"column:auth_type;type:varchar(32)" json:"auth_type" validate:"omitempty,oneof=bearer basic header composite none"`
	BaseURL              string             `gorm:"column:base_url;type:varchar(512)" json:"base_url" validate:"required,url"`
	Credentials          map[string]string  `gorm:"column:credentials;type:text;serializer:json" json:"-"`
	Settings             ConnectionSettings `gorm:"column:settings;type:text;serializer:json" json:"settings"`
	WebhookSecret        string             `gorm:"column:webhook_secret;type:varchar(255)" json:"-"`
	SyncFrequencyMinutes int                `gorm:"column:sync_frequency_minutes" json:"sync_frequency_minutes" validate:"gte=0"`
	LastSyncedAt         *time.Time         `gorm:"column:last_synced_at" json:"last_synced_at"`
	Active               bool               `gorm:"column:active;index" json:"active"`
	ClientID             *uint              `gorm:"column:client_id" json:"client_id"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// TableName implements gorm's Tabler.
func (Connection) TableName() string {
	return "connections"
}

// ConnectionSettings holds per-connection overrides of adapter defaults.
type ConnectionSettings struct {
	// Endpoints overrides vendor paths by logical name ("assets", "clients").
	Endpoints map[string]string `json:"endpoints,omitempty"`
	// PageSize overrides the adapter's default page size.
	PageSize int `json:"page_size,omitempty"`
	// TimeoutSeconds overrides DefaultTimeout.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	// PageParam, SizeParam and SinceParam name the query parameters used by the custom adapter.
	PageParam  string `json:"page_param,omitempty"`
	SizeParam  string `json:"size_param,omitempty"`
	SinceParam string `json:"since_param,omitempty"`
	// ItemsKey is the response key holding the item array for the custom adapter.
	ItemsKey string `json:"items_key,omitempty"`
	// Headers are sent with every vendor request.
	Headers map[string]string `json:"headers,omitempty"`
}

// Credential returns a credential value or "".
func (c *Connection) Credential(key string) string {
	if c.Credentials == nil {
		return ""
	}
	return c.Credentials[key]
}

// Endpoint returns the configured override for name, or fallback.
func (c *Connection) Endpoint(name, fallback string) string {
	if v, ok := c.Settings.Endpoints[name]; ok && v != "" {
		return v
	}
	return fallback
}

// PageSize returns the configured page size, or fallback when unset.
func (c *Connection) PageSize(fallback int) int {
	if c.Settings.PageSize > 0 {
		return c.Settings.PageSize
	}
	return fallback
}

// Timeout returns the per-request timeout for vendor calls.
func (c *Connection) Timeout() time.Duration {
	if c.Settings.TimeoutSeconds > 0 {
		return time.Duration(c.Settings.TimeoutSeconds) * time.Second
	}
	return DefaultTimeout
}

// Frequency returns the sync interval.
func (c *Connection) Frequency() time.Duration {
	minutes := c.SyncFrequencyMinutes
	if minutes <= 0 {
		minutes = DefaultSyncFrequencyMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// IsDue reports whether an active connection should be pulled at now.
// A connection that never synced is always due.
func (c *Connection) IsDue(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.LastSyncedAt == nil {
		return true
	}
	return !now.Before(c.LastSyncedAt.Add(c.Frequency()))
}
