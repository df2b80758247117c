package models

import (
	"time"
)

// DefaultExternalType is used when a vendor item carries no type.
const DefaultExternalType = "asset"

// ExternalAsset is the canonical record of one vendor inventory item.
// The natural key is (ConnectionID, ExternalID, ExternalType).
type ExternalAsset struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ConnectionID       uint           `gorm:"column:connection_id;uniqueIndex:idx_external_assets_natural_key,priority:1" json:"connection_id"`
	ExternalID         string         `gorm:"column:external_id;type:varchar(191);not null;uniqueIndex:idx_external_assets_natural_key,priority:2" json:"external_id"`
	ExternalType       string         `gorm:"column:external_type;type:varchar(64);not null;uniqueIndex:idx_external_assets_natural_key,priority:3" json:"external_type"`
	Name               string         `gorm:"column:name;type:varchar(255)" json:"name"`
	Hostname           string         `gorm:"column:hostname;type:varchar(255)" json:"hostname"`
	IPAddress          string         `gorm:"column:ip_address;type:varchar(64)" json:"ip_address"`
	Status             string         `gorm:"column:status;type:varchar(64)" json:"status"`
	ExternalClientID   string         `gorm:"column:external_client_id;type:varchar(191)" json:"external_client_id"`
	ExternalClientName string         `gorm:"column:external_client_name;type:varchar(255)" json:"external_client_name"`
	Metadata           map[string]any `gorm:"column:metadata;type:text;serializer:json" json:"metadata"`
	LastSeenAt         time.Time      `gorm:"column:last_seen_at;index" json:"last_seen_at"`
	ClientID           *uint          `gorm:"column:client_id;index" json:"client_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// TableName implements gorm's Tabler.
func (ExternalAsset) TableName() string {
	return "external_assets"
}

// ClientMapping links a vendor-side tenant of a connection to an internal client.
type ClientMapping struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ConnectionID       uint      `gorm:"column:connection_id;uniqueIndex:idx_client_mappings_key,priority:1" json:"connection_id"`
	ExternalClientID   string    `gorm:"column:external_client_id;type:varchar(191);uniqueIndex:idx_client_mappings_key,priority:2" json:"external_client_id"`
	ExternalClientName string    `gorm:"column:external_client_name;type:varchar(255)" json:"external_client_name"`
	ClientID           uint      `gorm:"column:client_id" json:"client_id"`
	Active             bool      `gorm:"column:active" json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName implements gorm's Tabler.
func (ClientMapping) TableName() string {
	return "client_mappings"
}
