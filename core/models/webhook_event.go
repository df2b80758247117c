package models

import (
	"time"
)

// Webhook event statuses.
const (
	EventReceived   = "received"
	EventProcessing = "processing"
	EventProcessed  = "processed"
	EventFailed     = "failed"
	EventIgnored    = "ignored"
)

// WebhookEvent is the durable record of one received push payload.
// It doubles as the work item of the webhook queue.
type WebhookEvent struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	EventID       string            `gorm:"column:event_id;type:varchar(36);uniqueIndex" json:"event_id"`
	ConnectionID  uint              `gorm:"column:connection_id;index:idx_webhook_events_vendor,priority:1" json:"connection_id"`
	Provider      string            `gorm:"column:provider;type:varchar(64)" json:"provider"`
	EventType     string            `gorm:"column:event_type;type:varchar(128)" json:"event_type"`
	VendorEventID string            `gorm:"column:vendor_event_id;type:varchar(191);index:idx_webhook_events_vendor,priority:2" json:"vendor_event_id"`
	Headers       map[string]string `gorm:"column:headers;type:text;serializer:json" json:"headers"`
	Payload       string            `gorm:"column:payload;type:longtext" json:"payload"`
	Status        string            `gorm:"column:status;type:varchar(16);index" json:"status"`
	ErrorMessage  string            `gorm:"column:error_message;type:text" json:"error_message"`
	ArchiveKey    string            `gorm:"column:archive_key;type:varchar(512)" json:"archive_key,omitempty"`
	ReceivedAt    time.Time         `gorm:"column:received_at" json:"received_at"`
	ProcessedAt   *time.Time        `gorm:"column:processed_at" json:"processed_at"`
	SyncRunID     *uint             `gorm:"column:sync_run_id" json:"sync_run_id"`
}

// TableName implements gorm's Tabler.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// IsSettled reports whether the event must not be processed again.
func (e *WebhookEvent) IsSettled() bool {
	switch e.Status {
	case EventProcessed, EventIgnored, EventFailed:
		return true
	default:
		return false
	}
}
