package models

import (
	"time"
)

// Direction of a sync run.
const (
	DirectionPull = "pull"
	DirectionPush = "push"
)

// Sync run statuses.
const (
	RunPending = "pending"
	RunRunning = "running"
	RunSuccess = "success"
	RunPartial = "partial"
	RunFailed  = "failed"
)

// SyncRun records one pull or push reconciliation against a connection.
type SyncRun struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	RunID          string     `gorm:"column:run_id;type:varchar(36);uniqueIndex" json:"run_id"`
	ConnectionID   uint       `gorm:"column:connection_id;index:idx_sync_runs_connection_status" json:"connection_id"`
	Direction      string     `gorm:"column:direction;type:varchar(8)" json:"direction"`
	Status         string     `gorm:"column:status;type:varchar(16);index:idx_sync_runs_connection_status;index:idx_sync_runs_retry" json:"status"`
	ItemsProcessed int        `gorm:"column:items_processed" json:"items_processed"`
	ItemsCreated   int        `gorm:"column:items_created" json:"items_created"`
	ItemsUpdated   int        `gorm:"column:items_updated" json:"items_updated"`
	ItemsFailed    int        `gorm:"column:items_failed" json:"items_failed"`
	RetryCount     int        `gorm:"column:retry_count" json:"retry_count"`
	NextRetryAt    *time.Time `gorm:"column:next_retry_at;index:idx_sync_runs_retry" json:"next_retry_at"`
	Summary        string     `gorm:"column:summary;type:text" json:"summary"`
	ErrorMessage   string     `gorm:"column:error_message;type:text" json:"error_message"`
	StartedAt      time.Time  `gorm:"column:started_at" json:"started_at"`
	FinishedAt     *time.Time `gorm:"column:finished_at" json:"finished_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName implements gorm's Tabler.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// IsTerminal reports whether the run reached success, partial or failed.
func (r *SyncRun) IsTerminal() bool {
	switch r.Status {
	case RunSuccess, RunPartial, RunFailed:
		return true
	default:
		return false
	}
}

// ResetCounters clears item counters before a run is executed again.
func (r *SyncRun) ResetCounters() {
	r.ItemsProcessed = 0
	r.ItemsCreated = 0
	r.ItemsUpdated = 0
	r.ItemsFailed = 0
	r.Summary = ""
	r.ErrorMessage = ""
	r.FinishedAt = nil
}
