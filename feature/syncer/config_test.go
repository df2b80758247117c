package syncer

import (
	"errors"
	"testing"
	"time"

	"asset-sync/core/models"
	"asset-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Backoff(t *testing.T) {
	cfg := Config{RetryBaseSeconds: 60, RetryMaxSeconds: 600}

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, time.Minute},
		{1, 2 * time.Minute},
		{2, 4 * time.Minute},
		{3, 8 * time.Minute},
		{4, 10 * time.Minute},
		{30, 10 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Backoff(tt.retryCount), "retry count %d", tt.retryCount)
	}
}

func TestRunStatus(t *testing.T) {
	fetchErr := errors.New("page 3: 502")

	tests := []struct {
		name  string
		tally reconcile.Tally
		err   error
		want  string
	}{
		{"Empty feed", reconcile.Tally{}, nil, models.RunSuccess},
		{"All written", reconcile.Tally{Processed: 2, Created: 1, Updated: 1}, nil, models.RunSuccess},
		{"Only skipped", reconcile.Tally{Skipped: 3}, nil, models.RunSuccess},
		{"Some items failed", reconcile.Tally{Processed: 2, Created: 1, Failed: 1}, nil, models.RunPartial},
		{"Mid pagination error", reconcile.Tally{Processed: 5, Created: 5}, fetchErr, models.RunPartial},
		{"Fetch failed before items", reconcile.Tally{}, fetchErr, models.RunFailed},
		{"Every item failed", reconcile.Tally{Processed: 2, Failed: 2}, nil, models.RunFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RunStatus(&tt.tally, tt.err))
		})
	}
}
