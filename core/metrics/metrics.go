package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SyncRunsTotal counts finished runs by provider, direction and status.
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_sync_runs_total",
		Help: "Total number of finished sync runs",
	}, []string{"provider", "direction", "status"})

	// SyncRunDuration measures run wall time.
	SyncRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_sync_run_duration_seconds",
		Help:    "Sync run duration in seconds",
		Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"provider", "direction"})

	// AssetsReconciledTotal counts reconcile outcomes.
	AssetsReconciledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_sync_assets_reconciled_total",
		Help: "Total number of reconciled items by outcome",
	}, []string{"provider", "outcome"})

	// ProviderRequestsTotal counts outbound vendor calls by result code.
	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_sync_provider_requests_total",
		Help: "Total number of vendor API requests",
	}, []string{"provider", "code"})

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "asset_sync_provider_breaker_state",
		Help: "Circuit breaker state per connection (0 closed, 1 half-open, 2 open)",
	}, []string{"breaker"})

	// WebhookEventsTotal counts received and settled webhook events.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_sync_webhook_events_total",
		Help: "Total number of webhook events by status",
	}, []string{"provider", "status"})

	// WebhookQueueDepth is the number of events enqueued but not yet processed.
	WebhookQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asset_sync_webhook_queue_depth",
		Help: "Webhook events waiting in dispatcher lanes",
	})

	// RetriesTotal counts retry scheduler attempts by result.
	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_sync_retries_total",
		Help: "Total number of failed-run retry attempts",
	}, []string{"result"})
)

// ObserveRun records a finished run.
func ObserveRun(provider, direction, status string, started, finished time.Time) {
	SyncRunsTotal.WithLabelValues(provider, direction, status).Inc()
	SyncRunDuration.WithLabelValues(provider, direction).Observe(finished.Sub(started).Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
