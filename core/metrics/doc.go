// Package metrics exposes Prometheus collectors for sync runs, vendor calls and the webhook queue.
package metrics
