package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"asset-sync/core/metrics"
	"asset-sync/core/models"
	"asset-sync/feature/provider"

	"go.uber.org/zap"
)

// Store is the persistence the reconciler needs.
type Store interface {
	UpsertAsset(ctx context.Context, asset *models.ExternalAsset) (bool, error)
	FindActiveMapping(ctx context.Context, connectionID uint, externalClientID string) (*models.ClientMapping, error)
}

// Reconciler writes normalized items into the canonical asset store.
type Reconciler struct {
	store    Store
	mappings *MappingCache
	logger   *zap.Logger
}

// New creates a Reconciler whose client mapping lookups are cached for ttl.
func New(store Store, ttl time.Duration, logger *zap.Logger) *Reconciler {
	r := &Reconciler{store: store, logger: logger}
	r.mappings = NewMappingCache(r.loadMapping, ttl)
	return r
}

// Mappings exposes the mapping cache so writers can invalidate it.
func (r *Reconciler) Mappings() *MappingCache {
	return r.mappings
}

func (r *Reconciler) loadMapping(ctx context.Context, connectionID uint, externalClientID string) (*uint, error) {
	m, err := r.store.FindActiveMapping(ctx, connectionID, externalClientID)
	if err != nil || m == nil {
		return nil, err
	}
	id := m.ClientID
	return &id, nil
}

// Reconcile upserts one item by its natural key. Items without an external id
// are skipped.
func (r *Reconciler) Reconcile(ctx context.Context, conn *models.Connection, item provider.NormalizedAsset) (Outcome, error) {
	externalID := strings.TrimSpace(item.ExternalID)
	if externalID == "" {
		return Skipped, nil
	}

	externalType := item.ExternalType
	if externalType == "" {
		externalType = models.DefaultExternalType
	}
	lastSeen := item.LastSeenAt
	if lastSeen.IsZero() {
		lastSeen = time.Now()
	}

	clientID, err := r.resolveClient(ctx, conn, item.ExternalClientID)
	if err != nil {
		return Failed, fmt.Errorf("failed to resolve client for %s: %w", externalID, err)
	}

	asset := &models.ExternalAsset{
		ConnectionID:       conn.ID,
		ExternalID:         externalID,
		ExternalType:       externalType,
		Name:               item.Name,
		Hostname:           item.Hostname,
		IPAddress:          item.IPAddress,
		Status:             item.Status,
		ExternalClientID:   item.ExternalClientID,
		ExternalClientName: item.ExternalClientName,
		Metadata:           item.Metadata,
		LastSeenAt:         lastSeen.UTC(),
		ClientID:           clientID,
	}

	created, err := r.store.UpsertAsset(ctx, asset)
	if err != nil {
		return Failed, err
	}
	if created {
		return Created, nil
	}
	return Updated, nil
}

// resolveClient prefers an active mapping of the vendor tenant, then the
// connection's own client.
func (r *Reconciler) resolveClient(ctx context.Context, conn *models.Connection, externalClientID string) (*uint, error) {
	if externalClientID != "" {
		id, err := r.mappings.Get(ctx, conn.ID, externalClientID)
		if err != nil {
			return nil, err
		}
		if id != nil {
			return id, nil
		}
	}
	return conn.ClientID, nil
}

// ReconcileAll reconciles items one by one. A failing item is counted and
// logged; it never stops the loop. Cancellation of ctx does.
func (r *Reconciler) ReconcileAll(ctx context.Context, conn *models.Connection, items []provider.NormalizedAsset) (*Tally, error) {
	tally := &Tally{}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return tally, err
		}

		outcome, err := r.Reconcile(ctx, conn, item)
		tally.Record(outcome, err)
		if err != nil {
			outcome = Failed
			r.logger.Warn("Failed to reconcile item",
				zap.Uint("connection_id", conn.ID),
				zap.String("external_id", item.ExternalID),
				zap.Error(err),
			)
		}
		metrics.AssetsReconciledTotal.WithLabelValues(conn.ProviderKey, string(outcome)).Inc()
	}
	return tally, nil
}
