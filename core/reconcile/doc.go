// Package reconcile writes normalized vendor items into the canonical asset store.
//
// Each item is matched on its natural key (connection, external id, external
// type): a new key is inserted, a known key has its mutable fields and
// last-seen time updated. Reconciliation is idempotent, so replaying the same
// payload only produces repeated updates. Assets missing from a feed are never
// deleted here.
//
// # Client resolution
//
// An item's internal client is, in order:
//
//  1. the active ClientMapping of (connection, external client id),
//  2. the connection's own ClientID,
//  3. none.
//
// Mapping lookups go through MappingCache, a TTL cache with singleflight
// stampede protection.
//
// # Bookkeeping
//
// Tally accumulates per-item outcomes for a run and copies them onto the
// SyncRun record.
package reconcile
