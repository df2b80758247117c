// Package store is the persistence layer of the canonical asset store.
//
// It wraps GORM with the queries the sync orchestrator, reconciler, retry
// scheduler and webhook pipeline need. Two operations carry concurrency
// guarantees of their own:
//
//   - UpsertAsset resolves insert races on the natural key by retrying as an update.
//   - ClaimRetry is a conditional update, so a failed run is retried by one sweeper only.
//
// Missing records surface as ErrNotFound (checked with errors.Is), except for
// lookups where absence is a normal outcome (client mappings, vendor event ids),
// which return nil.
package store
