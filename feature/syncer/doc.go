// Package syncer runs pull and push syncs of connections into the asset store.
//
// A pull sync loads the connection, takes its lock, creates a running SyncRun,
// fetches items changed since the last successful sync and reconciles them one
// by one. The run ends as success, partial or failed; failed pull runs get a
// NextRetryAt computed with exponential backoff, and RetryFailedRuns
// re-executes them on the same record until the retry budget is spent.
//
// At most one run per connection is active at a time: the lock covers this
// process (or the cluster, with the Redis locker) and the run table covers
// runs left by crashed processes. SweepStaleRuns fails runs stuck in running.
//
// Periodic entry points (SyncDue, RetryFailedRuns, SweepStaleRuns) are safe to
// call repeatedly and concurrently.
package syncer
