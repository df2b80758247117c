// Package lock provides per-key mutual exclusion for sync runs.
//
// Local serves single-process deployments. Redis (bsm/redislock) is used when
// several instances share one database, so a pull and a push on the same
// connection never overlap across the cluster.
package lock
