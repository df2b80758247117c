// Package supervisor runs the long-lived parts of the service (HTTP server,
// webhook dispatcher, sweepers) under a suture tree that restarts them on failure.
package supervisor
