// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the admin API key, the request body
// limit and the graceful shutdown timeout. The server itself is assembled in
// cmd/start.go and run under core/supervisor.
package server
