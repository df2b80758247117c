// Package config provides configuration management for asset-sync.
//
// It loads an optional .env file with godotenv, registers defaults from the
// `default` struct tags with Viper, maps environment variables onto nested
// keys (SYNC_MAX_RETRIES -> sync.max_retries) and validates the result with
// go-playground/validator.
//
// # Configuration Structure
//
//   - Server: HTTP port, admin API key, body limit
//   - Database: MySQL or sqlite connection details
//   - Storage: MinIO/S3 webhook payload archive
//   - Log: level and format
//   - Sync: sweep intervals, retry budget and backoff, stale run timeout
//   - Provider: page cap, rate limit and circuit breaker for vendor calls
//   - Webhook: dispatcher lanes, signature skew, recovery on start
//   - Redis: distributed locks
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
