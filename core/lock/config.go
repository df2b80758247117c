package lock

// Config holds configuration for the Redis connection used for distributed locks.
type Config struct {
	// Enabled switches from in-process locks to Redis locks.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the Redis host:port.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0" validate:"gte=0"`
	// LockTTLSeconds is the lease of a lock; held locks are refreshed at half of it.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"60" validate:"gte=1"`
	// KeyPrefix namespaces lock keys.
	KeyPrefix string `mapstructure:"key_prefix" default:"asset-sync:lock:"`
}
