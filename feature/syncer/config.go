package syncer

import "time"

// Config holds scheduling and retry settings.
type Config struct {
	// SweepIntervalSeconds is how often due connections are checked.
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds" default:"60" validate:"gte=1"`
	// RetryIntervalSeconds is how often failed runs are checked for a due retry.
	RetryIntervalSeconds int `mapstructure:"retry_interval_seconds" default:"60" validate:"gte=1"`
	// MaxRetries is the retry budget of a failed pull run.
	MaxRetries int `mapstructure:"max_retries" default:"5" validate:"gte=0"`
	// RetryBaseSeconds is the first backoff delay; it doubles per attempt.
	RetryBaseSeconds int `mapstructure:"retry_base_seconds" default:"60" validate:"gte=1"`
	// RetryMaxSeconds caps the backoff delay.
	RetryMaxSeconds int `mapstructure:"retry_max_seconds" default:"3600" validate:"gtefield=RetryBaseSeconds"`
	// StaleRunAfterMinutes marks running runs older than this as failed.
	StaleRunAfterMinutes int `mapstructure:"stale_run_after_minutes" default:"120" validate:"gte=1"`
	// Concurrency bounds parallel pulls of one sweep.
	Concurrency int `mapstructure:"concurrency" default:"4" validate:"gte=1"`
	// MappingCacheSeconds is the TTL of cached client mappings. Zero disables the cache.
	MappingCacheSeconds int `mapstructure:"mapping_cache_seconds" default:"300" validate:"gte=0"`
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		SweepIntervalSeconds: 60,
		RetryIntervalSeconds: 60,
		MaxRetries:           5,
		RetryBaseSeconds:     60,
		RetryMaxSeconds:      3600,
		StaleRunAfterMinutes: 120,
		Concurrency:          4,
		MappingCacheSeconds:  300,
	}
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c Config) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalSeconds) * time.Second
}

func (c Config) StaleRunAfter() time.Duration {
	return time.Duration(c.StaleRunAfterMinutes) * time.Minute
}

func (c Config) MappingCacheTTL() time.Duration {
	return time.Duration(c.MappingCacheSeconds) * time.Second
}

// Backoff returns base * 2^retryCount, capped at RetryMaxSeconds.
func (c Config) Backoff(retryCount int) time.Duration {
	base := time.Duration(c.RetryBaseSeconds) * time.Second
	ceiling := time.Duration(c.RetryMaxSeconds) * time.Second
	if base <= 0 {
		base = time.Minute
	}
	if ceiling < base {
		ceiling = base
	}

	delay := base
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= ceiling {
			return ceiling
		}
	}
	return delay
}
