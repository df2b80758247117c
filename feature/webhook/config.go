package webhook

import "time"

// Config holds dispatcher and authentication settings.
type Config struct {
	// Workers is the number of dispatcher lanes. Events of one connection always share a lane.
	Workers int `mapstructure:"workers" default:"8" validate:"gte=1"`
	// Buffer is the per-lane queue length. Enqueueing into a full lane fails.
	Buffer int `mapstructure:"buffer" default:"1024" validate:"gte=1"`
	// MaxSkewSeconds bounds the age of a signed timestamp.
	MaxSkewSeconds int `mapstructure:"max_skew_seconds" default:"300" validate:"gte=1"`
	// RecoverOnStart re-enqueues events left received or processing by a previous process.
	RecoverOnStart bool `mapstructure:"recover_on_start" default:"true"`
	// RecoverLimit caps how many pending events are re-enqueued per pass.
	RecoverLimit int `mapstructure:"recover_limit" default:"1000" validate:"gte=1"`
	// RecoverIntervalSeconds is how often unsettled events are swept back into the queue.
	RecoverIntervalSeconds int `mapstructure:"recover_interval_seconds" default:"60" validate:"gte=1"`
	// StaleAfterSeconds is how long an event may stay unsettled before the sweep
	// or a resubmission picks it up again.
	StaleAfterSeconds int `mapstructure:"stale_after_seconds" default:"300" validate:"gte=1"`
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		Workers:                8,
		Buffer:                 1024,
		MaxSkewSeconds:         300,
		RecoverOnStart:         true,
		RecoverLimit:           1000,
		RecoverIntervalSeconds: 60,
		StaleAfterSeconds:      300,
	}
}

// MaxSkew returns the accepted clock skew of signed deliveries.
func (c Config) MaxSkew() time.Duration {
	return time.Duration(c.MaxSkewSeconds) * time.Second
}

// RecoverInterval returns the period of the pending-event sweep.
func (c Config) RecoverInterval() time.Duration {
	return time.Duration(c.RecoverIntervalSeconds) * time.Second
}

// StaleAfter returns the age at which an unsettled event is considered stuck.
func (c Config) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterSeconds) * time.Second
}
