package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RayIDKey is the fiber local and log field carrying the request id.
const RayIDKey = "ray_id"

// New builds a zap logger. Debug level uses the development config with
// ISO8601 timestamps; every other level uses the production config.
func New(cfg *Config) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		lvl = parsed
	}

	var config zap.Config
	if lvl == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	switch cfg.Format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build(zap.Fields(zap.String("service", "asset-sync")))
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals(RayIDKey).(string); ok && rid != "" {
		return l.With(zap.String(RayIDKey, rid))
	}
	return l
}

// Connection returns the standard fields identifying a connection.
func Connection(id uint, provider string) []zap.Field {
	return []zap.Field{zap.Uint("connection_id", id), zap.String("provider", provider)}
}

// Run returns the standard fields identifying a sync run.
func Run(runID, direction string) []zap.Field {
	return []zap.Field{zap.String("run_id", runID), zap.String("direction", direction)}
}

// Event returns the standard fields identifying a webhook event.
func Event(eventID string, connectionID uint) []zap.Field {
	return []zap.Field{zap.String("event_id", eventID), zap.Uint("connection_id", connectionID)}
}
