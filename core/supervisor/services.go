package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FiberService runs a fiber app under supervision.
type FiberService struct {
	app             *fiber.App
	addr            string
	shutdownTimeout time.Duration
}

// NewFiberService wraps app listening on addr.
func NewFiberService(app *fiber.App, addr string, shutdownTimeout time.Duration) *FiberService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &FiberService{app: app, addr: addr, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *FiberService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(s.shutdownTimeout); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *FiberService) String() string {
	return "http-server"
}

// Ticker runs fn immediately and then on every interval until ctx is cancelled.
// Errors from fn are logged and do not stop the loop.
type Ticker struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
	logger   *zap.Logger
}

// NewTicker creates a periodic service.
func NewTicker(name string, interval time.Duration, fn func(ctx context.Context) error, logger *zap.Logger) *Ticker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Ticker{name: name, interval: interval, fn: fn, logger: logger.With(zap.String("service", name))}
}

// Serve implements suture.Service.
func (t *Ticker) Serve(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		t.tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *Ticker) tick(ctx context.Context) {
	start := time.Now()
	if err := t.fn(ctx); err != nil && ctx.Err() == nil {
		t.logger.Error("Periodic task failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}
	t.logger.Debug("Periodic task finished", zap.Duration("took", time.Since(start)))
}

func (t *Ticker) String() string {
	return t.name
}
