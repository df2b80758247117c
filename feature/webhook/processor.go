package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-sync/core/lock"
	"asset-sync/core/logger"
	"asset-sync/core/metrics"
	"asset-sync/core/models"
	"asset-sync/feature/provider"
	"asset-sync/feature/syncer"

	"go.uber.org/zap"
)

// Processor turns persisted webhook events into push runs.
type Processor struct {
	sync   *syncer.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewProcessor creates a processor on top of the sync service.
func NewProcessor(svc *syncer.Service, logger *zap.Logger) *Processor {
	return &Processor{
		sync:   svc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Handle adapts Process to the dispatcher.
func (p *Processor) Handle(ctx context.Context, eventID string) {
	_, _ = p.Process(ctx, eventID)
}

// Process handles one event. Settled events are left untouched. Failures are
// recorded on the event rather than returned; the error return only reports
// that the event could not be loaded or the connection lock was not obtained.
// In the latter case the event goes back to received.
func (p *Processor) Process(ctx context.Context, eventID string) (event *models.WebhookEvent, err error) {
	st := p.sync.Store()

	event, err = st.GetEvent(ctx, eventID)
	if err != nil {
		p.logger.Error("Failed to load webhook event", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	if event.IsSettled() {
		return event, nil
	}

	l := p.logger.With(logger.Event(event.EventID, event.ConnectionID)...)

	defer func() {
		if r := recover(); r != nil {
			l.Error("Webhook processing panicked", zap.Any("panic", r))
			p.settle(ctx, event, models.EventFailed, fmt.Sprintf("panic: %v", r), nil)
			err = nil
		}
	}()

	conn, prov, err := p.sync.LoadConnection(ctx, event.ConnectionID)
	if err != nil {
		if errors.Is(err, syncer.ErrConnectionNotFound) || errors.Is(err, syncer.ErrConnectionInactive) {
			p.settle(ctx, event, models.EventIgnored, err.Error(), nil)
			return event, nil
		}
		p.settle(ctx, event, models.EventFailed, err.Error(), nil)
		return event, nil
	}

	event.Status = models.EventProcessing
	if err := st.SaveEvent(ctx, event); err != nil {
		l.Error("Failed to mark webhook event processing", zap.Error(err))
		return event, err
	}

	// Push and pull of one connection never overlap.
	held, err := p.sync.Locker().Lock(ctx, lock.ConnectionKey(conn.ID))
	if err != nil {
		l.Warn("Gave up waiting for connection lock", zap.Error(err))
		p.requeue(ctx, event, l)
		return event, err
	}
	defer p.release(ctx, held, l)

	run, err := p.processPayload(ctx, conn, prov, []byte(event.Payload))
	if err != nil {
		p.settle(ctx, event, models.EventFailed, err.Error(), nil)
		return event, nil
	}

	status := models.EventProcessed
	if run.Status == models.RunFailed {
		status = models.EventFailed
	}
	p.settle(ctx, event, status, run.ErrorMessage, &run.ID)
	return event, nil
}

// ProcessPayload maps a raw payload through the connection's adapter and
// reconciles the items inside a new push run. The caller is responsible for
// holding the connection lock.
func (p *Processor) ProcessPayload(ctx context.Context, conn *models.Connection, payload []byte) (*models.SyncRun, error) {
	prov, err := p.sync.Registry().Get(conn.ProviderKey)
	if err != nil {
		return nil, err
	}
	return p.processPayload(ctx, conn, prov, payload)
}

func (p *Processor) processPayload(ctx context.Context, conn *models.Connection, prov provider.Provider, payload []byte) (*models.SyncRun, error) {
	items, mapErr := prov.MapWebhookPayload(ctx, conn, payload)
	return p.sync.Push(ctx, conn, items, mapErr)
}

// Replay processes a payload for a connection outside the queue, under the
// connection lock.
func (p *Processor) Replay(ctx context.Context, connectionID uint, payload []byte) (*models.SyncRun, error) {
	conn, prov, err := p.sync.LoadConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	held, err := p.sync.Locker().Lock(ctx, lock.ConnectionKey(conn.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock connection %d: %w", conn.ID, err)
	}
	defer p.release(ctx, held, p.logger.With(logger.Connection(conn.ID, conn.ProviderKey)...))

	return p.processPayload(ctx, conn, prov, payload)
}

func (p *Processor) release(ctx context.Context, held lock.Lock, l *zap.Logger) {
	if err := held.Release(context.WithoutCancel(ctx)); err != nil {
		l.Warn("Failed to release connection lock", zap.Error(err))
	}
}

// requeue returns an event that could not start back to received, where the
// stale sweep or a resubmission picks it up.
func (p *Processor) requeue(ctx context.Context, event *models.WebhookEvent, l *zap.Logger) {
	event.Status = models.EventReceived
	if err := p.sync.Store().SaveEvent(context.WithoutCancel(ctx), event); err != nil {
		l.Error("Failed to return webhook event to received", zap.Error(err))
	}
}

func (p *Processor) settle(ctx context.Context, event *models.WebhookEvent, status, message string, runID *uint) {
	now := p.now()
	event.Status = status
	event.ErrorMessage = message
	event.ProcessedAt = &now
	event.SyncRunID = runID

	if err := p.sync.Store().SaveEvent(context.WithoutCancel(ctx), event); err != nil {
		p.logger.Error("Failed to settle webhook event", zap.String("event_id", event.EventID), zap.Error(err))
	}
	metrics.WebhookEventsTotal.WithLabelValues(event.Provider, status).Inc()

	fields := append(logger.Connection(event.ConnectionID, event.Provider),
		zap.String("event_id", event.EventID),
		zap.String("status", status),
	)
	if message != "" {
		fields = append(fields, zap.String("error", message))
	}
	if status == models.EventProcessed {
		p.logger.Info("Webhook event processed", fields...)
	} else {
		p.logger.Warn("Webhook event not processed", fields...)
	}
}
