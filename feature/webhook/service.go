package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"asset-sync/core/logger"
	"asset-sync/core/metrics"
	"asset-sync/core/models"
	"asset-sync/core/storage"
	"asset-sync/core/store"
	"asset-sync/feature/provider"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrInvalidPayload    = errors.New("payload is not valid JSON")
	ErrNotResubmittable  = errors.New("only failed or stale events can be resubmitted")
)

// Enqueuer hands an event id to the asynchronous processor.
type Enqueuer interface {
	Enqueue(ctx context.Context, connectionID uint, eventID string) error
}

// Delivery is one inbound webhook request.
type Delivery struct {
	ConnectionID uint
	Headers      map[string]string
	Body         []byte
}

// Header returns a header value, ignoring case.
func (d Delivery) Header(name string) string {
	if v, ok := d.Headers[name]; ok {
		return v
	}
	for k, v := range d.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Service accepts webhook deliveries and manages their events.
type Service struct {
	store   *store.Store
	archive *storage.Archive
	queue   Enqueuer
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates the ingest service. archive may be nil.
func NewService(st *store.Store, archive *storage.Archive, queue Enqueuer, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		archive: archive,
		queue:   queue,
		cfg:     cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Receive authenticates and persists a delivery, then enqueues it. Nothing is
// normalized here. A delivery repeating a known vendor event id returns the
// existing event and reports duplicate.
func (s *Service) Receive(ctx context.Context, d Delivery) (event *models.WebhookEvent, duplicate bool, err error) {
	conn, err := s.store.GetConnection(ctx, d.ConnectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: %d", ErrUnknownConnection, d.ConnectionID)
		}
		return nil, false, err
	}

	now := s.now()
	if err := Verify(conn.WebhookSecret, d.Header(HeaderTimestamp), d.Header(HeaderSignature), d.Body, now, s.cfg.MaxSkew()); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(conn.ProviderKey, "rejected").Inc()
		return nil, false, err
	}

	var body any
	if err := json.Unmarshal(d.Body, &body); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	vendorID := d.Header(HeaderEventID)
	if vendorID == "" {
		vendorID = provider.FirstString(body, "event_id", "eventId", "webhook_id", "delivery_id")
	}
	if vendorID != "" {
		existing, err := s.store.FindEventByVendorID(ctx, conn.ID, vendorID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			metrics.WebhookEventsTotal.WithLabelValues(conn.ProviderKey, "duplicate").Inc()
			return existing, true, nil
		}
	}

	eventType := d.Header(HeaderEventType)
	if eventType == "" {
		eventType = provider.FirstString(body, "event_type", "eventType", "type", "event", "action")
	}

	event = &models.WebhookEvent{
		EventID:       uuid.NewString(),
		ConnectionID:  conn.ID,
		Provider:      conn.ProviderKey,
		EventType:     eventType,
		VendorEventID: vendorID,
		Headers:       storedHeaders(d.Headers),
		Payload:       string(d.Body),
		Status:        models.EventReceived,
		ReceivedAt:    now,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, false, err
	}
	metrics.WebhookEventsTotal.WithLabelValues(conn.ProviderKey, models.EventReceived).Inc()

	l := s.logger.With(logger.Event(event.EventID, conn.ID)...)
	s.archivePayload(ctx, event, d.Body, l)

	if err := s.queue.Enqueue(ctx, conn.ID, event.EventID); err != nil {
		// The event stays received and is picked up by the stale sweep or resubmission.
		l.Error("Failed to enqueue webhook event", zap.Error(err))
	}
	l.Info("Webhook event received", zap.String("event_type", eventType), zap.Int("bytes", len(d.Body)))
	return event, false, nil
}

func (s *Service) archivePayload(ctx context.Context, event *models.WebhookEvent, body []byte, l *zap.Logger) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.PutWebhook(ctx, event.ConnectionID, event.EventID, event.ReceivedAt, body)
	if err != nil {
		l.Warn("Failed to archive webhook payload", zap.Error(err))
		return
	}
	event.ArchiveKey = key
	if err := s.store.SaveEvent(ctx, event); err != nil {
		l.Warn("Failed to record archive key", zap.Error(err))
	}
}

// Event returns a stored event.
func (s *Service) Event(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	return s.store.GetEvent(ctx, eventID)
}

// Resubmit resets a failed event, or one stuck unsettled past the stale
// threshold, to received and enqueues it again.
func (s *Service) Resubmit(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !s.resubmittable(event) {
		return event, fmt.Errorf("%w: event %s is %s", ErrNotResubmittable, eventID, event.Status)
	}

	event.Status = models.EventReceived
	event.ErrorMessage = ""
	event.ProcessedAt = nil
	event.SyncRunID = nil
	if err := s.store.SaveEvent(ctx, event); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, event.ConnectionID, event.EventID); err != nil {
		return event, err
	}
	s.logger.Info("Webhook event resubmitted", zap.String("event_id", event.EventID))
	return event, nil
}

func (s *Service) resubmittable(event *models.WebhookEvent) bool {
	switch event.Status {
	case models.EventFailed:
		return true
	case models.EventReceived, models.EventProcessing:
		return event.ReceivedAt.Before(s.now().Add(-s.cfg.StaleAfter()))
	}
	return false
}

// RecoverPending re-enqueues every event a previous process left received or processing.
func (s *Service) RecoverPending(ctx context.Context) (int, error) {
	return s.requeue(ctx, time.Time{})
}

// RecoverStale re-enqueues unsettled events older than the stale threshold,
// such as events whose enqueue failed or whose processing was interrupted.
// Events already settled by the time they come up again are skipped.
func (s *Service) RecoverStale(ctx context.Context) (int, error) {
	return s.requeue(ctx, s.now().Add(-s.cfg.StaleAfter()))
}

func (s *Service) requeue(ctx context.Context, receivedBefore time.Time) (int, error) {
	events, err := s.store.PendingEvents(ctx, receivedBefore, s.cfg.RecoverLimit)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range events {
		if err := s.queue.Enqueue(ctx, e.ConnectionID, e.EventID); err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		s.logger.Info("Recovered pending webhook events", zap.Int("count", n), zap.Bool("stale_only", !receivedBefore.IsZero()))
	}
	return n, nil
}

// storedHeaders drops credentials a sender may attach.
func storedHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch strings.ToLower(k) {
		case "authorization", "cookie", "x-api-key":
			continue
		}
		out[k] = v
	}
	return out
}
