package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-sync/core/models"

	"gorm.io/gorm"
)

// CreateEvent inserts a webhook event.
func (s *Store) CreateEvent(ctx context.Context, event *models.WebhookEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create webhook event: %w", err)
	}
	return nil
}

// SaveEvent persists every field of a webhook event.
func (s *Store) SaveEvent(ctx context.Context, event *models.WebhookEvent) error {
	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to save webhook event %s: %w", event.EventID, err)
	}
	return nil
}

// GetEvent loads a webhook event by its public event id.
func (s *Store) GetEvent(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error; err != nil {
		return nil, notFound(err, "webhook event "+eventID)
	}
	return &event, nil
}

// FindEventByVendorID returns a previously received event with the same vendor id, or nil.
func (s *Store) FindEventByVendorID(ctx context.Context, connectionID uint, vendorEventID string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	err := s.db.WithContext(ctx).
		Where("connection_id = ? AND vendor_event_id = ?", connectionID, vendorEventID).
		Order("id").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up vendor event %s: %w", vendorEventID, err)
	}
	return &event, nil
}

// PendingEvents returns events that were received but never settled, oldest
// first. A non-zero receivedBefore limits the result to older events.
func (s *Store) PendingEvents(ctx context.Context, receivedBefore time.Time, limit int) ([]models.WebhookEvent, error) {
	if limit <= 0 {
		limit = 1000
	}
	var events []models.WebhookEvent
	q := s.db.WithContext(ctx).
		Where("status IN ?", []string{models.EventReceived, models.EventProcessing})
	if !receivedBefore.IsZero() {
		q = q.Where("received_at < ?", receivedBefore)
	}
	err := q.
		Order("received_at, id").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending webhook events: %w", err)
	}
	return events, nil
}
