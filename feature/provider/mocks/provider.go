package mocks

import (
	"context"
	"time"

	"asset-sync/core/models"
	"asset-sync/feature/provider"

	"github.com/stretchr/testify/mock"
)

// Provider is a mock implementation of provider.Provider
type Provider struct {
	mock.Mock
}

func (m *Provider) Key() string {
	return m.Called().String(0)
}

func (m *Provider) DisplayName() string {
	return m.Called().String(0)
}

func (m *Provider) FetchAssets(ctx context.Context, conn *models.Connection, since *time.Time) ([]provider.NormalizedAsset, error) {
	args := m.Called(ctx, conn, since)
	items, _ := args.Get(0).([]provider.NormalizedAsset)
	return items, args.Error(1)
}

func (m *Provider) DiscoverClients(ctx context.Context, conn *models.Connection) ([]provider.DiscoveredClient, error) {
	args := m.Called(ctx, conn)
	clients, _ := args.Get(0).([]provider.DiscoveredClient)
	return clients, args.Error(1)
}

func (m *Provider) MapWebhookPayload(ctx context.Context, conn *models.Connection, payload []byte) ([]provider.NormalizedAsset, error) {
	args := m.Called(ctx, conn, payload)
	items, _ := args.Get(0).([]provider.NormalizedAsset)
	return items, args.Error(1)
}
