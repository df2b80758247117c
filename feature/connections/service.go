package connections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-sync/core/models"
	"asset-sync/core/store"
	"asset-sync/feature/provider"
	"asset-sync/feature/syncer"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalid wraps request validation failures.
var ErrInvalid = errors.New("invalid request")

// DefaultStaleAge is the stale report cutoff when none is given.
const DefaultStaleAge = 30 * 24 * time.Hour

// CreateRequest is the body of POST /api/connections.
type CreateRequest struct {
	Name                 string                    `json:"name" validate:"required,max=191"`
	ProviderKey          string                    `json:"provider_key" validate:"required"`
	AuthType             string                    `json:"auth_type" validate:"omitempty,oneof=bearer basic header composite none"`
	BaseURL              string                    `json:"base_url" validate:"required,url"`
	Credentials          map[string]string         `json:"credentials"`
	Settings             models.ConnectionSettings `json:"settings"`
	WebhookSecret        string                    `json:"webhook_secret"`
	SyncFrequencyMinutes int                       `json:"sync_frequency_minutes" validate:"gte=0"`
	ClientID             *uint                     `json:"client_id"`
	Active               *bool                     `json:"active"`
}

// MappingRequest is the body of PUT /api/connections/:id/mappings.
type MappingRequest struct {
	ExternalClientID   string `json:"external_client_id" validate:"required"`
	ExternalClientName string `json:"external_client_name"`
	ClientID           uint   `json:"client_id" validate:"required"`
	Active             *bool  `json:"active"`
}

// Service backs the connection admin API.
type Service struct {
	sync     *syncer.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new connections service.
func NewService(svc *syncer.Service, logger *zap.Logger) *Service {
	return &Service{
		sync:     svc,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Service) store() *store.Store {
	return s.sync.Store()
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// List returns connections, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.Connection, error) {
	return s.store().ListConnections(ctx, activeOnly)
}

// Get returns one connection.
func (s *Service) Get(ctx context.Context, id uint) (*models.Connection, error) {
	return s.store().GetConnection(ctx, id)
}

// Create validates and stores a new connection. New connections are active
// unless the request says otherwise.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Connection, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.sync.Registry().Get(req.ProviderKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	conn := &models.Connection{
		Name:                 req.Name,
		ProviderKey:          req.ProviderKey,
		AuthType:             req.AuthType,
		BaseURL:              req.BaseURL,
		Credentials:          req.Credentials,
		Settings:             req.Settings,
		WebhookSecret:        req.WebhookSecret,
		SyncFrequencyMinutes: req.SyncFrequencyMinutes,
		ClientID:             req.ClientID,
		Active:               req.Active == nil || *req.Active,
	}
	if conn.SyncFrequencyMinutes == 0 {
		conn.SyncFrequencyMinutes = models.DefaultSyncFrequencyMinutes
	}
	if err := s.store().CreateConnection(ctx, conn); err != nil {
		return nil, err
	}

	s.logger.Info("Connection created", zap.Uint("connection_id", conn.ID), zap.String("provider", conn.ProviderKey))
	return conn, nil
}

// SetActive activates or deactivates a connection. Nothing is deleted.
func (s *Service) SetActive(ctx context.Context, id uint, active bool) (*models.Connection, error) {
	if err := s.store().SetConnectionActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.store().GetConnection(ctx, id)
}

// Sync starts a pull sync in the background and returns its running run.
func (s *Service) Sync(ctx context.Context, id uint) (*models.SyncRun, error) {
	return s.sync.StartSync(ctx, id)
}

// Runs returns recent runs of a connection.
func (s *Service) Runs(ctx context.Context, id uint, limit int) ([]models.SyncRun, error) {
	if _, err := s.store().GetConnection(ctx, id); err != nil {
		return nil, err
	}
	return s.store().ListRuns(ctx, id, limit)
}

// Discover lists the vendor-side tenants of a connection.
func (s *Service) Discover(ctx context.Context, id uint) ([]provider.DiscoveredClient, error) {
	conn, p, err := s.sync.LoadConnection(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.DiscoverClients(ctx, conn)
}

// StaleAssets lists assets not seen since before. A zero before means
// DefaultStaleAge ago.
func (s *Service) StaleAssets(ctx context.Context, id uint, before time.Time) ([]models.ExternalAsset, error) {
	if _, err := s.store().GetConnection(ctx, id); err != nil {
		return nil, err
	}
	if before.IsZero() {
		before = time.Now().UTC().Add(-DefaultStaleAge)
	}
	return s.store().StaleAssets(ctx, id, before)
}

// Mappings returns the client mappings of a connection.
func (s *Service) Mappings(ctx context.Context, id uint) ([]models.ClientMapping, error) {
	if _, err := s.store().GetConnection(ctx, id); err != nil {
		return nil, err
	}
	return s.store().ListMappings(ctx, id)
}

// PutMapping creates or replaces a client mapping and drops cached lookups of
// the connection.
func (s *Service) PutMapping(ctx context.Context, id uint, req MappingRequest) (*models.ClientMapping, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.store().GetConnection(ctx, id); err != nil {
		return nil, err
	}

	mapping := &models.ClientMapping{
		ConnectionID:       id,
		ExternalClientID:   req.ExternalClientID,
		ExternalClientName: req.ExternalClientName,
		ClientID:           req.ClientID,
		Active:             req.Active == nil || *req.Active,
	}
	if err := s.store().UpsertMapping(ctx, mapping); err != nil {
		return nil, err
	}
	s.sync.Reconciler().Mappings().Invalidate(id)
	return mapping, nil
}
