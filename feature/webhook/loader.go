package webhook

import (
	"github.com/gofiber/fiber/v2"
)

// IngestFeature exposes the public webhook endpoint. It must be loaded
// outside the API key group; deliveries authenticate by signature.
type IngestFeature struct {
	handler *Handler
}

// NewIngestFeature creates the public webhook feature.
func NewIngestFeature(h *Handler) *IngestFeature {
	return &IngestFeature{handler: h}
}

func (f *IngestFeature) Name() string {
	return "webhooks"
}

func (f *IngestFeature) IsEnabled() bool {
	return true
}

func (f *IngestFeature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Feature exposes event administration under the protected API.
type Feature struct {
	handler *Handler
}

// NewFeature creates the webhook event admin feature.
func NewFeature(h *Handler) *Feature {
	return &Feature{handler: h}
}

func (f *Feature) Name() string {
	return "webhook-events"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterAdminRoutes(app)
	return nil
}
