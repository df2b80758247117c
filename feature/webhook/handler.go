package webhook

import (
	"errors"
	"strconv"
	"strings"

	"asset-sync/core/logger"
	"asset-sync/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for webhooks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public ingest route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/webhooks/:connectionID", h.HandleReceive)
}

// RegisterAdminRoutes registers event inspection and resubmission.
func (h *Handler) RegisterAdminRoutes(app fiber.Router) {
	group := app.Group("/webhook-events")
	group.Get("/:eventID", h.HandleGetEvent)
	group.Post("/:eventID/resubmit", h.HandleResubmit)
}

// HandleReceive accepts a vendor webhook.
// @Summary Receive Webhook
// @Description Authenticates a signed vendor delivery, persists it and queues it for processing.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param connectionID path int true "Connection ID"
// @Param X-Webhook-Timestamp header string true "RFC3339 or unix seconds"
// @Param X-Webhook-Signature header string true "sha256=<hex HMAC of timestamp + newline + body>"
// @Success 202 {object} map[string]interface{} "Accepted"
// @Success 200 {object} map[string]interface{} "Duplicate delivery"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 401 {object} map[string]string "Invalid Signature"
// @Failure 404 {object} map[string]string "Unknown Connection"
// @Router /webhooks/{connectionID} [post]
func (h *Handler) HandleReceive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseUint(c.Params("connectionID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid connection id"})
	}

	headers := make(map[string]string)
	for k, v := range c.GetReqHeaders() {
		headers[k] = strings.Join(v, ", ")
	}

	event, duplicate, err := h.service.Receive(c.UserContext(), Delivery{
		ConnectionID: uint(id),
		Headers:      headers,
		Body:         append([]byte(nil), c.Body()...),
	})
	if err != nil {
		status := receiveStatus(err)
		if status == fiber.StatusInternalServerError {
			l.Error("Webhook ingest failed", zap.Uint64("connection_id", id), zap.Error(err))
		} else {
			l.Warn("Webhook rejected", zap.Uint64("connection_id", id), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	if duplicate {
		return c.JSON(fiber.Map{"event_id": event.EventID, "status": event.Status, "duplicate": true})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"event_id": event.EventID, "status": event.Status})
}

func receiveStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownConnection):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNoSecret),
		errors.Is(err, ErrMissingSignature),
		errors.Is(err, ErrInvalidTimestamp),
		errors.Is(err, ErrTimestampSkew),
		errors.Is(err, ErrSignatureMismatch):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleGetEvent returns a stored event.
// @Summary Get Webhook Event
// @Tags webhooks
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} models.WebhookEvent
// @Failure 404 {object} map[string]string "Not Found"
// @Security ApiKeyAuth
// @Router /api/webhook-events/{eventID} [get]
func (h *Handler) HandleGetEvent(c *fiber.Ctx) error {
	event, err := h.service.Event(c.UserContext(), c.Params("eventID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(event)
}

// HandleResubmit re-queues a failed event.
// @Summary Resubmit Webhook Event
// @Description Resets a failed or stale event to received and queues it again.
// @Tags webhooks
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 202 {object} models.WebhookEvent
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Not Resubmittable"
// @Failure 503 {object} map[string]string "Queue Full"
// @Security ApiKeyAuth
// @Router /api/webhook-events/{eventID}/resubmit [post]
func (h *Handler) HandleResubmit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	event, err := h.service.Resubmit(c.UserContext(), c.Params("eventID"))
	switch {
	case err == nil:
		return c.Status(fiber.StatusAccepted).JSON(event)
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotResubmittable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrQueueFull):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Resubmit failed", zap.String("event_id", c.Params("eventID")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
