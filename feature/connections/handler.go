package connections

import (
	"errors"
	"strconv"
	"time"

	"asset-sync/core/logger"
	"asset-sync/core/store"
	"asset-sync/feature/provider"
	"asset-sync/feature/provider/registry"
	"asset-sync/feature/syncer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for connections.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the connection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/providers", h.HandleListProviders)

	group := app.Group("/connections")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id/active", h.HandleSetActive)
	group.Post("/:id/sync", h.HandleSync)
	group.Get("/:id/runs", h.HandleRuns)
	group.Get("/:id/clients/discover", h.HandleDiscover)
	group.Get("/:id/assets/stale", h.HandleStaleAssets)
	group.Get("/:id/mappings", h.HandleMappings)
	group.Put("/:id/mappings", h.HandlePutMapping)
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var statusErr *provider.StatusError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, syncer.ErrConnectionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, syncer.ErrSyncInProgress):
		return fiber.StatusConflict
	case errors.Is(err, syncer.ErrConnectionInactive), errors.Is(err, registry.ErrUnknownProvider):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &statusErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func connectionID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalid
	}
	return uint(id), nil
}

// HandleListProviders lists registered adapters.
// @Summary List Providers
// @Tags providers
// @Produce json
// @Success 200 {array} registry.Info
// @Security ApiKeyAuth
// @Router /api/providers [get]
func (h *Handler) HandleListProviders(c *fiber.Ctx) error {
	return c.JSON(h.service.sync.Registry().List())
}

// HandleList lists connections.
// @Summary List Connections
// @Tags connections
// @Produce json
// @Param active query boolean false "Only active connections"
// @Success 200 {array} models.Connection
// @Security ApiKeyAuth
// @Router /api/connections [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	conns, err := h.service.List(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(conns)
}

// HandleCreate creates a connection.
// @Summary Create Connection
// @Tags connections
// @Accept json
// @Produce json
// @Param connection body CreateRequest true "Connection"
// @Success 201 {object} models.Connection
// @Failure 400 {object} map[string]string "Validation Error"
// @Security ApiKeyAuth
// @Router /api/connections [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	conn, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

// HandleGet returns one connection.
// @Summary Get Connection
// @Tags connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {object} models.Connection
// @Failure 404 {object} map[string]string "Not Found"
// @Security ApiKeyAuth
// @Router /api/connections/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	conn, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(conn)
}

// HandleSetActive toggles a connection.
// @Summary Activate Or Deactivate Connection
// @Tags connections
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param body body object true "{\"active\": false}"
// @Success 200 {object} models.Connection
// @Security ApiKeyAuth
// @Router /api/connections/{id}/active [patch]
func (h *Handler) HandleSetActive(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil || body.Active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body must contain active"})
	}

	conn, err := h.service.SetActive(c.UserContext(), id, *body.Active)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(conn)
}

// HandleSync starts a pull sync and answers once its run exists.
// @Summary Sync Connection
// @Description Starts a pull sync in the background and returns the running run. Poll the runs endpoint for the outcome. Returns 409 when one is already running.
// @Tags connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 202 {object} models.SyncRun
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Sync In Progress"
// @Failure 422 {object} map[string]string "Connection Inactive"
// @Security ApiKeyAuth
// @Router /api/connections/{id}/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	run, err := h.service.Sync(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(run)
}

// HandleRuns lists recent runs.
// @Summary List Sync Runs
// @Tags connections
// @Produce json
// @Param id path int true "Connection ID"
// @Param limit query int false "Maximum runs (default 50)"
// @Success 200 {array} models.SyncRun
// @Security ApiKeyAuth
// @Router /api/connections/{id}/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	runs, err := h.service.Runs(c.UserContext(), id, c.QueryInt("limit", 50))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(runs)
}

// HandleDiscover lists vendor tenants.
// @Summary Discover Clients
// @Tags connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {array} provider.DiscoveredClient
// @Failure 502 {object} map[string]string "Vendor Error"
// @Security ApiKeyAuth
// @Router /api/connections/{id}/clients/discover [get]
func (h *Handler) HandleDiscover(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	clients, err := h.service.Discover(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(clients)
}

// HandleStaleAssets reports assets not seen recently.
// @Summary Stale Assets
// @Description Lists assets last seen before the cutoff. Nothing is deleted.
// @Tags connections
// @Produce json
// @Param id path int true "Connection ID"
// @Param before query string false "RFC3339 cutoff (default 30 days ago)"
// @Success 200 {array} models.ExternalAsset
// @Security ApiKeyAuth
// @Router /api/connections/{id}/assets/stale [get]
func (h *Handler) HandleStaleAssets(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		before, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "before must be RFC3339"})
		}
	}

	assets, err := h.service.StaleAssets(c.UserContext(), id, before)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(assets)
}

// HandleMappings lists client mappings.
// @Summary List Client Mappings
// @Tags connections
// @Produce json
// @Param id path int true "Connection ID"
// @Success 200 {array} models.ClientMapping
// @Security ApiKeyAuth
// @Router /api/connections/{id}/mappings [get]
func (h *Handler) HandleMappings(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	mappings, err := h.service.Mappings(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(mappings)
}

// HandlePutMapping creates or replaces a client mapping.
// @Summary Put Client Mapping
// @Tags connections
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param mapping body MappingRequest true "Mapping"
// @Success 200 {object} models.ClientMapping
// @Security ApiKeyAuth
// @Router /api/connections/{id}/mappings [put]
func (h *Handler) HandlePutMapping(c *fiber.Ctx) error {
	id, err := connectionID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req MappingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	mapping, err := h.service.PutMapping(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(mapping)
}
