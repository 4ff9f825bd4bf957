package savedsearchapi

import (
	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch/savedsearchsrv"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for saved search operations
type Handlers struct {
	service  *savedsearchsrv.SavedSearchService
	validate *validator.Validate
}

// NewHandlers creates a new saved search handlers instance
func NewHandlers(service *savedsearchsrv.SavedSearchService) *Handlers {
	return &Handlers{
		service:  service,
		validate: validator.New(),
	}
}

func idParam(c *fiber.Ctx) (kernel.SavedSearchID, error) {
	id, err := kernel.ParseSavedSearchID(c.Params("id"))
	if err != nil {
		return 0, savedsearch.ErrNotFound().WithDetail("id", c.Params("id"))
	}
	return id, nil
}

// CreateSavedSearch creates a saved search
// POST /api/v1/saved-searches
func (h *Handlers) CreateSavedSearch(c *fiber.Ctx) error {
	var req savedsearch.CreateSavedSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return savedsearch.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return savedsearch.ErrInvalidPayload().WithDetail("validation_error", err.Error())
	}

	resp, err := h.service.Create(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListSavedSearches retrieves saved searches with pagination
// GET /api/v1/saved-searches
func (h *Handlers) ListSavedSearches(c *fiber.Ctx) error {
	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	resp, err := h.service.List(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// GetSavedSearch retrieves a saved search
// GET /api/v1/saved-searches/:id
func (h *Handlers) GetSavedSearch(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// UpdateSavedSearch applies a partial update
// PATCH /api/v1/saved-searches/:id
func (h *Handlers) UpdateSavedSearch(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req savedsearch.UpdateSavedSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return savedsearch.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// SyncSavedSearch enqueues an incremental sync
// POST /api/v1/saved-searches/:id/sync
func (h *Handlers) SyncSavedSearch(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Sync(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetClusters proxies the board's facet search for the saved query
// GET /api/v1/saved-searches/:id/clusters
func (h *Handlers) GetClusters(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Clusters(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"clusters": resp})
}

// RegisterRoutes registers all saved search routes
func RegisterRoutes(router fiber.Router, handlers *Handlers) {
	api := router.Group("/saved-searches")

	api.Get("/", handlers.ListSavedSearches)
	api.Post("/", handlers.CreateSavedSearch)
	api.Get("/:id", handlers.GetSavedSearch)
	api.Patch("/:id", handlers.UpdateSavedSearch)
	api.Post("/:id/sync", handlers.SyncSavedSearch)
	api.Get("/:id/clusters", handlers.GetClusters)
}
