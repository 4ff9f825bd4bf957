package vacancyapi

import (
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/jobsearch/vacancy/vacancysrv"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for vacancy operations
type Handlers struct {
	service  *vacancysrv.VacancyService
	validate *validator.Validate
}

// NewHandlers creates a new vacancy handlers instance
func NewHandlers(service *vacancysrv.VacancyService) *Handlers {
	return &Handlers{
		service:  service,
		validate: validator.New(),
	}
}

// CreateVacancy creates a manual vacancy
// POST /api/v1/vacancies
func (h *Handlers) CreateVacancy(c *fiber.Ctx) error {
	var req vacancy.CreateVacancyRequest
	if err := c.BodyParser(&req); err != nil {
		return vacancy.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return vacancy.ErrInvalidPayload().WithDetail("validation_error", err.Error())
	}

	resp, err := h.service.CreateManual(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetVacancy retrieves a vacancy with its requirements
// GET /api/v1/vacancies/:id
func (h *Handlers) GetVacancy(c *fiber.Ctx) error {
	id, err := kernel.ParseVacancyID(c.Params("id"))
	if err != nil {
		return vacancy.ErrVacancyNotFound().WithDetail("id", c.Params("id"))
	}

	resp, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ListVacancies retrieves vacancies with pagination
// GET /api/v1/vacancies
func (h *Handlers) ListVacancies(c *fiber.Ctx) error {
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

// UpdateVacancy applies a partial update
// PUT /api/v1/vacancies/:id
func (h *Handlers) UpdateVacancy(c *fiber.Ctx) error {
	id, err := kernel.ParseVacancyID(c.Params("id"))
	if err != nil {
		return vacancy.ErrVacancyNotFound().WithDetail("id", c.Params("id"))
	}

	var req vacancy.UpdateVacancyRequest
	if err := c.BodyParser(&req); err != nil {
		return vacancy.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// DeleteVacancy removes a vacancy
// DELETE /api/v1/vacancies/:id
func (h *Handlers) DeleteVacancy(c *fiber.Ctx) error {
	id, err := kernel.ParseVacancyID(c.Params("id"))
	if err != nil {
		return vacancy.ErrVacancyNotFound().WithDetail("id", c.Params("id"))
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// RegisterRoutes registers all vacancy routes
func RegisterRoutes(router fiber.Router, handlers *Handlers) {
	api := router.Group("/vacancies")

	api.Get("/", handlers.ListVacancies)
	api.Post("/", handlers.CreateVacancy)
	api.Get("/:id", handlers.GetVacancy)
	api.Put("/:id", handlers.UpdateVacancy)
	api.Delete("/:id", handlers.DeleteVacancy)
}
