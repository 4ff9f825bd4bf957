package profileapi

import (
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/profile/profilesrv"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for profile operations
type Handlers struct {
	service  *profilesrv.ProfileService
	validate *validator.Validate
}

// NewHandlers creates a new profile handlers instance
func NewHandlers(service *profilesrv.ProfileService) *Handlers {
	return &Handlers{
		service:  service,
		validate: validator.New(),
	}
}

func profileIDParam(c *fiber.Ctx) (kernel.ProfileID, error) {
	id, err := kernel.ParseProfileID(c.Params("id"))
	if err != nil {
		return 0, profile.ErrProfileNotFound().WithDetail("id", c.Params("id"))
	}
	return id, nil
}

func itemIDParam(c *fiber.Ctx) (kernel.ProfileItemID, error) {
	id, err := kernel.ParseProfileItemID(c.Params("itemId"))
	if err != nil {
		return 0, profile.ErrItemNotFound().WithDetail("id", c.Params("itemId"))
	}
	return id, nil
}

// CreateProfile creates a profile
// POST /api/v1/profiles
func (h *Handlers) CreateProfile(c *fiber.Ctx) error {
	var req profile.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return profile.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return profile.ErrInvalidPayload().WithDetail("validation_error", err.Error())
	}

	resp, err := h.service.Create(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetProfile retrieves a profile
// GET /api/v1/profiles/:id
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ListProfiles retrieves profiles with pagination
// GET /api/v1/profiles
func (h *Handlers) ListProfiles(c *fiber.Ctx) error {
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

// UpdateProfile applies a partial update
// PUT /api/v1/profiles/:id
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	var req profile.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return profile.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// DeleteProfile removes a profile and its sub-entities
// DELETE /api/v1/profiles/:id
func (h *Handlers) DeleteProfile(c *fiber.Ctx) error {
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// BackfillProfile imports legacy flat fields into structured rows
// POST /api/v1/dev/profiles/:id/backfill
func (h *Handlers) BackfillProfile(c *fiber.Ctx) error {
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Backfill(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// RecomputeAll chains backfill, embedding build and recommendations
// POST /api/v1/dev/profiles/:id/recompute-all
func (h *Handlers) RecomputeAll(c *fiber.Ctx) error {
	id, err := profileIDParam(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 50)
	tasks, err := h.service.RecomputeAll(c.Context(), id, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"tasks": tasks})
}

// RegisterRoutes registers profile routes including the sub-entity CRUD
func RegisterRoutes(router fiber.Router, handlers *Handlers) {
	api := router.Group("/profiles")

	api.Get("/", handlers.ListProfiles)
	api.Post("/", handlers.CreateProfile)
	api.Get("/:id", handlers.GetProfile)
	api.Put("/:id", handlers.UpdateProfile)
	api.Delete("/:id", handlers.DeleteProfile)

	registerItemRoutes(api, "experiences", handlers.validate, itemService[profile.ExperienceRequest, profile.Experience]{
		list:   handlers.service.ListExperiences,
		create: handlers.service.CreateExperience,
		update: handlers.service.UpdateExperience,
		remove: handlers.service.DeleteExperience,
	})
	registerItemRoutes(api, "projects", handlers.validate, itemService[profile.ProjectRequest, profile.Project]{
		list:   handlers.service.ListProjects,
		create: handlers.service.CreateProject,
		update: handlers.service.UpdateProject,
		remove: handlers.service.DeleteProject,
	})
	registerItemRoutes(api, "achievements", handlers.validate, itemService[profile.AchievementRequest, profile.Achievement]{
		list:   handlers.service.ListAchievements,
		create: handlers.service.CreateAchievement,
		update: handlers.service.UpdateAchievement,
		remove: handlers.service.DeleteAchievement,
	})
	registerItemRoutes(api, "education", handlers.validate, itemService[profile.EducationRequest, profile.Education]{
		list:   handlers.service.ListEducation,
		create: handlers.service.CreateEducation,
		update: handlers.service.UpdateEducation,
		remove: handlers.service.DeleteEducation,
	})
	registerItemRoutes(api, "certificates", handlers.validate, itemService[profile.CertificateRequest, profile.Certificate]{
		list:   handlers.service.ListCertificates,
		create: handlers.service.CreateCertificate,
		update: handlers.service.UpdateCertificate,
		remove: handlers.service.DeleteCertificate,
	})
	registerItemRoutes(api, "skills", handlers.validate, itemService[profile.SkillRequest, profile.Skill]{
		list:   handlers.service.ListSkills,
		create: handlers.service.CreateSkill,
		update: handlers.service.UpdateSkill,
		remove: handlers.service.DeleteSkill,
	})
	registerItemRoutes(api, "languages", handlers.validate, itemService[profile.LanguageRequest, profile.Language]{
		list:   handlers.service.ListLanguages,
		create: handlers.service.CreateLanguage,
		update: handlers.service.UpdateLanguage,
		remove: handlers.service.DeleteLanguage,
	})
	registerItemRoutes(api, "links", handlers.validate, itemService[profile.LinkRequest, profile.Link]{
		list:   handlers.service.ListLinks,
		create: handlers.service.CreateLink,
		update: handlers.service.UpdateLink,
		remove: handlers.service.DeleteLink,
	})
}

// RegisterDevRoutes registers the maintenance endpoints
func RegisterDevRoutes(router fiber.Router, handlers *Handlers) {
	dev := router.Group("/dev/profiles")

	dev.Post("/:id/backfill", handlers.BackfillProfile)
	dev.Post("/:id/recompute-all", handlers.RecomputeAll)
}
