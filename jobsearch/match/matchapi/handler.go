package matchapi

import (
	"context"

	"github.com/Abraxas-365/scout/jobsearch/match"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Service is the part of the match service the handlers call.
type Service interface {
	ListRecommendations(ctx context.Context, profileID kernel.ProfileID, limit int) ([]match.Recommendation, error)
	GetTailoring(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (*match.TailoringResponse, error)
}

// Handlers contains all match HTTP handlers
type Handlers struct {
	service Service
	tasks   match.TaskEnqueuer
}

// NewHandlers creates a new match handlers instance
func NewHandlers(service Service, tasks match.TaskEnqueuer) *Handlers {
	return &Handlers{service: service, tasks: tasks}
}

// ListRecommendations returns the stored recommendation list for a profile
// GET /api/v1/profiles/:id/recommendations
func (h *Handlers) ListRecommendations(c *fiber.Ctx) error {
	profileID, err := profileIDParam(c, "id")
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 0)

	recommendations, err := h.service.ListRecommendations(c.Context(), profileID, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"recommendations": recommendations})
}

// RecomputeRecommendations enqueues a recommendation run for a profile
// POST /api/v1/profiles/:id/recommendations/recompute
func (h *Handlers) RecomputeRecommendations(c *fiber.Ctx) error {
	profileID, err := profileIDParam(c, "id")
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 0)

	taskID, err := h.tasks.Enqueue(c.Context(), task.NameComputeRecommendations, map[string]any{
		"profile_id": profileID.Int64(),
		"limit":      limit,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(match.RecomputeResponse{TaskID: taskID})
}

// GetTailoring returns the tailoring bundle for a (profile, vacancy) pair
// GET /api/v1/profiles/:profileID/vacancies/:vacancyID/tailoring
func (h *Handlers) GetTailoring(c *fiber.Ctx) error {
	profileID, err := profileIDParam(c, "profileID")
	if err != nil {
		return err
	}
	vacancyID, err := kernel.ParseVacancyID(c.Params("vacancyID"))
	if err != nil {
		return vacancy.ErrVacancyNotFound().WithDetail("id", c.Params("vacancyID"))
	}

	bundle, err := h.service.GetTailoring(c.Context(), profileID, vacancyID)
	if err != nil {
		return err
	}
	return c.JSON(bundle)
}

func profileIDParam(c *fiber.Ctx, name string) (kernel.ProfileID, error) {
	id, err := kernel.ParseProfileID(c.Params(name))
	if err != nil {
		return 0, profile.ErrProfileNotFound().WithDetail("id", c.Params(name))
	}
	return id, nil
}

// RegisterRoutes registers all match routes
func RegisterRoutes(router fiber.Router, handlers *Handlers) {
	profiles := router.Group("/profiles")

	profiles.Get("/:id/recommendations", handlers.ListRecommendations)
	profiles.Post("/:id/recommendations/recompute", handlers.RecomputeRecommendations)
	profiles.Get("/:profileID/vacancies/:vacancyID/tailoring", handlers.GetTailoring)
}
