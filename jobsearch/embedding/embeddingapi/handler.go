package embeddingapi

import (
	"github.com/Abraxas-365/scout/jobsearch/embedding"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides the dev endpoints for bulk embedding rebuilds. The work
// itself runs as background tasks.
type Handlers struct {
	tasks embedding.TaskEnqueuer
}

// NewHandlers creates a new embedding handlers instance
func NewHandlers(tasks embedding.TaskEnqueuer) *Handlers {
	return &Handlers{tasks: tasks}
}

// RebuildVacancies enqueues a vacancy embedding rebuild
// POST /api/v1/dev/embeddings/rebuild-vacancies
func (h *Handlers) RebuildVacancies(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	taskID, err := h.tasks.Enqueue(c.Context(), task.NameRebuildVacancyEmbeddings, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": taskID})
}

// RebuildProfiles enqueues a profile embedding rebuild
// POST /api/v1/dev/embeddings/rebuild-profiles
func (h *Handlers) RebuildProfiles(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	taskID, err := h.tasks.Enqueue(c.Context(), task.NameRebuildProfileEmbeddings, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": taskID})
}

// RegisterDevRoutes registers the rebuild endpoints
func RegisterDevRoutes(router fiber.Router, handlers *Handlers) {
	dev := router.Group("/dev/embeddings")

	dev.Post("/rebuild-vacancies", handlers.RebuildVacancies)
	dev.Post("/rebuild-profiles", handlers.RebuildProfiles)
}
