package taskapi

import (
	"github.com/Abraxas-365/scout/jobsearch/task/tasksrv"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for task status lookup
type Handlers struct {
	service *tasksrv.TaskService
}

// NewHandlers creates a new task handlers instance
func NewHandlers(service *tasksrv.TaskService) *Handlers {
	return &Handlers{service: service}
}

// GetTask returns the current state of a task
// GET /api/v1/tasks/:id
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id := kernel.NewTaskID(c.Params("id"))

	result, err := h.service.AsyncResult(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// GetStats returns queue lengths and per-status counts
// GET /api/v1/tasks/stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// CancelTask cancels a pending task
// POST /api/v1/tasks/:id/cancel
func (h *Handlers) CancelTask(c *fiber.Ctx) error {
	id := kernel.NewTaskID(c.Params("id"))

	if err := h.service.Cancel(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"task_id": id, "status": "cancelled"})
}

// RegisterRoutes registers all task routes
func RegisterRoutes(router fiber.Router, handlers *Handlers) {
	api := router.Group("/tasks")

	api.Get("/stats", handlers.GetStats)
	api.Get("/:id", handlers.GetTask)
	api.Post("/:id/cancel", handlers.CancelTask)
}
