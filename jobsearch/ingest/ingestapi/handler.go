package ingestapi

import (
	"github.com/Abraxas-365/scout/jobsearch/ingest"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handlers accepts import requests and hands them to the task queue; the
// actual board crawling always runs in a worker.
type Handlers struct {
	tasks    ingest.TaskEnqueuer
	validate *validator.Validate
}

// NewHandlers creates a new ingest handlers instance
func NewHandlers(tasks ingest.TaskEnqueuer) *Handlers {
	return &Handlers{
		tasks:    tasks,
		validate: validator.New(),
	}
}

// ImportHH enqueues a board import for the given filters
// POST /api/v1/import/hh
func (h *Handlers) ImportHH(c *fiber.Ctx) error {
	var req ingest.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return ingest.ErrInvalidPayload().WithDetail("parse_error", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return ingest.ErrInvalidPayload().WithDetail("validation_error", err.Error())
	}

	taskID, err := h.tasks.Enqueue(c.Context(), task.NameImportHH, map[string]any{
		"filters":    req.Filters,
		"cutoff":     req.Cutoff,
		"start_page": req.StartPage,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(ingest.ImportResponse{TaskID: taskID})
}

// BackfillParsed enqueues a re-parse of stored vacancy descriptions
// POST /api/v1/dev/vacancies/backfill-parsed
func (h *Handlers) BackfillParsed(c *fiber.Ctx) error {
	req := ingest.BackfillParsedRequest{OnlyMissing: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return ingest.ErrInvalidPayload().WithDetail("parse_error", err.Error())
		}
	}
	if err := h.validate.Struct(req); err != nil {
		return ingest.ErrInvalidPayload().WithDetail("validation_error", err.Error())
	}

	taskID, err := h.tasks.Enqueue(c.Context(), task.NameBackfillParsed, map[string]any{
		"limit":                    req.Limit,
		"only_missing":             req.OnlyMissing,
		"schedule_embeddings":      req.ScheduleEmbeddings,
		"schedule_recommendations": req.ScheduleRecommendations,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": taskID})
}

// RegisterRoutes registers the import endpoint
func RegisterRoutes(router fiber.Router, handlers *Handlers) {
	router.Post("/import/hh", handlers.ImportHH)
}

// RegisterDevRoutes registers the backfill endpoint
func RegisterDevRoutes(router fiber.Router, handlers *Handlers) {
	router.Post("/dev/vacancies/backfill-parsed", handlers.BackfillParsed)
}
