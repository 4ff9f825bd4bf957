package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/scout/jobsearch/embedding/embeddingapi"
	"github.com/Abraxas-365/scout/jobsearch/ingest/ingestapi"
	"github.com/Abraxas-365/scout/jobsearch/match/matchapi"
	"github.com/Abraxas-365/scout/jobsearch/profile/profileapi"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch/savedsearchapi"
	"github.com/Abraxas-365/scout/jobsearch/task/taskapi"
	"github.com/Abraxas-365/scout/jobsearch/vacancy/vacancyapi"
	"github.com/Abraxas-365/scout/pkg/errx"
	"github.com/Abraxas-365/scout/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load Config and Initialize Logger
	cfg, err := LoadConfig()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	logx.Info("Starting Scout API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.DB.Close()
	defer container.Redis.Close()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Scout Job Matching API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.Ping() == nil,
			"broker": container.Redis.Ping(c.Context()).Err() == nil,
		})
	})

	// 6. Register Routes
	api := app.Group("/api/v1")

	vacancyapi.RegisterRoutes(api, container.VacancyHandlers)
	profileapi.RegisterRoutes(api, container.ProfileHandlers)
	savedsearchapi.RegisterRoutes(api, container.SavedSearchHandlers)
	matchapi.RegisterRoutes(api, container.MatchHandlers)
	ingestapi.RegisterRoutes(api, container.IngestHandlers)
	taskapi.RegisterRoutes(api, container.TaskHandlers)

	// Maintenance endpoints: backfills and embedding rebuilds
	profileapi.RegisterDevRoutes(api, container.ProfileHandlers)
	embeddingapi.RegisterDevRoutes(api, container.EmbeddingHandlers)
	ingestapi.RegisterDevRoutes(api, container.IngestHandlers)

	// 7. Start Background Runtime
	runtimeCtx, stopRuntime := context.WithCancel(context.Background())
	container.WorkerPool.Start(runtimeCtx)
	if err := container.Beat.Start(runtimeCtx); err != nil {
		logx.Fatalf("Failed to start beat scheduler: %v", err)
	}

	// 8. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Wait for signal
	logx.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	container.Beat.Stop()
	stopRuntime()
	container.WorkerPool.Wait()

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// If it's a Fiber error (e.g., 404 handler not found)
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
			"code":  e.Code,
		})
	}

	// If it's our custom errx.Error
	if e, ok := err.(*errx.Error); ok {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
