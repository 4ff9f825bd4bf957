package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/scout/internal/ai/embeddings"
	"github.com/Abraxas-365/scout/jobsearch/embedding/embeddingapi"
	"github.com/Abraxas-365/scout/jobsearch/embedding/embeddinginfra"
	"github.com/Abraxas-365/scout/jobsearch/embedding/embeddingsrv"
	"github.com/Abraxas-365/scout/jobsearch/ingest/ingestapi"
	"github.com/Abraxas-365/scout/jobsearch/ingest/ingestinfra"
	"github.com/Abraxas-365/scout/jobsearch/ingest/ingestsrv"
	"github.com/Abraxas-365/scout/jobsearch/match/matchapi"
	"github.com/Abraxas-365/scout/jobsearch/match/matchinfra"
	"github.com/Abraxas-365/scout/jobsearch/match/matchsrv"
	"github.com/Abraxas-365/scout/jobsearch/profile/profileapi"
	"github.com/Abraxas-365/scout/jobsearch/profile/profileinfra"
	"github.com/Abraxas-365/scout/jobsearch/profile/profilesrv"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch/savedsearchapi"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch/savedsearchinfra"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch/savedsearchsrv"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/task/beat"
	"github.com/Abraxas-365/scout/jobsearch/task/taskapi"
	"github.com/Abraxas-365/scout/jobsearch/task/taskinfra"
	"github.com/Abraxas-365/scout/jobsearch/task/tasksrv"
	"github.com/Abraxas-365/scout/jobsearch/task/worker"
	"github.com/Abraxas-365/scout/jobsearch/vacancy/vacancyapi"
	"github.com/Abraxas-365/scout/jobsearch/vacancy/vacancyinfra"
	"github.com/Abraxas-365/scout/jobsearch/vacancy/vacancysrv"
	"github.com/Abraxas-365/scout/pkg/logx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// taskQueueName is the redis list the worker pool drains.
const taskQueueName = "scout:tasks"

// Container holds all application dependencies
type Container struct {
	// Config
	Config Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client
	Queue task.Queue

	// Domain Services
	TaskService        *tasksrv.TaskService
	VacancyService     *vacancysrv.VacancyService
	ProfileService     *profilesrv.ProfileService
	SavedSearchService *savedsearchsrv.SavedSearchService
	IngestService      *ingestsrv.IngestService
	EmbeddingService   *embeddingsrv.EmbeddingService
	MatchService       *matchsrv.MatchService

	// API Handlers
	TaskHandlers        *taskapi.Handlers
	VacancyHandlers     *vacancyapi.Handlers
	ProfileHandlers     *profileapi.Handlers
	SavedSearchHandlers *savedsearchapi.Handlers
	IngestHandlers      *ingestapi.Handlers
	EmbeddingHandlers   *embeddingapi.Handlers
	MatchHandlers       *matchapi.Handlers

	// Background Runtime
	WorkerPool *worker.Pool
	Beat       *beat.Beat
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initRepositories()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	db, err := sqlx.Connect("postgres", c.Config.DatabaseURL)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Task Broker Connection
	opts, err := redis.ParseURL(c.Config.TaskBrokerURL)
	if err != nil {
		logx.Fatalf("Invalid TASK_BROKER_URL: %v", err)
	}
	c.Redis = redis.NewClient(opts)
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		logx.Warnf("Failed to connect to task broker: %v", err)
	}
}

func (c *Container) initRepositories() {
	// --- Repositories ---
	vacancyRepo := vacancyinfra.NewPostgresVacancyRepository(c.DB)
	profileRepo := profileinfra.NewPostgresProfileRepository(c.DB)
	searchRepo := savedsearchinfra.NewPostgresSavedSearchRepository(c.DB)
	embeddingRepo := embeddinginfra.NewPgvectorEmbeddingRepository(c.DB)
	matchRepo := matchinfra.NewPostgresMatchRepository(c.DB)
	taskRepo := taskinfra.NewPostgresTaskRepository(c.DB)

	c.Queue = taskinfra.NewRedisQueue(c.Redis, taskQueueName)

	// --- External Clients ---
	hhClient, err := ingestinfra.NewHHClient(c.Config.HHBaseURL, c.Config.HHUserAgent)
	if err != nil {
		logx.Fatalf("Failed to configure hh client: %v", err)
	}

	provider, err := embeddings.Acquire(embeddings.Config{
		Provider:         c.Config.EmbeddingProvider,
		ModelName:        c.Config.EmbeddingModelName,
		Dim:              c.Config.EmbeddingDim,
		OpenAIAPIKey:     c.Config.OpenAIAPIKey,
		GigaChatAuthKey:  c.Config.GigaChatAuthKey,
		GigaChatScope:    c.Config.GigaChatScope,
		GigaChatOAuthURL: c.Config.GigaChatOAuthURL,
		GigaChatAPIBase:  c.Config.GigaChatAPIBase,
	})
	if err != nil {
		logx.Fatalf("Failed to configure embedding provider: %v", err)
	}
	if err := embeddings.ValidateConfiguration(context.Background(), provider, c.Config.EmbeddingDim); err != nil {
		logx.Fatalf("Embedding configuration invalid: %v", err)
	}
	logx.Infof("Embedding provider ready | name=%s dim=%d", provider.Name(), provider.Dim())

	// --- Domain Services ---
	c.TaskService = tasksrv.NewTaskService(taskRepo, c.Queue)
	c.VacancyService = vacancysrv.NewVacancyService(vacancyRepo, c.TaskService)
	c.ProfileService = profilesrv.NewProfileService(profileRepo, c.TaskService)
	c.SavedSearchService = savedsearchsrv.NewSavedSearchService(searchRepo, c.TaskService, hhClient)
	c.IngestService = ingestsrv.NewIngestService(hhClient, vacancyRepo, searchRepo, profileRepo, c.TaskService)
	c.EmbeddingService = embeddingsrv.NewEmbeddingService(
		provider,
		embeddingRepo,
		vacancyRepo,
		c.ProfileService,
		profileRepo,
		c.Config.ProfileDocumentMode,
	)
	c.MatchService = matchsrv.NewMatchService(matchRepo, profileRepo, vacancyRepo, embeddingRepo)

	// --- Handlers ---
	c.TaskHandlers = taskapi.NewHandlers(c.TaskService)
	c.VacancyHandlers = vacancyapi.NewHandlers(c.VacancyService)
	c.ProfileHandlers = profileapi.NewHandlers(c.ProfileService)
	c.SavedSearchHandlers = savedsearchapi.NewHandlers(c.SavedSearchService)
	c.IngestHandlers = ingestapi.NewHandlers(c.TaskService)
	c.EmbeddingHandlers = embeddingapi.NewHandlers(c.TaskService)
	c.MatchHandlers = matchapi.NewHandlers(c.MatchService, c.TaskService)

	// --- Background Runtime ---
	registerTaskHandlers(c)
	c.WorkerPool = worker.NewPool(c.TaskService, c.Queue, c.Config.WorkerCount)
	c.Beat = beat.New(searchRepo, c.TaskService, c.Config.SyncIntervalMinutes)
}
