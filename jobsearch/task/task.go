package task

import (
	"context"
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Status represents the lifecycle state of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Registered task names. Handlers for these are wired at startup; enqueueing
// an unregistered name is rejected.
const (
	NameImportHH                 = "ingest.import_hh"
	NameSyncSavedSearch          = "ingest.sync_saved_search"
	NameBackfillParsed           = "ingest.backfill_parsed"
	NameBuildVacancyEmbedding    = "embedding.build_vacancy"
	NameBuildProfileEmbedding    = "embedding.build_profile"
	NameRebuildVacancyEmbeddings = "embedding.rebuild_vacancies"
	NameRebuildProfileEmbeddings = "embedding.rebuild_profiles"
	NameComputeRecommendations   = "matching.compute_recommendations"
	NameProfileBackfill          = "profile.backfill"
)

// DefaultMaxAttempts bounds retries for transient failures.
const DefaultMaxAttempts = 3

// Task is the durable record of one unit of background work. The row in
// Postgres is the source of truth; the Redis queue only carries task ids.
type Task struct {
	ID           kernel.TaskID  `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Args         map[string]any `db:"-" json:"args"`
	Status       Status         `db:"status" json:"status"`
	Result       map[string]any `db:"-" json:"result,omitempty"`
	Error        *string        `db:"error" json:"error,omitempty"`
	AttemptCount int            `db:"attempt_count" json:"attempt_count"`
	MaxAttempts  int            `db:"max_attempts" json:"max_attempts"`
	NextRetryAt  *time.Time     `db:"next_retry_at" json:"next_retry_at,omitempty"`
	ChainNextID  *kernel.TaskID `db:"chain_next_id" json:"chain_next_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
	StartedAt    *time.Time     `db:"started_at" json:"started_at,omitempty"`
	FinishedAt   *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
}

// IsTerminal reports whether the task can no longer change state.
func (t *Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed || t.Status == StatusCancelled
}

// HandlerFunc executes one task. The returned map is stored as the task
// result. A returned error schedules a retry until max_attempts is reached.
type HandlerFunc func(ctx context.Context, args map[string]any) (map[string]any, error)
