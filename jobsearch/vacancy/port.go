package vacancy

import (
	"context"
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

type Repository interface {
	// Create inserts a new vacancy and assigns its surrogate id.
	Create(ctx context.Context, v *Vacancy) error

	// GetByID retrieves a vacancy by surrogate id.
	GetByID(ctx context.Context, id kernel.VacancyID) (*Vacancy, error)

	// List retrieves vacancies ordered by id descending.
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Vacancy], error)

	// Update overwrites mutable fields of an existing vacancy.
	Update(ctx context.Context, id kernel.VacancyID, v *Vacancy) error

	// Delete removes a vacancy and its dependent rows.
	Delete(ctx context.Context, id kernel.VacancyID) error

	// UpsertImported writes one ingested item atomically: UPSERT the
	// vacancy on (source, external_id), UPSERT its parse, and replace
	// every generated skill/constraint requirement. It reports whether
	// the row was newly created and returns the surrogate id.
	UpsertImported(ctx context.Context, v *Vacancy, parsed *Parsed, requirements []Requirement) (created bool, id kernel.VacancyID, err error)

	// GetParsed returns the parse row, or nil when the vacancy has not
	// been parsed.
	GetParsed(ctx context.Context, id kernel.VacancyID) (*Parsed, error)

	// UpsertParsed writes or overwrites the parse row.
	UpsertParsed(ctx context.Context, parsed *Parsed) error

	// ReplaceGeneratedRequirements deletes all skill and constraint
	// requirements of the vacancy and inserts the given set.
	ReplaceGeneratedRequirements(ctx context.Context, id kernel.VacancyID, requirements []Requirement) error

	// ListRequirements returns every requirement of the vacancy.
	ListRequirements(ctx context.Context, id kernel.VacancyID) ([]Requirement, error)

	// ListSkillRequirements returns only skill-kind requirements, the
	// input of the matching engine and the embedding document.
	ListSkillRequirements(ctx context.Context, id kernel.VacancyID) ([]Requirement, error)

	// MaxPublishedAt returns the latest published_at among vacancies of
	// the source, or nil when none carry one. Used as the saved-search
	// watermark.
	MaxPublishedAt(ctx context.Context, source string) (*time.Time, error)

	// ListIDs returns vacancy ids ascending, optionally limited
	// (limit <= 0 means no limit).
	ListIDs(ctx context.Context, limit int) ([]kernel.VacancyID, error)

	// ListIDsNeedingParse returns ids of vacancies whose parse row is
	// missing or was produced by a different parser version.
	ListIDsNeedingParse(ctx context.Context, version string, limit int) ([]kernel.VacancyID, error)
}

// TaskEnqueuer schedules named background tasks. Implemented by the task
// service; declared here so vacancy services do not depend on the task
// vertical.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error)
}
