package ingest

import (
	"context"
	"net/url"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Client talks to the job board. Implemented by ingestinfra.HHClient; tests
// substitute a fake.
type Client interface {
	// SearchVacancies runs GET /vacancies with the given query. The caller
	// sets page and per_page.
	SearchVacancies(ctx context.Context, query url.Values) (*SearchPage, error)
	// GetVacancyDetails runs GET /vacancies/{id} for the full description
	// and key skills.
	GetVacancyDetails(ctx context.Context, externalID string) (*BoardVacancy, error)
	// PoliteDelay sleeps the polite inter-page delay, honoring ctx.
	PoliteDelay(ctx context.Context) error
}

// TaskEnqueuer schedules named background tasks. Implemented by the task
// service.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error)
}

// ProfileLister enumerates profile ids when a backfill fans out
// recommendation runs. Satisfied by the profile repository.
type ProfileLister interface {
	ListIDs(ctx context.Context, limit int) ([]kernel.ProfileID, error)
}
