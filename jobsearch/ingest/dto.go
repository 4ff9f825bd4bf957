package ingest

import (
	"net/url"
	"strconv"
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// ImportFilters describes one board search to import. Extra carries
// filters_json passthrough options verbatim.
type ImportFilters struct {
	Text           string         `json:"text"`
	Area           *string        `json:"area,omitempty"`
	Schedule       *string        `json:"schedule,omitempty"`
	Experience     *string        `json:"experience,omitempty"`
	Salary         *int           `json:"salary,omitempty"`
	Currency       *string        `json:"currency,omitempty"`
	PerPage        int            `json:"per_page,omitempty"`
	PagesLimit     int            `json:"pages_limit,omitempty"`
	IncludeDetails bool           `json:"include_details,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Query renders the filters as board search parameters, page excluded.
func (f ImportFilters) Query() url.Values {
	values := url.Values{}
	if f.Text != "" {
		values.Set("text", f.Text)
	}
	if f.Area != nil {
		values.Set("area", *f.Area)
	}
	if f.Schedule != nil {
		values.Set("schedule", *f.Schedule)
	}
	if f.Experience != nil {
		values.Set("experience", *f.Experience)
	}
	if f.Salary != nil {
		values.Set("salary", strconv.Itoa(*f.Salary))
	}
	if f.Currency != nil {
		values.Set("currency", *f.Currency)
	}
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	values.Set("per_page", strconv.Itoa(perPage))
	for key, value := range f.Extra {
		AddFilterParam(values, key, value)
	}
	return values
}

// ImportRequest - DTO for POST /import/hh
type ImportRequest struct {
	Filters   ImportFilters `json:"filters" validate:"required"`
	Cutoff    *time.Time    `json:"cutoff,omitempty"`
	StartPage int           `json:"start_page,omitempty" validate:"gte=0"`
}

// ImportResponse reports the enqueued import task.
type ImportResponse struct {
	TaskID kernel.TaskID `json:"task_id"`
}

// ImportResult is the per-run accounting the import loop returns.
type ImportResult struct {
	PagesProcessed int  `json:"pages_processed"`
	VacanciesSeen  int  `json:"vacancies_seen"`
	Saved          int  `json:"saved"`
	Updated        int  `json:"updated"`
	Errors         int  `json:"errors"`
	StopByCutoff   bool `json:"stop_by_cutoff"`
}

// SyncResult is the saved-search sync accounting.
type SyncResult struct {
	SavedSearchID kernel.SavedSearchID `json:"saved_search_id"`
	Import        ImportResult         `json:"import"`
	NextCursor    int                  `json:"next_cursor"`
	Watermark     *time.Time           `json:"watermark,omitempty"`
}

// BackfillParsedRequest - DTO for POST /dev/vacancies/backfill-parsed
type BackfillParsedRequest struct {
	Limit                   int  `json:"limit,omitempty" validate:"gte=0"`
	OnlyMissing             bool `json:"only_missing,omitempty"`
	ScheduleEmbeddings      bool `json:"schedule_embeddings,omitempty"`
	ScheduleRecommendations bool `json:"schedule_recommendations,omitempty"`
}

// BackfillParsedResult reports a parsed-backfill run.
type BackfillParsedResult struct {
	Processed          int `json:"processed"`
	Errors             int `json:"errors"`
	EmbeddingTasks     int `json:"embedding_tasks"`
	RecommendationRuns int `json:"recommendation_runs"`
}
