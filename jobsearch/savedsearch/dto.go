package savedsearch

import (
	"net/url"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// CreateSavedSearchRequest - DTO for creating a saved search
type CreateSavedSearchRequest struct {
	Text        string         `json:"text" validate:"required"`
	Area        *string        `json:"area,omitempty"`
	Schedule    *string        `json:"schedule,omitempty"`
	Experience  *string        `json:"experience,omitempty"`
	SalaryFrom  *int           `json:"salary_from,omitempty" validate:"omitempty,gte=0"`
	SalaryTo    *int           `json:"salary_to,omitempty" validate:"omitempty,gte=0"`
	Currency    *string        `json:"currency,omitempty"`
	FiltersJSON map[string]any `json:"filters_json,omitempty"`
	PerPage     *int           `json:"per_page,omitempty" validate:"omitempty,gte=1,lte=100"`
	PagesLimit  *int           `json:"pages_limit,omitempty" validate:"omitempty,gte=1,lte=20"`
	IsActive    *bool          `json:"is_active,omitempty"`
}

// UpdateSavedSearchRequest - DTO for PATCH updates. Nil leaves the field
// untouched.
type UpdateSavedSearchRequest struct {
	Text        *string        `json:"text,omitempty"`
	Area        *string        `json:"area,omitempty"`
	Schedule    *string        `json:"schedule,omitempty"`
	Experience  *string        `json:"experience,omitempty"`
	SalaryFrom  *int           `json:"salary_from,omitempty"`
	SalaryTo    *int           `json:"salary_to,omitempty"`
	Currency    *string        `json:"currency,omitempty"`
	FiltersJSON map[string]any `json:"filters_json,omitempty"`
	PerPage     *int           `json:"per_page,omitempty"`
	PagesLimit  *int           `json:"pages_limit,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	CursorPage  *int           `json:"cursor_page,omitempty"`
}

// SyncResponse reports the enqueued sync task.
type SyncResponse struct {
	SavedSearchID kernel.SavedSearchID `json:"saved_search_id"`
	TaskID        kernel.TaskID        `json:"task_id"`
}

// ClusterGroup and ClusterItem are the board's cluster facets as fetched.
// Item URLs still carry the refinement as a query string.
type ClusterGroup struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Items []ClusterItem `json:"items"`
}

type ClusterItem struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// ClusterGroupView is the API shape: item URLs decoded into plain query
// parameter maps so callers can feed them back into a search.
type ClusterGroupView struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Items []ClusterItemView `json:"items"`
}

type ClusterItemView struct {
	Name   string     `json:"name"`
	Count  int        `json:"count"`
	Params url.Values `json:"params"`
}

// PaginatedSavedSearchesResponse - paginated saved searches
type PaginatedSavedSearchesResponse = kernel.Paginated[SavedSearch]
