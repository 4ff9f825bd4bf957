package savedsearch

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Defaults applied when a create request leaves paging unset.
const (
	DefaultPerPage    = 20
	DefaultPagesLimit = 3
)

// SavedSearch is a stored board query with an incremental sync cursor and a
// publish-date watermark. The beat scheduler re-syncs every active search.
type SavedSearch struct {
	ID kernel.SavedSearchID `json:"id" db:"id"`

	Text       string  `json:"text" db:"text"`
	Area       *string `json:"area,omitempty" db:"area"`
	Schedule   *string `json:"schedule,omitempty" db:"schedule"`
	Experience *string `json:"experience,omitempty" db:"experience"`
	SalaryFrom *int    `json:"salary_from,omitempty" db:"salary_from"`
	SalaryTo   *int    `json:"salary_to,omitempty" db:"salary_to"`
	Currency   *string `json:"currency,omitempty" db:"currency"`

	// FiltersJSON carries recognized board options verbatim. Values are
	// strings, numbers, bools or lists of those; lists encode as repeated
	// query keys.
	FiltersJSON map[string]any `json:"filters_json" db:"-"`

	PerPage    int  `json:"per_page" db:"per_page"`
	PagesLimit int  `json:"pages_limit" db:"pages_limit"`
	CursorPage int  `json:"cursor_page" db:"cursor_page"`
	IsActive   bool `json:"is_active" db:"is_active"`

	LastSyncAt          *time.Time `json:"last_sync_at,omitempty" db:"last_sync_at"`
	LastSeenPublishedAt *time.Time `json:"last_seen_published_at,omitempty" db:"last_seen_published_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Cutoff derives the incremental sync cutoff: the watermark when present,
// otherwise the last sync time.
func (s *SavedSearch) Cutoff() *time.Time {
	if s.LastSeenPublishedAt != nil {
		return s.LastSeenPublishedAt
	}
	return s.LastSyncAt
}
