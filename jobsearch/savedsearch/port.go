package savedsearch

import (
	"context"
	"net/url"
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Repository persists saved searches.
type Repository interface {
	Create(ctx context.Context, s *SavedSearch) error
	GetByID(ctx context.Context, id kernel.SavedSearchID) (*SavedSearch, error)
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[SavedSearch], error)
	Update(ctx context.Context, id kernel.SavedSearchID, s *SavedSearch) error

	// ListActive returns every active search, oldest first.
	ListActive(ctx context.Context) ([]SavedSearch, error)
	// ListActiveIDs is the cheap variant the beat scheduler polls.
	ListActiveIDs(ctx context.Context) ([]kernel.SavedSearchID, error)

	// RecordSyncResult persists the post-sync bookkeeping: sync time, the
	// new publish-date watermark (nil keeps the previous one) and the next
	// cursor page.
	RecordSyncResult(ctx context.Context, id kernel.SavedSearchID, lastSyncAt time.Time, watermark *time.Time, cursorPage int) error
}

// TaskEnqueuer schedules named background tasks. Implemented by the task
// service.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error)
}

// ClusterFetcher exposes the board's cluster facet search. Implemented by the
// HH client.
type ClusterFetcher interface {
	FetchClusters(ctx context.Context, query url.Values) ([]ClusterGroup, error)
}
