package savedsearchsrv

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/ingest"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/errx"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
)

// SavedSearchService manages stored board queries and their manual syncs.
type SavedSearchService struct {
	repo     savedsearch.Repository
	tasks    savedsearch.TaskEnqueuer
	clusters savedsearch.ClusterFetcher
}

// NewSavedSearchService creates a new saved search service
func NewSavedSearchService(repo savedsearch.Repository, tasks savedsearch.TaskEnqueuer, clusters savedsearch.ClusterFetcher) *SavedSearchService {
	return &SavedSearchService{
		repo:     repo,
		tasks:    tasks,
		clusters: clusters,
	}
}

// Create stores a new saved search with paging defaults applied.
func (s *SavedSearchService) Create(ctx context.Context, req savedsearch.CreateSavedSearchRequest) (*savedsearch.SavedSearch, error) {
	now := time.Now()
	entity := &savedsearch.SavedSearch{
		Text:        req.Text,
		Area:        req.Area,
		Schedule:    req.Schedule,
		Experience:  req.Experience,
		SalaryFrom:  req.SalaryFrom,
		SalaryTo:    req.SalaryTo,
		Currency:    req.Currency,
		FiltersJSON: req.FiltersJSON,
		PerPage:     intOr(req.PerPage, savedsearch.DefaultPerPage),
		PagesLimit:  intOr(req.PagesLimit, savedsearch.DefaultPagesLimit),
		IsActive:    boolOr(req.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if entity.FiltersJSON == nil {
		entity.FiltersJSON = map[string]any{}
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, errx.Wrap(err, "failed to create saved search", errx.TypeInternal)
	}
	return entity, nil
}

// GetByID retrieves a saved search.
func (s *SavedSearchService) GetByID(ctx context.Context, id kernel.SavedSearchID) (*savedsearch.SavedSearch, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves saved searches with pagination.
func (s *SavedSearchService) List(ctx context.Context, pagination kernel.PaginationOptions) (*savedsearch.PaginatedSavedSearchesResponse, error) {
	page, err := s.repo.List(ctx, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list saved searches", errx.TypeInternal)
	}
	return page, nil
}

// Update applies a partial update.
func (s *SavedSearchService) Update(ctx context.Context, id kernel.SavedSearchID, req savedsearch.UpdateSavedSearchRequest) (*savedsearch.SavedSearch, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(entity, req)
	entity.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Sync enqueues an incremental sync for the search and returns the task.
func (s *SavedSearchService) Sync(ctx context.Context, id kernel.SavedSearchID) (*savedsearch.SyncResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	taskID, err := s.tasks.Enqueue(ctx, task.NameSyncSavedSearch, map[string]any{
		"saved_search_id": id.Int64(),
	})
	if err != nil {
		return nil, err
	}

	logx.Infof("Saved search sync enqueued | saved_search_id=%s task_id=%s", id, taskID)
	return &savedsearch.SyncResponse{SavedSearchID: id, TaskID: taskID}, nil
}

// Clusters runs the board's facet search for the saved query and decodes
// every cluster item URL into reusable search parameters.
func (s *SavedSearchService) Clusters(ctx context.Context, id kernel.SavedSearchID) ([]savedsearch.ClusterGroupView, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	groups, err := s.clusters.FetchClusters(ctx, clusterQuery(entity))
	if err != nil {
		return nil, err
	}

	views := make([]savedsearch.ClusterGroupView, 0, len(groups))
	for _, group := range groups {
		view := savedsearch.ClusterGroupView{
			ID:    group.ID,
			Name:  group.Name,
			Items: make([]savedsearch.ClusterItemView, 0, len(group.Items)),
		}
		for _, item := range group.Items {
			view.Items = append(view.Items, savedsearch.ClusterItemView{
				Name:   item.Name,
				Count:  item.Count,
				Params: decodeItemParams(item.URL),
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// clusterQuery asks for facets only: a single item on page zero keeps the
// response small.
func clusterQuery(entity *savedsearch.SavedSearch) url.Values {
	values := url.Values{}
	if entity.Text != "" {
		values.Set("text", entity.Text)
	}
	if entity.Area != nil {
		values.Set("area", *entity.Area)
	}
	if entity.Schedule != nil {
		values.Set("schedule", *entity.Schedule)
	}
	if entity.Experience != nil {
		values.Set("experience", *entity.Experience)
	}
	if entity.SalaryFrom != nil {
		values.Set("salary", strconv.Itoa(*entity.SalaryFrom))
	}
	if entity.Currency != nil {
		values.Set("currency", *entity.Currency)
	}
	for key, value := range entity.FiltersJSON {
		ingest.AddFilterParam(values, key, value)
	}
	values.Set("page", "0")
	values.Set("per_page", "1")
	values.Set("clusters", "true")
	return values
}

func decodeItemParams(rawURL string) url.Values {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return url.Values{}
	}
	return parsed.Query()
}

func applyUpdate(entity *savedsearch.SavedSearch, req savedsearch.UpdateSavedSearchRequest) {
	if req.Text != nil {
		entity.Text = *req.Text
	}
	if req.Area != nil {
		entity.Area = req.Area
	}
	if req.Schedule != nil {
		entity.Schedule = req.Schedule
	}
	if req.Experience != nil {
		entity.Experience = req.Experience
	}
	if req.SalaryFrom != nil {
		entity.SalaryFrom = req.SalaryFrom
	}
	if req.SalaryTo != nil {
		entity.SalaryTo = req.SalaryTo
	}
	if req.Currency != nil {
		entity.Currency = req.Currency
	}
	if req.FiltersJSON != nil {
		entity.FiltersJSON = req.FiltersJSON
	}
	if req.PerPage != nil {
		entity.PerPage = *req.PerPage
	}
	if req.PagesLimit != nil {
		entity.PagesLimit = *req.PagesLimit
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}
	if req.CursorPage != nil {
		entity.CursorPage = *req.CursorPage
	}
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
