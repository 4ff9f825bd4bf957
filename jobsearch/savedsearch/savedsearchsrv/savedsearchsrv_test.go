package savedsearchsrv

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID   int64
	searches map[kernel.SavedSearchID]*savedsearch.SavedSearch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{searches: make(map[kernel.SavedSearchID]*savedsearch.SavedSearch)}
}

func (r *fakeRepo) Create(_ context.Context, s *savedsearch.SavedSearch) error {
	r.nextID++
	s.ID = kernel.NewSavedSearchID(r.nextID)
	clone := *s
	r.searches[s.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id kernel.SavedSearchID) (*savedsearch.SavedSearch, error) {
	s, ok := r.searches[id]
	if !ok {
		return nil, savedsearch.ErrNotFound()
	}
	clone := *s
	return &clone, nil
}

func (r *fakeRepo) List(_ context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[savedsearch.SavedSearch], error) {
	items := make([]savedsearch.SavedSearch, 0, len(r.searches))
	for _, s := range r.searches {
		items = append(items, *s)
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *fakeRepo) Update(_ context.Context, id kernel.SavedSearchID, s *savedsearch.SavedSearch) error {
	if _, ok := r.searches[id]; !ok {
		return savedsearch.ErrNotFound()
	}
	clone := *s
	r.searches[id] = &clone
	return nil
}

func (r *fakeRepo) ListActive(_ context.Context) ([]savedsearch.SavedSearch, error) {
	var out []savedsearch.SavedSearch
	for _, s := range r.searches {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListActiveIDs(_ context.Context) ([]kernel.SavedSearchID, error) {
	var out []kernel.SavedSearchID
	for id, s := range r.searches {
		if s.IsActive {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeRepo) RecordSyncResult(_ context.Context, id kernel.SavedSearchID, lastSyncAt time.Time, watermark *time.Time, cursorPage int) error {
	s, ok := r.searches[id]
	if !ok {
		return savedsearch.ErrNotFound()
	}
	s.LastSyncAt = &lastSyncAt
	if watermark != nil {
		s.LastSeenPublishedAt = watermark
	}
	s.CursorPage = cursorPage
	return nil
}

type fakeEnqueuer struct {
	name string
	args map[string]any
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, name string, args map[string]any) (kernel.TaskID, error) {
	f.name = name
	f.args = args
	return kernel.NewTaskID("task-1"), nil
}

type fakeClusterFetcher struct {
	query  url.Values
	groups []savedsearch.ClusterGroup
}

func (f *fakeClusterFetcher) FetchClusters(_ context.Context, query url.Values) ([]savedsearch.ClusterGroup, error) {
	f.query = query
	return f.groups, nil
}

func newTestService() (*SavedSearchService, *fakeRepo, *fakeEnqueuer, *fakeClusterFetcher) {
	repo := newFakeRepo()
	tasks := &fakeEnqueuer{}
	clusters := &fakeClusterFetcher{}
	return NewSavedSearchService(repo, tasks, clusters), repo, tasks, clusters
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	service, _, _, _ := newTestService()

	created, err := service.Create(context.Background(), savedsearch.CreateSavedSearchRequest{
		Text: "golang backend",
	})
	require.NoError(t, err)

	assert.Equal(t, savedsearch.DefaultPerPage, created.PerPage)
	assert.Equal(t, savedsearch.DefaultPagesLimit, created.PagesLimit)
	assert.True(t, created.IsActive)
	assert.Zero(t, created.CursorPage)
	assert.NotNil(t, created.FiltersJSON)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	service, _, _, _ := newTestService()

	created, err := service.Create(context.Background(), savedsearch.CreateSavedSearchRequest{
		Text: "golang backend",
		Area: strPtr("1"),
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, savedsearch.UpdateSavedSearchRequest{
		IsActive: func() *bool { v := false; return &v }(),
	})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)
	assert.Equal(t, "golang backend", updated.Text)
	require.NotNil(t, updated.Area)
	assert.Equal(t, "1", *updated.Area)
}

func TestSyncEnqueuesTask(t *testing.T) {
	service, _, tasks, _ := newTestService()

	created, err := service.Create(context.Background(), savedsearch.CreateSavedSearchRequest{
		Text: "golang backend",
	})
	require.NoError(t, err)

	resp, err := service.Sync(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, task.NameSyncSavedSearch, tasks.name)
	assert.Equal(t, created.ID.Int64(), tasks.args["saved_search_id"])
	assert.Equal(t, kernel.NewTaskID("task-1"), resp.TaskID)
}

func TestSyncUnknownSearch(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Sync(context.Background(), kernel.NewSavedSearchID(42))
	assert.Error(t, err)
}

func TestClustersQueryAndParamDecoding(t *testing.T) {
	service, _, _, clusters := newTestService()

	clusters.groups = []savedsearch.ClusterGroup{
		{
			ID:   "area",
			Name: "Регион",
			Items: []savedsearch.ClusterItem{
				{
					Name:  "Москва",
					URL:   "https://api.hh.ru/vacancies?area=1&text=golang+backend",
					Count: 120,
				},
			},
		},
	}

	created, err := service.Create(context.Background(), savedsearch.CreateSavedSearchRequest{
		Text:       "golang backend",
		Area:       strPtr("113"),
		SalaryFrom: intPtr(200000),
		FiltersJSON: map[string]any{
			"professional_role": []any{"96", "104"},
			"only_with_salary":  true,
		},
	})
	require.NoError(t, err)

	views, err := service.Clusters(context.Background(), created.ID)
	require.NoError(t, err)

	// Facet query asks for a minimal page with clusters enabled.
	assert.Equal(t, "0", clusters.query.Get("page"))
	assert.Equal(t, "1", clusters.query.Get("per_page"))
	assert.Equal(t, "true", clusters.query.Get("clusters"))
	assert.Equal(t, "golang backend", clusters.query.Get("text"))
	assert.Equal(t, "113", clusters.query.Get("area"))
	assert.Equal(t, "200000", clusters.query.Get("salary"))
	assert.Equal(t, []string{"96", "104"}, clusters.query["professional_role"])
	assert.Equal(t, "true", clusters.query.Get("only_with_salary"))

	require.Len(t, views, 1)
	require.Len(t, views[0].Items, 1)
	item := views[0].Items[0]
	assert.Equal(t, "Москва", item.Name)
	assert.Equal(t, 120, item.Count)
	assert.Equal(t, "1", item.Params.Get("area"))
	assert.Equal(t, "golang backend", item.Params.Get("text"))
}

func TestCutoffPrefersWatermark(t *testing.T) {
	sync := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	seen := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	s := &savedsearch.SavedSearch{LastSyncAt: &sync}
	require.NotNil(t, s.Cutoff())
	assert.Equal(t, sync, *s.Cutoff())

	s.LastSeenPublishedAt = &seen
	assert.Equal(t, seen, *s.Cutoff())

	assert.Nil(t, (&savedsearch.SavedSearch{}).Cutoff())
}
