package ingestsrv

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/Abraxas-365/scout/internal/vacancyparse"
	"github.com/Abraxas-365/scout/jobsearch/ingest"
	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeClient struct {
	pages      map[int]*ingest.SearchPage
	details    map[string]*ingest.BoardVacancy
	detailErrs map[string]error

	searchCalls int
	detailCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages:      make(map[int]*ingest.SearchPage),
		details:    make(map[string]*ingest.BoardVacancy),
		detailErrs: make(map[string]error),
	}
}

func (c *fakeClient) SearchVacancies(_ context.Context, query url.Values) (*ingest.SearchPage, error) {
	c.searchCalls++
	page, _ := strconv.Atoi(query.Get("page"))
	sp, ok := c.pages[page]
	if !ok {
		return nil, ingest.ErrHHAPI()
	}
	return sp, nil
}

func (c *fakeClient) GetVacancyDetails(_ context.Context, externalID string) (*ingest.BoardVacancy, error) {
	c.detailCalls++
	if err := c.detailErrs[externalID]; err != nil {
		return nil, err
	}
	item, ok := c.details[externalID]
	if !ok {
		return nil, ingest.ErrHHAPI()
	}
	return item, nil
}

func (c *fakeClient) PoliteDelay(_ context.Context) error { return nil }

type storedVacancy struct {
	entity       vacancy.Vacancy
	parsed       vacancy.Parsed
	requirements []vacancy.Requirement
}

type fakeVacancyRepo struct {
	nextID    int64
	byKey     map[string]kernel.VacancyID
	byID      map[kernel.VacancyID]*storedVacancy
	needParse []kernel.VacancyID
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{
		byKey: make(map[string]kernel.VacancyID),
		byID:  make(map[kernel.VacancyID]*storedVacancy),
	}
}

func (r *fakeVacancyRepo) key(source, externalID string) string {
	return source + "/" + externalID
}

func (r *fakeVacancyRepo) Create(_ context.Context, v *vacancy.Vacancy) error {
	r.nextID++
	v.ID = kernel.NewVacancyID(r.nextID)
	r.byID[v.ID] = &storedVacancy{entity: *v}
	return nil
}

func (r *fakeVacancyRepo) GetByID(_ context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, vacancy.ErrVacancyNotFound()
	}
	entity := stored.entity
	return &entity, nil
}

func (r *fakeVacancyRepo) List(_ context.Context, _ kernel.PaginationOptions) (*kernel.Paginated[vacancy.Vacancy], error) {
	return nil, nil
}

func (r *fakeVacancyRepo) Update(_ context.Context, _ kernel.VacancyID, _ *vacancy.Vacancy) error {
	return nil
}

func (r *fakeVacancyRepo) Delete(_ context.Context, _ kernel.VacancyID) error { return nil }

func (r *fakeVacancyRepo) UpsertImported(_ context.Context, v *vacancy.Vacancy, parsed *vacancy.Parsed, requirements []vacancy.Requirement) (bool, kernel.VacancyID, error) {
	key := r.key(v.Source, v.ExternalID)
	id, exists := r.byKey[key]
	if !exists {
		r.nextID++
		id = kernel.NewVacancyID(r.nextID)
		r.byKey[key] = id
	}
	v.ID = id
	parsed.VacancyID = id
	r.byID[id] = &storedVacancy{entity: *v, parsed: *parsed, requirements: requirements}
	return !exists, id, nil
}

func (r *fakeVacancyRepo) GetParsed(_ context.Context, id kernel.VacancyID) (*vacancy.Parsed, error) {
	stored, ok := r.byID[id]
	if !ok || stored.parsed.Version == "" {
		return nil, nil
	}
	parsed := stored.parsed
	return &parsed, nil
}

func (r *fakeVacancyRepo) UpsertParsed(_ context.Context, parsed *vacancy.Parsed) error {
	stored, ok := r.byID[parsed.VacancyID]
	if !ok {
		return vacancy.ErrVacancyNotFound()
	}
	stored.parsed = *parsed
	return nil
}

func (r *fakeVacancyRepo) ReplaceGeneratedRequirements(_ context.Context, id kernel.VacancyID, requirements []vacancy.Requirement) error {
	stored, ok := r.byID[id]
	if !ok {
		return vacancy.ErrVacancyNotFound()
	}
	stored.requirements = requirements
	return nil
}

func (r *fakeVacancyRepo) ListRequirements(_ context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return stored.requirements, nil
}

func (r *fakeVacancyRepo) ListSkillRequirements(_ context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error) {
	var out []vacancy.Requirement
	for _, req := range r.byID[id].requirements {
		if req.Kind == vacancyparse.KindSkill {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) MaxPublishedAt(_ context.Context, source string) (*time.Time, error) {
	var max *time.Time
	for _, stored := range r.byID {
		if stored.entity.Source != source || stored.entity.PublishedAt == nil {
			continue
		}
		if max == nil || stored.entity.PublishedAt.After(*max) {
			at := *stored.entity.PublishedAt
			max = &at
		}
	}
	return max, nil
}

func (r *fakeVacancyRepo) ListIDs(_ context.Context, limit int) ([]kernel.VacancyID, error) {
	var ids []kernel.VacancyID
	for i := int64(1); i <= r.nextID; i++ {
		id := kernel.NewVacancyID(i)
		if _, ok := r.byID[id]; ok {
			ids = append(ids, id)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *fakeVacancyRepo) ListIDsNeedingParse(_ context.Context, _ string, limit int) ([]kernel.VacancyID, error) {
	ids := r.needParse
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakeSearchRepo struct {
	searches map[kernel.SavedSearchID]*savedsearch.SavedSearch

	recordedSyncAt    *time.Time
	recordedWatermark *time.Time
	recordedCursor    int
}

func (r *fakeSearchRepo) Create(_ context.Context, _ *savedsearch.SavedSearch) error { return nil }

func (r *fakeSearchRepo) GetByID(_ context.Context, id kernel.SavedSearchID) (*savedsearch.SavedSearch, error) {
	s, ok := r.searches[id]
	if !ok {
		return nil, savedsearch.ErrNotFound()
	}
	return s, nil
}

func (r *fakeSearchRepo) List(_ context.Context, _ kernel.PaginationOptions) (*kernel.Paginated[savedsearch.SavedSearch], error) {
	return nil, nil
}

func (r *fakeSearchRepo) Update(_ context.Context, _ kernel.SavedSearchID, _ *savedsearch.SavedSearch) error {
	return nil
}

func (r *fakeSearchRepo) ListActive(_ context.Context) ([]savedsearch.SavedSearch, error) {
	return nil, nil
}

func (r *fakeSearchRepo) ListActiveIDs(_ context.Context) ([]kernel.SavedSearchID, error) {
	return nil, nil
}

func (r *fakeSearchRepo) RecordSyncResult(_ context.Context, id kernel.SavedSearchID, lastSyncAt time.Time, watermark *time.Time, cursorPage int) error {
	r.recordedSyncAt = &lastSyncAt
	r.recordedWatermark = watermark
	r.recordedCursor = cursorPage
	return nil
}

type fakeProfileLister struct {
	ids []kernel.ProfileID
}

func (f *fakeProfileLister) ListIDs(_ context.Context, _ int) ([]kernel.ProfileID, error) {
	return f.ids, nil
}

type enqueued struct {
	name string
	args map[string]any
}

type fakeEnqueuer struct {
	tasks []enqueued
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, name string, args map[string]any) (kernel.TaskID, error) {
	f.tasks = append(f.tasks, enqueued{name: name, args: args})
	return kernel.NewTaskID(fmt.Sprintf("task-%d", len(f.tasks))), nil
}

func (f *fakeEnqueuer) countByName(name string) int {
	count := 0
	for _, item := range f.tasks {
		if item.name == name {
			count++
		}
	}
	return count
}

// ============================================================================
// Fixtures
// ============================================================================

func boardItem(id string, publishedAt time.Time) ingest.BoardVacancy {
	return ingest.BoardVacancy{
		ID:           id,
		Name:         "Go Developer " + id,
		PublishedAt:  publishedAt.Format("2006-01-02T15:04:05-0700"),
		AlternateURL: "https://hh.ru/vacancy/" + id,
		Area:         &ingest.BoardArea{ID: "1", Name: "Москва"},
		Employer:     &ingest.BoardRef{ID: "99", Name: "Acme"},
		Snippet: &ingest.BoardSnippet{
			Responsibility: "Разработка сервисов на Go.",
			Requirement:    "Требования: Go, PostgreSQL.",
		},
	}
}

func newTestService() (*IngestService, *fakeClient, *fakeVacancyRepo, *fakeSearchRepo, *fakeEnqueuer) {
	client := newFakeClient()
	vacancies := newFakeVacancyRepo()
	searches := &fakeSearchRepo{searches: make(map[kernel.SavedSearchID]*savedsearch.SavedSearch)}
	profiles := &fakeProfileLister{}
	tasks := &fakeEnqueuer{}
	service := NewIngestService(client, vacancies, searches, profiles, tasks)
	return service, client, vacancies, searches, tasks
}

// ============================================================================
// Import
// ============================================================================

func TestImportUpsertsAndSchedulesEmbeddings(t *testing.T) {
	service, client, vacancies, _, tasks := newTestService()

	now := time.Now()
	client.pages[0] = &ingest.SearchPage{
		Items: []ingest.BoardVacancy{boardItem("1", now), boardItem("2", now), boardItem("3", now)},
		Page:  0, Pages: 1,
	}

	result, err := service.ImportVacancies(context.Background(), ingest.ImportFilters{Text: "golang"}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PagesProcessed)
	assert.Equal(t, 3, result.VacanciesSeen)
	assert.Equal(t, 3, result.Saved)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Errors)
	assert.False(t, result.StopByCutoff)
	assert.Equal(t, 3, tasks.countByName(task.NameBuildVacancyEmbedding))
	assert.Len(t, vacancies.byID, 3)

	// The second run hits the same external ids and updates instead.
	result, err = service.ImportVacancies(context.Background(), ingest.ImportFilters{Text: "golang"}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 3, result.Updated)
	assert.Len(t, vacancies.byID, 3)
}

func TestImportStoresParseAndRequirements(t *testing.T) {
	service, client, vacancies, _, _ := newTestService()

	item := boardItem("7", time.Now())
	client.pages[0] = &ingest.SearchPage{Items: []ingest.BoardVacancy{item}, Pages: 1}

	_, err := service.ImportVacancies(context.Background(), ingest.ImportFilters{Text: "golang"}, nil, 0)
	require.NoError(t, err)

	stored := vacancies.byID[kernel.NewVacancyID(1)]
	require.NotNil(t, stored)
	assert.Equal(t, vacancy.SourceHH, stored.entity.Source)
	assert.Equal(t, "7", stored.entity.ExternalID)
	assert.Equal(t, "Acme", *stored.entity.CompanyName)
	assert.Equal(t, "Москва", *stored.entity.Location)
	require.NotNil(t, stored.entity.PublishedAt)
	assert.Equal(t, vacancyparse.Version, stored.parsed.Version)
	assert.NotEmpty(t, stored.parsed.PlainText)
}

func TestImportStopsAtCutoff(t *testing.T) {
	service, client, _, _, _ := newTestService()

	cutoff := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fresh := boardItem("1", cutoff.Add(time.Hour))
	stale := boardItem("2", cutoff.Add(-time.Hour))
	client.pages[0] = &ingest.SearchPage{Items: []ingest.BoardVacancy{fresh, stale}, Pages: 5}

	filters := ingest.ImportFilters{Text: "golang", PagesLimit: 3}
	result, err := service.ImportVacancies(context.Background(), filters, &cutoff, 0)
	require.NoError(t, err)

	assert.True(t, result.StopByCutoff)
	assert.Equal(t, 1, result.PagesProcessed)
	assert.Equal(t, 1, result.VacanciesSeen)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, client.searchCalls)
}

func TestImportIsolatesItemErrors(t *testing.T) {
	service, client, _, _, _ := newTestService()

	good := boardItem("1", time.Now())
	bad := boardItem("2", time.Now())
	client.pages[0] = &ingest.SearchPage{Items: []ingest.BoardVacancy{good, bad}, Pages: 1}
	client.details["1"] = &ingest.BoardVacancy{Description: "<p>Полное описание</p>"}
	client.detailErrs["2"] = ingest.ErrHHAPI()

	filters := ingest.ImportFilters{Text: "golang", IncludeDetails: true}
	result, err := service.ImportVacancies(context.Background(), filters, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.VacanciesSeen)
}

func TestImportMergesDetails(t *testing.T) {
	service, client, vacancies, _, _ := newTestService()

	item := boardItem("1", time.Now())
	client.pages[0] = &ingest.SearchPage{Items: []ingest.BoardVacancy{item}, Pages: 1}
	client.details["1"] = &ingest.BoardVacancy{
		Description: "<p>Обязанности: разработка. Требования: Go, Docker.</p>",
		KeySkills:   []ingest.BoardKeySkill{{Name: "Go"}, {Name: "Docker"}},
	}

	filters := ingest.ImportFilters{Text: "golang", IncludeDetails: true}
	_, err := service.ImportVacancies(context.Background(), filters, nil, 0)
	require.NoError(t, err)

	stored := vacancies.byID[kernel.NewVacancyID(1)]
	require.NotNil(t, stored)
	assert.Contains(t, stored.entity.Description, "Docker")

	keys := make([]string, 0, len(stored.requirements))
	for _, req := range stored.requirements {
		keys = append(keys, req.NormalizedKey)
	}
	assert.Contains(t, keys, "go")
	assert.Contains(t, keys, "docker")
	assert.Equal(t, 1, client.detailCalls)
}

// ============================================================================
// Saved-search sync
// ============================================================================

func TestSyncSavedSearchAdvancesCursor(t *testing.T) {
	service, client, _, searches, _ := newTestService()

	now := time.Now().Truncate(time.Second)
	id := kernel.NewSavedSearchID(1)
	searches.searches[id] = &savedsearch.SavedSearch{
		ID: id, Text: "golang", PerPage: 20, PagesLimit: 2, CursorPage: 2, IsActive: true,
	}
	client.pages[2] = &ingest.SearchPage{Items: []ingest.BoardVacancy{boardItem("1", now)}, Pages: 10}
	client.pages[3] = &ingest.SearchPage{Items: []ingest.BoardVacancy{boardItem("2", now.Add(time.Minute))}, Pages: 10}
	client.details["1"] = &ingest.BoardVacancy{Description: "<p>desc</p>"}
	client.details["2"] = &ingest.BoardVacancy{Description: "<p>desc</p>"}

	result, err := service.SyncSavedSearch(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Import.PagesProcessed)
	assert.Equal(t, 4, result.NextCursor)
	assert.Equal(t, 4, searches.recordedCursor)
	require.NotNil(t, searches.recordedWatermark)
	assert.WithinDuration(t, now.Add(time.Minute), *searches.recordedWatermark, time.Second)
	require.NotNil(t, searches.recordedSyncAt)
}

func TestSyncSavedSearchResetsCursorOnCutoff(t *testing.T) {
	service, client, _, searches, _ := newTestService()

	watermark := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	id := kernel.NewSavedSearchID(1)
	searches.searches[id] = &savedsearch.SavedSearch{
		ID: id, Text: "golang", PerPage: 20, PagesLimit: 3, CursorPage: 5,
		LastSeenPublishedAt: &watermark, IsActive: true,
	}
	client.pages[5] = &ingest.SearchPage{
		Items: []ingest.BoardVacancy{boardItem("1", watermark.Add(-time.Hour))},
		Pages: 10,
	}

	result, err := service.SyncSavedSearch(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, result.Import.StopByCutoff)
	assert.Equal(t, 0, result.NextCursor)
	assert.Equal(t, 0, searches.recordedCursor)
	// Nothing imported, so the previous watermark carries over.
	require.NotNil(t, searches.recordedWatermark)
	assert.True(t, searches.recordedWatermark.Equal(watermark))
}

func TestSyncSavedSearchUnknownID(t *testing.T) {
	service, _, _, _, _ := newTestService()

	_, err := service.SyncSavedSearch(context.Background(), kernel.NewSavedSearchID(404))
	require.Error(t, err)
}

// ============================================================================
// Parse backfill
// ============================================================================

func TestBackfillParsed(t *testing.T) {
	service, client, vacancies, _, tasks := newTestService()

	// Seed two imported vacancies, then pretend their parse rows are stale.
	now := time.Now()
	client.pages[0] = &ingest.SearchPage{
		Items: []ingest.BoardVacancy{boardItem("1", now), boardItem("2", now)},
		Pages: 1,
	}
	_, err := service.ImportVacancies(context.Background(), ingest.ImportFilters{Text: "golang"}, nil, 0)
	require.NoError(t, err)
	tasks.tasks = nil

	vacancies.needParse = []kernel.VacancyID{kernel.NewVacancyID(1), kernel.NewVacancyID(2)}
	profiles := service.profiles.(*fakeProfileLister)
	profiles.ids = []kernel.ProfileID{kernel.NewProfileID(10), kernel.NewProfileID(11)}

	result, err := service.BackfillParsed(context.Background(), ingest.BackfillParsedRequest{
		OnlyMissing:             true,
		ScheduleEmbeddings:      true,
		ScheduleRecommendations: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, 2, result.EmbeddingTasks)
	assert.Equal(t, 2, result.RecommendationRuns)
	assert.Equal(t, 2, tasks.countByName(task.NameBuildVacancyEmbedding))
	assert.Equal(t, 2, tasks.countByName(task.NameComputeRecommendations))
	assert.Equal(t, vacancyparse.Version, vacancies.byID[kernel.NewVacancyID(1)].parsed.Version)
}

func TestBackfillParsedKeepsKeySkills(t *testing.T) {
	service, _, vacancies, _, _ := newTestService()

	id := kernel.NewVacancyID(1)
	vacancies.nextID = 1
	vacancies.byID[id] = &storedVacancy{
		entity: vacancy.Vacancy{
			ID: id, Source: vacancy.SourceHH, ExternalID: "1",
			Title: "Go Developer", Description: "<p>Требования: опыт с Go.</p>",
		},
		requirements: []vacancy.Requirement{
			{VacancyID: id, Kind: vacancyparse.KindSkill, RawText: "Kubernetes",
				NormalizedKey: "kubernetes", Source: vacancyparse.SourceKeySkills},
		},
	}
	vacancies.needParse = []kernel.VacancyID{id}

	result, err := service.BackfillParsed(context.Background(), ingest.BackfillParsedRequest{OnlyMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	keys := make([]string, 0)
	for _, req := range vacancies.byID[id].requirements {
		keys = append(keys, req.NormalizedKey)
	}
	assert.Contains(t, keys, "kubernetes")
}
