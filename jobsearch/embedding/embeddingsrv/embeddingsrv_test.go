package embeddingsrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/scout/internal/ai/embeddings"
	"github.com/Abraxas-365/scout/jobsearch/embedding"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	vacancyVectors map[kernel.VacancyID]*embedding.VacancyEmbedding
	profileVectors map[kernel.ProfileID]*embedding.ProfileEmbedding
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vacancyVectors: make(map[kernel.VacancyID]*embedding.VacancyEmbedding),
		profileVectors: make(map[kernel.ProfileID]*embedding.ProfileEmbedding),
	}
}

func (s *fakeStore) UpsertVacancyEmbedding(_ context.Context, e *embedding.VacancyEmbedding) error {
	clone := *e
	s.vacancyVectors[e.VacancyID] = &clone
	return nil
}

func (s *fakeStore) UpsertProfileEmbedding(_ context.Context, e *embedding.ProfileEmbedding) error {
	clone := *e
	s.profileVectors[e.ProfileID] = &clone
	return nil
}

func (s *fakeStore) GetVacancyEmbedding(_ context.Context, id kernel.VacancyID) (*embedding.VacancyEmbedding, error) {
	return s.vacancyVectors[id], nil
}

func (s *fakeStore) GetProfileEmbedding(_ context.Context, id kernel.ProfileID) (*embedding.ProfileEmbedding, error) {
	return s.profileVectors[id], nil
}

func (s *fakeStore) SimilarityForPair(_ context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (float64, bool, error) {
	if s.profileVectors[profileID] == nil || s.vacancyVectors[vacancyID] == nil {
		return 0, false, nil
	}
	return 1, true, nil
}

func (s *fakeStore) ListCandidatesByProfile(_ context.Context, _ kernel.ProfileID) ([]embedding.Candidate, error) {
	return nil, nil
}

func (s *fakeStore) DeleteVacancyEmbeddings(_ context.Context, ids []kernel.VacancyID) error {
	for _, id := range ids {
		delete(s.vacancyVectors, id)
	}
	return nil
}

func (s *fakeStore) DeleteProfileEmbeddings(_ context.Context, ids []kernel.ProfileID) error {
	for _, id := range ids {
		delete(s.profileVectors, id)
	}
	return nil
}

func (s *fakeStore) CountVacancyEmbeddings(_ context.Context) (int, error) {
	return len(s.vacancyVectors), nil
}

func (s *fakeStore) CountProfileEmbeddings(_ context.Context) (int, error) {
	return len(s.profileVectors), nil
}

type fakeVacancySource struct {
	vacancies map[kernel.VacancyID]*vacancy.Vacancy
	parsed    map[kernel.VacancyID]*vacancy.Parsed
	skills    map[kernel.VacancyID][]vacancy.Requirement
}

func newFakeVacancySource() *fakeVacancySource {
	return &fakeVacancySource{
		vacancies: make(map[kernel.VacancyID]*vacancy.Vacancy),
		parsed:    make(map[kernel.VacancyID]*vacancy.Parsed),
		skills:    make(map[kernel.VacancyID][]vacancy.Requirement),
	}
}

func (f *fakeVacancySource) GetByID(_ context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	v, ok := f.vacancies[id]
	if !ok {
		return nil, vacancy.ErrVacancyNotFound()
	}
	return v, nil
}

func (f *fakeVacancySource) GetParsed(_ context.Context, id kernel.VacancyID) (*vacancy.Parsed, error) {
	return f.parsed[id], nil
}

func (f *fakeVacancySource) ListSkillRequirements(_ context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error) {
	return f.skills[id], nil
}

func (f *fakeVacancySource) ListIDs(_ context.Context, limit int) ([]kernel.VacancyID, error) {
	var ids []kernel.VacancyID
	for id := range f.vacancies {
		ids = append(ids, id)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakeProfileDocs struct {
	docs map[kernel.ProfileID]string
	mode string
}

func (f *fakeProfileDocs) BuildDocument(_ context.Context, id kernel.ProfileID, mode string) (string, error) {
	f.mode = mode
	doc, ok := f.docs[id]
	if !ok {
		return "", profile.ErrProfileNotFound()
	}
	return doc, nil
}

func (f *fakeProfileDocs) ListIDs(_ context.Context, limit int) ([]kernel.ProfileID, error) {
	var ids []kernel.ProfileID
	for id := range f.docs {
		ids = append(ids, id)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func newTestService(t *testing.T) (*EmbeddingService, *fakeStore, *fakeVacancySource, *fakeProfileDocs) {
	t.Helper()
	provider := embeddings.NewLocalHashProvider("hashing-v1", 64)

	store := newFakeStore()
	vacancies := newFakeVacancySource()
	profiles := &fakeProfileDocs{docs: make(map[kernel.ProfileID]string)}
	service := NewEmbeddingService(provider, store, vacancies, profiles, profiles, "terse")
	return service, store, vacancies, profiles
}

func TestBuildVacancyEmbedding(t *testing.T) {
	service, store, vacancies, _ := newTestService(t)

	id := kernel.NewVacancyID(1)
	vacancies.vacancies[id] = &vacancy.Vacancy{
		ID:          id,
		Title:       "Go Developer",
		Description: "Разработка сервисов на Go",
	}

	outcome, err := service.BuildVacancyEmbedding(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, embedding.StatusOK, outcome.Status)
	record := store.vacancyVectors[id]
	require.NotNil(t, record)
	assert.Equal(t, "hashing-v1", record.ModelName)
	assert.Len(t, record.Vector, 64)
}

func TestBuildVacancyEmbeddingSkipsMissing(t *testing.T) {
	service, store, _, _ := newTestService(t)

	outcome, err := service.BuildVacancyEmbedding(context.Background(), kernel.NewVacancyID(42))
	require.NoError(t, err)

	assert.Equal(t, embedding.StatusSkipped, outcome.Status)
	assert.Equal(t, "vacancy_not_found", outcome.Reason)
	assert.Empty(t, store.vacancyVectors)
}

func TestBuildProfileEmbeddingUsesConfiguredMode(t *testing.T) {
	service, store, _, profiles := newTestService(t)

	id := kernel.NewProfileID(5)
	profiles.docs[id] = "Go Developer\n\nresume text"

	outcome, err := service.BuildProfileEmbedding(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, embedding.StatusOK, outcome.Status)
	assert.Equal(t, "terse", profiles.mode)
	require.NotNil(t, store.profileVectors[id])
}

func TestBuildProfileEmbeddingSkipsMissing(t *testing.T) {
	service, _, _, _ := newTestService(t)

	outcome, err := service.BuildProfileEmbedding(context.Background(), kernel.NewProfileID(9))
	require.NoError(t, err)

	assert.Equal(t, embedding.StatusSkipped, outcome.Status)
	assert.Equal(t, "profile_not_found", outcome.Reason)
}

func TestRebuildVacancyEmbeddings(t *testing.T) {
	service, store, vacancies, _ := newTestService(t)

	for i := int64(1); i <= 40; i++ {
		id := kernel.NewVacancyID(i)
		vacancies.vacancies[id] = &vacancy.Vacancy{ID: id, Title: "Vacancy", Description: "text"}
	}

	outcome, err := service.RebuildVacancyEmbeddings(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 40, outcome.Processed)
	assert.Len(t, store.vacancyVectors, 40)
}

func TestRebuildProfileEmbeddings(t *testing.T) {
	service, store, _, profiles := newTestService(t)

	for i := int64(1); i <= 3; i++ {
		profiles.docs[kernel.NewProfileID(i)] = "doc"
	}

	outcome, err := service.RebuildProfileEmbeddings(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Processed)
	assert.Len(t, store.profileVectors, 3)
}

func TestComposeVacancyDocument(t *testing.T) {
	vac := &vacancy.Vacancy{
		Title:       "Go Developer",
		Description: "<p>Разработка сервисов</p>",
	}
	skills := []vacancy.Requirement{
		{RawText: "Go"},
		{RawText: "PostgreSQL"},
	}

	doc := composeVacancyDocument(vac, nil, skills)
	assert.Equal(t, "Go Developer\n\nРазработка сервисов\n\nКлючевые навыки: Go, PostgreSQL", doc)

	parsed := &vacancy.Parsed{PlainText: "already parsed text"}
	doc = composeVacancyDocument(vac, parsed, nil)
	assert.Equal(t, "Go Developer\n\nalready parsed text", doc)
}
