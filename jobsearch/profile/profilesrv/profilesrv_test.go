package profilesrv

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory profile.Repository. Item ownership checks mirror
// the SQL adapter: a mismatched profile id reads as not found.
type fakeRepo struct {
	nextID   int64
	profiles map[kernel.ProfileID]*profile.Profile

	experiences  []profile.Experience
	projects     []profile.Project
	achievements []profile.Achievement
	education    []profile.Education
	certificates []profile.Certificate
	skills       []profile.Skill
	languages    []profile.Language
	links        []profile.Link

	resumeVersions []profile.ResumeVersion
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: make(map[kernel.ProfileID]*profile.Profile)}
}

func (r *fakeRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *fakeRepo) Create(_ context.Context, p *profile.Profile) error {
	p.ID = kernel.NewProfileID(r.id())
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id kernel.ProfileID) (*profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound()
	}
	clone := *p
	return &clone, nil
}

func (r *fakeRepo) List(_ context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[profile.Profile], error) {
	items := make([]profile.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		items = append(items, *p)
	}
	return kernel.NewPaginated(items, pagination, len(items)), nil
}

func (r *fakeRepo) Update(_ context.Context, id kernel.ProfileID, p *profile.Profile) error {
	if _, ok := r.profiles[id]; !ok {
		return profile.ErrProfileNotFound()
	}
	clone := *p
	r.profiles[id] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id kernel.ProfileID) error {
	if _, ok := r.profiles[id]; !ok {
		return profile.ErrProfileNotFound()
	}
	delete(r.profiles, id)
	return nil
}

func (r *fakeRepo) ListIDs(_ context.Context, limit int) ([]kernel.ProfileID, error) {
	ids := make([]kernel.ProfileID, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *fakeRepo) ListExperiences(_ context.Context, profileID kernel.ProfileID) ([]profile.Experience, error) {
	var out []profile.Experience
	for _, e := range r.experiences {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateExperience(_ context.Context, e *profile.Experience) error {
	e.ID = kernel.NewProfileItemID(r.id())
	r.experiences = append(r.experiences, *e)
	return nil
}

func (r *fakeRepo) UpdateExperience(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, e *profile.Experience) error {
	for i := range r.experiences {
		if r.experiences[i].ID == id && r.experiences[i].ProfileID == profileID {
			r.experiences[i] = *e
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteExperience(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.experiences {
		if r.experiences[i].ID == id && r.experiences[i].ProfileID == profileID {
			r.experiences = append(r.experiences[:i], r.experiences[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListProjects(_ context.Context, profileID kernel.ProfileID) ([]profile.Project, error) {
	var out []profile.Project
	for _, p := range r.projects {
		if p.ProfileID == profileID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateProject(_ context.Context, p *profile.Project) error {
	p.ID = kernel.NewProfileItemID(r.id())
	r.projects = append(r.projects, *p)
	return nil
}

func (r *fakeRepo) UpdateProject(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, p *profile.Project) error {
	for i := range r.projects {
		if r.projects[i].ID == id && r.projects[i].ProfileID == profileID {
			r.projects[i] = *p
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteProject(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.projects {
		if r.projects[i].ID == id && r.projects[i].ProfileID == profileID {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListAchievements(_ context.Context, profileID kernel.ProfileID) ([]profile.Achievement, error) {
	var out []profile.Achievement
	for _, a := range r.achievements {
		if a.ProfileID == profileID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAchievement(_ context.Context, a *profile.Achievement) error {
	a.ID = kernel.NewProfileItemID(r.id())
	r.achievements = append(r.achievements, *a)
	return nil
}

func (r *fakeRepo) UpdateAchievement(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, a *profile.Achievement) error {
	for i := range r.achievements {
		if r.achievements[i].ID == id && r.achievements[i].ProfileID == profileID {
			r.achievements[i] = *a
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteAchievement(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.achievements {
		if r.achievements[i].ID == id && r.achievements[i].ProfileID == profileID {
			r.achievements = append(r.achievements[:i], r.achievements[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListEducation(_ context.Context, profileID kernel.ProfileID) ([]profile.Education, error) {
	var out []profile.Education
	for _, e := range r.education {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateEducation(_ context.Context, e *profile.Education) error {
	e.ID = kernel.NewProfileItemID(r.id())
	r.education = append(r.education, *e)
	return nil
}

func (r *fakeRepo) UpdateEducation(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, e *profile.Education) error {
	for i := range r.education {
		if r.education[i].ID == id && r.education[i].ProfileID == profileID {
			r.education[i] = *e
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteEducation(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.education {
		if r.education[i].ID == id && r.education[i].ProfileID == profileID {
			r.education = append(r.education[:i], r.education[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListCertificates(_ context.Context, profileID kernel.ProfileID) ([]profile.Certificate, error) {
	var out []profile.Certificate
	for _, c := range r.certificates {
		if c.ProfileID == profileID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateCertificate(_ context.Context, c *profile.Certificate) error {
	c.ID = kernel.NewProfileItemID(r.id())
	r.certificates = append(r.certificates, *c)
	return nil
}

func (r *fakeRepo) UpdateCertificate(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, c *profile.Certificate) error {
	for i := range r.certificates {
		if r.certificates[i].ID == id && r.certificates[i].ProfileID == profileID {
			r.certificates[i] = *c
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteCertificate(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.certificates {
		if r.certificates[i].ID == id && r.certificates[i].ProfileID == profileID {
			r.certificates = append(r.certificates[:i], r.certificates[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListSkills(_ context.Context, profileID kernel.ProfileID) ([]profile.Skill, error) {
	var out []profile.Skill
	for _, s := range r.skills {
		if s.ProfileID == profileID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateSkill(_ context.Context, s *profile.Skill) error {
	s.ID = kernel.NewProfileItemID(r.id())
	r.skills = append(r.skills, *s)
	return nil
}

func (r *fakeRepo) UpdateSkill(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, s *profile.Skill) error {
	for i := range r.skills {
		if r.skills[i].ID == id && r.skills[i].ProfileID == profileID {
			r.skills[i] = *s
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteSkill(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.skills {
		if r.skills[i].ID == id && r.skills[i].ProfileID == profileID {
			r.skills = append(r.skills[:i], r.skills[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListLanguages(_ context.Context, profileID kernel.ProfileID) ([]profile.Language, error) {
	var out []profile.Language
	for _, l := range r.languages {
		if l.ProfileID == profileID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateLanguage(_ context.Context, l *profile.Language) error {
	l.ID = kernel.NewProfileItemID(r.id())
	r.languages = append(r.languages, *l)
	return nil
}

func (r *fakeRepo) UpdateLanguage(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, l *profile.Language) error {
	for i := range r.languages {
		if r.languages[i].ID == id && r.languages[i].ProfileID == profileID {
			r.languages[i] = *l
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteLanguage(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.languages {
		if r.languages[i].ID == id && r.languages[i].ProfileID == profileID {
			r.languages = append(r.languages[:i], r.languages[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) ListLinks(_ context.Context, profileID kernel.ProfileID) ([]profile.Link, error) {
	var out []profile.Link
	for _, l := range r.links {
		if l.ProfileID == profileID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateLink(_ context.Context, l *profile.Link) error {
	l.ID = kernel.NewProfileItemID(r.id())
	r.links = append(r.links, *l)
	return nil
}

func (r *fakeRepo) UpdateLink(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, l *profile.Link) error {
	for i := range r.links {
		if r.links[i].ID == id && r.links[i].ProfileID == profileID {
			r.links[i] = *l
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) DeleteLink(_ context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	for i := range r.links {
		if r.links[i].ID == id && r.links[i].ProfileID == profileID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return profile.ErrItemNotFound()
}

func (r *fakeRepo) CreateResumeVersion(_ context.Context, v *profile.ResumeVersion) error {
	v.ID = kernel.NewResumeVersionID(r.id())
	r.resumeVersions = append(r.resumeVersions, *v)
	return nil
}

func (r *fakeRepo) HasResumeVersions(_ context.Context, profileID kernel.ProfileID) (bool, error) {
	for _, v := range r.resumeVersions {
		if v.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) LatestApprovedResumeText(_ context.Context, profileID kernel.ProfileID) (*string, error) {
	var latest *profile.ResumeVersion
	for i := range r.resumeVersions {
		v := &r.resumeVersions[i]
		if v.ProfileID != profileID || v.Status != profile.VersionStatusApproved || v.VacancyID != nil {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, nil
	}
	text := latest.ContentText
	return &text, nil
}

func (r *fakeRepo) HasSkills(_ context.Context, profileID kernel.ProfileID) (bool, error) {
	for _, s := range r.skills {
		if s.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

// fakeEnqueuer records every enqueue without touching a broker.
type fakeEnqueuer struct {
	nextID int
	single []struct {
		Name string
		Args map[string]any
	}
	chains [][]task.ChainStep
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, name string, args map[string]any) (kernel.TaskID, error) {
	f.nextID++
	f.single = append(f.single, struct {
		Name string
		Args map[string]any
	}{name, args})
	return kernel.NewTaskID(fmt.Sprintf("task-%d", f.nextID)), nil
}

func (f *fakeEnqueuer) EnqueueChain(_ context.Context, steps []task.ChainStep) ([]kernel.TaskID, error) {
	f.chains = append(f.chains, steps)
	ids := make([]kernel.TaskID, len(steps))
	for i := range steps {
		f.nextID++
		ids[i] = kernel.NewTaskID(fmt.Sprintf("task-%d", f.nextID))
	}
	return ids, nil
}

func newTestService() (*ProfileService, *fakeRepo, *fakeEnqueuer) {
	repo := newFakeRepo()
	tasks := &fakeEnqueuer{}
	return NewProfileService(repo, tasks), repo, tasks
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestCreateDefaultsAndSchedulesEmbedding(t *testing.T) {
	service, _, tasks := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		ResumeText: "Go developer with 7 years of backend experience.",
	})
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.True(t, created.RemoteOK, "remote_ok should default to true")
	assert.False(t, created.RelocationOK)
	assert.NotNil(t, created.PreferredTech)

	require.Len(t, tasks.single, 1)
	assert.Equal(t, task.NameBuildProfileEmbedding, tasks.single[0].Name)
	assert.Equal(t, created.ID.Int64(), tasks.single[0].Args["profile_id"])
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	service, _, _ := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		Title:      strPtr("Backend Engineer"),
		ResumeText: "original resume",
		SalaryMin:  intPtr(200000),
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, profile.UpdateProfileRequest{
		Title: strPtr("Senior Backend Engineer"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", *updated.Title)
	assert.Equal(t, "original resume", updated.ResumeText)
	require.NotNil(t, updated.SalaryMin)
	assert.Equal(t, 200000, *updated.SalaryMin)
}

func TestBackfillCreatesLegacyRowsOnce(t *testing.T) {
	service, repo, _ := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		ResumeText: "resume body",
		SkillsText: strPtr("Go, PostgreSQL; Redis,  , Kafka"),
	})
	require.NoError(t, err)

	result, err := service.Backfill(context.Background(), created.ID)
	require.NoError(t, err)

	assert.True(t, result.ResumeVersionCreated)
	assert.Equal(t, 4, result.SkillsCreated)

	require.Len(t, repo.resumeVersions, 1)
	version := repo.resumeVersions[0]
	assert.Equal(t, profile.VersionStatusApproved, version.Status)
	assert.Equal(t, profile.VersionSourceLegacyImport, version.Source)
	assert.Equal(t, "resume body", version.ContentText)
	require.NotNil(t, version.ApprovedAt)

	names := make([]string, 0, len(repo.skills))
	for _, s := range repo.skills {
		names = append(names, s.NameRaw)
		assert.Equal(t, profile.SkillCategoryTechnical, s.Category)
		assert.Equal(t, profile.SkillLevelUnspecified, s.Level)
		require.NotNil(t, s.NormalizedKey)
	}
	assert.ElementsMatch(t, []string{"Go", "PostgreSQL", "Redis", "Kafka"}, names)

	// Second run is a no-op.
	again, err := service.Backfill(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, again.ResumeVersionCreated)
	assert.Zero(t, again.SkillsCreated)
	assert.Len(t, repo.resumeVersions, 1)
	assert.Len(t, repo.skills, 4)
}

func TestBackfillSkipsBlankResumeText(t *testing.T) {
	service, repo, _ := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		ResumeText: "   ",
	})
	require.NoError(t, err)

	result, err := service.Backfill(context.Background(), created.ID)
	require.NoError(t, err)

	assert.False(t, result.ResumeVersionCreated)
	assert.Zero(t, result.SkillsCreated)
	assert.Empty(t, repo.resumeVersions)
}

func TestRecomputeAllChainsSteps(t *testing.T) {
	service, _, tasks := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		ResumeText: "resume",
	})
	require.NoError(t, err)

	out, err := service.RecomputeAll(context.Background(), created.ID, 25)
	require.NoError(t, err)

	require.Len(t, tasks.chains, 1)
	steps := tasks.chains[0]
	require.Len(t, steps, 3)
	assert.Equal(t, task.NameProfileBackfill, steps[0].Name)
	assert.Equal(t, task.NameBuildProfileEmbedding, steps[1].Name)
	assert.Equal(t, task.NameComputeRecommendations, steps[2].Name)
	assert.Equal(t, created.ID.Int64(), steps[2].Args["profile_id"])
	assert.Equal(t, 25, steps[2].Args["limit"])

	require.Len(t, out, 3)
	assert.False(t, out[task.NameProfileBackfill].IsEmpty())
}

func TestRecomputeAllUnknownProfile(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.RecomputeAll(context.Background(), kernel.NewProfileID(99), 10)
	assert.Error(t, err)
}

func TestBuildDocumentTerse(t *testing.T) {
	service, _, _ := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		Title:      strPtr("Go Developer"),
		ResumeText: "resume body",
		SkillsText: strPtr("Go, Redis"),
	})
	require.NoError(t, err)

	doc, err := service.BuildDocument(context.Background(), created.ID, DocumentModeTerse)
	require.NoError(t, err)

	assert.Equal(t, "Go Developer\n\nresume body\n\nGo, Redis", doc)
}

func TestBuildDocumentTerseSkipsEmptyParts(t *testing.T) {
	service, _, _ := newTestService()

	created, err := service.Create(context.Background(), profile.CreateProfileRequest{
		ResumeText: "resume body",
	})
	require.NoError(t, err)

	doc, err := service.BuildDocument(context.Background(), created.ID, DocumentModeTerse)
	require.NoError(t, err)

	assert.Equal(t, "resume body", doc)
}

func TestBuildDocumentRich(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, profile.CreateProfileRequest{
		Title:      strPtr("Go Developer"),
		ResumeText: "flat resume text",
		City:       strPtr("Moscow"),
		Country:    strPtr("Russia"),
		SalaryMin:  intPtr(250000),
	})
	require.NoError(t, err)

	// Approved general version should replace the flat resume text.
	require.NoError(t, err)
	_, err = service.Backfill(ctx, created.ID)
	require.NoError(t, err)

	years := 5.0
	_, err = service.CreateSkill(ctx, created.ID, profile.SkillRequest{
		NameRaw:  "Go",
		Category: "technical",
		Level:    "advanced",
		Years:    &years,
	})
	require.NoError(t, err)
	_, err = service.CreateSkill(ctx, created.ID, profile.SkillRequest{
		NameRaw:  "Redis",
		Category: "technical",
		Level:    profile.SkillLevelUnspecified,
	})
	require.NoError(t, err)

	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = service.CreateExperience(ctx, created.ID, profile.ExperienceRequest{
		CompanyName:          "Acme",
		PositionTitle:        "Backend Engineer",
		StartDate:            start,
		IsCurrent:            true,
		ResponsibilitiesText: "built services",
		AchievementsText:     "cut latency by 40%",
	})
	require.NoError(t, err)

	_, err = service.CreateLanguage(ctx, created.ID, profile.LanguageRequest{
		Language: "English",
		Level:    "C1",
	})
	require.NoError(t, err)

	doc, err := service.BuildDocument(ctx, created.ID, DocumentModeRich)
	require.NoError(t, err)

	assert.Contains(t, doc, "Profile\nTitle: Go Developer")
	assert.Contains(t, doc, "Location: Moscow, Russia")
	assert.Contains(t, doc, "Salary min: 250000")
	assert.Contains(t, doc, "Resume\nflat resume text")
	assert.Contains(t, doc, "- Go (advanced, 5 years)")
	assert.Contains(t, doc, "- Redis")
	assert.NotContains(t, doc, "unspecified")
	assert.Contains(t, doc, "- Backend Engineer | Acme | 2020-03 - present")
	assert.Contains(t, doc, "Achievements: cut latency by 40%")
	assert.Contains(t, doc, "Languages: English (C1)")
}

func TestBuildDocumentRichPrefersApprovedVersion(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, profile.CreateProfileRequest{
		ResumeText: "flat resume text",
	})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.CreateResumeVersion(ctx, &profile.ResumeVersion{
		ProfileID:   created.ID,
		ContentText: "polished approved resume",
		Format:      profile.ResumeFormatPlain,
		Source:      profile.VersionSourceUser,
		Status:      profile.VersionStatusApproved,
		CreatedAt:   now,
		ApprovedAt:  &now,
	}))

	doc, err := service.BuildDocument(ctx, created.ID, DocumentModeRich)
	require.NoError(t, err)

	assert.Contains(t, doc, "polished approved resume")
	assert.NotContains(t, doc, "flat resume text")
}

func TestBuildDocumentRichTruncates(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, profile.CreateProfileRequest{
		ResumeText: strings.Repeat("long resume text ", 1000),
	})
	require.NoError(t, err)

	doc, err := service.BuildDocument(ctx, created.ID, DocumentModeRich)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(doc), maxDocumentLength)
	assert.True(t, strings.HasSuffix(doc, "..."))
}

func TestBuildDocumentRichTruncatesOnRuneBoundary(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, profile.CreateProfileRequest{
		ResumeText: strings.Repeat("ф", maxDocumentLength+500),
	})
	require.NoError(t, err)

	doc, err := service.BuildDocument(ctx, created.ID, DocumentModeRich)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(doc))
	assert.LessOrEqual(t, len([]rune(doc)), maxDocumentLength)
	assert.True(t, strings.HasSuffix(doc, "..."))
}

func TestItemOwnershipMismatchIsNotFound(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	first, err := service.Create(ctx, profile.CreateProfileRequest{ResumeText: "a"})
	require.NoError(t, err)
	second, err := service.Create(ctx, profile.CreateProfileRequest{ResumeText: "b"})
	require.NoError(t, err)

	link, err := service.CreateLink(ctx, first.ID, profile.LinkRequest{
		Type: "github",
		URL:  "https://github.com/someone",
	})
	require.NoError(t, err)

	err = service.DeleteLink(ctx, second.ID, link.ID)
	assert.Error(t, err)
}
