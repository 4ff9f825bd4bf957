package matchsrv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Abraxas-365/scout/jobsearch/embedding"
	"github.com/Abraxas-365/scout/jobsearch/match"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/errx"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type pairKey struct {
	profileID kernel.ProfileID
	vacancyID kernel.VacancyID
}

type fakeMatchRepo struct {
	scores   map[pairKey]*match.VacancyScore
	evidence map[pairKey][]match.ResumeEvidence
	nextID   int64
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		scores:   make(map[pairKey]*match.VacancyScore),
		evidence: make(map[pairKey][]match.ResumeEvidence),
	}
}

func (r *fakeMatchRepo) UpsertScoreWithEvidence(_ context.Context, score *match.VacancyScore, evidence []match.ResumeEvidence) error {
	key := pairKey{score.ProfileID, score.VacancyID}
	if existing, ok := r.scores[key]; ok {
		score.ID = existing.ID
	} else {
		r.nextID++
		score.ID = kernel.NewScoreID(r.nextID)
	}
	clone := *score
	r.scores[key] = &clone
	r.evidence[key] = append([]match.ResumeEvidence(nil), evidence...)
	return nil
}

func (r *fakeMatchRepo) GetScore(_ context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (*match.VacancyScore, error) {
	score, ok := r.scores[pairKey{profileID, vacancyID}]
	if !ok {
		return nil, nil
	}
	clone := *score
	return &clone, nil
}

func (r *fakeMatchRepo) ListRecommendations(_ context.Context, _ kernel.ProfileID, _ int) ([]match.Recommendation, error) {
	return nil, nil
}

func (r *fakeMatchRepo) ListEvidence(_ context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) ([]match.ResumeEvidence, error) {
	return r.evidence[pairKey{profileID, vacancyID}], nil
}

type fakeProfileSource struct {
	profiles map[kernel.ProfileID]*profile.Profile
}

func (f *fakeProfileSource) GetByID(_ context.Context, id kernel.ProfileID) (*profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound()
	}
	return p, nil
}

type fakeVacancySource struct {
	vacancies    map[kernel.VacancyID]*vacancy.Vacancy
	parsed       map[kernel.VacancyID]*vacancy.Parsed
	requirements map[kernel.VacancyID][]vacancy.Requirement
}

func newFakeVacancySource() *fakeVacancySource {
	return &fakeVacancySource{
		vacancies:    make(map[kernel.VacancyID]*vacancy.Vacancy),
		parsed:       make(map[kernel.VacancyID]*vacancy.Parsed),
		requirements: make(map[kernel.VacancyID][]vacancy.Requirement),
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
	return f.requirements[id], nil
}

type fakeSimilarity struct {
	similarities     map[pairKey]float64
	profileEmbedding map[kernel.ProfileID]bool
	candidates       []embedding.Candidate
}

func newFakeSimilarity() *fakeSimilarity {
	return &fakeSimilarity{
		similarities:     make(map[pairKey]float64),
		profileEmbedding: make(map[kernel.ProfileID]bool),
	}
}

func (f *fakeSimilarity) SimilarityForPair(_ context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (float64, bool, error) {
	sim, ok := f.similarities[pairKey{profileID, vacancyID}]
	return sim, ok, nil
}

func (f *fakeSimilarity) GetProfileEmbedding(_ context.Context, id kernel.ProfileID) (*embedding.ProfileEmbedding, error) {
	if !f.profileEmbedding[id] {
		return nil, nil
	}
	return &embedding.ProfileEmbedding{ProfileID: id}, nil
}

func (f *fakeSimilarity) ListCandidatesByProfile(_ context.Context, _ kernel.ProfileID) ([]embedding.Candidate, error) {
	return f.candidates, nil
}

// ============================================================================
// Fixtures
// ============================================================================

const (
	testProfileID = int64(1)
	testVacancyID = int64(10)
)

func newTestService() (*MatchService, *fakeMatchRepo, *fakeProfileSource, *fakeVacancySource, *fakeSimilarity) {
	repo := newFakeMatchRepo()
	profiles := &fakeProfileSource{profiles: make(map[kernel.ProfileID]*profile.Profile)}
	vacancies := newFakeVacancySource()
	similarity := newFakeSimilarity()
	service := NewMatchService(repo, profiles, vacancies, similarity)
	return service, repo, profiles, vacancies, similarity
}

func seedPair(profiles *fakeProfileSource, vacancies *fakeVacancySource, p *profile.Profile, vac *vacancy.Vacancy, reqs []vacancy.Requirement) {
	p.ID = kernel.NewProfileID(testProfileID)
	vac.ID = kernel.NewVacancyID(testVacancyID)
	profiles.profiles[p.ID] = p
	vacancies.vacancies[vac.ID] = vac
	vacancies.requirements[vac.ID] = reqs
}

func skillReq(id int64, raw, key string, hard bool) vacancy.Requirement {
	weight := 1
	if hard {
		weight = 3
	}
	return vacancy.Requirement{
		ID:            kernel.NewRequirementID(id),
		VacancyID:     kernel.NewVacancyID(testVacancyID),
		Kind:          "skill",
		RawText:       raw,
		NormalizedKey: key,
		IsHard:        hard,
		Weight:        weight,
	}
}

// ============================================================================
// Layer-1 confidence
// ============================================================================

func TestComputeForPairExactBeatsAlias(t *testing.T) {
	service, repo, profiles, vacancies, _ := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Опыт разработки на Node.js, писал интерфейсы на React."},
		&vacancy.Vacancy{Title: "Fullstack Developer"},
		[]vacancy.Requirement{
			skillReq(1, "Node", "node", true),
			skillReq(2, "ReactJS", "reactjs", true),
		},
	)

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	ats := score.Explanation.ATS
	assert.ElementsMatch(t, []string{"Node", "ReactJS"}, ats.KeywordsPresent)
	assert.Empty(t, ats.KeywordsMissingMust)

	evidence := repo.evidence[pairKey{score.ProfileID, score.VacancyID}]
	require.Len(t, evidence, 2)

	byReq := map[int64]float64{}
	for _, row := range evidence {
		byReq[row.RequirementID.Int64()] = row.Confidence
	}
	assert.Equal(t, 1.0, byReq[1], "node part of node.js token is an exact hit")
	assert.Equal(t, 0.8, byReq[2], "reactjs found only through the react alias")

	for _, row := range evidence {
		assert.Equal(t, match.EvidenceTypeSkillMatch, row.EvidenceType)
		assert.NotEmpty(t, row.EvidenceText)
	}
}

func TestComputeForPairMissingMustRejects(t *testing.T) {
	service, _, profiles, vacancies, _ := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Писал сервисы на Go и Postgres."},
		&vacancy.Vacancy{Title: "Platform Engineer"},
		[]vacancy.Requirement{
			skillReq(1, "Kubernetes", "kubernetes", true),
			skillReq(2, "PostgreSQL", "postgresql", false),
		},
	)

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	assert.Equal(t, match.VerdictReject, score.Verdict)
	assert.Equal(t, 0.0, score.FinalScore)
	assert.False(t, score.Explanation.Eligibility.OK)
	assert.Contains(t, score.Explanation.Eligibility.ReasonsFailed, match.ReasonMissingRequiredSkills)
	assert.Contains(t, score.Explanation.ATS.KeywordsMissingMust, "Kubernetes")
	assert.Contains(t, score.Explanation.ATS.KeywordsPresent, "PostgreSQL")
	assert.Greater(t, score.Explanation.Final.RawScore, 0.0)
}

func TestComputeForPairUncertainKeywords(t *testing.T) {
	service, _, profiles, vacancies, _ := newTestService()

	// "compose" appears alone, the full "docker compose" sequence does not.
	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Настраивал compose окружения для локальной разработки."},
		&vacancy.Vacancy{Title: "DevOps Engineer"},
		[]vacancy.Requirement{skillReq(1, "Docker Compose", "docker compose", false)},
	)

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	ats := score.Explanation.ATS
	assert.Contains(t, ats.KeywordsMissingNice, "Docker Compose")
	assert.Contains(t, ats.KeywordsUncertain, "Docker Compose")
	assert.Contains(t, ats.KeywordsToAdd, "Docker Compose")
}

// ============================================================================
// Score composition
// ============================================================================

func TestComputeForPairScoreComposition(t *testing.T) {
	service, _, profiles, vacancies, similarity := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Коммерческий опыт с Python и Redis."},
		&vacancy.Vacancy{Title: "Backend Developer"},
		[]vacancy.Requirement{
			skillReq(1, "Python", "python", true),
			skillReq(2, "Redis", "redis", false),
		},
	)
	similarity.similarities[pairKey{kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID)}] = 0.8

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	// raw = 0.45*0.8 + 0.35*1.0 + 0.20*1.0 = 0.91
	assert.InDelta(t, 0.91, score.FinalScore, 1e-9)
	assert.Equal(t, match.VerdictStrong, score.Verdict)
	assert.InDelta(t, 0.8, score.Layer2Score, 1e-9)
	assert.InDelta(t, 1.0, score.Layer1Score, 1e-9)

	components := score.Explanation.Final.Components
	assert.InDelta(t, 0.8, components.Semantic, 1e-9)
	assert.InDelta(t, 1.0, components.HardCoverage, 1e-9)
	assert.InDelta(t, 1.0, components.NiceCoverage, 1e-9)
	assert.Empty(t, score.Explanation.Final.Penalties)
}

func TestComputeForPairNoSkillRequirementsCap(t *testing.T) {
	service, _, profiles, vacancies, similarity := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Большой опыт разработки."},
		&vacancy.Vacancy{Title: "Developer"},
		nil,
	)
	similarity.similarities[pairKey{kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID)}] = 1.0

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	// raw = 0.45 before the cap, so the cap itself does not bind here, but
	// the tag and warning still mark the degraded input.
	assert.Contains(t, score.Explanation.Final.Penalties, match.PenaltyNoSkillReqsCap)
	assert.Contains(t, score.Explanation.Warnings, match.WarningNoSkillReqs)
	assert.LessOrEqual(t, score.FinalScore, 0.65)
}

func TestComputeForPairOverqualifiedPenalty(t *testing.T) {
	service, _, profiles, vacancies, similarity := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Senior инженер, Python, 8 лет опыта."},
		&vacancy.Vacancy{Title: "Junior Python Developer"},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)
	similarity.similarities[pairKey{kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID)}] = 1.0

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	// raw = (0.45 + 0.35) * 0.9 = 0.72
	assert.InDelta(t, 0.72, score.FinalScore, 1e-9)
	assert.Contains(t, score.Explanation.Final.Penalties, match.PenaltyOverqualified)
	assert.Equal(t, match.VerdictOK, score.Verdict)
}

// ============================================================================
// Eligibility gates
// ============================================================================

func TestComputeForPairRelocationGate(t *testing.T) {
	service, _, profiles, vacancies, _ := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Python разработчик.", RelocationOK: false},
		&vacancy.Vacancy{Title: "Python Developer", Description: "<p>desc</p>"},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)
	vacancies.parsed[kernel.NewVacancyID(testVacancyID)] = &vacancy.Parsed{
		PlainText: "Обязанности. Релокация в Казань за счет компании.",
	}

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	assert.Equal(t, match.VerdictReject, score.Verdict)
	assert.Equal(t, 0.0, score.FinalScore)
	assert.Contains(t, score.Explanation.Eligibility.ReasonsFailed, match.ReasonRelocationRequired)
}

func TestComputeForPairNegativeRelocationPasses(t *testing.T) {
	service, _, profiles, vacancies, _ := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Python разработчик.", RelocationOK: false},
		&vacancy.Vacancy{Title: "Python Developer"},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)
	vacancies.parsed[kernel.NewVacancyID(testVacancyID)] = &vacancy.Parsed{
		PlainText: "Работа из офиса, релокация не требуется.",
	}

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	assert.True(t, score.Explanation.Eligibility.OK)
	assert.NotContains(t, score.Explanation.Eligibility.ReasonsFailed, match.ReasonRelocationRequired)
}

func TestComputeForPairLocationGate(t *testing.T) {
	service, _, profiles, vacancies, _ := newTestService()

	moscow := "Москва"
	spb := "Санкт-Петербург"
	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Python разработчик.", Location: &moscow},
		&vacancy.Vacancy{Title: "Python Developer", Location: &spb},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)
	assert.Contains(t, score.Explanation.Eligibility.ReasonsFailed, match.ReasonLocationMismatch)

	// The same mismatch passes once the vacancy is remote.
	vacancies.vacancies[kernel.NewVacancyID(testVacancyID)].Title = "Python Developer (удаленно)"
	score, err = service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)
	assert.NotContains(t, score.Explanation.Eligibility.ReasonsFailed, match.ReasonLocationMismatch)
}

func TestComputeForPairSalaryGate(t *testing.T) {
	service, _, profiles, vacancies, similarity := newTestService()

	salaryMin := 300000
	salaryTo := 250000
	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Python разработчик.", SalaryMin: &salaryMin},
		&vacancy.Vacancy{Title: "Python Developer", SalaryTo: &salaryTo},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)
	assert.Contains(t, score.Explanation.Eligibility.ReasonsFailed, match.ReasonSalaryAboveRange)
	assert.Equal(t, 0.0, score.FinalScore)

	// Only the floor below expectations is a warning with a 0.95 haircut.
	salaryFrom := 250000
	vac := vacancies.vacancies[kernel.NewVacancyID(testVacancyID)]
	vac.SalaryTo = nil
	vac.SalaryFrom = &salaryFrom
	similarity.similarities[pairKey{kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID)}] = 1.0

	score, err = service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	assert.True(t, score.Explanation.Eligibility.OK)
	assert.Contains(t, score.Explanation.Warnings, match.WarningSalaryFloor)
	assert.Contains(t, score.Explanation.Final.Penalties, match.PenaltySalaryWarning)
	// raw = (0.45 + 0.35) * 0.95 = 0.76
	assert.InDelta(t, 0.76, score.FinalScore, 1e-9)
}

// ============================================================================
// Recommendations
// ============================================================================

func TestComputeRecommendationsRequiresProfileEmbedding(t *testing.T) {
	service, _, _, _, _ := newTestService()

	_, err := service.ComputeRecommendations(context.Background(), kernel.NewProfileID(testProfileID), 5)
	require.Error(t, err)

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.EqualValues(t, "MATCH_PROFILE_EMBEDDING_MISSING", e.Code)
	assert.Equal(t, errx.TypeBusiness, e.Type)
}

func TestComputeRecommendationsOrdering(t *testing.T) {
	service, _, profiles, vacancies, similarity := newTestService()

	profileID := kernel.NewProfileID(testProfileID)
	profiles.profiles[profileID] = &profile.Profile{ID: profileID, ResumeText: "Python разработчик."}
	similarity.profileEmbedding[profileID] = true

	sims := map[int64]float64{11: 0.3, 12: 0.9, 13: 0.6}
	for rawID, sim := range sims {
		id := kernel.NewVacancyID(rawID)
		vacancies.vacancies[id] = &vacancy.Vacancy{ID: id, Title: "Python Developer"}
		vacancies.requirements[id] = []vacancy.Requirement{{
			ID: kernel.NewRequirementID(rawID), VacancyID: id, Kind: "skill",
			RawText: "Python", NormalizedKey: "python", IsHard: true, Weight: 3,
		}}
		simValue := sim
		similarity.similarities[pairKey{profileID, id}] = sim
		similarity.candidates = append(similarity.candidates, embedding.Candidate{VacancyID: id, Similarity: &simValue})
	}
	// A vacancy without an embedding is skipped, not scored.
	similarity.candidates = append(similarity.candidates, embedding.Candidate{VacancyID: kernel.NewVacancyID(99)})

	scores, err := service.ComputeRecommendations(context.Background(), profileID, 5)
	require.NoError(t, err)

	require.Len(t, scores, 3)
	assert.Equal(t, kernel.NewVacancyID(12), scores[0].VacancyID)
	assert.Equal(t, kernel.NewVacancyID(13), scores[1].VacancyID)
	assert.Equal(t, kernel.NewVacancyID(11), scores[2].VacancyID)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].FinalScore, scores[i].FinalScore)
	}
}

func TestComputeRecommendationsHonorsLimit(t *testing.T) {
	service, _, profiles, vacancies, similarity := newTestService()

	profileID := kernel.NewProfileID(testProfileID)
	profiles.profiles[profileID] = &profile.Profile{ID: profileID, ResumeText: "Python разработчик."}
	similarity.profileEmbedding[profileID] = true

	for rawID := int64(11); rawID <= 15; rawID++ {
		id := kernel.NewVacancyID(rawID)
		vacancies.vacancies[id] = &vacancy.Vacancy{ID: id, Title: "Python Developer"}
		simValue := 0.5
		similarity.similarities[pairKey{profileID, id}] = simValue
		similarity.candidates = append(similarity.candidates, embedding.Candidate{VacancyID: id, Similarity: &simValue})
	}

	scores, err := service.ComputeRecommendations(context.Background(), profileID, 2)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

// ============================================================================
// Tailoring
// ============================================================================

func TestGetTailoringComputesOnMiss(t *testing.T) {
	service, repo, profiles, vacancies, _ := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Коммерческий опыт с Python."},
		&vacancy.Vacancy{Title: "Python Developer"},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)

	bundle, err := service.GetTailoring(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	assert.Len(t, repo.scores, 1, "missing pair is computed on demand")
	require.Len(t, bundle.Evidence, 1)
	assert.Equal(t, 1.0, bundle.Evidence[0].Confidence)
	assert.NotEmpty(t, bundle.Explanation.CoverLetterPoints)
	assert.Contains(t, bundle.Explanation.CoverLetterPoints[0], "Подкрепите навык 'Python'")
}

// ============================================================================
// Explanation contract
// ============================================================================

func TestExplanationJSONKeysAreStable(t *testing.T) {
	service, _, profiles, vacancies, _ := newTestService()

	seedPair(profiles, vacancies,
		&profile.Profile{ResumeText: "Коммерческий опыт с Python."},
		&vacancy.Vacancy{Title: "Python Developer"},
		[]vacancy.Requirement{skillReq(1, "Python", "python", true)},
	)

	score, err := service.ComputeForPair(context.Background(), kernel.NewProfileID(testProfileID), kernel.NewVacancyID(testVacancyID))
	require.NoError(t, err)

	raw, err := json.Marshal(score.Explanation)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"warnings", "eligibility", "ats", "semantic", "final", "cover_letter_points"} {
		assert.Contains(t, decoded, key)
	}

	eligibility := decoded["eligibility"].(map[string]any)
	for _, key := range []string{"ok", "reasons_failed", "warnings"} {
		assert.Contains(t, eligibility, key)
	}

	ats := decoded["ats"].(map[string]any)
	for _, key := range []string{
		"keywords_present", "keywords_missing_must", "keywords_missing_nice",
		"keywords_uncertain", "keywords_to_add", "structure_suggestions",
	} {
		assert.Contains(t, ats, key)
	}

	final := decoded["final"].(map[string]any)
	for _, key := range []string{"score", "raw_score", "verdict", "components", "penalties"} {
		assert.Contains(t, final, key)
	}
	components := final["components"].(map[string]any)
	for _, key := range []string{"semantic", "hard_coverage", "nice_coverage"} {
		assert.Contains(t, components, key)
	}
}
