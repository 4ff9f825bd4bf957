package matchsrv

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/match"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
)

// defaultRecommendationLimit bounds one recommendation run when the caller
// does not pass a limit.
const defaultRecommendationLimit = 50

// MatchService computes and serves profile-vacancy match scores.
type MatchService struct {
	repo       match.Repository
	profiles   match.ProfileSource
	vacancies  match.VacancySource
	embeddings match.SimilaritySource
}

// NewMatchService creates a new match service
func NewMatchService(
	repo match.Repository,
	profiles match.ProfileSource,
	vacancies match.VacancySource,
	embeddings match.SimilaritySource,
) *MatchService {
	return &MatchService{
		repo:       repo,
		profiles:   profiles,
		vacancies:  vacancies,
		embeddings: embeddings,
	}
}

// ComputeForPair scores one (profile, vacancy) pair and persists the score
// with its evidence atomically. An ineligible pair keeps its raw score in
// the explanation but stores final_score = 0 and verdict reject.
func (s *MatchService) ComputeForPair(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (*match.VacancyScore, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	vac, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	requirements, err := s.vacancies.ListSkillRequirements(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	parsed, err := s.vacancies.GetParsed(ctx, vacancyID)
	if err != nil {
		return nil, err
	}

	skillsText := ""
	if p.SkillsText != nil {
		skillsText = *p.SkillsText
	}
	profileText := joinNonEmpty(p.ResumeText, skillsText)

	layer1 := computeLayer1(requirements, profileText)

	sim, _, err := s.embeddings.SimilarityForPair(ctx, profileID, vacancyID)
	if err != nil {
		return nil, err
	}

	vacancyText := strings.ToLower(vac.Description)
	if parsed != nil && parsed.PlainText != "" {
		vacancyText = strings.ToLower(joinNonEmpty(vac.Description, parsed.PlainText))
	}

	eligibility := evaluateGates(p, vac, vacancyText, layer1.ats.KeywordsMissingMust)
	overqualified := isOverqualified(p, vac, vacancyText)
	salaryWarning := len(eligibility.Warnings) > 0

	raw, final, verdict, penalties := composeScore(
		sim, layer1.hardCoverage, layer1.niceCoverage,
		eligibility.OK, overqualified, salaryWarning, len(requirements) == 0,
	)

	ats := layer1.ats
	ats.StructureSuggestions = buildStructureSuggestions(ats.KeywordsMissingMust, p.ResumeText, skillsText)

	warnings := append([]string{}, eligibility.Warnings...)
	if len(requirements) == 0 {
		warnings = append(warnings, match.WarningNoSkillReqs)
	}

	explanation := match.Explanation{
		Warnings:    warnings,
		Eligibility: eligibility,
		ATS:         ats,
		Semantic:    match.Semantic{Score: sim},
		Final: match.Final{
			Score:    final,
			RawScore: raw,
			Verdict:  verdict,
			Components: match.Components{
				Semantic:     sim,
				HardCoverage: layer1.hardCoverage,
				NiceCoverage: layer1.niceCoverage,
			},
			Penalties: penalties,
		},
		CoverLetterPoints: buildCoverLetterPoints(layer1.matched),
	}

	score := &match.VacancyScore{
		ProfileID:   profileID,
		VacancyID:   vacancyID,
		Layer1Score: (layer1.hardCoverage + layer1.niceCoverage) / 2,
		Layer2Score: sim,
		FinalScore:  final,
		Verdict:     verdict,
		Explanation: explanation,
		ComputedAt:  time.Now(),
	}

	evidence := make([]match.ResumeEvidence, 0, len(layer1.matched))
	for _, m := range layer1.matched {
		requirementID := m.requirement.ID
		evidence = append(evidence, match.ResumeEvidence{
			ProfileID:     profileID,
			VacancyID:     vacancyID,
			RequirementID: &requirementID,
			EvidenceText:  m.snippet,
			EvidenceType:  match.EvidenceTypeSkillMatch,
			Confidence:    m.confidence,
		})
	}

	if err := s.repo.UpsertScoreWithEvidence(ctx, score, evidence); err != nil {
		return nil, err
	}
	return score, nil
}

// ComputeRecommendations scores the profile against its semantically nearest
// vacancies until limit scores exist. The profile must already have an
// embedding; vacancies without one are skipped with a log line.
func (s *MatchService) ComputeRecommendations(ctx context.Context, profileID kernel.ProfileID, limit int) ([]match.VacancyScore, error) {
	profileEmbedding, err := s.embeddings.GetProfileEmbedding(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profileEmbedding == nil {
		return nil, match.ErrProfileEmbeddingMissing().WithDetail("profile_id", profileID.Int64())
	}

	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	candidates, err := s.embeddings.ListCandidatesByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	scores := make([]match.VacancyScore, 0, limit)
	for _, candidate := range candidates {
		if candidate.Similarity == nil {
			logx.Warnf("Skipping vacancy without embedding in recommendations | profile_id=%s vacancy_id=%s",
				profileID, candidate.VacancyID)
			continue
		}

		score, err := s.ComputeForPair(ctx, profileID, candidate.VacancyID)
		if err != nil {
			logx.Errorf("Failed to score pair | profile_id=%s vacancy_id=%s error=%v",
				profileID, candidate.VacancyID, err)
			continue
		}
		scores = append(scores, *score)
		if len(scores) >= limit {
			break
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].FinalScore != scores[j].FinalScore {
			return scores[i].FinalScore > scores[j].FinalScore
		}
		return scores[i].VacancyID.Int64() < scores[j].VacancyID.Int64()
	})

	logx.Infof("Recommendations computed | profile_id=%s scored=%d", profileID, len(scores))
	return scores, nil
}

// ListRecommendations returns the stored recommendation list, best first.
func (s *MatchService) ListRecommendations(ctx context.Context, profileID kernel.ProfileID, limit int) ([]match.Recommendation, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	return s.repo.ListRecommendations(ctx, profileID, limit)
}

// GetTailoring returns the tailoring bundle of the pair: the stored
// explanation plus evidence. A pair never scored before is computed on the
// spot.
func (s *MatchService) GetTailoring(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (*match.TailoringResponse, error) {
	score, err := s.repo.GetScore(ctx, profileID, vacancyID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		score, err = s.ComputeForPair(ctx, profileID, vacancyID)
		if err != nil {
			return nil, err
		}
	}

	evidence, err := s.repo.ListEvidence(ctx, profileID, vacancyID)
	if err != nil {
		return nil, err
	}

	items := make([]match.EvidenceItem, 0, len(evidence))
	for _, row := range evidence {
		items = append(items, match.EvidenceItem{Text: row.EvidenceText, Confidence: row.Confidence})
	}

	return &match.TailoringResponse{
		ProfileID:   profileID,
		VacancyID:   vacancyID,
		Explanation: score.Explanation,
		Evidence:    items,
	}, nil
}

func joinNonEmpty(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
