package match

import (
	"context"

	"github.com/Abraxas-365/scout/jobsearch/embedding"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Repository persists scores and evidence.
type Repository interface {
	// UpsertScoreWithEvidence writes one score and its evidence set
	// atomically: prior evidence rows of the pair are deleted, the fresh
	// ones inserted and the score UPSERTed on (profile_id, vacancy_id).
	UpsertScoreWithEvidence(ctx context.Context, score *VacancyScore, evidence []ResumeEvidence) error

	// GetScore returns the stored score of the pair, or nil when the pair
	// has never been computed.
	GetScore(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (*VacancyScore, error)

	// ListRecommendations returns the profile's scored vacancies joined
	// with the vacancy summary, best first (final_score desc, vacancy_id
	// asc). limit <= 0 applies the default.
	ListRecommendations(ctx context.Context, profileID kernel.ProfileID, limit int) ([]Recommendation, error)

	// ListEvidence returns the pair's evidence rows, strongest first
	// (confidence desc, id asc).
	ListEvidence(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) ([]ResumeEvidence, error)
}

// ProfileSource supplies the candidate profile. Satisfied by the profile
// repository.
type ProfileSource interface {
	GetByID(ctx context.Context, id kernel.ProfileID) (*profile.Profile, error)
}

// VacancySource supplies the vacancy side of a pair. Satisfied by the
// vacancy repository.
type VacancySource interface {
	GetByID(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error)
	GetParsed(ctx context.Context, id kernel.VacancyID) (*vacancy.Parsed, error)
	ListSkillRequirements(ctx context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error)
}

// SimilaritySource exposes the vector store reads the engine needs.
// Satisfied by the embedding repository.
type SimilaritySource interface {
	SimilarityForPair(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (float64, bool, error)
	GetProfileEmbedding(ctx context.Context, id kernel.ProfileID) (*embedding.ProfileEmbedding, error)
	ListCandidatesByProfile(ctx context.Context, profileID kernel.ProfileID) ([]embedding.Candidate, error)
}

// TaskEnqueuer schedules named background tasks. Implemented by the task
// service.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error)
}
