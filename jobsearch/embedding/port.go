package embedding

import (
	"context"

	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Repository is the vector store. Similarity is cosine on unit-norm vectors.
type Repository interface {
	UpsertVacancyEmbedding(ctx context.Context, e *VacancyEmbedding) error
	UpsertProfileEmbedding(ctx context.Context, e *ProfileEmbedding) error

	// GetVacancyEmbedding returns nil when the vacancy has no vector.
	GetVacancyEmbedding(ctx context.Context, id kernel.VacancyID) (*VacancyEmbedding, error)
	// GetProfileEmbedding returns nil when the profile has no vector.
	GetProfileEmbedding(ctx context.Context, id kernel.ProfileID) (*ProfileEmbedding, error)

	// SimilarityForPair returns clamp(1 - cosine_distance, 0, 1) and true
	// when both vectors exist.
	SimilarityForPair(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (float64, bool, error)

	// ListCandidatesByProfile ranks every vacancy against the profile
	// vector, nearest first; vacancies without an embedding come last with
	// a nil similarity. Returns an empty slice when the profile has no
	// embedding.
	ListCandidatesByProfile(ctx context.Context, profileID kernel.ProfileID) ([]Candidate, error)

	DeleteVacancyEmbeddings(ctx context.Context, ids []kernel.VacancyID) error
	DeleteProfileEmbeddings(ctx context.Context, ids []kernel.ProfileID) error

	CountVacancyEmbeddings(ctx context.Context) (int, error)
	CountProfileEmbeddings(ctx context.Context) (int, error)
}

// ProfileDocumentBuilder renders the text a profile embeds as. Implemented
// by the profile service.
type ProfileDocumentBuilder interface {
	BuildDocument(ctx context.Context, id kernel.ProfileID, mode string) (string, error)
}

// ProfileLister enumerates profile ids for bulk rebuilds. Satisfied by the
// profile repository.
type ProfileLister interface {
	ListIDs(ctx context.Context, limit int) ([]kernel.ProfileID, error)
}

// VacancySource supplies the pieces of a vacancy the document composer
// reads. Satisfied by the vacancy repository.
type VacancySource interface {
	GetByID(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error)
	GetParsed(ctx context.Context, id kernel.VacancyID) (*vacancy.Parsed, error)
	ListSkillRequirements(ctx context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error)
	ListIDs(ctx context.Context, limit int) ([]kernel.VacancyID, error)
}

// TaskEnqueuer schedules named background tasks. Implemented by the task
// service.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error)
}
