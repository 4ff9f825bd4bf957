package profile

import (
	"context"

	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Repository persists profiles and their owned sub-entities. Every item
// operation takes the owning profile id and treats an ownership mismatch as
// not found.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id kernel.ProfileID) (*Profile, error)
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Profile], error)
	Update(ctx context.Context, id kernel.ProfileID, p *Profile) error
	Delete(ctx context.Context, id kernel.ProfileID) error

	// ListIDs returns profile ids ascending, optionally limited
	// (limit <= 0 means no limit). Used by embedding rebuilds.
	ListIDs(ctx context.Context, limit int) ([]kernel.ProfileID, error)

	// Experiences, ordered most recent first
	ListExperiences(ctx context.Context, profileID kernel.ProfileID) ([]Experience, error)
	CreateExperience(ctx context.Context, e *Experience) error
	UpdateExperience(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, e *Experience) error
	DeleteExperience(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Projects, ordered most recent first
	ListProjects(ctx context.Context, profileID kernel.ProfileID) ([]Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, p *Project) error
	DeleteProject(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Achievements, ordered most recent first
	ListAchievements(ctx context.Context, profileID kernel.ProfileID) ([]Achievement, error)
	CreateAchievement(ctx context.Context, a *Achievement) error
	UpdateAchievement(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, a *Achievement) error
	DeleteAchievement(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Education, ordered most recent first
	ListEducation(ctx context.Context, profileID kernel.ProfileID) ([]Education, error)
	CreateEducation(ctx context.Context, e *Education) error
	UpdateEducation(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, e *Education) error
	DeleteEducation(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Certificates, ordered most recently issued first
	ListCertificates(ctx context.Context, profileID kernel.ProfileID) ([]Certificate, error)
	CreateCertificate(ctx context.Context, c *Certificate) error
	UpdateCertificate(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, c *Certificate) error
	DeleteCertificate(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Skills, primary first then by level and name
	ListSkills(ctx context.Context, profileID kernel.ProfileID) ([]Skill, error)
	CreateSkill(ctx context.Context, s *Skill) error
	UpdateSkill(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, s *Skill) error
	DeleteSkill(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Languages, insertion order
	ListLanguages(ctx context.Context, profileID kernel.ProfileID) ([]Language, error)
	CreateLanguage(ctx context.Context, l *Language) error
	UpdateLanguage(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, l *Language) error
	DeleteLanguage(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Links, insertion order
	ListLinks(ctx context.Context, profileID kernel.ProfileID) ([]Link, error)
	CreateLink(ctx context.Context, l *Link) error
	UpdateLink(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, l *Link) error
	DeleteLink(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error

	// Resume versions
	CreateResumeVersion(ctx context.Context, v *ResumeVersion) error
	// HasResumeVersions reports whether any version exists for the
	// profile, tailored or not. Guards the legacy backfill.
	HasResumeVersions(ctx context.Context, profileID kernel.ProfileID) (bool, error)
	// LatestApprovedResumeText returns the newest approved general
	// (vacancy_id null) resume text, or nil when there is none.
	LatestApprovedResumeText(ctx context.Context, profileID kernel.ProfileID) (*string, error)

	// HasSkills reports whether any structured skill rows exist. Guards
	// the legacy skills_text split.
	HasSkills(ctx context.Context, profileID kernel.ProfileID) (bool, error)
}

// TaskEnqueuer schedules named background tasks and chains. Implemented by
// the task service.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error)
	EnqueueChain(ctx context.Context, steps []task.ChainStep) ([]kernel.TaskID, error)
}
