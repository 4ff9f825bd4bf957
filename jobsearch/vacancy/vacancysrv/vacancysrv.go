package vacancysrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/scout/internal/vacancyparse"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/errx"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
	"github.com/google/uuid"
)

// VacancyService provides business operations for manually managed
// vacancies. Board-ingested vacancies go through the ingest service; this
// service owns the API CRUD path and keeps requirements and embeddings in
// step with description edits.
type VacancyService struct {
	repo  vacancy.Repository
	tasks vacancy.TaskEnqueuer
}

// NewVacancyService creates a new instance of the vacancy service
func NewVacancyService(repo vacancy.Repository, tasks vacancy.TaskEnqueuer) *VacancyService {
	return &VacancyService{
		repo:  repo,
		tasks: tasks,
	}
}

// CreateManual creates a user-entered vacancy, extracts its requirements and
// schedules an embedding build.
func (s *VacancyService) CreateManual(ctx context.Context, req vacancy.CreateVacancyRequest) (*vacancy.VacancyResponse, error) {
	now := time.Now()
	entity := &vacancy.Vacancy{
		Source:      vacancy.SourceManual,
		ExternalID:  uuid.NewString(),
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		SalaryFrom:  req.SalaryFrom,
		SalaryTo:    req.SalaryTo,
		Currency:    req.Currency,
		Description: req.Description,
		URL:         req.URL,
		PublishedAt: req.PublishedAt,
		Status:      vacancy.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, errx.Wrap(err, "failed to create vacancy", errx.TypeInternal)
	}

	requirements, err := s.reExtractRequirements(ctx, entity)
	if err != nil {
		return nil, err
	}

	s.scheduleEmbedding(ctx, entity.ID)

	return &vacancy.VacancyResponse{Vacancy: *entity, Requirements: requirements}, nil
}

// GetByID retrieves a vacancy with its requirements.
func (s *VacancyService) GetByID(ctx context.Context, id kernel.VacancyID) (*vacancy.VacancyResponse, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requirements, err := s.repo.ListRequirements(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list vacancy requirements", errx.TypeInternal)
	}

	return &vacancy.VacancyResponse{Vacancy: *entity, Requirements: requirements}, nil
}

// List retrieves vacancies with pagination.
func (s *VacancyService) List(ctx context.Context, pagination kernel.PaginationOptions) (*vacancy.PaginatedVacanciesResponse, error) {
	page, err := s.repo.List(ctx, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list vacancies", errx.TypeInternal)
	}
	return page, nil
}

// Update applies a partial update. Manual vacancies get their requirements
// re-extracted; every update schedules a fresh embedding because the
// description or title may have changed.
func (s *VacancyService) Update(ctx context.Context, id kernel.VacancyID, req vacancy.UpdateVacancyRequest) (*vacancy.VacancyResponse, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(entity, req)
	entity.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, id, entity); err != nil {
		return nil, err
	}

	var requirements []vacancy.Requirement
	if entity.IsManual() {
		requirements, err = s.reExtractRequirements(ctx, entity)
		if err != nil {
			return nil, err
		}
	} else {
		requirements, err = s.repo.ListRequirements(ctx, id)
		if err != nil {
			return nil, errx.Wrap(err, "failed to list vacancy requirements", errx.TypeInternal)
		}
	}

	s.scheduleEmbedding(ctx, id)

	return &vacancy.VacancyResponse{Vacancy: *entity, Requirements: requirements}, nil
}

// Delete removes a vacancy and everything hanging off it.
func (s *VacancyService) Delete(ctx context.Context, id kernel.VacancyID) error {
	return s.repo.Delete(ctx, id)
}

func applyUpdate(entity *vacancy.Vacancy, req vacancy.UpdateVacancyRequest) {
	if req.Title != nil {
		entity.Title = *req.Title
	}
	if req.CompanyName != nil {
		entity.CompanyName = req.CompanyName
	}
	if req.Location != nil {
		entity.Location = req.Location
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
	if req.Description != nil {
		entity.Description = *req.Description
	}
	if req.URL != nil {
		entity.URL = req.URL
	}
	if req.Status != nil {
		entity.Status = *req.Status
	}
	if req.PublishedAt != nil {
		entity.PublishedAt = req.PublishedAt
	}
}

// reExtractRequirements re-parses the description and replaces the generated
// requirement set, mirroring what ingestion does for board vacancies.
func (s *VacancyService) reExtractRequirements(ctx context.Context, entity *vacancy.Vacancy) ([]vacancy.Requirement, error) {
	parse := vacancyparse.Parse(entity.Description)

	parsed := &vacancy.Parsed{
		VacancyID:    entity.ID,
		PlainText:    parse.PlainText,
		Sections:     parse.Sections,
		Version:      parse.Version,
		QualityScore: parse.QualityScore,
		ExtractedAt:  time.Now(),
	}
	if err := s.repo.UpsertParsed(ctx, parsed); err != nil {
		return nil, errx.Wrap(err, "failed to store vacancy parse", errx.TypeInternal)
	}

	extracted := vacancyparse.ExtractRequirements(parse.Sections, nil, vacancyparse.StructuredFields{}, parse.PlainText)
	requirements := RequirementsFromExtraction(entity.ID, extracted)

	if err := s.repo.ReplaceGeneratedRequirements(ctx, entity.ID, requirements); err != nil {
		return nil, errx.Wrap(err, "failed to replace vacancy requirements", errx.TypeInternal)
	}

	return s.repo.ListRequirements(ctx, entity.ID)
}

// RequirementsFromExtraction converts extractor output into requirement
// entities for the vacancy. Shared with the ingest service.
func RequirementsFromExtraction(id kernel.VacancyID, extracted []vacancyparse.Requirement) []vacancy.Requirement {
	requirements := make([]vacancy.Requirement, 0, len(extracted))
	for _, req := range extracted {
		requirements = append(requirements, vacancy.Requirement{
			VacancyID:     id,
			Kind:          req.Kind,
			RawText:       req.RawText,
			NormalizedKey: req.NormalizedKey,
			IsHard:        req.IsHard,
			Weight:        req.Weight,
			Source:        req.Source,
		})
	}
	return requirements
}

func (s *VacancyService) scheduleEmbedding(ctx context.Context, id kernel.VacancyID) {
	if _, err := s.tasks.Enqueue(ctx, task.NameBuildVacancyEmbedding, map[string]any{"vacancy_id": id.Int64()}); err != nil {
		logx.Errorf("Failed to schedule vacancy embedding | vacancy_id=%s error=%v", id, err)
	}
}
