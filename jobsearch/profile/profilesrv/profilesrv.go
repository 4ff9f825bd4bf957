package profilesrv

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Abraxas-365/scout/internal/skills"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/errx"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
)

// skillsTextSeparator splits legacy free-form skills_text into skill names.
var skillsTextSeparator = regexp.MustCompile(`[;,]`)

// ProfileService provides business operations for the candidate profile and
// its sub-entities.
type ProfileService struct {
	repo  profile.Repository
	tasks profile.TaskEnqueuer
}

// NewProfileService creates a new profile service
func NewProfileService(repo profile.Repository, tasks profile.TaskEnqueuer) *ProfileService {
	return &ProfileService{
		repo:  repo,
		tasks: tasks,
	}
}

// Create stores a new profile and schedules its embedding build.
func (s *ProfileService) Create(ctx context.Context, req profile.CreateProfileRequest) (*profile.Profile, error) {
	now := time.Now()
	entity := &profile.Profile{
		Title:                    req.Title,
		ResumeText:               req.ResumeText,
		SkillsText:               req.SkillsText,
		Location:                 req.Location,
		RemoteOK:                 boolOr(req.RemoteOK, true),
		RelocationOK:             boolOr(req.RelocationOK, false),
		SalaryMin:                req.SalaryMin,
		FullName:                 req.FullName,
		Email:                    req.Email,
		Phone:                    req.Phone,
		Telegram:                 req.Telegram,
		City:                     req.City,
		Country:                  req.Country,
		Metro:                    req.Metro,
		Citizenship:              req.Citizenship,
		WorkAuthorizationCountry: req.WorkAuthorizationCountry,
		NeedsSponsorship:         boolOr(req.NeedsSponsorship, false),
		AvailableFrom:            req.AvailableFrom,
		NoticePeriodDays:         req.NoticePeriodDays,
		PreferredEmployment:      req.PreferredEmployment,
		PreferredSchedule:        req.PreferredSchedule,
		PreferredIndustries:      emptyIfNil(req.PreferredIndustries),
		PreferredCompanyTypes:    emptyIfNil(req.PreferredCompanyTypes),
		InterestTags:             emptyIfNil(req.InterestTags),
		PreferredTech:            emptyIfNil(req.PreferredTech),
		ExcludedTech:             emptyIfNil(req.ExcludedTech),
		TeamPreferences:          emptyMapIfNil(req.TeamPreferences),
		SummaryAbout:             req.SummaryAbout,
		SeniorityLevel:           req.SeniorityLevel,
		YearsTotal:               req.YearsTotal,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, errx.Wrap(err, "failed to create profile", errx.TypeInternal)
	}

	s.scheduleEmbedding(ctx, entity.ID)
	return entity, nil
}

// GetByID retrieves a profile.
func (s *ProfileService) GetByID(ctx context.Context, id kernel.ProfileID) (*profile.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves profiles with pagination.
func (s *ProfileService) List(ctx context.Context, pagination kernel.PaginationOptions) (*profile.PaginatedProfilesResponse, error) {
	page, err := s.repo.List(ctx, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list profiles", errx.TypeInternal)
	}
	return page, nil
}

// Update applies a partial update and schedules a fresh embedding.
func (s *ProfileService) Update(ctx context.Context, id kernel.ProfileID, req profile.UpdateProfileRequest) (*profile.Profile, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(entity, req)
	entity.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, id, entity); err != nil {
		return nil, err
	}

	s.scheduleEmbedding(ctx, id)
	return entity, nil
}

// Delete removes a profile and everything hanging off it.
func (s *ProfileService) Delete(ctx context.Context, id kernel.ProfileID) error {
	return s.repo.Delete(ctx, id)
}

// Backfill performs the one-time legacy import: an approved resume version
// from the flat resume_text and structured skill rows from skills_text.
// Both halves are idempotent and skip when data already exists.
func (s *ProfileService) Backfill(ctx context.Context, id kernel.ProfileID) (*profile.BackfillResult, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &profile.BackfillResult{ProfileID: id}

	hasVersions, err := s.repo.HasResumeVersions(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check resume versions", errx.TypeInternal)
	}
	if !hasVersions && strings.TrimSpace(entity.ResumeText) != "" {
		now := time.Now()
		title := "Imported resume"
		version := &profile.ResumeVersion{
			ProfileID:   id,
			Title:       &title,
			ContentText: entity.ResumeText,
			Format:      profile.ResumeFormatPlain,
			Source:      profile.VersionSourceLegacyImport,
			Status:      profile.VersionStatusApproved,
			CreatedAt:   now,
			ApprovedAt:  &now,
		}
		if err := s.repo.CreateResumeVersion(ctx, version); err != nil {
			return nil, errx.Wrap(err, "failed to create legacy resume version", errx.TypeInternal)
		}
		result.ResumeVersionCreated = true
	}

	hasSkills, err := s.repo.HasSkills(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check profile skills", errx.TypeInternal)
	}
	if !hasSkills && entity.SkillsText != nil {
		for _, raw := range skillsTextSeparator.Split(*entity.SkillsText, -1) {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			key := skills.KeyFor(name)
			skill := &profile.Skill{
				ProfileID:     id,
				NameRaw:       name,
				NormalizedKey: &key,
				Category:      profile.SkillCategoryTechnical,
				Level:         profile.SkillLevelUnspecified,
				CreatedAt:     time.Now(),
			}
			if err := s.repo.CreateSkill(ctx, skill); err != nil {
				return nil, errx.Wrap(err, "failed to create backfilled skill", errx.TypeInternal)
			}
			result.SkillsCreated++
		}
	}

	logx.Infof("Profile backfill done | profile_id=%s resume_version=%t skills=%d",
		id, result.ResumeVersionCreated, result.SkillsCreated)
	return result, nil
}

// RecomputeAll chains backfill, embedding build and recommendation compute
// for the profile. Returns step name to task id.
func (s *ProfileService) RecomputeAll(ctx context.Context, id kernel.ProfileID, limit int) (map[string]kernel.TaskID, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	steps := []task.ChainStep{
		{Name: task.NameProfileBackfill, Args: map[string]any{"profile_id": id.Int64()}},
		{Name: task.NameBuildProfileEmbedding, Args: map[string]any{"profile_id": id.Int64()}},
		{Name: task.NameComputeRecommendations, Args: map[string]any{"profile_id": id.Int64(), "limit": limit}},
	}

	ids, err := s.tasks.EnqueueChain(ctx, steps)
	if err != nil {
		return nil, err
	}

	out := make(map[string]kernel.TaskID, len(steps))
	for i, step := range steps {
		out[step.Name] = ids[i]
	}
	return out, nil
}

func (s *ProfileService) scheduleEmbedding(ctx context.Context, id kernel.ProfileID) {
	if _, err := s.tasks.Enqueue(ctx, task.NameBuildProfileEmbedding, map[string]any{"profile_id": id.Int64()}); err != nil {
		logx.Errorf("Failed to schedule profile embedding | profile_id=%s error=%v", id, err)
	}
}

func applyUpdate(entity *profile.Profile, req profile.UpdateProfileRequest) {
	if req.Title != nil {
		entity.Title = req.Title
	}
	if req.ResumeText != nil {
		entity.ResumeText = *req.ResumeText
	}
	if req.SkillsText != nil {
		entity.SkillsText = req.SkillsText
	}
	if req.Location != nil {
		entity.Location = req.Location
	}
	if req.RemoteOK != nil {
		entity.RemoteOK = *req.RemoteOK
	}
	if req.RelocationOK != nil {
		entity.RelocationOK = *req.RelocationOK
	}
	if req.SalaryMin != nil {
		entity.SalaryMin = req.SalaryMin
	}
	if req.FullName != nil {
		entity.FullName = req.FullName
	}
	if req.Email != nil {
		entity.Email = req.Email
	}
	if req.Phone != nil {
		entity.Phone = req.Phone
	}
	if req.Telegram != nil {
		entity.Telegram = req.Telegram
	}
	if req.City != nil {
		entity.City = req.City
	}
	if req.Country != nil {
		entity.Country = req.Country
	}
	if req.Metro != nil {
		entity.Metro = req.Metro
	}
	if req.Citizenship != nil {
		entity.Citizenship = req.Citizenship
	}
	if req.WorkAuthorizationCountry != nil {
		entity.WorkAuthorizationCountry = req.WorkAuthorizationCountry
	}
	if req.NeedsSponsorship != nil {
		entity.NeedsSponsorship = *req.NeedsSponsorship
	}
	if req.AvailableFrom != nil {
		entity.AvailableFrom = req.AvailableFrom
	}
	if req.NoticePeriodDays != nil {
		entity.NoticePeriodDays = req.NoticePeriodDays
	}
	if req.PreferredEmployment != nil {
		entity.PreferredEmployment = req.PreferredEmployment
	}
	if req.PreferredSchedule != nil {
		entity.PreferredSchedule = req.PreferredSchedule
	}
	if req.PreferredIndustries != nil {
		entity.PreferredIndustries = req.PreferredIndustries
	}
	if req.PreferredCompanyTypes != nil {
		entity.PreferredCompanyTypes = req.PreferredCompanyTypes
	}
	if req.InterestTags != nil {
		entity.InterestTags = req.InterestTags
	}
	if req.PreferredTech != nil {
		entity.PreferredTech = req.PreferredTech
	}
	if req.ExcludedTech != nil {
		entity.ExcludedTech = req.ExcludedTech
	}
	if req.TeamPreferences != nil {
		entity.TeamPreferences = req.TeamPreferences
	}
	if req.SummaryAbout != nil {
		entity.SummaryAbout = req.SummaryAbout
	}
	if req.SeniorityLevel != nil {
		entity.SeniorityLevel = req.SeniorityLevel
	}
	if req.YearsTotal != nil {
		entity.YearsTotal = req.YearsTotal
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func emptyIfNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func emptyMapIfNil(v map[string]any) map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v
}
