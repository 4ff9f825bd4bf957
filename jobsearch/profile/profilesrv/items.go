package profilesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/scout/internal/skills"
	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Sub-entity operations. Every mutation verifies the profile exists first;
// item-level ownership is enforced by the repository (profile_id scoped
// queries), so a foreign item id surfaces as not found.

func (s *ProfileService) ensureProfile(ctx context.Context, id kernel.ProfileID) error {
	_, err := s.repo.GetByID(ctx, id)
	return err
}

// Experiences

func (s *ProfileService) ListExperiences(ctx context.Context, profileID kernel.ProfileID) ([]profile.Experience, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListExperiences(ctx, profileID)
}

func (s *ProfileService) CreateExperience(ctx context.Context, profileID kernel.ProfileID, req profile.ExperienceRequest) (*profile.Experience, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := experienceFromRequest(profileID, req)
	if err := s.repo.CreateExperience(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateExperience(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.ExperienceRequest) (*profile.Experience, error) {
	entity := experienceFromRequest(profileID, req)
	entity.ID = id
	if err := s.repo.UpdateExperience(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteExperience(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteExperience(ctx, profileID, id)
}

func experienceFromRequest(profileID kernel.ProfileID, req profile.ExperienceRequest) *profile.Experience {
	return &profile.Experience{
		ProfileID:            profileID,
		CompanyName:          req.CompanyName,
		PositionTitle:        req.PositionTitle,
		Location:             req.Location,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		IsCurrent:            req.IsCurrent,
		ResponsibilitiesText: req.ResponsibilitiesText,
		AchievementsText:     req.AchievementsText,
		TechStackText:        req.TechStackText,
		EmploymentType:       req.EmploymentType,
		CreatedAt:            time.Now(),
	}
}

// Projects

func (s *ProfileService) ListProjects(ctx context.Context, profileID kernel.ProfileID) ([]profile.Project, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListProjects(ctx, profileID)
}

func (s *ProfileService) CreateProject(ctx context.Context, profileID kernel.ProfileID, req profile.ProjectRequest) (*profile.Project, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := projectFromRequest(profileID, req)
	if err := s.repo.CreateProject(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateProject(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.ProjectRequest) (*profile.Project, error) {
	entity := projectFromRequest(profileID, req)
	entity.ID = id
	if err := s.repo.UpdateProject(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteProject(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteProject(ctx, profileID, id)
}

func projectFromRequest(profileID kernel.ProfileID, req profile.ProjectRequest) *profile.Project {
	return &profile.Project{
		ProfileID:       profileID,
		Name:            req.Name,
		Role:            req.Role,
		DescriptionText: req.DescriptionText,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TechStackText:   req.TechStackText,
		URL:             req.URL,
		CreatedAt:       time.Now(),
	}
}

// Achievements

func (s *ProfileService) ListAchievements(ctx context.Context, profileID kernel.ProfileID) ([]profile.Achievement, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListAchievements(ctx, profileID)
}

func (s *ProfileService) CreateAchievement(ctx context.Context, profileID kernel.ProfileID, req profile.AchievementRequest) (*profile.Achievement, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := achievementFromRequest(profileID, req)
	if err := s.repo.CreateAchievement(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateAchievement(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.AchievementRequest) (*profile.Achievement, error) {
	entity := achievementFromRequest(profileID, req)
	entity.ID = id
	if err := s.repo.UpdateAchievement(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteAchievement(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteAchievement(ctx, profileID, id)
}

func achievementFromRequest(profileID kernel.ProfileID, req profile.AchievementRequest) *profile.Achievement {
	return &profile.Achievement{
		ProfileID:           profileID,
		Title:               req.Title,
		DescriptionText:     req.DescriptionText,
		Metric:              req.Metric,
		AchievedAt:          req.AchievedAt,
		RelatedExperienceID: req.RelatedExperienceID,
		RelatedProjectID:    req.RelatedProjectID,
		CreatedAt:           time.Now(),
	}
}

// Education

func (s *ProfileService) ListEducation(ctx context.Context, profileID kernel.ProfileID) ([]profile.Education, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListEducation(ctx, profileID)
}

func (s *ProfileService) CreateEducation(ctx context.Context, profileID kernel.ProfileID, req profile.EducationRequest) (*profile.Education, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := educationFromRequest(profileID, req)
	if err := s.repo.CreateEducation(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateEducation(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.EducationRequest) (*profile.Education, error) {
	entity := educationFromRequest(profileID, req)
	entity.ID = id
	if err := s.repo.UpdateEducation(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteEducation(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteEducation(ctx, profileID, id)
}

func educationFromRequest(profileID kernel.ProfileID, req profile.EducationRequest) *profile.Education {
	return &profile.Education{
		ProfileID:       profileID,
		Institution:     req.Institution,
		DegreeLevel:     req.DegreeLevel,
		FieldOfStudy:    req.FieldOfStudy,
		StartYear:       req.StartYear,
		EndYear:         req.EndYear,
		DescriptionText: req.DescriptionText,
		GPA:             req.GPA,
		CreatedAt:       time.Now(),
	}
}

// Certificates

func (s *ProfileService) ListCertificates(ctx context.Context, profileID kernel.ProfileID) ([]profile.Certificate, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListCertificates(ctx, profileID)
}

func (s *ProfileService) CreateCertificate(ctx context.Context, profileID kernel.ProfileID, req profile.CertificateRequest) (*profile.Certificate, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := certificateFromRequest(profileID, req)
	if err := s.repo.CreateCertificate(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateCertificate(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.CertificateRequest) (*profile.Certificate, error) {
	entity := certificateFromRequest(profileID, req)
	entity.ID = id
	if err := s.repo.UpdateCertificate(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteCertificate(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteCertificate(ctx, profileID, id)
}

func certificateFromRequest(profileID kernel.ProfileID, req profile.CertificateRequest) *profile.Certificate {
	return &profile.Certificate{
		ProfileID: profileID,
		Name:      req.Name,
		Issuer:    req.Issuer,
		IssuedAt:  req.IssuedAt,
		ExpiresAt: req.ExpiresAt,
		URL:       req.URL,
		CreatedAt: time.Now(),
	}
}

// Skills

func (s *ProfileService) ListSkills(ctx context.Context, profileID kernel.ProfileID) ([]profile.Skill, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListSkills(ctx, profileID)
}

func (s *ProfileService) CreateSkill(ctx context.Context, profileID kernel.ProfileID, req profile.SkillRequest) (*profile.Skill, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := skillFromRequest(profileID, req)
	if err := s.repo.CreateSkill(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateSkill(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.SkillRequest) (*profile.Skill, error) {
	entity := skillFromRequest(profileID, req)
	entity.ID = id
	if err := s.repo.UpdateSkill(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteSkill(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteSkill(ctx, profileID, id)
}

func skillFromRequest(profileID kernel.ProfileID, req profile.SkillRequest) *profile.Skill {
	key := skills.KeyFor(req.NameRaw)
	return &profile.Skill{
		ProfileID:     profileID,
		NameRaw:       req.NameRaw,
		NormalizedKey: &key,
		Category:      req.Category,
		Level:         req.Level,
		Years:         req.Years,
		LastUsedYear:  req.LastUsedYear,
		IsPrimary:     req.IsPrimary,
		EvidenceText:  req.EvidenceText,
		CreatedAt:     time.Now(),
	}
}

// Languages

func (s *ProfileService) ListLanguages(ctx context.Context, profileID kernel.ProfileID) ([]profile.Language, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListLanguages(ctx, profileID)
}

func (s *ProfileService) CreateLanguage(ctx context.Context, profileID kernel.ProfileID, req profile.LanguageRequest) (*profile.Language, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := &profile.Language{
		ProfileID: profileID,
		Language:  req.Language,
		Level:     req.Level,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateLanguage(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateLanguage(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.LanguageRequest) (*profile.Language, error) {
	entity := &profile.Language{
		ID:        id,
		ProfileID: profileID,
		Language:  req.Language,
		Level:     req.Level,
	}
	if err := s.repo.UpdateLanguage(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteLanguage(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteLanguage(ctx, profileID, id)
}

// Links

func (s *ProfileService) ListLinks(ctx context.Context, profileID kernel.ProfileID) ([]profile.Link, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	return s.repo.ListLinks(ctx, profileID)
}

func (s *ProfileService) CreateLink(ctx context.Context, profileID kernel.ProfileID, req profile.LinkRequest) (*profile.Link, error) {
	if err := s.ensureProfile(ctx, profileID); err != nil {
		return nil, err
	}
	entity := &profile.Link{
		ProfileID: profileID,
		Type:      req.Type,
		URL:       req.URL,
		Label:     req.Label,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateLink(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) UpdateLink(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, req profile.LinkRequest) (*profile.Link, error) {
	entity := &profile.Link{
		ID:        id,
		ProfileID: profileID,
		Type:      req.Type,
		URL:       req.URL,
		Label:     req.Label,
	}
	if err := s.repo.UpdateLink(ctx, profileID, id, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *ProfileService) DeleteLink(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return s.repo.DeleteLink(ctx, profileID, id)
}
