package profileinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Sub-entity rows map almost one to one onto their entities; the int64 id
// columns are the only translation. Every update and delete is scoped by
// profile_id so a foreign item id reads as not found.

func itemID(id kernel.ProfileItemID) int64 { return id.Int64() }

func optionalItemID(id *kernel.ProfileItemID) *int64 {
	if id == nil {
		return nil
	}
	raw := id.Int64()
	return &raw
}

func (r *PostgresProfileRepository) execItemUpdate(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to write profile item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return profile.ErrItemNotFound()
	}
	return nil
}

// ============================================================================
// Experiences
// ============================================================================

type experienceModel struct {
	ID                   int64      `db:"id"`
	ProfileID            int64      `db:"profile_id"`
	CompanyName          string     `db:"company_name"`
	PositionTitle        string     `db:"position_title"`
	Location             *string    `db:"location"`
	StartDate            time.Time  `db:"start_date"`
	EndDate              *time.Time `db:"end_date"`
	IsCurrent            bool       `db:"is_current"`
	ResponsibilitiesText string     `db:"responsibilities_text"`
	AchievementsText     string     `db:"achievements_text"`
	TechStackText        *string    `db:"tech_stack_text"`
	EmploymentType       *string    `db:"employment_type"`
	CreatedAt            time.Time  `db:"created_at"`
}

func (m *experienceModel) toEntity() profile.Experience {
	return profile.Experience{
		ID:                   kernel.NewProfileItemID(m.ID),
		ProfileID:            kernel.NewProfileID(m.ProfileID),
		CompanyName:          m.CompanyName,
		PositionTitle:        m.PositionTitle,
		Location:             m.Location,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		IsCurrent:            m.IsCurrent,
		ResponsibilitiesText: m.ResponsibilitiesText,
		AchievementsText:     m.AchievementsText,
		TechStackText:        m.TechStackText,
		EmploymentType:       m.EmploymentType,
		CreatedAt:            m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListExperiences(ctx context.Context, profileID kernel.ProfileID) ([]profile.Experience, error) {
	query := `
		SELECT id, profile_id, company_name, position_title, location, start_date,
		       end_date, is_current, responsibilities_text, achievements_text,
		       tech_stack_text, employment_type, created_at
		FROM profile_experiences
		WHERE profile_id = $1
		ORDER BY start_date DESC, end_date DESC NULLS LAST, id DESC
	`
	var models []experienceModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	out := make([]profile.Experience, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateExperience(ctx context.Context, e *profile.Experience) error {
	query := `
		INSERT INTO profile_experiences (
			profile_id, company_name, position_title, location, start_date,
			end_date, is_current, responsibilities_text, achievements_text,
			tech_stack_text, employment_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		e.ProfileID.Int64(), e.CompanyName, e.PositionTitle, e.Location, e.StartDate,
		e.EndDate, e.IsCurrent, e.ResponsibilitiesText, e.AchievementsText,
		e.TechStackText, e.EmploymentType, e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}
	e.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateExperience(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, e *profile.Experience) error {
	query := `
		UPDATE profile_experiences SET
			company_name = $1, position_title = $2, location = $3, start_date = $4,
			end_date = $5, is_current = $6, responsibilities_text = $7,
			achievements_text = $8, tech_stack_text = $9, employment_type = $10
		WHERE id = $11 AND profile_id = $12
	`
	return r.execItemUpdate(ctx, query,
		e.CompanyName, e.PositionTitle, e.Location, e.StartDate,
		e.EndDate, e.IsCurrent, e.ResponsibilitiesText,
		e.AchievementsText, e.TechStackText, e.EmploymentType,
		itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteExperience(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_experiences WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Projects
// ============================================================================

type projectModel struct {
	ID              int64      `db:"id"`
	ProfileID       int64      `db:"profile_id"`
	Name            string     `db:"name"`
	Role            *string    `db:"role"`
	DescriptionText string     `db:"description_text"`
	StartDate       *time.Time `db:"start_date"`
	EndDate         *time.Time `db:"end_date"`
	TechStackText   *string    `db:"tech_stack_text"`
	URL             *string    `db:"url"`
	CreatedAt       time.Time  `db:"created_at"`
}

func (m *projectModel) toEntity() profile.Project {
	return profile.Project{
		ID:              kernel.NewProfileItemID(m.ID),
		ProfileID:       kernel.NewProfileID(m.ProfileID),
		Name:            m.Name,
		Role:            m.Role,
		DescriptionText: m.DescriptionText,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		TechStackText:   m.TechStackText,
		URL:             m.URL,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListProjects(ctx context.Context, profileID kernel.ProfileID) ([]profile.Project, error) {
	query := `
		SELECT id, profile_id, name, role, description_text, start_date,
		       end_date, tech_stack_text, url, created_at
		FROM profile_projects
		WHERE profile_id = $1
		ORDER BY start_date DESC NULLS LAST, created_at DESC, id DESC
	`
	var models []projectModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	out := make([]profile.Project, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateProject(ctx context.Context, p *profile.Project) error {
	query := `
		INSERT INTO profile_projects (
			profile_id, name, role, description_text, start_date, end_date,
			tech_stack_text, url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		p.ProfileID.Int64(), p.Name, p.Role, p.DescriptionText, p.StartDate,
		p.EndDate, p.TechStackText, p.URL, p.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	p.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateProject(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, p *profile.Project) error {
	query := `
		UPDATE profile_projects SET
			name = $1, role = $2, description_text = $3, start_date = $4,
			end_date = $5, tech_stack_text = $6, url = $7
		WHERE id = $8 AND profile_id = $9
	`
	return r.execItemUpdate(ctx, query,
		p.Name, p.Role, p.DescriptionText, p.StartDate,
		p.EndDate, p.TechStackText, p.URL,
		itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteProject(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_projects WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Achievements
// ============================================================================

type achievementModel struct {
	ID                  int64      `db:"id"`
	ProfileID           int64      `db:"profile_id"`
	Title               string     `db:"title"`
	DescriptionText     string     `db:"description_text"`
	Metric              *string    `db:"metric"`
	AchievedAt          *time.Time `db:"achieved_at"`
	RelatedExperienceID *int64     `db:"related_experience_id"`
	RelatedProjectID    *int64     `db:"related_project_id"`
	CreatedAt           time.Time  `db:"created_at"`
}

func (m *achievementModel) toEntity() profile.Achievement {
	a := profile.Achievement{
		ID:              kernel.NewProfileItemID(m.ID),
		ProfileID:       kernel.NewProfileID(m.ProfileID),
		Title:           m.Title,
		DescriptionText: m.DescriptionText,
		Metric:          m.Metric,
		AchievedAt:      m.AchievedAt,
		CreatedAt:       m.CreatedAt,
	}
	if m.RelatedExperienceID != nil {
		id := kernel.NewProfileItemID(*m.RelatedExperienceID)
		a.RelatedExperienceID = &id
	}
	if m.RelatedProjectID != nil {
		id := kernel.NewProfileItemID(*m.RelatedProjectID)
		a.RelatedProjectID = &id
	}
	return a
}

func (r *PostgresProfileRepository) ListAchievements(ctx context.Context, profileID kernel.ProfileID) ([]profile.Achievement, error) {
	query := `
		SELECT id, profile_id, title, description_text, metric, achieved_at,
		       related_experience_id, related_project_id, created_at
		FROM profile_achievements
		WHERE profile_id = $1
		ORDER BY achieved_at DESC NULLS LAST, created_at DESC, id DESC
	`
	var models []achievementModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	out := make([]profile.Achievement, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateAchievement(ctx context.Context, a *profile.Achievement) error {
	query := `
		INSERT INTO profile_achievements (
			profile_id, title, description_text, metric, achieved_at,
			related_experience_id, related_project_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		a.ProfileID.Int64(), a.Title, a.DescriptionText, a.Metric, a.AchievedAt,
		optionalItemID(a.RelatedExperienceID), optionalItemID(a.RelatedProjectID), a.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create achievement: %w", err)
	}
	a.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateAchievement(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, a *profile.Achievement) error {
	query := `
		UPDATE profile_achievements SET
			title = $1, description_text = $2, metric = $3, achieved_at = $4,
			related_experience_id = $5, related_project_id = $6
		WHERE id = $7 AND profile_id = $8
	`
	return r.execItemUpdate(ctx, query,
		a.Title, a.DescriptionText, a.Metric, a.AchievedAt,
		optionalItemID(a.RelatedExperienceID), optionalItemID(a.RelatedProjectID),
		itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteAchievement(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_achievements WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Education
// ============================================================================

type educationModel struct {
	ID              int64     `db:"id"`
	ProfileID       int64     `db:"profile_id"`
	Institution     string    `db:"institution"`
	DegreeLevel     string    `db:"degree_level"`
	FieldOfStudy    string    `db:"field_of_study"`
	StartYear       *int      `db:"start_year"`
	EndYear         *int      `db:"end_year"`
	DescriptionText *string   `db:"description_text"`
	GPA             *float64  `db:"gpa"`
	CreatedAt       time.Time `db:"created_at"`
}

func (m *educationModel) toEntity() profile.Education {
	return profile.Education{
		ID:              kernel.NewProfileItemID(m.ID),
		ProfileID:       kernel.NewProfileID(m.ProfileID),
		Institution:     m.Institution,
		DegreeLevel:     m.DegreeLevel,
		FieldOfStudy:    m.FieldOfStudy,
		StartYear:       m.StartYear,
		EndYear:         m.EndYear,
		DescriptionText: m.DescriptionText,
		GPA:             m.GPA,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListEducation(ctx context.Context, profileID kernel.ProfileID) ([]profile.Education, error) {
	query := `
		SELECT id, profile_id, institution, degree_level, field_of_study,
		       start_year, end_year, description_text, gpa, created_at
		FROM profile_education
		WHERE profile_id = $1
		ORDER BY end_year DESC NULLS LAST, start_year DESC NULLS LAST, id DESC
	`
	var models []educationModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	out := make([]profile.Education, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateEducation(ctx context.Context, e *profile.Education) error {
	query := `
		INSERT INTO profile_education (
			profile_id, institution, degree_level, field_of_study,
			start_year, end_year, description_text, gpa, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		e.ProfileID.Int64(), e.Institution, e.DegreeLevel, e.FieldOfStudy,
		e.StartYear, e.EndYear, e.DescriptionText, e.GPA, e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create education: %w", err)
	}
	e.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateEducation(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, e *profile.Education) error {
	query := `
		UPDATE profile_education SET
			institution = $1, degree_level = $2, field_of_study = $3,
			start_year = $4, end_year = $5, description_text = $6, gpa = $7
		WHERE id = $8 AND profile_id = $9
	`
	return r.execItemUpdate(ctx, query,
		e.Institution, e.DegreeLevel, e.FieldOfStudy,
		e.StartYear, e.EndYear, e.DescriptionText, e.GPA,
		itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteEducation(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_education WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Certificates
// ============================================================================

type certificateModel struct {
	ID        int64      `db:"id"`
	ProfileID int64      `db:"profile_id"`
	Name      string     `db:"name"`
	Issuer    string     `db:"issuer"`
	IssuedAt  *time.Time `db:"issued_at"`
	ExpiresAt *time.Time `db:"expires_at"`
	URL       *string    `db:"url"`
	CreatedAt time.Time  `db:"created_at"`
}

func (m *certificateModel) toEntity() profile.Certificate {
	return profile.Certificate{
		ID:        kernel.NewProfileItemID(m.ID),
		ProfileID: kernel.NewProfileID(m.ProfileID),
		Name:      m.Name,
		Issuer:    m.Issuer,
		IssuedAt:  m.IssuedAt,
		ExpiresAt: m.ExpiresAt,
		URL:       m.URL,
		CreatedAt: m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListCertificates(ctx context.Context, profileID kernel.ProfileID) ([]profile.Certificate, error) {
	query := `
		SELECT id, profile_id, name, issuer, issued_at, expires_at, url, created_at
		FROM profile_certificates
		WHERE profile_id = $1
		ORDER BY issued_at DESC NULLS LAST, id DESC
	`
	var models []certificateModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	out := make([]profile.Certificate, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateCertificate(ctx context.Context, c *profile.Certificate) error {
	query := `
		INSERT INTO profile_certificates (
			profile_id, name, issuer, issued_at, expires_at, url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		c.ProfileID.Int64(), c.Name, c.Issuer, c.IssuedAt, c.ExpiresAt, c.URL, c.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	c.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateCertificate(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, c *profile.Certificate) error {
	query := `
		UPDATE profile_certificates SET
			name = $1, issuer = $2, issued_at = $3, expires_at = $4, url = $5
		WHERE id = $6 AND profile_id = $7
	`
	return r.execItemUpdate(ctx, query,
		c.Name, c.Issuer, c.IssuedAt, c.ExpiresAt, c.URL,
		itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteCertificate(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_certificates WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Skills
// ============================================================================

type skillModel struct {
	ID            int64     `db:"id"`
	ProfileID     int64     `db:"profile_id"`
	NameRaw       string    `db:"name_raw"`
	NormalizedKey *string   `db:"normalized_key"`
	Category      string    `db:"category"`
	Level         string    `db:"level"`
	Years         *float64  `db:"years"`
	LastUsedYear  *int      `db:"last_used_year"`
	IsPrimary     bool      `db:"is_primary"`
	EvidenceText  *string   `db:"evidence_text"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m *skillModel) toEntity() profile.Skill {
	return profile.Skill{
		ID:            kernel.NewProfileItemID(m.ID),
		ProfileID:     kernel.NewProfileID(m.ProfileID),
		NameRaw:       m.NameRaw,
		NormalizedKey: m.NormalizedKey,
		Category:      m.Category,
		Level:         m.Level,
		Years:         m.Years,
		LastUsedYear:  m.LastUsedYear,
		IsPrimary:     m.IsPrimary,
		EvidenceText:  m.EvidenceText,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListSkills(ctx context.Context, profileID kernel.ProfileID) ([]profile.Skill, error) {
	query := `
		SELECT id, profile_id, name_raw, normalized_key, category, level, years,
		       last_used_year, is_primary, evidence_text, created_at
		FROM profile_skills
		WHERE profile_id = $1
		ORDER BY is_primary DESC, level DESC, name_raw ASC
	`
	var models []skillModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	out := make([]profile.Skill, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateSkill(ctx context.Context, s *profile.Skill) error {
	query := `
		INSERT INTO profile_skills (
			profile_id, name_raw, normalized_key, category, level, years,
			last_used_year, is_primary, evidence_text, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		s.ProfileID.Int64(), s.NameRaw, s.NormalizedKey, s.Category, s.Level,
		s.Years, s.LastUsedYear, s.IsPrimary, s.EvidenceText, s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	s.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateSkill(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, s *profile.Skill) error {
	query := `
		UPDATE profile_skills SET
			name_raw = $1, normalized_key = $2, category = $3, level = $4,
			years = $5, last_used_year = $6, is_primary = $7, evidence_text = $8
		WHERE id = $9 AND profile_id = $10
	`
	return r.execItemUpdate(ctx, query,
		s.NameRaw, s.NormalizedKey, s.Category, s.Level,
		s.Years, s.LastUsedYear, s.IsPrimary, s.EvidenceText,
		itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteSkill(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_skills WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Languages
// ============================================================================

type languageModel struct {
	ID        int64     `db:"id"`
	ProfileID int64     `db:"profile_id"`
	Language  string    `db:"language"`
	Level     string    `db:"level"`
	CreatedAt time.Time `db:"created_at"`
}

func (m *languageModel) toEntity() profile.Language {
	return profile.Language{
		ID:        kernel.NewProfileItemID(m.ID),
		ProfileID: kernel.NewProfileID(m.ProfileID),
		Language:  m.Language,
		Level:     m.Level,
		CreatedAt: m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListLanguages(ctx context.Context, profileID kernel.ProfileID) ([]profile.Language, error) {
	query := `
		SELECT id, profile_id, language, level, created_at
		FROM profile_languages
		WHERE profile_id = $1
		ORDER BY id ASC
	`
	var models []languageModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	out := make([]profile.Language, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateLanguage(ctx context.Context, l *profile.Language) error {
	query := `
		INSERT INTO profile_languages (profile_id, language, level, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		l.ProfileID.Int64(), l.Language, l.Level, l.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create language: %w", err)
	}
	l.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateLanguage(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, l *profile.Language) error {
	query := `
		UPDATE profile_languages SET language = $1, level = $2
		WHERE id = $3 AND profile_id = $4
	`
	return r.execItemUpdate(ctx, query, l.Language, l.Level, itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteLanguage(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_languages WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}

// ============================================================================
// Links
// ============================================================================

type linkModel struct {
	ID        int64     `db:"id"`
	ProfileID int64     `db:"profile_id"`
	Type      string    `db:"type"`
	URL       string    `db:"url"`
	Label     *string   `db:"label"`
	CreatedAt time.Time `db:"created_at"`
}

func (m *linkModel) toEntity() profile.Link {
	return profile.Link{
		ID:        kernel.NewProfileItemID(m.ID),
		ProfileID: kernel.NewProfileID(m.ProfileID),
		Type:      m.Type,
		URL:       m.URL,
		Label:     m.Label,
		CreatedAt: m.CreatedAt,
	}
}

func (r *PostgresProfileRepository) ListLinks(ctx context.Context, profileID kernel.ProfileID) ([]profile.Link, error) {
	query := `
		SELECT id, profile_id, type, url, label, created_at
		FROM profile_links
		WHERE profile_id = $1
		ORDER BY id ASC
	`
	var models []linkModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	out := make([]profile.Link, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *PostgresProfileRepository) CreateLink(ctx context.Context, l *profile.Link) error {
	query := `
		INSERT INTO profile_links (profile_id, type, url, label, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		l.ProfileID.Int64(), l.Type, l.URL, l.Label, l.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	l.ID = kernel.NewProfileItemID(id)
	return nil
}

func (r *PostgresProfileRepository) UpdateLink(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID, l *profile.Link) error {
	query := `
		UPDATE profile_links SET type = $1, url = $2, label = $3
		WHERE id = $4 AND profile_id = $5
	`
	return r.execItemUpdate(ctx, query, l.Type, l.URL, l.Label, itemID(id), profileID.Int64())
}

func (r *PostgresProfileRepository) DeleteLink(ctx context.Context, profileID kernel.ProfileID, id kernel.ProfileItemID) error {
	return r.execItemUpdate(ctx,
		`DELETE FROM profile_links WHERE id = $1 AND profile_id = $2`,
		itemID(id), profileID.Int64())
}
