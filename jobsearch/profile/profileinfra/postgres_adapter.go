package profileinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/profile"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresProfileRepository implements profile.Repository using PostgreSQL
type PostgresProfileRepository struct {
	db *sqlx.DB
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository
func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// ============================================================================
// Database Models
// ============================================================================

type profileModel struct {
	ID           int64   `db:"id"`
	Title        *string `db:"title"`
	ResumeText   string  `db:"resume_text"`
	SkillsText   *string `db:"skills_text"`
	Location     *string `db:"location"`
	RemoteOK     bool    `db:"remote_ok"`
	RelocationOK bool    `db:"relocation_ok"`
	SalaryMin    *int    `db:"salary_min"`

	FullName *string `db:"full_name"`
	Email    *string `db:"email"`
	Phone    *string `db:"phone"`
	Telegram *string `db:"telegram"`

	City    *string `db:"city"`
	Country *string `db:"country"`
	Metro   *string `db:"metro"`

	Citizenship              *string `db:"citizenship"`
	WorkAuthorizationCountry *string `db:"work_authorization_country"`
	NeedsSponsorship         bool    `db:"needs_sponsorship"`

	AvailableFrom    *time.Time `db:"available_from"`
	NoticePeriodDays *int       `db:"notice_period_days"`

	PreferredEmployment *string `db:"preferred_employment"`
	PreferredSchedule   *string `db:"preferred_schedule"`

	PreferredIndustries   json.RawMessage `db:"preferred_industries"`
	PreferredCompanyTypes json.RawMessage `db:"preferred_company_types"`
	InterestTags          json.RawMessage `db:"interest_tags"`
	PreferredTech         json.RawMessage `db:"preferred_tech"`
	ExcludedTech          json.RawMessage `db:"excluded_tech"`
	TeamPreferencesJSON   json.RawMessage `db:"team_preferences_json"`

	SummaryAbout   *string  `db:"summary_about"`
	SeniorityLevel *string  `db:"seniority_level"`
	YearsTotal     *float64 `db:"years_total"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m *profileModel) toEntity() (*profile.Profile, error) {
	p := &profile.Profile{
		ID:                       kernel.NewProfileID(m.ID),
		Title:                    m.Title,
		ResumeText:               m.ResumeText,
		SkillsText:               m.SkillsText,
		Location:                 m.Location,
		RemoteOK:                 m.RemoteOK,
		RelocationOK:             m.RelocationOK,
		SalaryMin:                m.SalaryMin,
		FullName:                 m.FullName,
		Email:                    m.Email,
		Phone:                    m.Phone,
		Telegram:                 m.Telegram,
		City:                     m.City,
		Country:                  m.Country,
		Metro:                    m.Metro,
		Citizenship:              m.Citizenship,
		WorkAuthorizationCountry: m.WorkAuthorizationCountry,
		NeedsSponsorship:         m.NeedsSponsorship,
		AvailableFrom:            m.AvailableFrom,
		NoticePeriodDays:         m.NoticePeriodDays,
		PreferredEmployment:      m.PreferredEmployment,
		PreferredSchedule:        m.PreferredSchedule,
		SummaryAbout:             m.SummaryAbout,
		SeniorityLevel:           m.SeniorityLevel,
		YearsTotal:               m.YearsTotal,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}

	for _, field := range []struct {
		raw  json.RawMessage
		dest *[]string
	}{
		{m.PreferredIndustries, &p.PreferredIndustries},
		{m.PreferredCompanyTypes, &p.PreferredCompanyTypes},
		{m.InterestTags, &p.InterestTags},
		{m.PreferredTech, &p.PreferredTech},
		{m.ExcludedTech, &p.ExcludedTech},
	} {
		*field.dest = []string{}
		if len(field.raw) > 0 {
			if err := json.Unmarshal(field.raw, field.dest); err != nil {
				return nil, fmt.Errorf("failed to decode profile list field: %w", err)
			}
		}
	}

	p.TeamPreferences = map[string]any{}
	if len(m.TeamPreferencesJSON) > 0 {
		if err := json.Unmarshal(m.TeamPreferencesJSON, &p.TeamPreferences); err != nil {
			return nil, fmt.Errorf("failed to decode team_preferences_json: %w", err)
		}
	}

	return p, nil
}

func fromEntity(p *profile.Profile) (*profileModel, error) {
	m := &profileModel{
		ID:                       p.ID.Int64(),
		Title:                    p.Title,
		ResumeText:               p.ResumeText,
		SkillsText:               p.SkillsText,
		Location:                 p.Location,
		RemoteOK:                 p.RemoteOK,
		RelocationOK:             p.RelocationOK,
		SalaryMin:                p.SalaryMin,
		FullName:                 p.FullName,
		Email:                    p.Email,
		Phone:                    p.Phone,
		Telegram:                 p.Telegram,
		City:                     p.City,
		Country:                  p.Country,
		Metro:                    p.Metro,
		Citizenship:              p.Citizenship,
		WorkAuthorizationCountry: p.WorkAuthorizationCountry,
		NeedsSponsorship:         p.NeedsSponsorship,
		AvailableFrom:            p.AvailableFrom,
		NoticePeriodDays:         p.NoticePeriodDays,
		PreferredEmployment:      p.PreferredEmployment,
		PreferredSchedule:        p.PreferredSchedule,
		SummaryAbout:             p.SummaryAbout,
		SeniorityLevel:           p.SeniorityLevel,
		YearsTotal:               p.YearsTotal,
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
	}

	for _, field := range []struct {
		src  []string
		dest *json.RawMessage
	}{
		{p.PreferredIndustries, &m.PreferredIndustries},
		{p.PreferredCompanyTypes, &m.PreferredCompanyTypes},
		{p.InterestTags, &m.InterestTags},
		{p.PreferredTech, &m.PreferredTech},
		{p.ExcludedTech, &m.ExcludedTech},
	} {
		src := field.src
		if src == nil {
			src = []string{}
		}
		data, err := json.Marshal(src)
		if err != nil {
			return nil, fmt.Errorf("failed to encode profile list field: %w", err)
		}
		*field.dest = data
	}

	prefs := p.TeamPreferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode team_preferences_json: %w", err)
	}
	m.TeamPreferencesJSON = data

	return m, nil
}

const profileColumns = `
	id, title, resume_text, skills_text, location, remote_ok, relocation_ok,
	salary_min, full_name, email, phone, telegram, city, country, metro,
	citizenship, work_authorization_country, needs_sponsorship,
	available_from, notice_period_days, preferred_employment,
	preferred_schedule, preferred_industries, preferred_company_types,
	interest_tags, preferred_tech, excluded_tech, team_preferences_json,
	summary_about, seniority_level, years_total, created_at, updated_at
`

// ============================================================================
// Profile CRUD
// ============================================================================

// Create inserts a new profile and assigns its surrogate id.
func (r *PostgresProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	model, err := fromEntity(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (
			title, resume_text, skills_text, location, remote_ok, relocation_ok,
			salary_min, full_name, email, phone, telegram, city, country, metro,
			citizenship, work_authorization_country, needs_sponsorship,
			available_from, notice_period_days, preferred_employment,
			preferred_schedule, preferred_industries, preferred_company_types,
			interest_tags, preferred_tech, excluded_tech, team_preferences_json,
			summary_about, seniority_level, years_total, created_at, updated_at
		) VALUES (
			:title, :resume_text, :skills_text, :location, :remote_ok, :relocation_ok,
			:salary_min, :full_name, :email, :phone, :telegram, :city, :country, :metro,
			:citizenship, :work_authorization_country, :needs_sponsorship,
			:available_from, :notice_period_days, :preferred_employment,
			:preferred_schedule, :preferred_industries, :preferred_company_types,
			:interest_tags, :preferred_tech, :excluded_tech, :team_preferences_json,
			:summary_about, :seniority_level, :years_total, :created_at, :updated_at
		)
		RETURNING id
	`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, model)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("failed to create profile: no id returned")
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return fmt.Errorf("failed to scan profile id: %w", err)
	}

	p.ID = kernel.NewProfileID(id)
	return nil
}

// GetByID retrieves a profile by id.
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id kernel.ProfileID) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var model profileModel
	err := r.db.GetContext(ctx, &model, query, id.Int64())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, profile.ErrProfileNotFound()
		}
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return model.toEntity()
}

// List retrieves profiles ordered by id descending.
func (r *PostgresProfileRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[profile.Profile], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM profiles`); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY id DESC LIMIT $1 OFFSET $2`

	var models []profileModel
	if err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	entities := make([]profile.Profile, 0, len(models))
	for _, model := range models {
		entity, err := model.toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return kernel.NewPaginated(entities, pagination, total), nil
}

// Update overwrites mutable fields of an existing profile.
func (r *PostgresProfileRepository) Update(ctx context.Context, id kernel.ProfileID, p *profile.Profile) error {
	model, err := fromEntity(p)
	if err != nil {
		return err
	}
	model.ID = id.Int64()

	query := `
		UPDATE profiles SET
			title = :title,
			resume_text = :resume_text,
			skills_text = :skills_text,
			location = :location,
			remote_ok = :remote_ok,
			relocation_ok = :relocation_ok,
			salary_min = :salary_min,
			full_name = :full_name,
			email = :email,
			phone = :phone,
			telegram = :telegram,
			city = :city,
			country = :country,
			metro = :metro,
			citizenship = :citizenship,
			work_authorization_country = :work_authorization_country,
			needs_sponsorship = :needs_sponsorship,
			available_from = :available_from,
			notice_period_days = :notice_period_days,
			preferred_employment = :preferred_employment,
			preferred_schedule = :preferred_schedule,
			preferred_industries = :preferred_industries,
			preferred_company_types = :preferred_company_types,
			interest_tags = :interest_tags,
			preferred_tech = :preferred_tech,
			excluded_tech = :excluded_tech,
			team_preferences_json = :team_preferences_json,
			summary_about = :summary_about,
			seniority_level = :seniority_level,
			years_total = :years_total,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return profile.ErrProfileNotFound()
	}

	return nil
}

// Delete removes a profile; dependent rows cascade.
func (r *PostgresProfileRepository) Delete(ctx context.Context, id kernel.ProfileID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return profile.ErrProfileNotFound()
	}

	return nil
}

// ListIDs returns profile ids ascending.
func (r *PostgresProfileRepository) ListIDs(ctx context.Context, limit int) ([]kernel.ProfileID, error) {
	query := `SELECT id FROM profiles ORDER BY id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var raw []int64
	if err := r.db.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list profile ids: %w", err)
	}

	ids := make([]kernel.ProfileID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, kernel.NewProfileID(id))
	}
	return ids, nil
}

// ============================================================================
// Resume Versions
// ============================================================================

// CreateResumeVersion inserts a resume version row.
func (r *PostgresProfileRepository) CreateResumeVersion(ctx context.Context, v *profile.ResumeVersion) error {
	query := `
		INSERT INTO resume_versions (
			profile_id, vacancy_id, title, content_text, format, source,
			status, created_at, approved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var vacancyID *int64
	if v.VacancyID != nil {
		raw := v.VacancyID.Int64()
		vacancyID = &raw
	}

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		v.ProfileID.Int64(), vacancyID, v.Title, v.ContentText, v.Format,
		v.Source, v.Status, v.CreatedAt, v.ApprovedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create resume version: %w", err)
	}

	v.ID = kernel.NewResumeVersionID(id)
	return nil
}

// HasResumeVersions reports whether any resume version exists.
func (r *PostgresProfileRepository) HasResumeVersions(ctx context.Context, profileID kernel.ProfileID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM resume_versions WHERE profile_id = $1)`, profileID.Int64())
	if err != nil {
		return false, fmt.Errorf("failed to check resume versions: %w", err)
	}
	return exists, nil
}

// LatestApprovedResumeText returns the newest approved general resume text.
func (r *PostgresProfileRepository) LatestApprovedResumeText(ctx context.Context, profileID kernel.ProfileID) (*string, error) {
	query := `
		SELECT content_text
		FROM resume_versions
		WHERE profile_id = $1 AND status = $2 AND vacancy_id IS NULL
		ORDER BY approved_at DESC NULLS LAST, created_at DESC, id DESC
		LIMIT 1
	`

	var text string
	err := r.db.GetContext(ctx, &text, query, profileID.Int64(), profile.VersionStatusApproved)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest approved resume: %w", err)
	}
	return &text, nil
}

// HasSkills reports whether any structured skill rows exist.
func (r *PostgresProfileRepository) HasSkills(ctx context.Context, profileID kernel.ProfileID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM profile_skills WHERE profile_id = $1)`, profileID.Int64())
	if err != nil {
		return false, fmt.Errorf("failed to check profile skills: %w", err)
	}
	return exists, nil
}
