package profile

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Resume and cover letter version lifecycle
const (
	VersionStatusDraft    = "draft"
	VersionStatusApproved = "approved"

	VersionSourceUser         = "user"
	VersionSourceLegacyImport = "legacy_import"

	ResumeFormatPlain = "plain"
)

// Defaults applied when backfill derives skills from free-form skills_text
const (
	SkillCategoryTechnical = "technical"
	SkillLevelUnspecified  = "unspecified"
)

// Profile is the single candidate profile the engine matches against
// vacancies. The flat resume_text and skills_text fields are the legacy
// core; the structured sub-entities refine them.
type Profile struct {
	ID           kernel.ProfileID `db:"id" json:"id"`
	Title        *string          `db:"title" json:"title,omitempty"`
	ResumeText   string           `db:"resume_text" json:"resume_text"`
	SkillsText   *string          `db:"skills_text" json:"skills_text,omitempty"`
	Location     *string          `db:"location" json:"location,omitempty"`
	RemoteOK     bool             `db:"remote_ok" json:"remote_ok"`
	RelocationOK bool             `db:"relocation_ok" json:"relocation_ok"`
	SalaryMin    *int             `db:"salary_min" json:"salary_min,omitempty"`

	FullName *string `db:"full_name" json:"full_name,omitempty"`
	Email    *string `db:"email" json:"email,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
	Telegram *string `db:"telegram" json:"telegram,omitempty"`

	City    *string `db:"city" json:"city,omitempty"`
	Country *string `db:"country" json:"country,omitempty"`
	Metro   *string `db:"metro" json:"metro,omitempty"`

	Citizenship              *string `db:"citizenship" json:"citizenship,omitempty"`
	WorkAuthorizationCountry *string `db:"work_authorization_country" json:"work_authorization_country,omitempty"`
	NeedsSponsorship         bool    `db:"needs_sponsorship" json:"needs_sponsorship"`

	AvailableFrom    *time.Time `db:"available_from" json:"available_from,omitempty"`
	NoticePeriodDays *int       `db:"notice_period_days" json:"notice_period_days,omitempty"`

	PreferredEmployment *string `db:"preferred_employment" json:"preferred_employment,omitempty"`
	PreferredSchedule   *string `db:"preferred_schedule" json:"preferred_schedule,omitempty"`

	PreferredIndustries   []string       `db:"-" json:"preferred_industries"`
	PreferredCompanyTypes []string       `db:"-" json:"preferred_company_types"`
	InterestTags          []string       `db:"-" json:"interest_tags"`
	PreferredTech         []string       `db:"-" json:"preferred_tech"`
	ExcludedTech          []string       `db:"-" json:"excluded_tech"`
	TeamPreferences       map[string]any `db:"-" json:"team_preferences_json"`

	SummaryAbout   *string  `db:"summary_about" json:"summary_about,omitempty"`
	SeniorityLevel *string  `db:"seniority_level" json:"seniority_level,omitempty"`
	YearsTotal     *float64 `db:"years_total" json:"years_total,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Experience is one employment entry.
type Experience struct {
	ID                   kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID            kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	CompanyName          string               `db:"company_name" json:"company_name"`
	PositionTitle        string               `db:"position_title" json:"position_title"`
	Location             *string              `db:"location" json:"location,omitempty"`
	StartDate            time.Time            `db:"start_date" json:"start_date"`
	EndDate              *time.Time           `db:"end_date" json:"end_date,omitempty"`
	IsCurrent            bool                 `db:"is_current" json:"is_current"`
	ResponsibilitiesText string               `db:"responsibilities_text" json:"responsibilities_text"`
	AchievementsText     string               `db:"achievements_text" json:"achievements_text"`
	TechStackText        *string              `db:"tech_stack_text" json:"tech_stack_text,omitempty"`
	EmploymentType       *string              `db:"employment_type" json:"employment_type,omitempty"`
	CreatedAt            time.Time            `db:"created_at" json:"created_at"`
}

// Project is one personal or professional project entry.
type Project struct {
	ID              kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID       kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	Name            string               `db:"name" json:"name"`
	Role            *string              `db:"role" json:"role,omitempty"`
	DescriptionText string               `db:"description_text" json:"description_text"`
	StartDate       *time.Time           `db:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time           `db:"end_date" json:"end_date,omitempty"`
	TechStackText   *string              `db:"tech_stack_text" json:"tech_stack_text,omitempty"`
	URL             *string              `db:"url" json:"url,omitempty"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
}

// Achievement is a standalone accomplishment, optionally linked to an
// experience or project.
type Achievement struct {
	ID                  kernel.ProfileItemID  `db:"id" json:"id"`
	ProfileID           kernel.ProfileID      `db:"profile_id" json:"profile_id"`
	Title               string                `db:"title" json:"title"`
	DescriptionText     string                `db:"description_text" json:"description_text"`
	Metric              *string               `db:"metric" json:"metric,omitempty"`
	AchievedAt          *time.Time            `db:"achieved_at" json:"achieved_at,omitempty"`
	RelatedExperienceID *kernel.ProfileItemID `db:"related_experience_id" json:"related_experience_id,omitempty"`
	RelatedProjectID    *kernel.ProfileItemID `db:"related_project_id" json:"related_project_id,omitempty"`
	CreatedAt           time.Time             `db:"created_at" json:"created_at"`
}

// Education is one education entry.
type Education struct {
	ID              kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID       kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	Institution     string               `db:"institution" json:"institution"`
	DegreeLevel     string               `db:"degree_level" json:"degree_level"`
	FieldOfStudy    string               `db:"field_of_study" json:"field_of_study"`
	StartYear       *int                 `db:"start_year" json:"start_year,omitempty"`
	EndYear         *int                 `db:"end_year" json:"end_year,omitempty"`
	DescriptionText *string              `db:"description_text" json:"description_text,omitempty"`
	GPA             *float64             `db:"gpa" json:"gpa,omitempty"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
}

// Certificate is one certification entry.
type Certificate struct {
	ID        kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	Name      string               `db:"name" json:"name"`
	Issuer    string               `db:"issuer" json:"issuer"`
	IssuedAt  *time.Time           `db:"issued_at" json:"issued_at,omitempty"`
	ExpiresAt *time.Time           `db:"expires_at" json:"expires_at,omitempty"`
	URL       *string              `db:"url" json:"url,omitempty"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}

// Skill is one structured skill row. NormalizedKey aligns it with vacancy
// requirement keys for matching.
type Skill struct {
	ID            kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID     kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	NameRaw       string               `db:"name_raw" json:"name_raw"`
	NormalizedKey *string              `db:"normalized_key" json:"normalized_key,omitempty"`
	Category      string               `db:"category" json:"category"`
	Level         string               `db:"level" json:"level"`
	Years         *float64             `db:"years" json:"years,omitempty"`
	LastUsedYear  *int                 `db:"last_used_year" json:"last_used_year,omitempty"`
	IsPrimary     bool                 `db:"is_primary" json:"is_primary"`
	EvidenceText  *string              `db:"evidence_text" json:"evidence_text,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
}

// Language is one spoken language entry.
type Language struct {
	ID        kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	Language  string               `db:"language" json:"language"`
	Level     string               `db:"level" json:"level"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}

// Link is one external link (GitHub, portfolio, LinkedIn...).
type Link struct {
	ID        kernel.ProfileItemID `db:"id" json:"id"`
	ProfileID kernel.ProfileID     `db:"profile_id" json:"profile_id"`
	Type      string               `db:"type" json:"type"`
	URL       string               `db:"url" json:"url"`
	Label     *string              `db:"label" json:"label,omitempty"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}

// ResumeVersion is a stored resume text, either the general one
// (vacancy_id null) or one tailored to a vacancy.
type ResumeVersion struct {
	ID          kernel.ResumeVersionID `db:"id" json:"id"`
	ProfileID   kernel.ProfileID       `db:"profile_id" json:"profile_id"`
	VacancyID   *kernel.VacancyID      `db:"vacancy_id" json:"vacancy_id,omitempty"`
	Title       *string                `db:"title" json:"title,omitempty"`
	ContentText string                 `db:"content_text" json:"content_text"`
	Format      string                 `db:"format" json:"format"`
	Source      string                 `db:"source" json:"source"`
	Status      string                 `db:"status" json:"status"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
	ApprovedAt  *time.Time             `db:"approved_at" json:"approved_at,omitempty"`
}

// CoverLetterVersion is a stored cover letter, kept alongside resume
// versions so tailored applications have a durable home.
type CoverLetterVersion struct {
	ID          kernel.CoverLetterVersionID `db:"id" json:"id"`
	ProfileID   kernel.ProfileID            `db:"profile_id" json:"profile_id"`
	VacancyID   *kernel.VacancyID           `db:"vacancy_id" json:"vacancy_id,omitempty"`
	Title       *string                     `db:"title" json:"title,omitempty"`
	Subject     *string                     `db:"subject" json:"subject,omitempty"`
	ContentText string                      `db:"content_text" json:"content_text"`
	Source      string                      `db:"source" json:"source"`
	Status      string                      `db:"status" json:"status"`
	CreatedAt   time.Time                   `db:"created_at" json:"created_at"`
	ApprovedAt  *time.Time                  `db:"approved_at" json:"approved_at,omitempty"`
}
