package profile

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// CreateProfileRequest - DTO for creating a profile
type CreateProfileRequest struct {
	Title        *string `json:"title,omitempty"`
	ResumeText   string  `json:"resume_text" validate:"required"`
	SkillsText   *string `json:"skills_text,omitempty"`
	Location     *string `json:"location,omitempty"`
	RemoteOK     *bool   `json:"remote_ok,omitempty"`
	RelocationOK *bool   `json:"relocation_ok,omitempty"`
	SalaryMin    *int    `json:"salary_min,omitempty" validate:"omitempty,gte=0"`

	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
	Telegram *string `json:"telegram,omitempty"`

	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
	Metro   *string `json:"metro,omitempty"`

	Citizenship              *string `json:"citizenship,omitempty"`
	WorkAuthorizationCountry *string `json:"work_authorization_country,omitempty"`
	NeedsSponsorship         *bool   `json:"needs_sponsorship,omitempty"`

	AvailableFrom    *time.Time `json:"available_from,omitempty"`
	NoticePeriodDays *int       `json:"notice_period_days,omitempty"`

	PreferredEmployment *string `json:"preferred_employment,omitempty"`
	PreferredSchedule   *string `json:"preferred_schedule,omitempty"`

	PreferredIndustries   []string       `json:"preferred_industries,omitempty"`
	PreferredCompanyTypes []string       `json:"preferred_company_types,omitempty"`
	InterestTags          []string       `json:"interest_tags,omitempty"`
	PreferredTech         []string       `json:"preferred_tech,omitempty"`
	ExcludedTech          []string       `json:"excluded_tech,omitempty"`
	TeamPreferences       map[string]any `json:"team_preferences_json,omitempty"`

	SummaryAbout   *string  `json:"summary_about,omitempty"`
	SeniorityLevel *string  `json:"seniority_level,omitempty"`
	YearsTotal     *float64 `json:"years_total,omitempty"`
}

// UpdateProfileRequest - DTO for partial profile updates. Nil means leave
// the field untouched.
type UpdateProfileRequest struct {
	Title        *string `json:"title,omitempty"`
	ResumeText   *string `json:"resume_text,omitempty"`
	SkillsText   *string `json:"skills_text,omitempty"`
	Location     *string `json:"location,omitempty"`
	RemoteOK     *bool   `json:"remote_ok,omitempty"`
	RelocationOK *bool   `json:"relocation_ok,omitempty"`
	SalaryMin    *int    `json:"salary_min,omitempty"`

	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Telegram *string `json:"telegram,omitempty"`

	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
	Metro   *string `json:"metro,omitempty"`

	Citizenship              *string `json:"citizenship,omitempty"`
	WorkAuthorizationCountry *string `json:"work_authorization_country,omitempty"`
	NeedsSponsorship         *bool   `json:"needs_sponsorship,omitempty"`

	AvailableFrom    *time.Time `json:"available_from,omitempty"`
	NoticePeriodDays *int       `json:"notice_period_days,omitempty"`

	PreferredEmployment *string `json:"preferred_employment,omitempty"`
	PreferredSchedule   *string `json:"preferred_schedule,omitempty"`

	PreferredIndustries   []string       `json:"preferred_industries,omitempty"`
	PreferredCompanyTypes []string       `json:"preferred_company_types,omitempty"`
	InterestTags          []string       `json:"interest_tags,omitempty"`
	PreferredTech         []string       `json:"preferred_tech,omitempty"`
	ExcludedTech          []string       `json:"excluded_tech,omitempty"`
	TeamPreferences       map[string]any `json:"team_preferences_json,omitempty"`

	SummaryAbout   *string  `json:"summary_about,omitempty"`
	SeniorityLevel *string  `json:"seniority_level,omitempty"`
	YearsTotal     *float64 `json:"years_total,omitempty"`
}

// Sub-entity payloads. PUT replaces the whole item, so create and update
// share one request shape per entity.

type ExperienceRequest struct {
	CompanyName          string     `json:"company_name" validate:"required"`
	PositionTitle        string     `json:"position_title" validate:"required"`
	Location             *string    `json:"location,omitempty"`
	StartDate            time.Time  `json:"start_date" validate:"required"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	IsCurrent            bool       `json:"is_current"`
	ResponsibilitiesText string     `json:"responsibilities_text" validate:"required"`
	AchievementsText     string     `json:"achievements_text"`
	TechStackText        *string    `json:"tech_stack_text,omitempty"`
	EmploymentType       *string    `json:"employment_type,omitempty"`
}

type ProjectRequest struct {
	Name            string     `json:"name" validate:"required"`
	Role            *string    `json:"role,omitempty"`
	DescriptionText string     `json:"description_text" validate:"required"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	TechStackText   *string    `json:"tech_stack_text,omitempty"`
	URL             *string    `json:"url,omitempty"`
}

type AchievementRequest struct {
	Title               string                `json:"title" validate:"required"`
	DescriptionText     string                `json:"description_text" validate:"required"`
	Metric              *string               `json:"metric,omitempty"`
	AchievedAt          *time.Time            `json:"achieved_at,omitempty"`
	RelatedExperienceID *kernel.ProfileItemID `json:"related_experience_id,omitempty"`
	RelatedProjectID    *kernel.ProfileItemID `json:"related_project_id,omitempty"`
}

type EducationRequest struct {
	Institution     string   `json:"institution" validate:"required"`
	DegreeLevel     string   `json:"degree_level" validate:"required"`
	FieldOfStudy    string   `json:"field_of_study" validate:"required"`
	StartYear       *int     `json:"start_year,omitempty"`
	EndYear         *int     `json:"end_year,omitempty"`
	DescriptionText *string  `json:"description_text,omitempty"`
	GPA             *float64 `json:"gpa,omitempty"`
}

type CertificateRequest struct {
	Name      string     `json:"name" validate:"required"`
	Issuer    string     `json:"issuer" validate:"required"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	URL       *string    `json:"url,omitempty"`
}

type SkillRequest struct {
	NameRaw      string   `json:"name_raw" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Level        string   `json:"level" validate:"required"`
	Years        *float64 `json:"years,omitempty"`
	LastUsedYear *int     `json:"last_used_year,omitempty"`
	IsPrimary    bool     `json:"is_primary"`
	EvidenceText *string  `json:"evidence_text,omitempty"`
}

type LanguageRequest struct {
	Language string `json:"language" validate:"required"`
	Level    string `json:"level" validate:"required"`
}

type LinkRequest struct {
	Type  string  `json:"type" validate:"required"`
	URL   string  `json:"url" validate:"required,url"`
	Label *string `json:"label,omitempty"`
}

// BackfillResult reports what the legacy backfill created.
type BackfillResult struct {
	ProfileID            kernel.ProfileID `json:"profile_id"`
	ResumeVersionCreated bool             `json:"resume_version_created"`
	SkillsCreated        int              `json:"skills_created"`
}

// Response type alias for paginated profiles
type PaginatedProfilesResponse = kernel.Paginated[Profile]
