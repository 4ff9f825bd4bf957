// Package vacancy holds the vacancy aggregate: the posting itself, its
// parsed description and the requirements extracted from it.
package vacancy

import (
	"time"

	"github.com/Abraxas-365/scout/internal/vacancyparse"
	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Status of a vacancy posting.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Vacancy sources. (source, external_id) is the natural key; for manual
// vacancies the external id is a generated UUID.
const (
	SourceHH     = "hh"
	SourceManual = "manual"
)

// Requirement kinds.
const (
	RequirementKindSkill      = "skill"
	RequirementKindConstraint = "constraint"
)

// Requirement weights by hardness.
const (
	WeightMust = 3
	WeightNice = 1
)

type Vacancy struct {
	ID          kernel.VacancyID `db:"id" json:"id"`
	Source      string           `db:"source" json:"source"`
	ExternalID  string           `db:"external_id" json:"external_id"`
	Title       string           `db:"title" json:"title"`
	CompanyName *string          `db:"company_name" json:"company_name,omitempty"`
	Location    *string          `db:"location" json:"location,omitempty"`
	SalaryFrom  *int             `db:"salary_from" json:"salary_from,omitempty"`
	SalaryTo    *int             `db:"salary_to" json:"salary_to,omitempty"`
	Currency    *string          `db:"currency" json:"currency,omitempty"`
	Description string           `db:"description" json:"description"`
	URL         *string          `db:"url" json:"url,omitempty"`
	PublishedAt *time.Time       `db:"published_at" json:"published_at,omitempty"`
	Status      Status           `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// IsManual reports whether the vacancy was created through the API rather
// than ingested from a job board.
func (v *Vacancy) IsManual() bool {
	return v.Source == SourceManual
}

// Parsed is the 1:1 parse result of a vacancy description. Version records
// which parser produced the row; a version mismatch triggers re-parsing on
// the next ingest or backfill.
type Parsed struct {
	VacancyID    kernel.VacancyID                `json:"vacancy_id"`
	PlainText    string                          `json:"plain_text"`
	Sections     map[string]vacancyparse.Section `json:"sections"`
	Version      string                          `json:"version"`
	QualityScore float64                         `json:"quality_score"`
	ExtractedAt  time.Time                       `json:"extracted_at"`
}

// Requirement is one extracted or manually entered vacancy requirement.
// (vacancy_id, kind, normalized_key) is unique.
type Requirement struct {
	ID            kernel.RequirementID `db:"id" json:"id"`
	VacancyID     kernel.VacancyID     `db:"vacancy_id" json:"vacancy_id"`
	Kind          string               `db:"kind" json:"kind"`
	RawText       string               `db:"raw_text" json:"raw_text"`
	NormalizedKey string               `db:"normalized_key" json:"normalized_key"`
	IsHard        bool                 `db:"is_hard" json:"is_hard"`
	Weight        int                  `db:"weight" json:"weight"`
	Source        string               `db:"source" json:"source"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
}
