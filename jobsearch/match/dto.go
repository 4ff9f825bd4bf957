package match

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Recommendation is one scored vacancy in a profile's recommendation list,
// joined with the vacancy summary for display.
type Recommendation struct {
	VacancyID   kernel.VacancyID `db:"vacancy_id" json:"vacancy_id"`
	Title       string           `db:"title" json:"title"`
	CompanyName *string          `db:"company_name" json:"company_name,omitempty"`
	Location    *string          `db:"location" json:"location,omitempty"`
	URL         *string          `db:"url" json:"url,omitempty"`
	SalaryFrom  *int             `db:"salary_from" json:"salary_from,omitempty"`
	SalaryTo    *int             `db:"salary_to" json:"salary_to,omitempty"`
	Currency    *string          `db:"currency" json:"currency,omitempty"`
	PublishedAt *time.Time       `db:"published_at" json:"published_at,omitempty"`

	Layer1Score float64   `db:"layer1_score" json:"layer1_score"`
	Layer2Score float64   `db:"layer2_score" json:"layer2_score"`
	FinalScore  float64   `db:"final_score" json:"final_score"`
	Verdict     string    `db:"verdict" json:"verdict"`
	ComputedAt  time.Time `db:"computed_at" json:"computed_at"`
}

// EvidenceItem is one evidence row in the tailoring bundle.
type EvidenceItem struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TailoringResponse - DTO for GET /profiles/:profileID/vacancies/:vacancyID/tailoring
type TailoringResponse struct {
	ProfileID   kernel.ProfileID `json:"profile_id"`
	VacancyID   kernel.VacancyID `json:"vacancy_id"`
	Explanation Explanation      `json:"explanation"`
	Evidence    []EvidenceItem   `json:"evidence"`
}

// RecomputeResponse - DTO for POST /profiles/:id/recommendations/recompute
type RecomputeResponse struct {
	TaskID kernel.TaskID `json:"task_id"`
}
