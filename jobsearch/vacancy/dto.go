package vacancy

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// CreateVacancyRequest - DTO for creating a manual vacancy
type CreateVacancyRequest struct {
	Title       string     `json:"title" validate:"required"`
	CompanyName *string    `json:"company_name,omitempty"`
	Location    *string    `json:"location,omitempty"`
	SalaryFrom  *int       `json:"salary_from,omitempty" validate:"omitempty,gte=0"`
	SalaryTo    *int       `json:"salary_to,omitempty" validate:"omitempty,gte=0"`
	Currency    *string    `json:"currency,omitempty"`
	Description string     `json:"description" validate:"required"`
	URL         *string    `json:"url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// UpdateVacancyRequest - DTO for partial vacancy updates
type UpdateVacancyRequest struct {
	Title       *string    `json:"title,omitempty"`
	CompanyName *string    `json:"company_name,omitempty"`
	Location    *string    `json:"location,omitempty"`
	SalaryFrom  *int       `json:"salary_from,omitempty"`
	SalaryTo    *int       `json:"salary_to,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
	Description *string    `json:"description,omitempty"`
	URL         *string    `json:"url,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// VacancyResponse - DTO for returning vacancy data with its requirements
type VacancyResponse struct {
	Vacancy
	Requirements []Requirement `json:"requirements,omitempty"`
}

// Response type alias for paginated vacancies
type PaginatedVacanciesResponse = kernel.Paginated[Vacancy]
