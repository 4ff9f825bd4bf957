// Package embedding stores and queries the vectors produced for vacancies
// and profiles. One row per entity; rows written under different model names
// live in different vector spaces.
package embedding

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

type VacancyEmbedding struct {
	VacancyID kernel.VacancyID `json:"vacancy_id"`
	Vector    []float32        `json:"-"`
	ModelName string           `json:"model_name"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type ProfileEmbedding struct {
	ProfileID kernel.ProfileID `json:"profile_id"`
	Vector    []float32        `json:"-"`
	ModelName string           `json:"model_name"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Candidate is one vacancy ranked against a profile vector. Similarity is
// nil for vacancies that have no embedding yet; those sort last.
type Candidate struct {
	VacancyID  kernel.VacancyID `json:"vacancy_id"`
	Similarity *float64         `json:"similarity,omitempty"`
}
