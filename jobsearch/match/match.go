package match

import (
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Verdict buckets for a computed score.
const (
	VerdictStrong = "strong"
	VerdictOK     = "ok"
	VerdictWeak   = "weak"
	VerdictReject = "reject"
)

// Evidence rows produced by the keyword layer.
const EvidenceTypeSkillMatch = "skill_match"

// Eligibility gate reasons. The Russian strings surface verbatim in the UI.
const (
	ReasonMissingRequiredSkills = "missing_required_skills"
	ReasonRelocationRequired    = "Требуется релокация"
	ReasonLocationMismatch      = "Несовпадение локации"
	ReasonSalaryAboveRange      = "Ожидания по зарплате выше вилки"

	WarningSalaryFloor = "Нижняя граница вилки ниже ожиданий по зарплате"
	WarningNoSkillReqs = "no_skill_requirements_extracted"
)

// Penalty tags recorded in the explanation.
const (
	PenaltyOverqualified  = "overqualified"
	PenaltySalaryWarning  = "salary_warning"
	PenaltyNoSkillReqsCap = "no_skill_requirements_cap"
)

// VacancyScore is the persisted match result for one (profile, vacancy)
// pair; the pair is unique.
type VacancyScore struct {
	ID          kernel.ScoreID   `db:"id" json:"id"`
	ProfileID   kernel.ProfileID `db:"profile_id" json:"profile_id"`
	VacancyID   kernel.VacancyID `db:"vacancy_id" json:"vacancy_id"`
	Layer1Score float64          `db:"layer1_score" json:"layer1_score"`
	Layer2Score float64          `db:"layer2_score" json:"layer2_score"`
	FinalScore  float64          `db:"final_score" json:"final_score"`
	Verdict     string           `db:"verdict" json:"verdict"`
	Explanation Explanation      `db:"-" json:"explanation"`
	ComputedAt  time.Time        `db:"computed_at" json:"computed_at"`
}

// ResumeEvidence links a matched vacancy requirement to the resume fragment
// that proves it.
type ResumeEvidence struct {
	ID            kernel.EvidenceID     `db:"id" json:"id"`
	ProfileID     kernel.ProfileID      `db:"profile_id" json:"profile_id"`
	VacancyID     kernel.VacancyID      `db:"vacancy_id" json:"vacancy_id"`
	RequirementID *kernel.RequirementID `db:"requirement_id" json:"requirement_id,omitempty"`
	EvidenceText  string                `db:"evidence_text" json:"evidence_text"`
	EvidenceType  string                `db:"evidence_type" json:"evidence_type"`
	Confidence    float64               `db:"confidence" json:"confidence"`
	CreatedAt     time.Time             `db:"created_at" json:"created_at"`
}

// Explanation is the structured account of one score. Its JSON keys are a
// stable contract consumed by the tailoring UI and the document generator.
type Explanation struct {
	Warnings          []string    `json:"warnings"`
	Eligibility       Eligibility `json:"eligibility"`
	ATS               ATSReport   `json:"ats"`
	Semantic          Semantic    `json:"semantic"`
	Final             Final       `json:"final"`
	CoverLetterPoints []string    `json:"cover_letter_points"`
}

type Eligibility struct {
	OK            bool     `json:"ok"`
	ReasonsFailed []string `json:"reasons_failed"`
	Warnings      []string `json:"warnings"`
}

type ATSReport struct {
	KeywordsPresent      []string `json:"keywords_present"`
	KeywordsMissingMust  []string `json:"keywords_missing_must"`
	KeywordsMissingNice  []string `json:"keywords_missing_nice"`
	KeywordsUncertain    []string `json:"keywords_uncertain"`
	KeywordsToAdd        []string `json:"keywords_to_add"`
	StructureSuggestions []string `json:"structure_suggestions"`
}

type Semantic struct {
	Score float64 `json:"score"`
}

type Final struct {
	Score      float64    `json:"score"`
	RawScore   float64    `json:"raw_score"`
	Verdict    string     `json:"verdict"`
	Components Components `json:"components"`
	Penalties  []string   `json:"penalties"`
}

type Components struct {
	Semantic     float64 `json:"semantic"`
	HardCoverage float64 `json:"hard_coverage"`
	NiceCoverage float64 `json:"nice_coverage"`
}
