package matchinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/match"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresMatchRepository implements match.Repository
type PostgresMatchRepository struct {
	db *sqlx.DB
}

// NewPostgresMatchRepository creates a new PostgreSQL match repository
func NewPostgresMatchRepository(db *sqlx.DB) match.Repository {
	return &PostgresMatchRepository{db: db}
}

// ============================================================================
// Database Models
// ============================================================================

type scoreModel struct {
	ID          int64           `db:"id"`
	ProfileID   int64           `db:"profile_id"`
	VacancyID   int64           `db:"vacancy_id"`
	Layer1Score float64         `db:"layer1_score"`
	Layer2Score float64         `db:"layer2_score"`
	FinalScore  float64         `db:"final_score"`
	Verdict     string          `db:"verdict"`
	Explanation json.RawMessage `db:"explanation"`
	ComputedAt  time.Time       `db:"computed_at"`
}

func (m *scoreModel) toEntity() (*match.VacancyScore, error) {
	score := &match.VacancyScore{
		ID:          kernel.NewScoreID(m.ID),
		ProfileID:   kernel.NewProfileID(m.ProfileID),
		VacancyID:   kernel.NewVacancyID(m.VacancyID),
		Layer1Score: m.Layer1Score,
		Layer2Score: m.Layer2Score,
		FinalScore:  m.FinalScore,
		Verdict:     m.Verdict,
		ComputedAt:  m.ComputedAt,
	}
	if len(m.Explanation) > 0 {
		if err := json.Unmarshal(m.Explanation, &score.Explanation); err != nil {
			return nil, fmt.Errorf("failed to decode score explanation: %w", err)
		}
	}
	return score, nil
}

type evidenceModel struct {
	ID            int64     `db:"id"`
	ProfileID     int64     `db:"profile_id"`
	VacancyID     int64     `db:"vacancy_id"`
	RequirementID *int64    `db:"requirement_id"`
	EvidenceText  string    `db:"evidence_text"`
	EvidenceType  string    `db:"evidence_type"`
	Confidence    float64   `db:"confidence"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m *evidenceModel) toEntity() match.ResumeEvidence {
	entity := match.ResumeEvidence{
		ID:           kernel.NewEvidenceID(m.ID),
		ProfileID:    kernel.NewProfileID(m.ProfileID),
		VacancyID:    kernel.NewVacancyID(m.VacancyID),
		EvidenceText: m.EvidenceText,
		EvidenceType: m.EvidenceType,
		Confidence:   m.Confidence,
		CreatedAt:    m.CreatedAt,
	}
	if m.RequirementID != nil {
		requirementID := kernel.NewRequirementID(*m.RequirementID)
		entity.RequirementID = &requirementID
	}
	return entity
}

// ============================================================================
// Score upsert
// ============================================================================

func (r *PostgresMatchRepository) UpsertScoreWithEvidence(ctx context.Context, score *match.VacancyScore, evidence []match.ResumeEvidence) error {
	explanation, err := json.Marshal(score.Explanation)
	if err != nil {
		return fmt.Errorf("failed to encode score explanation: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM resume_evidence WHERE profile_id = $1 AND vacancy_id = $2`,
		score.ProfileID.Int64(), score.VacancyID.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete prior evidence: %w", err)
	}

	insertEvidence := `
		INSERT INTO resume_evidence (
			profile_id, vacancy_id, requirement_id, evidence_text, evidence_type, confidence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id
	`
	for i := range evidence {
		row := &evidence[i]
		var requirementID *int64
		if row.RequirementID != nil {
			raw := row.RequirementID.Int64()
			requirementID = &raw
		}
		var id int64
		err = tx.QueryRowxContext(ctx, insertEvidence,
			row.ProfileID.Int64(), row.VacancyID.Int64(), requirementID,
			row.EvidenceText, row.EvidenceType, row.Confidence,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert evidence: %w", err)
		}
		row.ID = kernel.NewEvidenceID(id)
	}

	upsertScore := `
		INSERT INTO vacancy_scores (
			profile_id, vacancy_id, layer1_score, layer2_score, final_score,
			verdict, explanation, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (profile_id, vacancy_id) DO UPDATE SET
			layer1_score = EXCLUDED.layer1_score,
			layer2_score = EXCLUDED.layer2_score,
			final_score = EXCLUDED.final_score,
			verdict = EXCLUDED.verdict,
			explanation = EXCLUDED.explanation,
			computed_at = EXCLUDED.computed_at
		RETURNING id
	`
	var scoreID int64
	err = tx.QueryRowxContext(ctx, upsertScore,
		score.ProfileID.Int64(), score.VacancyID.Int64(),
		score.Layer1Score, score.Layer2Score, score.FinalScore,
		score.Verdict, explanation, score.ComputedAt,
	).Scan(&scoreID)
	if err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}
	score.ID = kernel.NewScoreID(scoreID)

	return tx.Commit()
}

// ============================================================================
// Reads
// ============================================================================

func (r *PostgresMatchRepository) GetScore(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (*match.VacancyScore, error) {
	var model scoreModel
	err := r.db.GetContext(ctx, &model,
		`SELECT * FROM vacancy_scores WHERE profile_id = $1 AND vacancy_id = $2`,
		profileID.Int64(), vacancyID.Int64())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return model.toEntity()
}

func (r *PostgresMatchRepository) ListRecommendations(ctx context.Context, profileID kernel.ProfileID, limit int) ([]match.Recommendation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT v.id AS vacancy_id, v.title, v.company_name, v.location, v.url,
		       v.salary_from, v.salary_to, v.currency, v.published_at,
		       s.layer1_score, s.layer2_score, s.final_score, s.verdict, s.computed_at
		FROM vacancy_scores s
		JOIN vacancies v ON v.id = s.vacancy_id
		WHERE s.profile_id = $1
		ORDER BY s.final_score DESC, s.vacancy_id ASC
		LIMIT $2
	`
	recommendations := []match.Recommendation{}
	if err := r.db.SelectContext(ctx, &recommendations, query, profileID.Int64(), limit); err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recommendations, nil
}

func (r *PostgresMatchRepository) ListEvidence(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) ([]match.ResumeEvidence, error) {
	query := `
		SELECT * FROM resume_evidence
		WHERE profile_id = $1 AND vacancy_id = $2
		ORDER BY confidence DESC, id ASC
	`
	var models []evidenceModel
	if err := r.db.SelectContext(ctx, &models, query, profileID.Int64(), vacancyID.Int64()); err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	evidence := make([]match.ResumeEvidence, 0, len(models))
	for i := range models {
		evidence = append(evidence, models[i].toEntity())
	}
	return evidence, nil
}
