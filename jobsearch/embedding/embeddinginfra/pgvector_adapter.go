package embeddinginfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/embedding"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PgvectorEmbeddingRepository implements embedding.Repository on PostgreSQL
// with the pgvector extension. Distance is the cosine operator; vectors are
// unit-norm so similarity clamps cleanly into [0, 1].
type PgvectorEmbeddingRepository struct {
	db *sqlx.DB
}

// NewPgvectorEmbeddingRepository creates a new pgvector embedding repository
func NewPgvectorEmbeddingRepository(db *sqlx.DB) embedding.Repository {
	return &PgvectorEmbeddingRepository{db: db}
}

// ============================================================================
// Upserts
// ============================================================================

func (r *PgvectorEmbeddingRepository) UpsertVacancyEmbedding(ctx context.Context, e *embedding.VacancyEmbedding) error {
	query := `
		INSERT INTO vacancy_embeddings (vacancy_id, embedding, model_name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vacancy_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			model_name = EXCLUDED.model_name,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.VacancyID.Int64(), pgvector.NewVector(e.Vector), e.ModelName, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vacancy embedding: %w", err)
	}
	return nil
}

func (r *PgvectorEmbeddingRepository) UpsertProfileEmbedding(ctx context.Context, e *embedding.ProfileEmbedding) error {
	query := `
		INSERT INTO profile_embeddings (profile_id, embedding, model_name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			model_name = EXCLUDED.model_name,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ProfileID.Int64(), pgvector.NewVector(e.Vector), e.ModelName, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile embedding: %w", err)
	}
	return nil
}

// ============================================================================
// Lookups
// ============================================================================

func (r *PgvectorEmbeddingRepository) GetVacancyEmbedding(ctx context.Context, id kernel.VacancyID) (*embedding.VacancyEmbedding, error) {
	query := `
		SELECT vacancy_id, embedding, model_name, updated_at
		FROM vacancy_embeddings
		WHERE vacancy_id = $1
	`
	var (
		rawID     int64
		vector    pgvector.Vector
		modelName string
		updatedAt time.Time
	)
	err := r.db.QueryRowxContext(ctx, query, id.Int64()).Scan(&rawID, &vector, &modelName, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vacancy embedding: %w", err)
	}
	return &embedding.VacancyEmbedding{
		VacancyID: kernel.NewVacancyID(rawID),
		Vector:    vector.Slice(),
		ModelName: modelName,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *PgvectorEmbeddingRepository) GetProfileEmbedding(ctx context.Context, id kernel.ProfileID) (*embedding.ProfileEmbedding, error) {
	query := `
		SELECT profile_id, embedding, model_name, updated_at
		FROM profile_embeddings
		WHERE profile_id = $1
	`
	var (
		rawID     int64
		vector    pgvector.Vector
		modelName string
		updatedAt time.Time
	)
	err := r.db.QueryRowxContext(ctx, query, id.Int64()).Scan(&rawID, &vector, &modelName, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile embedding: %w", err)
	}
	return &embedding.ProfileEmbedding{
		ProfileID: kernel.NewProfileID(rawID),
		Vector:    vector.Slice(),
		ModelName: modelName,
		UpdatedAt: updatedAt,
	}, nil
}

// ============================================================================
// Similarity
// ============================================================================

func (r *PgvectorEmbeddingRepository) SimilarityForPair(ctx context.Context, profileID kernel.ProfileID, vacancyID kernel.VacancyID) (float64, bool, error) {
	query := `
		SELECT GREATEST(0, LEAST(1, 1 - (ve.embedding <=> pe.embedding)))
		FROM vacancy_embeddings ve, profile_embeddings pe
		WHERE ve.vacancy_id = $1 AND pe.profile_id = $2
	`
	var similarity float64
	err := r.db.QueryRowxContext(ctx, query, vacancyID.Int64(), profileID.Int64()).Scan(&similarity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to compute pair similarity: %w", err)
	}
	return similarity, true, nil
}

func (r *PgvectorEmbeddingRepository) ListCandidatesByProfile(ctx context.Context, profileID kernel.ProfileID) ([]embedding.Candidate, error) {
	query := `
		SELECT v.id,
		       CASE WHEN ve.vacancy_id IS NULL THEN NULL
		            ELSE GREATEST(0, LEAST(1, 1 - (ve.embedding <=> pe.embedding)))
		       END AS similarity
		FROM vacancies v
		JOIN profile_embeddings pe ON pe.profile_id = $1
		LEFT JOIN vacancy_embeddings ve ON ve.vacancy_id = v.id
		ORDER BY ve.embedding <=> pe.embedding ASC NULLS LAST, v.id ASC
	`
	rows, err := r.db.QueryxContext(ctx, query, profileID.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []embedding.Candidate{}
	for rows.Next() {
		var (
			rawID      int64
			similarity *float64
		)
		if err := rows.Scan(&rawID, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, embedding.Candidate{
			VacancyID:  kernel.NewVacancyID(rawID),
			Similarity: similarity,
		})
	}
	return candidates, rows.Err()
}

// ============================================================================
// Maintenance
// ============================================================================

func (r *PgvectorEmbeddingRepository) DeleteVacancyEmbeddings(ctx context.Context, ids []kernel.VacancyID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Int64())
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vacancy_embeddings WHERE vacancy_id = ANY($1)`, pq.Array(raw)); err != nil {
		return fmt.Errorf("failed to delete vacancy embeddings: %w", err)
	}
	return nil
}

func (r *PgvectorEmbeddingRepository) DeleteProfileEmbeddings(ctx context.Context, ids []kernel.ProfileID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Int64())
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profile_embeddings WHERE profile_id = ANY($1)`, pq.Array(raw)); err != nil {
		return fmt.Errorf("failed to delete profile embeddings: %w", err)
	}
	return nil
}

func (r *PgvectorEmbeddingRepository) CountVacancyEmbeddings(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM vacancy_embeddings`); err != nil {
		return 0, fmt.Errorf("failed to count vacancy embeddings: %w", err)
	}
	return count, nil
}

func (r *PgvectorEmbeddingRepository) CountProfileEmbeddings(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profile_embeddings`); err != nil {
		return 0, fmt.Errorf("failed to count profile embeddings: %w", err)
	}
	return count, nil
}
