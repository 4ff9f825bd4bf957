package vacancyinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/internal/vacancyparse"
	"github.com/Abraxas-365/scout/jobsearch/vacancy"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresVacancyRepository implements vacancy.Repository using PostgreSQL
type PostgresVacancyRepository struct {
	db *sqlx.DB
}

// NewPostgresVacancyRepository creates a new PostgreSQL vacancy repository
func NewPostgresVacancyRepository(db *sqlx.DB) *PostgresVacancyRepository {
	return &PostgresVacancyRepository{db: db}
}

// ============================================================================
// Database Models
// ============================================================================

type vacancyModel struct {
	ID          int64      `db:"id"`
	Source      string     `db:"source"`
	ExternalID  string     `db:"external_id"`
	Title       string     `db:"title"`
	CompanyName *string    `db:"company_name"`
	Location    *string    `db:"location"`
	SalaryFrom  *int       `db:"salary_from"`
	SalaryTo    *int       `db:"salary_to"`
	Currency    *string    `db:"currency"`
	Description string     `db:"description"`
	URL         *string    `db:"url"`
	PublishedAt *time.Time `db:"published_at"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (m *vacancyModel) toEntity() *vacancy.Vacancy {
	return &vacancy.Vacancy{
		ID:          kernel.NewVacancyID(m.ID),
		Source:      m.Source,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		CompanyName: m.CompanyName,
		Location:    m.Location,
		SalaryFrom:  m.SalaryFrom,
		SalaryTo:    m.SalaryTo,
		Currency:    m.Currency,
		Description: m.Description,
		URL:         m.URL,
		PublishedAt: m.PublishedAt,
		Status:      vacancy.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromEntity(v *vacancy.Vacancy) *vacancyModel {
	return &vacancyModel{
		ID:          v.ID.Int64(),
		Source:      v.Source,
		ExternalID:  v.ExternalID,
		Title:       v.Title,
		CompanyName: v.CompanyName,
		Location:    v.Location,
		SalaryFrom:  v.SalaryFrom,
		SalaryTo:    v.SalaryTo,
		Currency:    v.Currency,
		Description: v.Description,
		URL:         v.URL,
		PublishedAt: v.PublishedAt,
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type parsedModel struct {
	VacancyID    int64           `db:"vacancy_id"`
	PlainText    string          `db:"plain_text"`
	SectionsJSON json.RawMessage `db:"sections_json"`
	Version      string          `db:"version"`
	QualityScore float64         `db:"quality_score"`
	ExtractedAt  time.Time       `db:"extracted_at"`
}

func (m *parsedModel) toEntity() (*vacancy.Parsed, error) {
	var sections map[string]vacancyparse.Section
	if len(m.SectionsJSON) > 0 {
		if err := json.Unmarshal(m.SectionsJSON, &sections); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sections_json: %w", err)
		}
	}

	return &vacancy.Parsed{
		VacancyID:    kernel.NewVacancyID(m.VacancyID),
		PlainText:    m.PlainText,
		Sections:     sections,
		Version:      m.Version,
		QualityScore: m.QualityScore,
		ExtractedAt:  m.ExtractedAt,
	}, nil
}

func parsedFromEntity(p *vacancy.Parsed) (*parsedModel, error) {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sections_json: %w", err)
	}

	return &parsedModel{
		VacancyID:    p.VacancyID.Int64(),
		PlainText:    p.PlainText,
		SectionsJSON: sections,
		Version:      p.Version,
		QualityScore: p.QualityScore,
		ExtractedAt:  p.ExtractedAt,
	}, nil
}

type requirementModel struct {
	ID            int64     `db:"id"`
	VacancyID     int64     `db:"vacancy_id"`
	Kind          string    `db:"kind"`
	RawText       string    `db:"raw_text"`
	NormalizedKey string    `db:"normalized_key"`
	IsHard        bool      `db:"is_hard"`
	Weight        int       `db:"weight"`
	Source        string    `db:"source"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m *requirementModel) toEntity() vacancy.Requirement {
	return vacancy.Requirement{
		ID:            kernel.NewRequirementID(m.ID),
		VacancyID:     kernel.NewVacancyID(m.VacancyID),
		Kind:          m.Kind,
		RawText:       m.RawText,
		NormalizedKey: m.NormalizedKey,
		IsHard:        m.IsHard,
		Weight:        m.Weight,
		Source:        m.Source,
		CreatedAt:     m.CreatedAt,
	}
}

const vacancyColumns = `
	id, source, external_id, title, company_name, location,
	salary_from, salary_to, currency, description, url,
	published_at, status, created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create inserts a new vacancy and assigns its surrogate id.
func (r *PostgresVacancyRepository) Create(ctx context.Context, v *vacancy.Vacancy) error {
	model := fromEntity(v)

	query := `
		INSERT INTO vacancies (
			source, external_id, title, company_name, location,
			salary_from, salary_to, currency, description, url,
			published_at, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		model.Source, model.ExternalID, model.Title, model.CompanyName, model.Location,
		model.SalaryFrom, model.SalaryTo, model.Currency, model.Description, model.URL,
		model.PublishedAt, model.Status, model.CreatedAt, model.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return vacancy.ErrAlreadyExists().
				WithDetail("source", model.Source).
				WithDetail("external_id", model.ExternalID)
		}
		return fmt.Errorf("failed to create vacancy: %w", err)
	}

	v.ID = kernel.NewVacancyID(id)
	return nil
}

// GetByID retrieves a vacancy by surrogate id.
func (r *PostgresVacancyRepository) GetByID(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1`

	var model vacancyModel
	err := r.db.GetContext(ctx, &model, query, id.Int64())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vacancy.ErrVacancyNotFound()
		}
		return nil, fmt.Errorf("failed to get vacancy by id: %w", err)
	}

	return model.toEntity(), nil
}

// List retrieves vacancies ordered by id descending.
func (r *PostgresVacancyRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[vacancy.Vacancy], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM vacancies`); err != nil {
		return nil, fmt.Errorf("failed to count vacancies: %w", err)
	}

	query := `SELECT ` + vacancyColumns + ` FROM vacancies ORDER BY id DESC LIMIT $1 OFFSET $2`

	var models []vacancyModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancies: %w", err)
	}

	entities := make([]vacancy.Vacancy, 0, len(models))
	for _, model := range models {
		entities = append(entities, *model.toEntity())
	}

	return kernel.NewPaginated(entities, pagination, total), nil
}

// Update overwrites mutable fields of an existing vacancy.
func (r *PostgresVacancyRepository) Update(ctx context.Context, id kernel.VacancyID, v *vacancy.Vacancy) error {
	model := fromEntity(v)
	model.ID = id.Int64()

	query := `
		UPDATE vacancies SET
			title = :title,
			company_name = :company_name,
			location = :location,
			salary_from = :salary_from,
			salary_to = :salary_to,
			currency = :currency,
			description = :description,
			url = :url,
			published_at = :published_at,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update vacancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return vacancy.ErrVacancyNotFound()
	}

	return nil
}

// Delete removes a vacancy; dependent rows cascade.
func (r *PostgresVacancyRepository) Delete(ctx context.Context, id kernel.VacancyID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vacancies WHERE id = $1`, id.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete vacancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return vacancy.ErrVacancyNotFound()
	}

	return nil
}

// UpsertImported writes one ingested item in a single transaction.
func (r *PostgresVacancyRepository) UpsertImported(ctx context.Context, v *vacancy.Vacancy, parsed *vacancy.Parsed, requirements []vacancy.Requirement) (bool, kernel.VacancyID, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.GetContext(ctx, &existingID,
		`SELECT id FROM vacancies WHERE source = $1 AND external_id = $2`,
		v.Source, v.ExternalID)
	exists := err == nil
	if err != nil && err != sql.ErrNoRows {
		return false, 0, fmt.Errorf("failed to check vacancy existence: %w", err)
	}

	model := fromEntity(v)

	// (source, external_id) never change; every other field overwrites.
	upsert := `
		INSERT INTO vacancies (
			source, external_id, title, company_name, location,
			salary_from, salary_to, currency, description, url,
			published_at, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now()
		)
		ON CONFLICT (source, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			company_name = EXCLUDED.company_name,
			location = EXCLUDED.location,
			salary_from = EXCLUDED.salary_from,
			salary_to = EXCLUDED.salary_to,
			currency = EXCLUDED.currency,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			published_at = EXCLUDED.published_at,
			status = EXCLUDED.status,
			updated_at = now()
		RETURNING id
	`

	var id int64
	err = tx.QueryRowxContext(ctx, upsert,
		model.Source, model.ExternalID, model.Title, model.CompanyName, model.Location,
		model.SalaryFrom, model.SalaryTo, model.Currency, model.Description, model.URL,
		model.PublishedAt, model.Status,
	).Scan(&id)
	if err != nil {
		return false, 0, fmt.Errorf("failed to upsert vacancy: %w", err)
	}

	vacancyID := kernel.NewVacancyID(id)
	v.ID = vacancyID

	if parsed != nil {
		parsed.VacancyID = vacancyID
		if err := upsertParsedTx(ctx, tx, parsed); err != nil {
			return false, 0, err
		}
	}

	if err := replaceGeneratedRequirementsTx(ctx, tx, vacancyID, requirements); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit imported vacancy: %w", err)
	}

	return !exists, vacancyID, nil
}

// GetParsed returns the parse row, or nil when absent.
func (r *PostgresVacancyRepository) GetParsed(ctx context.Context, id kernel.VacancyID) (*vacancy.Parsed, error) {
	query := `
		SELECT vacancy_id, plain_text, sections_json, version, quality_score, extracted_at
		FROM vacancy_parsed
		WHERE vacancy_id = $1
	`

	var model parsedModel
	err := r.db.GetContext(ctx, &model, query, id.Int64())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vacancy parse: %w", err)
	}

	return model.toEntity()
}

// UpsertParsed writes or overwrites the parse row.
func (r *PostgresVacancyRepository) UpsertParsed(ctx context.Context, parsed *vacancy.Parsed) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertParsedTx(ctx, tx, parsed); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertParsedTx(ctx context.Context, tx *sqlx.Tx, parsed *vacancy.Parsed) error {
	model, err := parsedFromEntity(parsed)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vacancy_parsed (
			vacancy_id, plain_text, sections_json, version, quality_score, extracted_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vacancy_id) DO UPDATE SET
			plain_text = EXCLUDED.plain_text,
			sections_json = EXCLUDED.sections_json,
			version = EXCLUDED.version,
			quality_score = EXCLUDED.quality_score,
			extracted_at = EXCLUDED.extracted_at
	`

	_, err = tx.ExecContext(ctx, query,
		model.VacancyID, model.PlainText, model.SectionsJSON,
		model.Version, model.QualityScore, model.ExtractedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vacancy parse: %w", err)
	}
	return nil
}

// ReplaceGeneratedRequirements deletes and re-inserts the generated
// requirement set of the vacancy.
func (r *PostgresVacancyRepository) ReplaceGeneratedRequirements(ctx context.Context, id kernel.VacancyID, requirements []vacancy.Requirement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceGeneratedRequirementsTx(ctx, tx, id, requirements); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceGeneratedRequirementsTx(ctx context.Context, tx *sqlx.Tx, id kernel.VacancyID, requirements []vacancy.Requirement) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM vacancy_requirements WHERE vacancy_id = $1 AND kind IN ('skill', 'constraint')`,
		id.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete vacancy requirements: %w", err)
	}

	if len(requirements) == 0 {
		return nil
	}

	insert := `
		INSERT INTO vacancy_requirements (
			vacancy_id, kind, raw_text, normalized_key, is_hard, weight, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`
	for _, req := range requirements {
		_, err := tx.ExecContext(ctx, insert,
			id.Int64(), req.Kind, req.RawText, req.NormalizedKey, req.IsHard, req.Weight, req.Source)
		if err != nil {
			return fmt.Errorf("failed to insert vacancy requirement %q: %w", req.NormalizedKey, err)
		}
	}
	return nil
}

const requirementColumns = `
	id, vacancy_id, kind, raw_text, normalized_key, is_hard, weight, source, created_at
`

// ListRequirements returns every requirement of the vacancy.
func (r *PostgresVacancyRepository) ListRequirements(ctx context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM vacancy_requirements WHERE vacancy_id = $1 ORDER BY id ASC`
	return r.selectRequirements(ctx, query, id.Int64())
}

// ListSkillRequirements returns only skill-kind requirements.
func (r *PostgresVacancyRepository) ListSkillRequirements(ctx context.Context, id kernel.VacancyID) ([]vacancy.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM vacancy_requirements WHERE vacancy_id = $1 AND kind = 'skill' ORDER BY id ASC`
	return r.selectRequirements(ctx, query, id.Int64())
}

func (r *PostgresVacancyRepository) selectRequirements(ctx context.Context, query string, args ...any) ([]vacancy.Requirement, error) {
	var models []requirementModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vacancy requirements: %w", err)
	}

	requirements := make([]vacancy.Requirement, 0, len(models))
	for _, model := range models {
		requirements = append(requirements, model.toEntity())
	}
	return requirements, nil
}

// MaxPublishedAt returns the latest published_at among vacancies of the source.
func (r *PostgresVacancyRepository) MaxPublishedAt(ctx context.Context, source string) (*time.Time, error) {
	var published sql.NullTime
	err := r.db.GetContext(ctx, &published,
		`SELECT MAX(published_at) FROM vacancies WHERE source = $1`, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get max published_at: %w", err)
	}
	if !published.Valid {
		return nil, nil
	}
	return &published.Time, nil
}

// ListIDs returns vacancy ids ascending.
func (r *PostgresVacancyRepository) ListIDs(ctx context.Context, limit int) ([]kernel.VacancyID, error) {
	query := `SELECT id FROM vacancies ORDER BY id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var raw []int64
	if err := r.db.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vacancy ids: %w", err)
	}

	ids := make([]kernel.VacancyID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, kernel.NewVacancyID(id))
	}
	return ids, nil
}

// ListIDsNeedingParse returns ids of vacancies without a current parse row.
func (r *PostgresVacancyRepository) ListIDsNeedingParse(ctx context.Context, version string, limit int) ([]kernel.VacancyID, error) {
	query := `
		SELECT v.id
		FROM vacancies v
		LEFT JOIN vacancy_parsed p ON p.vacancy_id = v.id
		WHERE p.vacancy_id IS NULL OR p.version <> $1
		ORDER BY v.id ASC
	`
	args := []any{version}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var raw []int64
	if err := r.db.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vacancies needing parse: %w", err)
	}

	ids := make([]kernel.VacancyID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, kernel.NewVacancyID(id))
	}
	return ids, nil
}
