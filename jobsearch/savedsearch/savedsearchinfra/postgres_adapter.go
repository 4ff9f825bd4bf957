package savedsearchinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/savedsearch"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresSavedSearchRepository implements savedsearch.Repository backed by
// PostgreSQL.
type PostgresSavedSearchRepository struct {
	db *sqlx.DB
}

// NewPostgresSavedSearchRepository creates a new PostgreSQL saved search repository
func NewPostgresSavedSearchRepository(db *sqlx.DB) savedsearch.Repository {
	return &PostgresSavedSearchRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type savedSearchModel struct {
	ID                  int64           `db:"id"`
	Text                string          `db:"text"`
	Area                *string         `db:"area"`
	Schedule            *string         `db:"schedule"`
	Experience          *string         `db:"experience"`
	SalaryFrom          *int            `db:"salary_from"`
	SalaryTo            *int            `db:"salary_to"`
	Currency            *string         `db:"currency"`
	FiltersJSON         json.RawMessage `db:"filters_json"`
	PerPage             int             `db:"per_page"`
	PagesLimit          int             `db:"pages_limit"`
	CursorPage          int             `db:"cursor_page"`
	IsActive            bool            `db:"is_active"`
	LastSyncAt          *time.Time      `db:"last_sync_at"`
	LastSeenPublishedAt *time.Time      `db:"last_seen_published_at"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (m *savedSearchModel) toEntity() (*savedsearch.SavedSearch, error) {
	filters := map[string]any{}
	if len(m.FiltersJSON) > 0 {
		if err := json.Unmarshal(m.FiltersJSON, &filters); err != nil {
			return nil, fmt.Errorf("failed to decode filters_json: %w", err)
		}
	}
	return &savedsearch.SavedSearch{
		ID:                  kernel.NewSavedSearchID(m.ID),
		Text:                m.Text,
		Area:                m.Area,
		Schedule:            m.Schedule,
		Experience:          m.Experience,
		SalaryFrom:          m.SalaryFrom,
		SalaryTo:            m.SalaryTo,
		Currency:            m.Currency,
		FiltersJSON:         filters,
		PerPage:             m.PerPage,
		PagesLimit:          m.PagesLimit,
		CursorPage:          m.CursorPage,
		IsActive:            m.IsActive,
		LastSyncAt:          m.LastSyncAt,
		LastSeenPublishedAt: m.LastSeenPublishedAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}, nil
}

func fromEntity(s *savedsearch.SavedSearch) (*savedSearchModel, error) {
	filters := s.FiltersJSON
	if filters == nil {
		filters = map[string]any{}
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filters_json: %w", err)
	}
	return &savedSearchModel{
		ID:                  s.ID.Int64(),
		Text:                s.Text,
		Area:                s.Area,
		Schedule:            s.Schedule,
		Experience:          s.Experience,
		SalaryFrom:          s.SalaryFrom,
		SalaryTo:            s.SalaryTo,
		Currency:            s.Currency,
		FiltersJSON:         raw,
		PerPage:             s.PerPage,
		PagesLimit:          s.PagesLimit,
		CursorPage:          s.CursorPage,
		IsActive:            s.IsActive,
		LastSyncAt:          s.LastSyncAt,
		LastSeenPublishedAt: s.LastSeenPublishedAt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}, nil
}

// ============================================================================
// Repository Operations
// ============================================================================

func (r *PostgresSavedSearchRepository) Create(ctx context.Context, s *savedsearch.SavedSearch) error {
	model, err := fromEntity(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO saved_searches (
			text, area, schedule, experience, salary_from, salary_to,
			currency, filters_json, per_page, pages_limit, cursor_page,
			is_active, last_sync_at, last_seen_published_at, created_at,
			updated_at
		) VALUES (
			:text, :area, :schedule, :experience, :salary_from, :salary_to,
			:currency, :filters_json, :per_page, :pages_limit, :cursor_page,
			:is_active, :last_sync_at, :last_seen_published_at, :created_at,
			:updated_at
		)
		RETURNING id
	`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, model)
	if err != nil {
		return fmt.Errorf("failed to create saved search: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan saved search id: %w", err)
		}
		s.ID = kernel.NewSavedSearchID(id)
	}
	return nil
}

func (r *PostgresSavedSearchRepository) GetByID(ctx context.Context, id kernel.SavedSearchID) (*savedsearch.SavedSearch, error) {
	var model savedSearchModel
	err := r.db.GetContext(ctx, &model, `SELECT * FROM saved_searches WHERE id = $1`, id.Int64())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, savedsearch.ErrNotFound().WithDetail("id", id.String())
		}
		return nil, fmt.Errorf("failed to get saved search: %w", err)
	}
	return model.toEntity()
}

func (r *PostgresSavedSearchRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[savedsearch.SavedSearch], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM saved_searches`); err != nil {
		return nil, fmt.Errorf("failed to count saved searches: %w", err)
	}

	var models []savedSearchModel
	query := `SELECT * FROM saved_searches ORDER BY id ASC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("failed to list saved searches: %w", err)
	}

	items := make([]savedsearch.SavedSearch, 0, len(models))
	for i := range models {
		entity, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, *entity)
	}
	return kernel.NewPaginated(items, pagination, total), nil
}

func (r *PostgresSavedSearchRepository) Update(ctx context.Context, id kernel.SavedSearchID, s *savedsearch.SavedSearch) error {
	model, err := fromEntity(s)
	if err != nil {
		return err
	}
	model.ID = id.Int64()

	query := `
		UPDATE saved_searches SET
			text = :text, area = :area, schedule = :schedule,
			experience = :experience, salary_from = :salary_from,
			salary_to = :salary_to, currency = :currency,
			filters_json = :filters_json, per_page = :per_page,
			pages_limit = :pages_limit, cursor_page = :cursor_page,
			is_active = :is_active, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update saved search: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return savedsearch.ErrNotFound().WithDetail("id", id.String())
	}
	return nil
}

func (r *PostgresSavedSearchRepository) ListActive(ctx context.Context) ([]savedsearch.SavedSearch, error) {
	var models []savedSearchModel
	query := `SELECT * FROM saved_searches WHERE is_active = TRUE ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("failed to list active saved searches: %w", err)
	}

	items := make([]savedsearch.SavedSearch, 0, len(models))
	for i := range models {
		entity, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, *entity)
	}
	return items, nil
}

func (r *PostgresSavedSearchRepository) ListActiveIDs(ctx context.Context) ([]kernel.SavedSearchID, error) {
	var raw []int64
	query := `SELECT id FROM saved_searches WHERE is_active = TRUE ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &raw, query); err != nil {
		return nil, fmt.Errorf("failed to list active saved search ids: %w", err)
	}

	ids := make([]kernel.SavedSearchID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, kernel.NewSavedSearchID(id))
	}
	return ids, nil
}

func (r *PostgresSavedSearchRepository) RecordSyncResult(ctx context.Context, id kernel.SavedSearchID, lastSyncAt time.Time, watermark *time.Time, cursorPage int) error {
	query := `
		UPDATE saved_searches SET
			last_sync_at = $1,
			last_seen_published_at = COALESCE($2, last_seen_published_at),
			cursor_page = $3,
			updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, lastSyncAt, watermark, cursorPage, id.Int64())
	if err != nil {
		return fmt.Errorf("failed to record sync result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return savedsearch.ErrNotFound().WithDetail("id", id.String())
	}
	return nil
}
