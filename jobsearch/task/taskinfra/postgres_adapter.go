package taskinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresTaskRepository implements the task result store using PostgreSQL
type PostgresTaskRepository struct {
	db *sqlx.DB
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository
func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

type taskModel struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	Args         json.RawMessage `db:"args"`
	Status       string          `db:"status"`
	Result       json.RawMessage `db:"result"`
	Error        *string         `db:"error"`
	AttemptCount int             `db:"attempt_count"`
	MaxAttempts  int             `db:"max_attempts"`
	NextRetryAt  *time.Time      `db:"next_retry_at"`
	ChainNextID  *string         `db:"chain_next_id"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
	StartedAt    *time.Time      `db:"started_at"`
	FinishedAt   *time.Time      `db:"finished_at"`
}

func (m *taskModel) toEntity() (*task.Task, error) {
	t := &task.Task{
		ID:           kernel.NewTaskID(m.ID),
		Name:         m.Name,
		Status:       task.Status(m.Status),
		Error:        m.Error,
		AttemptCount: m.AttemptCount,
		MaxAttempts:  m.MaxAttempts,
		NextRetryAt:  m.NextRetryAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		StartedAt:    m.StartedAt,
		FinishedAt:   m.FinishedAt,
	}
	if m.ChainNextID != nil {
		next := kernel.NewTaskID(*m.ChainNextID)
		t.ChainNextID = &next
	}
	if len(m.Args) > 0 {
		if err := json.Unmarshal(m.Args, &t.Args); err != nil {
			return nil, fmt.Errorf("failed to decode task args: %w", err)
		}
	}
	if len(m.Result) > 0 {
		if err := json.Unmarshal(m.Result, &t.Result); err != nil {
			return nil, fmt.Errorf("failed to decode task result: %w", err)
		}
	}
	return t, nil
}

func fromEntity(t *task.Task) (*taskModel, error) {
	args, err := json.Marshal(t.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task args: %w", err)
	}
	m := &taskModel{
		ID:           t.ID.String(),
		Name:         t.Name,
		Args:         args,
		Status:       string(t.Status),
		Error:        t.Error,
		AttemptCount: t.AttemptCount,
		MaxAttempts:  t.MaxAttempts,
		NextRetryAt:  t.NextRetryAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		StartedAt:    t.StartedAt,
		FinishedAt:   t.FinishedAt,
	}
	if t.ChainNextID != nil {
		next := t.ChainNextID.String()
		m.ChainNextID = &next
	}
	return m, nil
}

const insertTaskQuery = `
	INSERT INTO tasks (
		id, name, args, status, attempt_count, max_attempts,
		next_retry_at, chain_next_id, created_at, updated_at
	) VALUES (
		:id, :name, :args, :status, :attempt_count, :max_attempts,
		:next_retry_at, :chain_next_id, :created_at, :updated_at
	)`

// Create inserts a new pending task row
func (r *PostgresTaskRepository) Create(ctx context.Context, t *task.Task) error {
	model, err := fromEntity(t)
	if err != nil {
		return err
	}

	if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, model); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// CreateBatch inserts several rows in one transaction
func (r *PostgresTaskRepository) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tasks {
		model, err := fromEntity(t)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertTaskQuery, model); err != nil {
			return fmt.Errorf("failed to create task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task batch: %w", err)
	}
	return nil
}

// GetByID retrieves a task
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id kernel.TaskID) (*task.Task, error) {
	var model taskModel
	err := r.db.GetContext(ctx, &model, `SELECT * FROM tasks WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrTaskNotFound().WithDetail("id", id.String())
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return model.toEntity()
}

// SetProcessing claims a pending task for execution. The status guard makes
// the claim safe against cancellation racing the worker.
func (r *PostgresTaskRepository) SetProcessing(ctx context.Context, id kernel.TaskID) (*task.Task, bool, error) {
	var model taskModel
	err := r.db.GetContext(ctx, &model, `
		UPDATE tasks
		SET status = 'processing',
		    attempt_count = attempt_count + 1,
		    started_at = NOW(),
		    next_retry_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING *`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to claim task: %w", err)
	}

	entity, err := model.toEntity()
	if err != nil {
		return nil, false, err
	}
	return entity, true, nil
}

// SetCompleted stores the result and finishes the task
func (r *PostgresTaskRepository) SetCompleted(ctx context.Context, id kernel.TaskID, result map[string]any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode task result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'completed', result = $2, error = NULL,
		    finished_at = NOW(), updated_at = NOW()
		WHERE id = $1`, id.String(), data)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

// SetRetry puts the task back to pending with a retry deadline
func (r *PostgresTaskRepository) SetRetry(ctx context.Context, id kernel.TaskID, errMsg string, nextRetryAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'pending', error = $2, next_retry_at = $3, updated_at = NOW()
		WHERE id = $1`, id.String(), errMsg, nextRetryAt)
	if err != nil {
		return fmt.Errorf("failed to schedule task retry: %w", err)
	}
	return nil
}

// SetFailed finishes the task as failed
func (r *PostgresTaskRepository) SetFailed(ctx context.Context, id kernel.TaskID, errMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'failed', error = $2, finished_at = NOW(), updated_at = NOW()
		WHERE id = $1`, id.String(), errMsg)
	if err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}

// Cancel marks a pending task cancelled
func (r *PostgresTaskRepository) Cancel(ctx context.Context, id kernel.TaskID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'cancelled', finished_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id.String())
	if err != nil {
		return false, fmt.Errorf("failed to cancel task: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read cancel result: %w", err)
	}
	return rows > 0, nil
}

// CountByStatus returns the number of tasks per status
func (r *PostgresTaskRepository) CountByStatus(ctx context.Context) (map[task.Status]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[task.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", err)
		}
		counts[task.Status(status)] = count
	}
	return counts, rows.Err()
}
