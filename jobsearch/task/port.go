package task

import (
	"context"
	"time"

	"github.com/Abraxas-365/scout/pkg/kernel"
)

// Repository is the Postgres result store.
type Repository interface {
	// Create inserts a new pending task row.
	Create(ctx context.Context, t *Task) error

	// CreateBatch inserts several rows in one transaction. Used by chains
	// so every step exists before the first one runs.
	CreateBatch(ctx context.Context, tasks []*Task) error

	// GetByID retrieves a task.
	GetByID(ctx context.Context, id kernel.TaskID) (*Task, error)

	// SetProcessing moves a pending task to processing, stamps started_at
	// and increments attempt_count. Returns false when the task is not in
	// a runnable state (cancelled, already terminal).
	SetProcessing(ctx context.Context, id kernel.TaskID) (*Task, bool, error)

	// SetCompleted stores the result and finishes the task.
	SetCompleted(ctx context.Context, id kernel.TaskID, result map[string]any) error

	// SetRetry records the failure and puts the task back to pending with
	// a next_retry_at in the future.
	SetRetry(ctx context.Context, id kernel.TaskID, errMsg string, nextRetryAt time.Time) error

	// SetFailed finishes the task as failed with the final error.
	SetFailed(ctx context.Context, id kernel.TaskID, errMsg string) error

	// Cancel marks a pending task cancelled. Returns false when the task
	// was not pending.
	Cancel(ctx context.Context, id kernel.TaskID) (bool, error)

	// CountByStatus returns the number of tasks per status.
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// Queue is the ready/delayed broker. Only task ids travel through it; the
// durable state lives in the repository.
type Queue interface {
	// Push puts a task id on the ready queue.
	Push(ctx context.Context, id kernel.TaskID) error

	// PushDelayed schedules a task id to become ready after the delay.
	PushDelayed(ctx context.Context, id kernel.TaskID, delay time.Duration) error

	// Pop blocks up to timeout for the next ready id. Empty id and nil
	// error means the timeout elapsed with nothing to do.
	Pop(ctx context.Context, timeout time.Duration) (kernel.TaskID, error)

	// MoveDelayedToReady promotes due delayed ids to the ready queue.
	MoveDelayedToReady(ctx context.Context) (int, error)

	// Size returns the ready queue length.
	Size(ctx context.Context) (int64, error)

	// DelayedSize returns the delayed set cardinality.
	DelayedSize(ctx context.Context) (int64, error)

	// Ping checks broker connectivity.
	Ping(ctx context.Context) error
}
