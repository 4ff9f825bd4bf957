package tasksrv

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
	"github.com/google/uuid"
)

// TaskService owns the task lifecycle: enqueueing, execution with retries,
// chains and result lookup. Handlers are registered by name at startup.
type TaskService struct {
	repo  task.Repository
	queue task.Queue

	mu       sync.RWMutex
	handlers map[string]task.HandlerFunc
}

// NewTaskService creates a new task service
func NewTaskService(repo task.Repository, queue task.Queue) *TaskService {
	return &TaskService{
		repo:     repo,
		queue:    queue,
		handlers: make(map[string]task.HandlerFunc),
	}
}

// Register binds a handler to a task name. Enqueueing an unregistered name
// is rejected, so registration must happen before the server starts.
func (s *TaskService) Register(name string, handler task.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = handler
}

func (s *TaskService) handlerFor(name string) (task.HandlerFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handlers[name]
	return h, ok
}

// Enqueue creates a pending task row and pushes its id to the ready queue.
func (s *TaskService) Enqueue(ctx context.Context, name string, args map[string]any) (kernel.TaskID, error) {
	if _, ok := s.handlerFor(name); !ok {
		return "", task.ErrUnknownName().WithDetail("name", name)
	}

	t := newTask(name, args)
	if err := s.repo.Create(ctx, t); err != nil {
		return "", err
	}

	if err := s.queue.Push(ctx, t.ID); err != nil {
		return "", err
	}

	logx.Debugf("Task enqueued | id=%s name=%s", t.ID, name)
	return t.ID, nil
}

// EnqueueChain creates every step up front, linked by chain_next_id, and
// pushes only the first one. Each completed step enqueues its successor; a
// final failure cancels the rest of the chain.
func (s *TaskService) EnqueueChain(ctx context.Context, steps []task.ChainStep) ([]kernel.TaskID, error) {
	if len(steps) == 0 {
		return nil, nil
	}

	tasks := make([]*task.Task, 0, len(steps))
	for _, step := range steps {
		if _, ok := s.handlerFor(step.Name); !ok {
			return nil, task.ErrUnknownName().WithDetail("name", step.Name)
		}
		tasks = append(tasks, newTask(step.Name, step.Args))
	}
	for i := 0; i < len(tasks)-1; i++ {
		next := tasks[i+1].ID
		tasks[i].ChainNextID = &next
	}

	if err := s.repo.CreateBatch(ctx, tasks); err != nil {
		return nil, err
	}

	if err := s.queue.Push(ctx, tasks[0].ID); err != nil {
		return nil, err
	}

	ids := make([]kernel.TaskID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	logx.Debugf("Task chain enqueued | head=%s steps=%d", ids[0], len(ids))
	return ids, nil
}

// AsyncResult returns the current state of a task.
func (s *TaskService) AsyncResult(ctx context.Context, id kernel.TaskID) (*task.AsyncResult, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &task.AsyncResult{
		ID:          t.ID,
		Name:        t.Name,
		Status:      t.Status,
		Result:      t.Result,
		Error:       t.Error,
		Attempts:    t.AttemptCount,
		MaxAttempts: t.MaxAttempts,
	}, nil
}

// Cancel marks a pending task cancelled. Tasks already picked up by a worker
// run to completion.
func (s *TaskService) Cancel(ctx context.Context, id kernel.TaskID) error {
	ok, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return task.ErrNotCancellable().WithDetail("id", id.String())
	}
	return nil
}

// Stats returns queue lengths and per-status task counts.
func (s *TaskService) Stats(ctx context.Context) (*task.Stats, error) {
	ready, err := s.queue.Size(ctx)
	if err != nil {
		return nil, err
	}
	delayed, err := s.queue.DelayedSize(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &task.Stats{Ready: ready, Delayed: delayed, ByStatus: byStatus}, nil
}

// Execute runs one task id popped from the queue. Claim failures mean the
// task was cancelled or already handled, which is not an error.
func (s *TaskService) Execute(ctx context.Context, id kernel.TaskID) {
	t, claimed, err := s.repo.SetProcessing(ctx, id)
	if err != nil {
		logx.Errorf("Failed to claim task | id=%s error=%v", id, err)
		return
	}
	if !claimed {
		logx.Debugf("Task not runnable, skipping | id=%s", id)
		return
	}

	handler, ok := s.handlerFor(t.Name)
	if !ok {
		s.finishFailed(ctx, t, fmt.Sprintf("no handler registered for %q", t.Name))
		return
	}

	result, err := handler(ctx, t.Args)
	if err != nil {
		s.handleFailure(ctx, t, err)
		return
	}

	if err := s.repo.SetCompleted(ctx, t.ID, result); err != nil {
		logx.Errorf("Failed to store task result | id=%s error=%v", t.ID, err)
		return
	}
	logx.Infof("Task completed | id=%s name=%s attempt=%d", t.ID, t.Name, t.AttemptCount)

	if t.ChainNextID != nil {
		if err := s.queue.Push(ctx, *t.ChainNextID); err != nil {
			logx.Errorf("Failed to enqueue chain successor | id=%s next=%s error=%v", t.ID, *t.ChainNextID, err)
		}
	}
}

func (s *TaskService) handleFailure(ctx context.Context, t *task.Task, taskErr error) {
	if t.AttemptCount >= t.MaxAttempts {
		s.finishFailed(ctx, t, taskErr.Error())
		return
	}

	delay := retryDelay(t.AttemptCount)
	if err := s.repo.SetRetry(ctx, t.ID, taskErr.Error(), time.Now().Add(delay)); err != nil {
		logx.Errorf("Failed to schedule task retry | id=%s error=%v", t.ID, err)
		return
	}
	if err := s.queue.PushDelayed(ctx, t.ID, delay); err != nil {
		logx.Errorf("Failed to push delayed task | id=%s error=%v", t.ID, err)
		return
	}
	logx.Warnf("Task failed, retrying | id=%s name=%s attempt=%d/%d delay=%s error=%v",
		t.ID, t.Name, t.AttemptCount, t.MaxAttempts, delay, taskErr)
}

func (s *TaskService) finishFailed(ctx context.Context, t *task.Task, errMsg string) {
	if err := s.repo.SetFailed(ctx, t.ID, errMsg); err != nil {
		logx.Errorf("Failed to mark task failed | id=%s error=%v", t.ID, err)
		return
	}
	logx.Errorf("Task failed permanently | id=%s name=%s attempts=%d error=%s",
		t.ID, t.Name, t.AttemptCount, errMsg)
	s.cancelChainFrom(ctx, t.ChainNextID)
}

// cancelChainFrom walks the chain links and cancels every pending successor
// so a broken chain does not leave orphan tasks waiting forever.
func (s *TaskService) cancelChainFrom(ctx context.Context, next *kernel.TaskID) {
	for next != nil {
		t, err := s.repo.GetByID(ctx, *next)
		if err != nil {
			logx.Errorf("Failed to load chain successor for cancellation | id=%s error=%v", *next, err)
			return
		}
		if _, err := s.repo.Cancel(ctx, t.ID); err != nil {
			logx.Errorf("Failed to cancel chain successor | id=%s error=%v", t.ID, err)
			return
		}
		logx.Infof("Chain successor cancelled | id=%s name=%s", t.ID, t.Name)
		next = t.ChainNextID
	}
}

// retryDelay grows exponentially with the attempt number: 2, 4, 8 minutes.
func retryDelay(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Minute
}

func newTask(name string, args map[string]any) *task.Task {
	now := time.Now()
	return &task.Task{
		ID:          kernel.NewTaskID(uuid.NewString()),
		Name:        name,
		Args:        args,
		Status:      task.StatusPending,
		MaxAttempts: task.DefaultMaxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
