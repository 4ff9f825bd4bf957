package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/task/tasksrv"
	"github.com/Abraxas-365/scout/pkg/logx"
)

// popRetryDelay keeps workers from spinning hot while the broker is down.
const popRetryDelay = time.Second

// Pool runs task handlers on a fixed number of goroutines fed from the ready
// queue, plus one mover goroutine that promotes due delayed tasks.
type Pool struct {
	service *tasksrv.TaskService
	queue   task.Queue
	workers int
	wg      sync.WaitGroup
}

// NewPool creates a new worker pool
func NewPool(service *tasksrv.TaskService, queue task.Queue, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

// Start launches the pool. Workers drain until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	logx.Infof("Starting task workers | count=%d", p.workers)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.moveDelayedTasks(ctx)
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			p.processTasks(ctx, workerID)
		}(i)
	}
}

// Wait blocks until every worker goroutine has stopped.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) processTasks(ctx context.Context, workerID int) {
	logx.Infof("Worker started | worker=%d", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker stopping | worker=%d", workerID)
			return
		default:
			// Pop with a short timeout so shutdown is noticed quickly
			id, err := p.queue.Pop(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() == nil {
					logx.Errorf("Worker dequeue error | worker=%d error=%v", workerID, err)
					time.Sleep(popRetryDelay)
				}
				continue
			}
			if id.IsEmpty() {
				continue
			}

			logx.Debugf("Worker picked task | worker=%d id=%s", workerID, id)
			p.service.Execute(ctx, id)
		}
	}
}

func (p *Pool) moveDelayedTasks(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := p.queue.MoveDelayedToReady(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logx.Errorf("Failed to move delayed tasks: %v", err)
				}
			} else if count > 0 {
				logx.Infof("Moved delayed tasks to ready queue | count=%d", count)
			}
		}
	}
}
