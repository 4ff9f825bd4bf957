package beat

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/jobsearch/task/tasksrv"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/Abraxas-365/scout/pkg/logx"
	"github.com/robfig/cron/v3"
)

// ActiveSearchLister supplies the saved searches due for periodic syncing.
// Implemented by the saved-search repository.
type ActiveSearchLister interface {
	ListActiveIDs(ctx context.Context) ([]kernel.SavedSearchID, error)
}

// Beat is the periodic scheduler. Every tick it enqueues one sync task per
// active saved search.
type Beat struct {
	cron     *cron.Cron
	searches ActiveSearchLister
	tasks    *tasksrv.TaskService
	interval int
}

// New creates a beat ticking every intervalMinutes.
func New(searches ActiveSearchLister, tasks *tasksrv.TaskService, intervalMinutes int) *Beat {
	if intervalMinutes < 1 {
		intervalMinutes = 5
	}
	return &Beat{
		cron:     cron.New(),
		searches: searches,
		tasks:    tasks,
		interval: intervalMinutes,
	}
}

// Start registers the schedule and launches the cron loop.
func (b *Beat) Start(ctx context.Context) error {
	spec := fmt.Sprintf("*/%d * * * *", b.interval)
	if _, err := b.cron.AddFunc(spec, func() { b.Tick(ctx) }); err != nil {
		return fmt.Errorf("failed to register beat schedule: %w", err)
	}

	b.cron.Start()
	logx.Infof("Beat started | schedule=%q", spec)
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish.
func (b *Beat) Stop() {
	<-b.cron.Stop().Done()
}

// Tick enqueues a sync task for every active saved search.
func (b *Beat) Tick(ctx context.Context) {
	ids, err := b.searches.ListActiveIDs(ctx)
	if err != nil {
		logx.Errorf("Beat failed to list active saved searches: %v", err)
		return
	}

	for _, id := range ids {
		taskID, err := b.tasks.Enqueue(ctx, task.NameSyncSavedSearch, map[string]any{
			"saved_search_id": id.Int64(),
		})
		if err != nil {
			logx.Errorf("Beat failed to enqueue sync | saved_search_id=%s error=%v", id, err)
			continue
		}
		logx.Debugf("Beat enqueued sync | saved_search_id=%s task_id=%s", id, taskID)
	}
}
