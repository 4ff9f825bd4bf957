package task

import "github.com/Abraxas-365/scout/pkg/kernel"

// ChainStep is one link of an EnqueueChain request.
type ChainStep struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// AsyncResult - DTO mirroring the task row for API consumers
type AsyncResult struct {
	ID          kernel.TaskID  `json:"task_id"`
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	Error       *string        `json:"error,omitempty"`
	Attempts    int            `json:"attempts"`
	MaxAttempts int            `json:"max_attempts"`
}

// Stats - queue and store counters for diagnostics
type Stats struct {
	Ready    int64          `json:"ready"`
	Delayed  int64          `json:"delayed"`
	ByStatus map[Status]int `json:"by_status"`
}
