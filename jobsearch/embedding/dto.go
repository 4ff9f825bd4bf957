package embedding

// Build outcome statuses. Skipped builds are successful task runs whose
// subject disappeared between enqueue and execution.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
)

// BuildOutcome reports a single-entity embedding build.
type BuildOutcome struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Model  string `json:"model,omitempty"`
}

// RebuildOutcome reports a bulk rebuild run.
type RebuildOutcome struct {
	Processed int    `json:"processed"`
	Model     string `json:"model"`
}
