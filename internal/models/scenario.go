package models

// Scenario represents one occupancy analysis run: an analysis window, a bin
// size and the stop records the run covers.
type Scenario struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	BinSizeMins int    `json:"binSizeMins" db:"bin_size_mins"`
	WindowStart int64  `json:"windowStart" db:"window_start"` // Unix timestamp
	WindowEnd   int64  `json:"windowEnd" db:"window_end"`     // Unix timestamp
	BatchID     string `json:"batchId,omitempty" db:"batch_id"` // Restrict to one ingest batch; empty = all records
	Status      string `json:"status" db:"status"`            // pending, running, completed, failed
	TaskID      int64  `json:"taskId,omitempty" db:"task_id"`
	CreatedAt   string `json:"createdAt,omitempty" db:"created_at"`
}

// ScenarioStatus constants
const (
	ScenarioStatusPending   = "pending"
	ScenarioStatusRunning   = "running"
	ScenarioStatusCompleted = "completed"
	ScenarioStatusFailed    = "failed"
)

// ScenarioRequest is the payload for creating and running a scenario.
// Window timestamps accept any representation the binning layer can
// normalize (unix seconds or a formatted string).
type ScenarioRequest struct {
	Name        string `json:"name" binding:"required"`
	BinSizeMins int    `json:"binSizeMins"`
	WindowStart any    `json:"windowStart" binding:"required"`
	WindowEnd   any    `json:"windowEnd" binding:"required"`
	BatchID     string `json:"batchId"`
}
