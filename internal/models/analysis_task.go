package models

// AnalysisTask tracks one background analyzer run
type AnalysisTask struct {
	ID              int64   `json:"id" db:"id"`
	Analyzer        string  `json:"analyzer" db:"analyzer"`
	Status          string  `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent float64 `json:"progressPercent" db:"progress_percent"`
	TotalRecords    int     `json:"totalRecords" db:"total_records"`
	Processed       int     `json:"processed" db:"processed"`
	Failed          int     `json:"failed" db:"failed"`
	ParamsJSON      string  `json:"params,omitempty" db:"params_json"`
	SummaryJSON     string  `json:"summary,omitempty" db:"summary_json"`
	ErrorMessage    string  `json:"errorMessage,omitempty" db:"error_message"`
	CreatedAt       string  `json:"createdAt,omitempty" db:"created_at"`
	StartedAt       *string `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt     *string `json:"completedAt,omitempty" db:"completed_at"`
}

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)
