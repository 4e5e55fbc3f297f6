package analysis

import (
	"context"
	"database/sql"

	"github.com/hillview/occupancy-backend-go/internal/models"
)

// Analyzer is the interface every analysis skill implements
type Analyzer interface {
	// Analyze performs the analysis for a given task
	Analyze(ctx context.Context, taskID int64) error

	// Name returns the name of the analyzer
	Name() string
}

// BaseAnalyzer provides common task-tracking functionality for analyzers
type BaseAnalyzer struct {
	DB   *sql.DB
	name string
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(db *sql.DB, name string) *BaseAnalyzer {
	return &BaseAnalyzer{DB: db, name: name}
}

// Name returns the analyzer name
func (a *BaseAnalyzer) Name() string {
	return a.name
}

// UpdateTaskProgress updates the progress counters of an analysis task
func (a *BaseAnalyzer) UpdateTaskProgress(taskID int64, processed, total, failed int) error {
	percent := 0.0
	if total > 0 {
		percent = float64(processed) / float64(total) * 100.0
	}

	_, err := a.DB.Exec(`
		UPDATE analysis_tasks
		SET processed = ?, total_records = ?, failed = ?, progress_percent = ?
		WHERE id = ?`,
		processed, total, failed, percent, taskID)
	return err
}

// MarkTaskAsRunning marks a task as running
func (a *BaseAnalyzer) MarkTaskAsRunning(taskID int64) error {
	_, err := a.DB.Exec(`
		UPDATE analysis_tasks
		SET status = ?, started_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		models.TaskStatusRunning, taskID)
	return err
}

// MarkTaskAsCompleted marks a task as completed with a summary JSON blob
func (a *BaseAnalyzer) MarkTaskAsCompleted(taskID int64, summaryJSON string) error {
	_, err := a.DB.Exec(`
		UPDATE analysis_tasks
		SET status = ?, progress_percent = 100, summary_json = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		models.TaskStatusCompleted, summaryJSON, taskID)
	return err
}

// MarkTaskAsFailed marks a task as failed with an error message
func (a *BaseAnalyzer) MarkTaskAsFailed(taskID int64, errorMsg string) error {
	_, err := a.DB.Exec(`
		UPDATE analysis_tasks
		SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		models.TaskStatusFailed, errorMsg, taskID)
	return err
}

// TaskParams returns the params JSON recorded for a task
func (a *BaseAnalyzer) TaskParams(taskID int64) (string, error) {
	var params string
	err := a.DB.QueryRow("SELECT params_json FROM analysis_tasks WHERE id = ?", taskID).Scan(&params)
	return params, err
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(db *sql.DB) Analyzer

// registry maps analyzer names to factories
var registry = make(map[string]AnalyzerFactory)

// RegisterAnalyzer registers an analyzer factory under a name. Analyzer
// packages call this from init and are pulled in with blank imports by the
// server entry point.
func RegisterAnalyzer(name string, factory AnalyzerFactory) {
	registry[name] = factory
}

// GetAnalyzer retrieves an analyzer instance by name, or nil when the name
// is unknown
func GetAnalyzer(name string, db *sql.DB) Analyzer {
	factory, ok := registry[name]
	if !ok {
		return nil
	}
	return factory(db)
}
