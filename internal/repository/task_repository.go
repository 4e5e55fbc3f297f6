package repository

import (
	"database/sql"
	"fmt"

	"github.com/hillview/occupancy-backend-go/internal/models"
)

// TaskRepository handles database operations for analysis tasks
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a pending task and returns its ID
func (r *TaskRepository) CreateTask(analyzer, paramsJSON string) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO analysis_tasks (analyzer, status, params_json)
		VALUES (?, ?, ?)`, analyzer, models.TaskStatusPending, paramsJSON)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return res.LastInsertId()
}

// GetTaskByID retrieves a task by ID
func (r *TaskRepository) GetTaskByID(id int64) (*models.AnalysisTask, error) {
	var t models.AnalysisTask
	err := r.db.QueryRow(`SELECT id, analyzer, status, progress_percent, total_records,
		processed, failed, params_json, summary_json, error_message,
		created_at, started_at, completed_at
		FROM analysis_tasks WHERE id = ?`, id).Scan(
		&t.ID, &t.Analyzer, &t.Status, &t.ProgressPercent, &t.TotalRecords,
		&t.Processed, &t.Failed, &t.ParamsJSON, &t.SummaryJSON, &t.ErrorMessage,
		&t.CreatedAt, &t.StartedAt, &t.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// MarkTaskFailed records a task failure with an error message
func (r *TaskRepository) MarkTaskFailed(id int64, errorMsg string) error {
	_, err := r.db.Exec(`UPDATE analysis_tasks
		SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?`, models.TaskStatusFailed, errorMsg, id)
	if err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}

// ListTasks retrieves all tasks, newest first
func (r *TaskRepository) ListTasks() ([]models.AnalysisTask, error) {
	rows, err := r.db.Query(`SELECT id, analyzer, status, progress_percent, total_records,
		processed, failed, params_json, summary_json, error_message,
		created_at, started_at, completed_at
		FROM analysis_tasks ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.AnalysisTask
	for rows.Next() {
		var t models.AnalysisTask
		if err := rows.Scan(&t.ID, &t.Analyzer, &t.Status, &t.ProgressPercent,
			&t.TotalRecords, &t.Processed, &t.Failed, &t.ParamsJSON, &t.SummaryJSON,
			&t.ErrorMessage, &t.CreatedAt, &t.StartedAt, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
