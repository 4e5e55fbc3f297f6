package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hillview/occupancy-backend-go/internal/database"
	"github.com/hillview/occupancy-backend-go/internal/models"
)

// ScenarioRepository handles database operations for scenarios and their
// bydate occupancy tables
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// CreateScenario inserts a scenario and returns its ID
func (r *ScenarioRepository) CreateScenario(s *models.Scenario) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO scenarios
		(name, bin_size_mins, window_start, window_end, batch_id, status, task_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.BinSizeMins, s.WindowStart, s.WindowEnd, s.BatchID, s.Status, s.TaskID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scenario: %w", err)
	}
	return res.LastInsertId()
}

// GetScenarioByID retrieves a scenario by ID
func (r *ScenarioRepository) GetScenarioByID(id int64) (*models.Scenario, error) {
	var s models.Scenario
	err := r.db.QueryRow(`SELECT id, name, bin_size_mins, window_start, window_end,
		batch_id, status, task_id, created_at
		FROM scenarios WHERE id = ?`, id).Scan(
		&s.ID, &s.Name, &s.BinSizeMins, &s.WindowStart, &s.WindowEnd,
		&s.BatchID, &s.Status, &s.TaskID, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return &s, nil
}

// ListScenarios retrieves all scenarios, newest first
func (r *ScenarioRepository) ListScenarios() ([]models.Scenario, error) {
	rows, err := r.db.Query(`SELECT id, name, bin_size_mins, window_start, window_end,
		batch_id, status, task_id, created_at
		FROM scenarios ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		var s models.Scenario
		if err := rows.Scan(&s.ID, &s.Name, &s.BinSizeMins, &s.WindowStart, &s.WindowEnd,
			&s.BatchID, &s.Status, &s.TaskID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, rows.Err()
}

// UpdateScenarioStatus updates a scenario's status and owning task
func (r *ScenarioRepository) UpdateScenarioStatus(id int64, status string, taskID int64) error {
	_, err := r.db.Exec("UPDATE scenarios SET status = ?, task_id = ? WHERE id = ?",
		status, taskID, id)
	if err != nil {
		return fmt.Errorf("failed to update scenario status: %w", err)
	}
	return nil
}

// ReplaceBydateRows deletes any previous bydate table for the scenario and
// inserts the new rows in one transaction.
func (r *ScenarioRepository) ReplaceBydateRows(scenarioID int64, rows []models.BydateRow) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM bydate WHERE scenario_id = ?", scenarioID); err != nil {
			return fmt.Errorf("failed to clear bydate rows: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO bydate
			(scenario_id, category, bin_start, day_of_week, bin_of_day, bin_of_week,
			 arrivals, departures, occupancy)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare bydate insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.Exec(scenarioID, row.Category, row.BinStart, row.DayOfWeek,
				row.BinOfDay, row.BinOfWeek, row.Arrivals, row.Departures, row.Occupancy); err != nil {
				return fmt.Errorf("failed to insert bydate row: %w", err)
			}
		}
		return nil
	})
}

// GetBydateRows retrieves a scenario's bydate rows with filtering and pagination
func (r *ScenarioRepository) GetBydateRows(scenarioID int64, filter models.BydateFilter) ([]models.BydateRow, int64, error) {
	conditions := []string{"scenario_id = ?"}
	args := []interface{}{scenarioID}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.From > 0 {
		conditions = append(conditions, "bin_start >= ?")
		args = append(args, filter.From)
	}
	if filter.To > 0 {
		conditions = append(conditions, "bin_start < ?")
		args = append(args, filter.To)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM bydate"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bydate rows: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 500
	}

	query := `SELECT id, scenario_id, category, bin_start, day_of_week, bin_of_day,
		bin_of_week, arrivals, departures, occupancy
		FROM bydate` + where + " ORDER BY category, bin_start LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query bydate rows: %w", err)
	}
	defer rows.Close()

	var result []models.BydateRow
	for rows.Next() {
		var row models.BydateRow
		if err := rows.Scan(&row.ID, &row.ScenarioID, &row.Category, &row.BinStart,
			&row.DayOfWeek, &row.BinOfDay, &row.BinOfWeek,
			&row.Arrivals, &row.Departures, &row.Occupancy); err != nil {
			return nil, 0, fmt.Errorf("failed to scan bydate row: %w", err)
		}
		result = append(result, row)
	}

	return result, total, rows.Err()
}

// GetOccupancyByBinOfWeek returns, for each category and bin-of-week slot of
// a scenario, the occupancy values observed across all dates, keyed by
// category. Within a category the slices are ordered by bin_start so the
// caller can aggregate them deterministically.
func (r *ScenarioRepository) GetOccupancyByBinOfWeek(scenarioID int64) (map[string]map[int][]float64, error) {
	rows, err := r.db.Query(`SELECT category, bin_of_week, occupancy
		FROM bydate WHERE scenario_id = ?
		ORDER BY category, bin_of_week, bin_start`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupancy by bin of week: %w", err)
	}
	defer rows.Close()

	result := make(map[string]map[int][]float64)
	for rows.Next() {
		var category string
		var binOfWeek int
		var occupancy float64
		if err := rows.Scan(&category, &binOfWeek, &occupancy); err != nil {
			return nil, fmt.Errorf("failed to scan occupancy row: %w", err)
		}

		if result[category] == nil {
			result[category] = make(map[int][]float64)
		}
		result[category][binOfWeek] = append(result[category][binOfWeek], occupancy)
	}

	return result, rows.Err()
}
