package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Timestamps are stored as unix
// seconds; occupancy, arrivals and departures are stored as reals because a
// record contributes fractional amounts to its boundary bins.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_stop_records",
		SQL: `
			CREATE TABLE IF NOT EXISTS stop_records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				category TEXT NOT NULL,
				entry_time INTEGER NOT NULL,
				exit_time INTEGER NOT NULL,
				los_mins REAL NOT NULL,
				batch_id TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_stop_records_entry ON stop_records(entry_time);
			CREATE INDEX IF NOT EXISTS idx_stop_records_batch ON stop_records(batch_id);
			CREATE INDEX IF NOT EXISTS idx_stop_records_category ON stop_records(category);
		`,
	},
	{
		Version: 2,
		Name:    "create_analysis_tasks",
		SQL: `
			CREATE TABLE IF NOT EXISTS analysis_tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				analyzer TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				progress_percent REAL NOT NULL DEFAULT 0,
				total_records INTEGER NOT NULL DEFAULT 0,
				processed INTEGER NOT NULL DEFAULT 0,
				failed INTEGER NOT NULL DEFAULT 0,
				params_json TEXT NOT NULL DEFAULT '',
				summary_json TEXT NOT NULL DEFAULT '',
				error_message TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				started_at TIMESTAMP,
				completed_at TIMESTAMP
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_scenarios",
		SQL: `
			CREATE TABLE IF NOT EXISTS scenarios (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				bin_size_mins INTEGER NOT NULL,
				window_start INTEGER NOT NULL,
				window_end INTEGER NOT NULL,
				batch_id TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'pending',
				task_id INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_bydate",
		SQL: `
			CREATE TABLE IF NOT EXISTS bydate (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				scenario_id INTEGER NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
				category TEXT NOT NULL,
				bin_start INTEGER NOT NULL,
				day_of_week INTEGER NOT NULL,
				bin_of_day INTEGER NOT NULL,
				bin_of_week INTEGER NOT NULL,
				arrivals REAL NOT NULL DEFAULT 0,
				departures REAL NOT NULL DEFAULT 0,
				occupancy REAL NOT NULL DEFAULT 0,
				UNIQUE(scenario_id, category, bin_start)
			);
			CREATE INDEX IF NOT EXISTS idx_bydate_scenario ON bydate(scenario_id);
			CREATE INDEX IF NOT EXISTS idx_bydate_binofweek ON bydate(scenario_id, category, bin_of_week);
		`,
	},
}

// Migrate applies any schema migrations not yet recorded in the migrations
// table.
func Migrate(conn *sql.DB) error {
	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if _, err := conn.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := conn.Exec(
			"INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

// appliedVersions returns the set of migration versions already applied
func appliedVersions(conn *sql.DB) (map[int]bool, error) {
	rows, err := conn.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}
