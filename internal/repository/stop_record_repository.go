package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hillview/occupancy-backend-go/internal/database"
	"github.com/hillview/occupancy-backend-go/internal/models"
)

// StopRecordRepository handles database operations for stop records
type StopRecordRepository struct {
	db *sql.DB
}

// NewStopRecordRepository creates a new stop record repository
func NewStopRecordRepository(db *sql.DB) *StopRecordRepository {
	return &StopRecordRepository{db: db}
}

// GetStopRecords retrieves stop records with filtering and pagination
func (r *StopRecordRepository) GetStopRecords(filter models.StopRecordFilter) ([]models.StopRecord, int64, error) {
	query := `SELECT id, category, entry_time, exit_time, los_mins, batch_id, created_at
		FROM stop_records`

	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.BatchID != "" {
		conditions = append(conditions, "batch_id = ?")
		args = append(args, filter.BatchID)
	}
	if filter.EntryAfter > 0 {
		conditions = append(conditions, "entry_time >= ?")
		args = append(args, filter.EntryAfter)
	}
	if filter.ExitBefore > 0 {
		conditions = append(conditions, "exit_time <= ?")
		args = append(args, filter.ExitBefore)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM stop_records"
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stop records: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	query += " ORDER BY entry_time LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stop records: %w", err)
	}
	defer rows.Close()

	var records []models.StopRecord
	for rows.Next() {
		var rec models.StopRecord
		if err := rows.Scan(&rec.ID, &rec.Category, &rec.EntryTime, &rec.ExitTime,
			&rec.LOSMins, &rec.BatchID, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan stop record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// GetStopRecordByID retrieves a single stop record by ID
func (r *StopRecordRepository) GetStopRecordByID(id int64) (*models.StopRecord, error) {
	query := `SELECT id, category, entry_time, exit_time, los_mins, batch_id, created_at
		FROM stop_records WHERE id = ?`

	var rec models.StopRecord
	err := r.db.QueryRow(query, id).Scan(&rec.ID, &rec.Category, &rec.EntryTime,
		&rec.ExitTime, &rec.LOSMins, &rec.BatchID, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stop record: %w", err)
	}

	return &rec, nil
}

// InsertBatch inserts a batch of stop records in a single transaction
func (r *StopRecordRepository) InsertBatch(records []models.StopRecord) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO stop_records
			(category, entry_time, exit_time, los_mins, batch_id)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.Exec(rec.Category, rec.EntryTime, rec.ExitTime,
				rec.LOSMins, rec.BatchID); err != nil {
				return fmt.Errorf("failed to insert stop record: %w", err)
			}
		}
		return nil
	})
}

// IterStopRecords streams every stop record matching an optional batch ID,
// ordered by entry time, invoking fn for each row.
func (r *StopRecordRepository) IterStopRecords(batchID string, fn func(models.StopRecord) error) error {
	query := `SELECT id, category, entry_time, exit_time, los_mins, batch_id, created_at
		FROM stop_records`
	var args []interface{}
	if batchID != "" {
		query += " WHERE batch_id = ?"
		args = append(args, batchID)
	}
	query += " ORDER BY entry_time"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to query stop records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.StopRecord
		if err := rows.Scan(&rec.ID, &rec.Category, &rec.EntryTime, &rec.ExitTime,
			&rec.LOSMins, &rec.BatchID, &rec.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan stop record: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}

	return rows.Err()
}

// CountStopRecords counts records matching an optional batch ID
func (r *StopRecordRepository) CountStopRecords(batchID string) (int, error) {
	query := "SELECT COUNT(*) FROM stop_records"
	var args []interface{}
	if batchID != "" {
		query += " WHERE batch_id = ?"
		args = append(args, batchID)
	}

	var total int
	if err := r.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count stop records: %w", err)
	}
	return total, nil
}
