package models

// StopRecord represents one continuous stay of a patient (or any resource
// user) in the analyzed unit: an entry timestamp and an exit timestamp.
type StopRecord struct {
	ID        int64   `json:"id" db:"id"`
	Category  string  `json:"category" db:"category"`         // e.g. patient type
	EntryTime int64   `json:"entryTime" db:"entry_time"`      // Unix timestamp (seconds)
	ExitTime  int64   `json:"exitTime" db:"exit_time"`        // Unix timestamp (seconds)
	LOSMins   float64 `json:"losMins" db:"los_mins"`          // Length of stay in fractional minutes
	BatchID   string  `json:"batchId,omitempty" db:"batch_id"` // Ingest batch UUID
	CreatedAt string  `json:"createdAt,omitempty" db:"created_at"`
}

// StopRecordFilter represents filter parameters for querying stop records
type StopRecordFilter struct {
	Category   string `form:"category"`
	EntryAfter int64  `form:"entryAfter"` // Unix timestamp
	ExitBefore int64  `form:"exitBefore"` // Unix timestamp
	BatchID    string `form:"batchId"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// IngestRequest describes a CSV ingest invocation
type IngestRequest struct {
	File          string `json:"file" binding:"required"` // File name inside the configured data dir
	CategoryField string `json:"categoryField"`           // Column holding the record category
	EntryField    string `json:"entryField"`              // Column holding the entry timestamp
	ExitField     string `json:"exitField"`               // Column holding the exit timestamp
	SkipBad       bool   `json:"skipBad"`                 // Skip-and-log malformed rows instead of aborting
	OpenExitsNow  bool   `json:"openExitsNow"`            // Treat an empty exit as a stay still open "now"
}

// IngestResult summarizes one ingest batch
type IngestResult struct {
	BatchID  string   `json:"batchId"`
	Loaded   int      `json:"loaded"`
	Skipped  int      `json:"skipped"`
	Problems []string `json:"problems,omitempty"`
}
