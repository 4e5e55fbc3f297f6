// Package ingest loads stop-data CSV files into stop records. It is the
// boundary where heterogeneous timestamp representations are normalized;
// everything downstream works with typed records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hillview/occupancy-backend-go/internal/binning"
	"github.com/hillview/occupancy-backend-go/internal/models"
)

// Default column names for stop-data files
const (
	DefaultCategoryField = "Category"
	DefaultEntryField    = "EntryTime"
	DefaultExitField     = "ExitTime"
)

// Options configures a Loader
type Options struct {
	CategoryField string
	EntryField    string
	ExitField     string

	// SkipBad makes Load collect malformed rows and keep going instead of
	// aborting the whole batch on the first one.
	SkipBad bool

	// Clock, when set, substitutes the current time for an empty exit
	// field (a still-open stay). Leaving it nil makes an empty exit a
	// malformed row; the substitution never happens implicitly.
	Clock binning.Clock
}

// Loader parses stop-data CSV files
type Loader struct {
	opts Options
}

// NewLoader creates a loader, filling in default column names
func NewLoader(opts Options) *Loader {
	if opts.CategoryField == "" {
		opts.CategoryField = DefaultCategoryField
	}
	if opts.EntryField == "" {
		opts.EntryField = DefaultEntryField
	}
	if opts.ExitField == "" {
		opts.ExitField = DefaultExitField
	}
	return &Loader{opts: opts}
}

// Load reads a CSV stream and returns the parsed stop records plus an ingest
// summary. The first row must be a header naming the configured columns.
//
// A row that cannot be parsed aborts the load unless SkipBad is set, in
// which case it is recorded in the result's problem list and skipped. A
// record whose exit precedes its entry is NOT a parse failure: reversed
// records are a legitimate analytic signal and are classified downstream.
func (l *Loader) Load(r io.Reader) ([]models.StopRecord, *models.IngestResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	catIdx, entryIdx, exitIdx := -1, -1, -1
	for i, name := range header {
		switch name {
		case l.opts.CategoryField:
			catIdx = i
		case l.opts.EntryField:
			entryIdx = i
		case l.opts.ExitField:
			exitIdx = i
		}
	}
	if entryIdx < 0 || exitIdx < 0 {
		return nil, nil, fmt.Errorf("CSV header missing %q or %q column",
			l.opts.EntryField, l.opts.ExitField)
	}

	result := &models.IngestResult{BatchID: uuid.NewString()}
	var records []models.StopRecord

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if bad := l.badRow(result, line, err.Error()); bad != nil {
				return nil, nil, bad
			}
			continue
		}

		rec, perr := l.parseRow(row, catIdx, entryIdx, exitIdx)
		if perr != nil {
			if bad := l.badRow(result, line, perr.Error()); bad != nil {
				return nil, nil, bad
			}
			continue
		}

		rec.BatchID = result.BatchID
		records = append(records, rec)
		result.Loaded++
	}

	return records, result, nil
}

// parseRow converts one CSV row into a stop record
func (l *Loader) parseRow(row []string, catIdx, entryIdx, exitIdx int) (models.StopRecord, error) {
	if entryIdx >= len(row) || exitIdx >= len(row) {
		return models.StopRecord{}, fmt.Errorf("row has %d fields", len(row))
	}

	entry, err := binning.ToTime(row[entryIdx])
	if err != nil {
		return models.StopRecord{}, fmt.Errorf("bad entry time: %w", err)
	}

	exitStr := row[exitIdx]
	var rec models.StopRecord
	if exitStr == "" {
		if l.opts.Clock == nil {
			return models.StopRecord{}, fmt.Errorf("empty exit time")
		}
		// Explicitly requested default: an open stay ends "now".
		rec.ExitTime = l.opts.Clock.Now().Unix()
	} else {
		exit, err := binning.ToTime(exitStr)
		if err != nil {
			return models.StopRecord{}, fmt.Errorf("bad exit time: %w", err)
		}
		rec.ExitTime = exit.Unix()
	}

	rec.EntryTime = entry.Unix()
	if catIdx >= 0 && catIdx < len(row) {
		rec.Category = row[catIdx]
	}
	if rec.Category == "" {
		rec.Category = models.DefaultCategory
	}

	rec.LOSMins = binning.DurationMinutes(time.Unix(rec.ExitTime, 0).Sub(time.Unix(rec.EntryTime, 0)))

	return rec, nil
}

// badRow records a malformed row, or returns an error when the policy is to
// abort the batch.
func (l *Loader) badRow(result *models.IngestResult, line int, msg string) error {
	problem := fmt.Sprintf("line %d: %s", line, msg)
	if !l.opts.SkipBad {
		return fmt.Errorf("ingest aborted at %s", problem)
	}
	result.Skipped++
	result.Problems = append(result.Problems, problem)
	return nil
}
