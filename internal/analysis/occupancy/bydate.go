// Package occupancy implements the bydate occupancy analyzer: it sweeps a
// scenario's stop records against the analysis window and builds the
// per-bin table of arrivals, departures and occupancy that downstream
// summaries aggregate.
package occupancy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/hillview/occupancy-backend-go/internal/analysis"
	"github.com/hillview/occupancy-backend-go/internal/binning"
	"github.com/hillview/occupancy-backend-go/internal/models"
	"github.com/hillview/occupancy-backend-go/internal/repository"
)

// AnalyzerName is the registry name of the bydate occupancy analyzer
const AnalyzerName = "bydate_occupancy"

// ErrUnevenBinSize is returned for bin sizes that do not evenly divide a
// day. Boundary bins are floored from each day's midnight while the table
// is stepped continuously across the window; an uneven bin size would put
// the two on different lattices and lose contributions after the first day.
var ErrUnevenBinSize = errors.New("bydate: bin size must evenly divide a day")

// Params is the task parameter payload for a bydate run
type Params struct {
	ScenarioID int64 `json:"scenarioId"`
}

// Summary is recorded on the task when a run completes
type Summary struct {
	Records    int `json:"records"`
	Backwards  int `json:"backwards"`
	NoOverlap  int `json:"noOverlap"`
	Bins       int `json:"bins"`
	Categories int `json:"categories"`
}

// BydateAnalyzer builds the bydate occupancy table for one scenario
type BydateAnalyzer struct {
	*analysis.BaseAnalyzer
	scenarios *repository.ScenarioRepository
	records   *repository.StopRecordRepository
}

// NewBydateAnalyzer creates a new bydate occupancy analyzer
func NewBydateAnalyzer(db *sql.DB) analysis.Analyzer {
	return &BydateAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(db, AnalyzerName),
		scenarios:    repository.NewScenarioRepository(db),
		records:      repository.NewStopRecordRepository(db),
	}
}

// cell accumulates one bin's contribution for one category
type cell struct {
	arrivals   float64
	departures float64
	occupancy  float64
}

// accumulator maps category -> bin start (unix seconds) -> cell
type accumulator map[string]map[int64]*cell

func (acc accumulator) at(category string, bin time.Time) *cell {
	bins := acc[category]
	if bins == nil {
		bins = make(map[int64]*cell)
		acc[category] = bins
	}
	c := bins[bin.Unix()]
	if c == nil {
		c = &cell{}
		bins[bin.Unix()] = c
	}
	return c
}

// Analyze runs the bydate sweep for the scenario named in the task params
func (a *BydateAnalyzer) Analyze(ctx context.Context, taskID int64) error {
	log.Printf("[BydateAnalyzer] Starting analysis (task_id=%d)", taskID)

	if err := a.MarkTaskAsRunning(taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	paramsJSON, err := a.TaskParams(taskID)
	if err != nil {
		return fmt.Errorf("failed to read task params: %w", err)
	}
	var params Params
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		return fmt.Errorf("bad task params: %w", err)
	}

	scenario, err := a.scenarios.GetScenarioByID(params.ScenarioID)
	if err != nil {
		return err
	}
	if scenario == nil {
		return fmt.Errorf("scenario %d not found", params.ScenarioID)
	}
	if scenario.BinSizeMins <= 0 {
		return binning.ErrInvalidBinSize
	}
	if binning.MinutesPerDay%scenario.BinSizeMins != 0 {
		return ErrUnevenBinSize
	}

	windowStart := time.Unix(scenario.WindowStart, 0)
	windowEnd := time.Unix(scenario.WindowEnd, 0)
	binMins := scenario.BinSizeMins

	// Bin starts are laid out from local midnight, so the window's first
	// bin is the one containing its start.
	alignedStart, err := binning.FloorToBin(windowStart, binMins)
	if err != nil {
		return err
	}

	total, err := a.records.CountStopRecords(scenario.BatchID)
	if err != nil {
		return err
	}

	acc := make(accumulator)
	summary := Summary{}
	processed := 0

	err = a.records.IterStopRecords(scenario.BatchID, func(rec models.StopRecord) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := a.applyRecord(acc, rec, windowStart, windowEnd, alignedStart, binMins, &summary); err != nil {
			return err
		}

		summary.Records++
		processed++
		if processed%500 == 0 {
			if err := a.UpdateTaskProgress(taskID, processed, total, summary.Backwards); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	rows := materialize(acc, scenario.ID, alignedStart, windowEnd, binMins)
	summary.Categories = len(acc)
	if len(acc) > 0 {
		summary.Bins = len(rows) / (len(acc) + 1) // +1 for the Total category
	}

	if err := a.scenarios.ReplaceBydateRows(scenario.ID, rows); err != nil {
		return err
	}

	if err := a.UpdateTaskProgress(taskID, processed, total, summary.Backwards); err != nil {
		return err
	}

	summaryJSON, _ := json.Marshal(summary)
	if err := a.MarkTaskAsCompleted(taskID, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[BydateAnalyzer] Analysis completed (task_id=%d records=%d backwards=%d)",
		taskID, summary.Records, summary.Backwards)
	return nil
}

// applyRecord seeds one stop record's contribution into the accumulator.
//
// The record's relation to the window decides which boundary bins receive
// fractional occupancy and which interior bins are fully occupied:
//   - inner: both boundary bins plus everything between
//   - right: entry bin, then full bins out to the window end
//   - left: exit bin, then full bins back from the window start
//   - outer: every bin of the window
//
// Backwards records are counted and logged, never silently dropped; records
// with no overlap are skipped.
func (a *BydateAnalyzer) applyRecord(acc accumulator, rec models.StopRecord,
	windowStart, windowEnd, alignedStart time.Time, binMins int, summary *Summary) error {

	entry := time.Unix(rec.EntryTime, 0)
	exit := time.Unix(rec.ExitTime, 0)
	binDur := time.Duration(binMins) * time.Minute

	relation := binning.Classify(entry, exit, windowStart, windowEnd)
	switch relation {
	case binning.RelationBackwards:
		summary.Backwards++
		log.Printf("[BydateAnalyzer] backwards record id=%d entry=%s exit=%s",
			rec.ID, entry.Format(time.RFC3339), exit.Format(time.RFC3339))
		return nil
	case binning.RelationNone:
		summary.NoOverlap++
		return nil
	}

	entryBin, err := binning.FloorToBin(entry, binMins)
	if err != nil {
		return err
	}
	exitBin, err := binning.FloorToBin(exit, binMins)
	if err != nil {
		return err
	}
	fracs, err := binning.OccupancyFraction(entry, exit, binMins)
	if err != nil {
		return fmt.Errorf("record %d: %w", rec.ID, err)
	}

	// A record occupies interior bins only when it spans more than one
	// whole bin beyond its entry bin.
	spansInterior := exitBin.Sub(entryBin) > binDur

	switch relation {
	case binning.RelationInner:
		c := acc.at(rec.Category, entryBin)
		c.occupancy += fracs.InBin
		c.arrivals++
		out := acc.at(rec.Category, exitBin)
		out.occupancy += fracs.OutBin
		out.departures++

		if spansInterior {
			for bin := entryBin.Add(binDur); bin.Before(exitBin); bin = bin.Add(binDur) {
				acc.at(rec.Category, bin).occupancy++
			}
		}

	case binning.RelationRight:
		// Departure is outside the window.
		c := acc.at(rec.Category, entryBin)
		c.occupancy += fracs.InBin
		c.arrivals++

		if spansInterior {
			for bin := entryBin.Add(binDur); !bin.After(windowEnd); bin = bin.Add(binDur) {
				acc.at(rec.Category, bin).occupancy++
			}
		}

	case binning.RelationLeft:
		// Arrival is outside the window.
		c := acc.at(rec.Category, exitBin)
		c.occupancy += fracs.OutBin
		c.departures++

		if spansInterior {
			for bin := alignedStart.Add(binDur); bin.Before(exitBin); bin = bin.Add(binDur) {
				acc.at(rec.Category, bin).occupancy++
			}
		}

	case binning.RelationOuter:
		// The record sandwiches the whole window.
		if spansInterior {
			for bin := alignedStart; !bin.After(windowEnd); bin = bin.Add(binDur) {
				acc.at(rec.Category, bin).occupancy++
			}
		}
	}

	return nil
}

// materialize turns the accumulator into a dense bydate table: one row per
// (category, bin) over the whole window, zero-filled where nothing happened,
// plus a synthetic Total category summing the real ones.
func materialize(acc accumulator, scenarioID int64, alignedStart, windowEnd time.Time, binMins int) []models.BydateRow {
	categories := make([]string, 0, len(acc))
	for category := range acc {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	binDur := time.Duration(binMins) * time.Minute
	var rows []models.BydateRow

	appendRow := func(category string, bin time.Time, c cell) {
		binOfDay, _ := binning.BinOfDay(bin, binMins)
		binOfWeek, _ := binning.BinOfWeek(bin, binMins)
		rows = append(rows, models.BydateRow{
			ScenarioID: scenarioID,
			Category:   category,
			BinStart:   bin.Unix(),
			DayOfWeek:  binning.WeekdayMonday0(bin),
			BinOfDay:   binOfDay,
			BinOfWeek:  binOfWeek,
			Arrivals:   c.arrivals,
			Departures: c.departures,
			Occupancy:  c.occupancy,
		})
	}

	for _, category := range categories {
		for bin := alignedStart; !bin.After(windowEnd); bin = bin.Add(binDur) {
			c := cell{}
			if stored := acc[category][bin.Unix()]; stored != nil {
				c = *stored
			}
			appendRow(category, bin, c)
		}
	}

	// Totals across categories.
	if len(categories) > 0 {
		for bin := alignedStart; !bin.After(windowEnd); bin = bin.Add(binDur) {
			var totalCell cell
			for _, category := range categories {
				if stored := acc[category][bin.Unix()]; stored != nil {
					totalCell.arrivals += stored.arrivals
					totalCell.departures += stored.departures
					totalCell.occupancy += stored.occupancy
				}
			}
			appendRow(models.TotalCategory, bin, totalCell)
		}
	}

	return rows
}

func init() {
	analysis.RegisterAnalyzer(AnalyzerName, NewBydateAnalyzer)
}
