package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/hillview/occupancy-backend-go/internal/analysis"
	"github.com/hillview/occupancy-backend-go/internal/analysis/occupancy"
	"github.com/hillview/occupancy-backend-go/internal/binning"
	"github.com/hillview/occupancy-backend-go/internal/models"
	"github.com/hillview/occupancy-backend-go/internal/repository"
	"github.com/hillview/occupancy-backend-go/internal/stats"
)

// ScenarioService handles business logic for occupancy scenarios
type ScenarioService struct {
	db             *sql.DB
	scenarios      *repository.ScenarioRepository
	tasks          *repository.TaskRepository
	defaultBinMins int
}

// NewScenarioService creates a new scenario service
func NewScenarioService(db *sql.DB, defaultBinMins int) *ScenarioService {
	return &ScenarioService{
		db:             db,
		scenarios:      repository.NewScenarioRepository(db),
		tasks:          repository.NewTaskRepository(db),
		defaultBinMins: defaultBinMins,
	}
}

// CreateAndRun validates a scenario request, persists the scenario and
// launches the bydate occupancy analyzer in the background.
func (s *ScenarioService) CreateAndRun(req models.ScenarioRequest) (*models.Scenario, error) {
	binMins := req.BinSizeMins
	if binMins == 0 {
		binMins = s.defaultBinMins
	}
	if binMins <= 0 {
		return nil, binning.ErrInvalidBinSize
	}
	if binning.MinutesPerDay%binMins != 0 {
		return nil, occupancy.ErrUnevenBinSize
	}

	windowStart, err := binning.ToTime(req.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("bad window start: %w", err)
	}
	windowEnd, err := binning.ToTime(req.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("bad window end: %w", err)
	}
	if !windowStart.Before(windowEnd) {
		return nil, fmt.Errorf("window start must precede window end")
	}

	scenario := &models.Scenario{
		Name:        req.Name,
		BinSizeMins: binMins,
		WindowStart: windowStart.Unix(),
		WindowEnd:   windowEnd.Unix(),
		BatchID:     req.BatchID,
		Status:      models.ScenarioStatusPending,
	}

	scenarioID, err := s.scenarios.CreateScenario(scenario)
	if err != nil {
		return nil, err
	}
	scenario.ID = scenarioID

	params, _ := json.Marshal(occupancy.Params{ScenarioID: scenarioID})
	taskID, err := s.tasks.CreateTask(occupancy.AnalyzerName, string(params))
	if err != nil {
		return nil, err
	}
	scenario.TaskID = taskID
	scenario.Status = models.ScenarioStatusRunning

	if err := s.scenarios.UpdateScenarioStatus(scenarioID, models.ScenarioStatusRunning, taskID); err != nil {
		return nil, err
	}

	go s.run(scenarioID, taskID)

	return scenario, nil
}

// run executes the bydate analyzer for a scenario and records the outcome
func (s *ScenarioService) run(scenarioID, taskID int64) {
	analyzer := analysis.GetAnalyzer(occupancy.AnalyzerName, s.db)
	if analyzer == nil {
		log.Printf("[ScenarioService] analyzer %q not registered", occupancy.AnalyzerName)
		return
	}

	if err := analyzer.Analyze(context.Background(), taskID); err != nil {
		log.Printf("[ScenarioService] scenario %d failed: %v", scenarioID, err)
		if terr := s.tasks.MarkTaskFailed(taskID, err.Error()); terr != nil {
			log.Printf("[ScenarioService] failed to record task failure: %v", terr)
		}
		if serr := s.scenarios.UpdateScenarioStatus(scenarioID, models.ScenarioStatusFailed, taskID); serr != nil {
			log.Printf("[ScenarioService] failed to record scenario failure: %v", serr)
		}
		return
	}

	if err := s.scenarios.UpdateScenarioStatus(scenarioID, models.ScenarioStatusCompleted, taskID); err != nil {
		log.Printf("[ScenarioService] failed to record scenario completion: %v", err)
	}
}

// GetScenarioByID retrieves a scenario by ID
func (s *ScenarioService) GetScenarioByID(id int64) (*models.Scenario, error) {
	return s.scenarios.GetScenarioByID(id)
}

// ListScenarios retrieves all scenarios
func (s *ScenarioService) ListScenarios() ([]models.Scenario, error) {
	return s.scenarios.ListScenarios()
}

// GetBydateRows retrieves a scenario's bydate occupancy table
func (s *ScenarioService) GetBydateRows(scenarioID int64, filter models.BydateFilter) ([]models.BydateRow, int64, error) {
	return s.scenarios.GetBydateRows(scenarioID, filter)
}

// GetOccupancySummary aggregates a completed scenario's bydate table into
// per (category, bin-of-week) summary statistics.
func (s *ScenarioService) GetOccupancySummary(scenarioID int64) ([]models.OccupancySummaryRow, error) {
	scenario, err := s.scenarios.GetScenarioByID(scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario == nil {
		return nil, nil
	}

	byCategory, err := s.scenarios.GetOccupancyByBinOfWeek(scenarioID)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	summary := make([]models.OccupancySummaryRow, 0)
	for _, category := range categories {
		bins := byCategory[category]

		binIndexes := make([]int, 0, len(bins))
		for binOfWeek := range bins {
			binIndexes = append(binIndexes, binOfWeek)
		}
		sort.Ints(binIndexes)

		for _, binOfWeek := range binIndexes {
			values := bins[binOfWeek]
			mins := binOfWeek * scenario.BinSizeMins
			summary = append(summary, models.OccupancySummaryRow{
				Category:  category,
				DayOfWeek: mins / binning.MinutesPerDay,
				BinOfDay:  (mins % binning.MinutesPerDay) / scenario.BinSizeMins,
				BinOfWeek: binOfWeek,
				Count:     len(values),
				Mean:      stats.Mean(values),
				StdDev:    stats.StdDev(values),
				Min:       stats.Min(values),
				Max:       stats.Max(values),
				P50:       stats.Percentile(values, 50),
				P75:       stats.Percentile(values, 75),
				P95:       stats.Percentile(values, 95),
			})
		}
	}

	return summary, nil
}
