package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hillview/occupancy-backend-go/internal/binning"
	"github.com/hillview/occupancy-backend-go/internal/ingest"
	"github.com/hillview/occupancy-backend-go/internal/models"
	"github.com/hillview/occupancy-backend-go/internal/repository"
)

// StopRecordService handles business logic for stop records
type StopRecordService struct {
	repo    *repository.StopRecordRepository
	dataDir string
}

// NewStopRecordService creates a new stop record service
func NewStopRecordService(repo *repository.StopRecordRepository, dataDir string) *StopRecordService {
	return &StopRecordService{repo: repo, dataDir: dataDir}
}

// GetStopRecords retrieves stop records with filtering and pagination
func (s *StopRecordService) GetStopRecords(filter models.StopRecordFilter) ([]models.StopRecord, int64, error) {
	return s.repo.GetStopRecords(filter)
}

// GetStopRecordByID retrieves a single stop record by ID
func (s *StopRecordService) GetStopRecordByID(id int64) (*models.StopRecord, error) {
	return s.repo.GetStopRecordByID(id)
}

// Ingest loads a stop-data CSV from the configured data directory into the
// database as one batch.
func (s *StopRecordService) Ingest(req models.IngestRequest) (*models.IngestResult, error) {
	// Only plain file names are accepted; the data directory is the
	// boundary of what the API can read.
	if filepath.Base(req.File) != req.File {
		return nil, fmt.Errorf("invalid file name %q", req.File)
	}

	f, err := os.Open(filepath.Join(s.dataDir, req.File))
	if err != nil {
		return nil, fmt.Errorf("failed to open stop-data file: %w", err)
	}
	defer f.Close()

	opts := ingest.Options{
		CategoryField: req.CategoryField,
		EntryField:    req.EntryField,
		ExitField:     req.ExitField,
		SkipBad:       req.SkipBad,
	}
	// The real clock enters only on explicit request; without it an empty
	// exit stays a malformed row.
	if req.OpenExitsNow {
		opts.Clock = binning.SystemClock{}
	}
	loader := ingest.NewLoader(opts)

	records, result, err := loader.Load(f)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertBatch(records); err != nil {
		return nil, err
	}

	return result, nil
}
