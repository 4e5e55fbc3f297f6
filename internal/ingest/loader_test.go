package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hillview/occupancy-backend-go/internal/binning"
	"github.com/hillview/occupancy-backend-go/internal/models"
)

const sampleCSV = `PatType,InRoomTS,OutRoomTS
IVT,1/7/1996 08:15,1/7/1996 10:45
CAT,1996-01-07 09:00:00,1996-01-07 09:20:00
IVT,1/8/1996 23:50,1/9/1996 00:40
`

func sampleLoader(skipBad bool) *Loader {
	return NewLoader(Options{
		CategoryField: "PatType",
		EntryField:    "InRoomTS",
		ExitField:     "OutRoomTS",
		SkipBad:       skipBad,
	})
}

func TestLoad(t *testing.T) {
	records, result, err := sampleLoader(false).Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, 3, result.Loaded)
	assert.Zero(t, result.Skipped)
	assert.NotEmpty(t, result.BatchID)

	first := records[0]
	assert.Equal(t, "IVT", first.Category)
	assert.Equal(t, result.BatchID, first.BatchID)

	wantEntry := time.Date(1996, 1, 7, 8, 15, 0, 0, time.Local)
	assert.Equal(t, wantEntry.Unix(), first.EntryTime)
	assert.InDelta(t, 150.0, first.LOSMins, 1e-9)

	// Mixed timestamp layouts normalize through the same boundary.
	assert.Equal(t, time.Date(1996, 1, 7, 9, 0, 0, 0, time.Local).Unix(), records[1].EntryTime)
}

func TestLoadReversedRecordIsNotAParseFailure(t *testing.T) {
	csvData := "PatType,InRoomTS,OutRoomTS\nIVT,1/7/1996 10:00,1/7/1996 08:00\n"

	records, result, err := sampleLoader(false).Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, result.Loaded)
	assert.Negative(t, records[0].LOSMins)
}

func TestLoadAbortsOnBadRowByDefault(t *testing.T) {
	csvData := "PatType,InRoomTS,OutRoomTS\nIVT,garbage,1/7/1996 10:00\n"

	_, _, err := sampleLoader(false).Load(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadSkipBadCollectsProblems(t *testing.T) {
	csvData := `PatType,InRoomTS,OutRoomTS
IVT,1/7/1996 08:15,1/7/1996 10:45
IVT,garbage,1/7/1996 10:00
CAT,1/7/1996 11:00,
`

	records, result, err := sampleLoader(true).Load(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Problems, 2)
	assert.Contains(t, result.Problems[0], "line 3")
	assert.Contains(t, result.Problems[1], "empty exit time")
}

func TestLoadOpenExitUsesInjectedClock(t *testing.T) {
	now := time.Date(1996, 1, 7, 12, 0, 0, 0, time.Local)
	loader := NewLoader(Options{
		CategoryField: "PatType",
		EntryField:    "InRoomTS",
		ExitField:     "OutRoomTS",
		Clock:         binning.FixedClock{T: now},
	})

	csvData := "PatType,InRoomTS,OutRoomTS\nIVT,1/7/1996 08:00,\n"
	records, _, err := loader.Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, now.Unix(), records[0].ExitTime)
	assert.InDelta(t, 240.0, records[0].LOSMins, 1e-9)
}

func TestLoadMissingColumns(t *testing.T) {
	_, _, err := sampleLoader(false).Load(strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestLoadDefaultsUnlabeledCategory(t *testing.T) {
	loader := NewLoader(Options{EntryField: "InRoomTS", ExitField: "OutRoomTS"})
	csvData := "InRoomTS,OutRoomTS\n1/7/1996 08:00,1/7/1996 09:00\n"

	records, _, err := loader.Load(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.DefaultCategory, records[0].Category)
}
