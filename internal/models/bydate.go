package models

// BydateRow is one cell of the by-date occupancy table: the contribution of
// all of a scenario's stop records to a single time bin for one category.
type BydateRow struct {
	ID         int64   `json:"id" db:"id"`
	ScenarioID int64   `json:"scenarioId" db:"scenario_id"`
	Category   string  `json:"category" db:"category"`
	BinStart   int64   `json:"binStart" db:"bin_start"` // Unix timestamp of the bin's left edge
	DayOfWeek  int     `json:"dayOfWeek" db:"day_of_week"` // Monday=0
	BinOfDay   int     `json:"binOfDay" db:"bin_of_day"`
	BinOfWeek  int     `json:"binOfWeek" db:"bin_of_week"`
	Arrivals   float64 `json:"arrivals" db:"arrivals"`
	Departures float64 `json:"departures" db:"departures"`
	Occupancy  float64 `json:"occupancy" db:"occupancy"`
}

// TotalCategory is the synthetic category holding per-bin sums across all
// real categories.
const TotalCategory = "Total"

// DefaultCategory labels records whose source data carries no category.
const DefaultCategory = "All"

// BydateFilter represents filter parameters for querying bydate rows
type BydateFilter struct {
	Category string `form:"category"`
	From     int64  `form:"from"` // Unix timestamp
	To       int64  `form:"to"`   // Unix timestamp
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// OccupancySummaryRow aggregates occupancy for one category and one
// bin-of-week slot across every date the analysis window covers.
type OccupancySummaryRow struct {
	Category  string  `json:"category"`
	DayOfWeek int     `json:"dayOfWeek"` // Monday=0
	BinOfDay  int     `json:"binOfDay"`
	BinOfWeek int     `json:"binOfWeek"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdDev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	P50       float64 `json:"p50"`
	P75       float64 `json:"p75"`
	P95       float64 `json:"p95"`
}
