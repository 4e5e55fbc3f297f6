// Package binning contains the analytical core for occupancy analysis:
// mapping timestamps to day/week bins, aligning timestamps to bin
// boundaries, computing the fractional occupancy a stop record contributes
// to its entry and exit bins, and classifying a record's interval against
// an analysis window.
//
// Every function is pure and stateless; all are safe for concurrent use.
package binning

import (
	"errors"
	"time"
)

// MinutesPerDay is the number of minutes in one day.
const MinutesPerDay = 1440

// ErrInvalidBinSize is returned when a non-positive bin size is supplied.
var ErrInvalidBinSize = errors.New("binning: bin size must be a positive number of minutes")

// BinOfDay computes the bin-of-day index for t given a bin size in minutes.
// Bins count from 0 at local midnight, so the range is 0 to floor(1439/binSizeMins).
//
// Example: 01:45 with 30-minute bins is bin 3.
func BinOfDay(t time.Time, binSizeMins int) (int, error) {
	if binSizeMins <= 0 {
		return 0, ErrInvalidBinSize
	}
	mins := t.Hour()*60 + t.Minute()
	return mins / binSizeMins, nil
}

// BinOfWeek computes the bin-of-week index for t given a bin size in minutes.
// The week starts Monday 00:00 (weekday Monday=0), so Monday contributes a
// zero day offset.
func BinOfWeek(t time.Time, binSizeMins int) (int, error) {
	if binSizeMins <= 0 {
		return 0, ErrInvalidBinSize
	}
	mins := WeekdayMonday0(t)*MinutesPerDay + t.Hour()*60 + t.Minute()
	return mins / binSizeMins, nil
}

// WeekdayMonday0 returns the weekday of t using the Monday=0 .. Sunday=6
// convention used throughout occupancy analysis.
func WeekdayMonday0(t time.Time) int {
	// time.Weekday has Sunday=0.
	return (int(t.Weekday()) + 6) % 7
}
