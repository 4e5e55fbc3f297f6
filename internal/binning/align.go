package binning

import "time"

// FloorToBin returns the start of the bin containing t, where bins of
// binSizeMins minutes are laid out from local midnight. The sub-second
// component of t is cleared, so the result always lands exactly on a
// whole-second bin boundary.
func FloorToBin(t time.Time, binSizeMins int) (time.Time, error) {
	if binSizeMins <= 0 {
		return time.Time{}, ErrInvalidBinSize
	}

	binSecs := binSizeMins * 60
	secs := secondsSinceMidnight(t)
	floored := secs / binSecs * binSecs

	return midnightOf(t).Add(time.Duration(floored) * time.Second), nil
}

// CeilToBin returns the next bin boundary at or after t, where bins of
// binSizeMins minutes are laid out from local midnight. A timestamp already
// on a bin boundary maps to itself (with sub-second cleared), not to the
// following bin.
func CeilToBin(t time.Time, binSizeMins int) (time.Time, error) {
	if binSizeMins <= 0 {
		return time.Time{}, ErrInvalidBinSize
	}

	binSecs := binSizeMins * 60
	secs := secondsSinceMidnight(t)
	ceiled := (secs + binSecs - 1) / binSecs * binSecs

	return midnightOf(t).Add(time.Duration(ceiled) * time.Second), nil
}

// secondsSinceMidnight returns the whole seconds elapsed since local
// midnight of the day containing t. Sub-second precision is dropped.
func secondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// midnightOf returns local midnight of the day containing t.
func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
