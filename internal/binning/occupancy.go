package binning

import (
	"fmt"
	"time"
)

// Fractions holds the share of the entry bin and the exit bin occupied by a
// single stop record. Both values lie in [0.0, 1.0].
type Fractions struct {
	InBin  float64 `json:"inbinFrac"`
	OutBin float64 `json:"outbinFrac"`
}

// OccupancyFraction computes how much of its entry bin and its exit bin a
// stop record [entry, exit) occupies, for bins of binSizeMins minutes laid
// out from local midnight.
//
// Only the two boundary bins are computed here. Bins fully contained between
// entry and exit are fully occupied and are accounted for by the caller.
//
// When the record begins and ends in the same bin, OutBin is 0.0 and the
// whole occupied duration is carried by InBin; callers must not sum both for
// single-bin records.
//
// Both fractions are checked against [0, 1] before returning. A violation
// means the boundary arithmetic is broken (for example entry after exit) and
// is reported as an error rather than silently clamped.
func OccupancyFraction(entry, exit time.Time, binSizeMins int) (Fractions, error) {
	entryBin, err := FloorToBin(entry, binSizeMins)
	if err != nil {
		return Fractions{}, err
	}
	exitBin, err := FloorToBin(exit, binSizeMins)
	if err != nil {
		return Fractions{}, err
	}

	binDur := time.Duration(binSizeMins) * time.Minute
	binSecs := float64(binSizeMins) * 60

	// Entry-bin occupancy: entry up to the bin's right edge, or up to exit
	// if the record ends first.
	rightEdge := entryBin.Add(binDur)
	if exit.Before(rightEdge) {
		rightEdge = exit
	}
	f := Fractions{InBin: rightEdge.Sub(entry).Seconds() / binSecs}

	// Exit-bin occupancy. A record contained in a single bin is already
	// fully captured by InBin.
	if !entryBin.Equal(exitBin) {
		leftEdge := exitBin
		if entry.After(leftEdge) {
			leftEdge = entry
		}
		f.OutBin = exit.Sub(leftEdge).Seconds() / binSecs
	}

	if f.InBin < 0 || f.InBin > 1 || f.OutBin < 0 || f.OutBin > 1 {
		return Fractions{}, fmt.Errorf(
			"binning: occupancy fraction out of range (inbin=%.3f outbin=%.3f entry=%s exit=%s)",
			f.InBin, f.OutBin, entry.Format(time.RFC3339), exit.Format(time.RFC3339))
	}

	return f, nil
}
