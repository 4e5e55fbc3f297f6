package binning

import "time"

// Relation describes how a stop record's interval relates to an analysis
// window.
type Relation string

const (
	// RelationBackwards marks a malformed record whose exit precedes its entry.
	RelationBackwards Relation = "backwards"
	// RelationInner is a record fully contained in the window.
	RelationInner Relation = "inner"
	// RelationRight starts inside the window and ends at or after its end.
	RelationRight Relation = "right"
	// RelationLeft starts before the window and ends inside it.
	RelationLeft Relation = "left"
	// RelationOuter spans the entire window and beyond both ends.
	RelationOuter Relation = "outer"
	// RelationNone is a record that does not overlap the window.
	RelationNone Relation = "none"
)

// Classify determines the relationship between a stop record [entry, exit)
// and an analysis window [windowStart, windowEnd).
//
// Membership tests treat the window start as inclusive and the window end as
// exclusive, so a record touching the window edge is never counted on both
// sides. The checks are ordered and the first match wins; a reversed record
// is always backwards regardless of the window. Classify is total: every
// input maps to exactly one label.
func Classify(entry, exit, windowStart, windowEnd time.Time) Relation {
	inWindow := func(t time.Time) bool {
		return !t.Before(windowStart) && t.Before(windowEnd)
	}

	switch {
	case entry.After(exit):
		return RelationBackwards
	case inWindow(entry) && inWindow(exit):
		return RelationInner
	case inWindow(entry) && !exit.Before(windowEnd):
		return RelationRight
	case entry.Before(windowStart) && inWindow(exit):
		return RelationLeft
	case entry.Before(windowStart) && !exit.Before(windowEnd):
		return RelationOuter
	default:
		return RelationNone
	}
}

// Valid reports whether r is one of the six defined relation labels.
func (r Relation) Valid() bool {
	switch r {
	case RelationBackwards, RelationInner, RelationRight, RelationLeft, RelationOuter, RelationNone:
		return true
	}
	return false
}

// Overlaps reports whether a record with this relation contributes any
// occupancy to the analysis window.
func (r Relation) Overlaps() bool {
	switch r {
	case RelationInner, RelationRight, RelationLeft, RelationOuter:
		return true
	}
	return false
}
