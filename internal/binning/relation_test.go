package binning

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	d := func(day int) time.Time {
		return time.Date(2013, 1, day, 0, 0, 0, 0, time.Local)
	}
	// Analysis window [2013-01-01, 2013-01-08).
	wStart, wEnd := d(1), d(8)

	tests := []struct {
		name  string
		entry time.Time
		exit  time.Time
		want  Relation
	}{
		{"fully contained", d(3), d(5), RelationInner},
		{"spans window and beyond both ends", time.Date(2012, 12, 30, 0, 0, 0, 0, time.Local), d(10), RelationOuter},
		{"starts inside ends after", d(5), d(10), RelationRight},
		{"starts before ends inside", time.Date(2012, 12, 28, 0, 0, 0, 0, time.Local), d(4), RelationLeft},
		{"entirely before window", time.Date(2012, 12, 1, 0, 0, 0, 0, time.Local), time.Date(2012, 12, 15, 0, 0, 0, 0, time.Local), RelationNone},
		{"entirely after window", d(9), d(12), RelationNone},
		{"reversed record", d(5), d(3), RelationBackwards},
		{"reversed record outside window", d(20), d(15), RelationBackwards},

		// Half-open boundary cases: window start inclusive, end exclusive.
		{"entry at window start", d(1), d(2), RelationInner},
		{"exit exactly at window end counts as right", d(5), d(8), RelationRight},
		{"entry exactly at window end", d(8), d(9), RelationNone},
		{"record ending at window start", time.Date(2012, 12, 28, 0, 0, 0, 0, time.Local), d(1), RelationLeft},
		{"zero duration at window start", d(1), d(1), RelationInner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry, tt.exit, wStart, wEnd))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every ordering of entry/exit/window endpoints must yield exactly one
	// of the six labels, and reversed records always come back backwards.
	rng := rand.New(rand.NewSource(41))
	base := time.Date(2013, 1, 1, 0, 0, 0, 0, time.Local)
	randTime := func() time.Time {
		return base.Add(time.Duration(rng.Int63n(int64(30 * 24 * time.Hour))))
	}

	for i := 0; i < 5000; i++ {
		entry, exit := randTime(), randTime()
		wStart, wEnd := randTime(), randTime()

		got := Classify(entry, exit, wStart, wEnd)
		assert.True(t, got.Valid(), "unexpected label %q", got)

		if entry.After(exit) {
			assert.Equal(t, RelationBackwards, got)
		}
	}
}

func TestRelationOverlaps(t *testing.T) {
	assert.True(t, RelationInner.Overlaps())
	assert.True(t, RelationLeft.Overlaps())
	assert.True(t, RelationRight.Overlaps())
	assert.True(t, RelationOuter.Overlaps())
	assert.False(t, RelationNone.Overlaps())
	assert.False(t, RelationBackwards.Overlaps())
	assert.False(t, Relation("bogus").Valid())
}
