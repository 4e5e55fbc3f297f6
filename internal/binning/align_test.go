package binning

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorToBin(t *testing.T) {
	tests := []struct {
		name    string
		t       time.Time
		binMins int
		want    time.Time
	}{
		{
			name:    "mid bin floors to bin start",
			t:       time.Date(2013, 1, 7, 10, 17, 42, 0, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 7, 10, 0, 0, 0, time.Local),
		},
		{
			name:    "exact boundary maps to itself",
			t:       time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
		},
		{
			name:    "sub-second is cleared",
			t:       time.Date(2013, 1, 7, 10, 30, 0, 987654000, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
		},
		{
			name:    "first bin of the day",
			t:       time.Date(2013, 1, 7, 0, 3, 12, 0, time.Local),
			binMins: 15,
			want:    time.Date(2013, 1, 7, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FloorToBin(tt.t, tt.binMins)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestCeilToBin(t *testing.T) {
	tests := []struct {
		name    string
		t       time.Time
		binMins int
		want    time.Time
	}{
		{
			name:    "mid bin rounds up to next boundary",
			t:       time.Date(2013, 1, 7, 10, 17, 42, 0, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
		},
		{
			// Ceiling of an exact multiple is itself, not the next bin.
			name:    "exact boundary does not overshoot",
			t:       time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
		},
		{
			name:    "boundary with sub-second clears sub-second only",
			t:       time.Date(2013, 1, 7, 10, 30, 0, 500000000, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 7, 10, 30, 0, 0, time.Local),
		},
		{
			name:    "end of day rolls into next midnight",
			t:       time.Date(2013, 1, 7, 23, 45, 1, 0, time.Local),
			binMins: 30,
			want:    time.Date(2013, 1, 8, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CeilToBin(tt.t, tt.binMins)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestAlignInvalidBinSize(t *testing.T) {
	now := time.Date(2013, 1, 7, 12, 0, 0, 0, time.Local)

	for _, binMins := range []int{0, -5} {
		_, err := FloorToBin(now, binMins)
		assert.ErrorIs(t, err, ErrInvalidBinSize)

		_, err = CeilToBin(now, binMins)
		assert.ErrorIs(t, err, ErrInvalidBinSize)
	}
}

func TestFloorToBinBracketsInput(t *testing.T) {
	// floor(t) <= t < floor(t) + binSize, for random timestamps and sizes.
	rng := rand.New(rand.NewSource(11))
	base := time.Date(2013, 1, 1, 0, 0, 0, 0, time.Local)

	for i := 0; i < 2000; i++ {
		binMins := 1 + rng.Intn(180)
		ts := base.Add(time.Duration(rng.Int63n(int64(90 * 24 * time.Hour))))

		floor, err := FloorToBin(ts, binMins)
		require.NoError(t, err)

		assert.False(t, floor.After(ts), "floor %s after input %s", floor, ts)
		assert.True(t, ts.Before(floor.Add(time.Duration(binMins)*time.Minute)),
			"input %s not inside bin starting %s", ts, floor)

		// Ceiling lands on the same boundary lattice, at or after floor.
		ceil, err := CeilToBin(ts, binMins)
		require.NoError(t, err)
		assert.False(t, ceil.Before(floor))
	}
}
