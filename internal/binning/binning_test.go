package binning

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinOfDay(t *testing.T) {
	tests := []struct {
		name    string
		t       time.Time
		binMins int
		want    int
	}{
		{
			// 2013-01-07 01:45 with 30-minute bins.
			name:    "quarter to two is bin 3",
			t:       time.Date(2013, 1, 7, 1, 45, 0, 0, time.Local),
			binMins: 30,
			want:    3,
		},
		{
			name:    "midnight is bin 0",
			t:       time.Date(2013, 1, 7, 0, 0, 0, 0, time.Local),
			binMins: 30,
			want:    0,
		},
		{
			name:    "last minute of day with 30 minute bins",
			t:       time.Date(2013, 1, 7, 23, 59, 59, 0, time.Local),
			binMins: 30,
			want:    47,
		},
		{
			name:    "hourly bins",
			t:       time.Date(2013, 1, 7, 13, 5, 0, 0, time.Local),
			binMins: 60,
			want:    13,
		},
		{
			name:    "bin size not dividing the day",
			t:       time.Date(2013, 1, 7, 23, 30, 0, 0, time.Local),
			binMins: 25,
			want:    56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinOfDay(tt.t, tt.binMins)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinOfWeek(t *testing.T) {
	// 2013-01-07 is a Monday, so it contributes no day offset and
	// bin-of-week equals bin-of-day.
	monday := time.Date(2013, 1, 7, 1, 45, 0, 0, time.Local)
	got, err := BinOfWeek(monday, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	// Tuesday of the same week shifts by a full day of bins.
	tuesday := time.Date(2013, 1, 8, 1, 45, 0, 0, time.Local)
	got, err = BinOfWeek(tuesday, 30)
	require.NoError(t, err)
	assert.Equal(t, 48+3, got)

	// Sunday is the last day of the week.
	sunday := time.Date(2013, 1, 13, 23, 59, 0, 0, time.Local)
	got, err = BinOfWeek(sunday, 30)
	require.NoError(t, err)
	assert.Equal(t, 7*48-1, got)
}

func TestBinIndexInvalidBinSize(t *testing.T) {
	now := time.Date(2013, 1, 7, 12, 0, 0, 0, time.Local)

	for _, binMins := range []int{0, -1, -30} {
		_, err := BinOfDay(now, binMins)
		assert.ErrorIs(t, err, ErrInvalidBinSize)

		_, err = BinOfWeek(now, binMins)
		assert.ErrorIs(t, err, ErrInvalidBinSize)
	}
}

func TestBinOfDayRange(t *testing.T) {
	// For every bin size, indices stay within 0..floor(1439/binSize).
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		binMins := 1 + rng.Intn(240)
		ts := time.Date(2013, 1, 1, 0, 0, 0, 0, time.Local).
			Add(time.Duration(rng.Int63n(int64(365 * 24 * time.Hour))))

		bin, err := BinOfDay(ts, binMins)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, bin, 0)
		assert.LessOrEqual(t, bin, 1439/binMins)

		wbin, err := BinOfWeek(ts, binMins)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, wbin, 0)
		assert.LessOrEqual(t, wbin, (7*1440-1)/binMins)
	}
}

func TestWeekdayMonday0(t *testing.T) {
	// 2013-01-07 Monday through 2013-01-13 Sunday.
	for day := 0; day < 7; day++ {
		d := time.Date(2013, 1, 7+day, 10, 0, 0, 0, time.Local)
		assert.Equal(t, day, WeekdayMonday0(d))
	}
}
