package binning

import "time"

// DurationMinutes converts a duration to a fractional number of minutes by
// combining its whole-day, whole-second and microsecond components
// additively: days*1440 + seconds/60 + microseconds/60000. No component is
// rounded independently.
func DurationMinutes(d time.Duration) float64 {
	days := d / (24 * time.Hour)
	rem := d - days*24*time.Hour
	secs := rem / time.Second
	micros := (rem - secs*time.Second) / time.Microsecond

	return float64(days)*MinutesPerDay + float64(secs)/60.0 + float64(micros)/60000.0
}
