package binning

import (
	"fmt"
	"math"
	"time"
)

// stopDataLayouts are the timestamp layouts accepted from stop-data sources,
// tried in order. Parsing uses the local location because bins are laid out
// from local midnight.
var stopDataLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ToTime normalizes a timestamp-like value to a time.Time. Upstream data
// sources hand us native times, unix seconds or formatted strings; this is
// the single coercion boundary, so the arithmetic in the rest of the package
// only ever sees time.Time.
//
// Accepted inputs: time.Time, *time.Time, int/int64 (unix seconds), float64
// (unix seconds with fraction), and strings in RFC3339 or common stop-data
// layouts. Anything else is an error.
func ToTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, fmt.Errorf("binning: nil *time.Time")
		}
		return *x, nil
	case int:
		return time.Unix(int64(x), 0), nil
	case int64:
		return time.Unix(x, 0), nil
	case float64:
		sec, frac := math.Modf(x)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))), nil
	case string:
		for _, layout := range stopDataLayouts {
			if t, err := time.ParseInLocation(layout, x, time.Local); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("binning: unrecognized timestamp %q", x)
	default:
		return time.Time{}, fmt.Errorf("binning: unsupported timestamp type %T", v)
	}
}
