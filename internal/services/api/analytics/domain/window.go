package domain

import (
	"math"
	"time"

	perr "chayfood/internal/platform/errors"
)

// Window is a half-open [Start, End) instant pair
type Window struct {
	Start time.Time
	End   time.Time

	// RangeName is the named range the window came from, empty for explicit bounds
	RangeName string
}

// Duration returns the window length
func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// Previous returns the immediately preceding window of identical duration,
// non-overlapping: previous.End == w.Start
func (w Window) Previous() Window {
	d := w.Duration()
	return Window{Start: w.Start.Add(-d), End: w.Start, RangeName: w.RangeName}
}

// DayBuckets reports whether trend buckets are one day wide for this window
func (w Window) DayBuckets() bool {
	switch w.RangeName {
	case "day", "week", "month":
		return true
	case "quarter", "year":
		return false
	}
	// explicit bounds follow the same rule by span
	return w.Duration() <= 31*24*time.Hour
}

const dateLayout = "2006-01-02"

// ResolveWindow maps a named range or explicit bounds to a concrete window.
// Explicit bounds, when both given, override the named range; the end date
// is inclusive
func ResolveWindow(q Query, now time.Time) (Window, error) {
	now = now.UTC()

	if q.Start != "" && q.End != "" {
		start, err := time.Parse(dateLayout, q.Start)
		if err != nil {
			return Window{}, perr.Validationf("start: not a valid date")
		}
		end, err := time.Parse(dateLayout, q.End)
		if err != nil {
			return Window{}, perr.Validationf("end: not a valid date")
		}
		end = end.Add(24 * time.Hour)
		if !end.After(start) {
			return Window{}, perr.Validationf("end: must not precede start")
		}
		return Window{Start: start, End: end}, nil
	}

	// named ranges align to calendar days so trend buckets are exact
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	var start time.Time
	switch q.Range {
	case "day":
		start = end.AddDate(0, 0, -1)
	case "week":
		start = end.AddDate(0, 0, -7)
	case "month":
		start = end.AddDate(0, -1, 0)
	case "quarter":
		start = end.AddDate(0, -3, 0)
	case "year":
		start = end.AddDate(-1, 0, 0)
	case "":
		return Window{}, perr.Validationf("range: required when explicit bounds are not both given")
	default:
		return Window{}, perr.Validationf("range: must be one of day week month quarter year")
	}
	return Window{Start: start, End: end, RangeName: q.Range}, nil
}

// PercentOf returns the percent change from prev to cur, rounded to one
// decimal; a zero baseline always yields 0
func PercentOf(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	raw := (cur - prev) / prev * 100
	return math.Round(raw*10) / 10
}
