package domain

import (
	"testing"
	"time"

	perr "chayfood/internal/platform/errors"
)

var anchor = time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)

func TestResolveWindow_NamedRangesAlignToCalendarDays(t *testing.T) {
	cases := map[string]time.Duration{
		"day":  24 * time.Hour,
		"week": 7 * 24 * time.Hour,
	}
	for name, want := range cases {
		w, err := ResolveWindow(Query{Range: name}, anchor)
		if err != nil {
			t.Fatalf("ResolveWindow(%s): %v", name, err)
		}
		if w.Duration() != want {
			t.Errorf("%s duration = %v, want %v", name, w.Duration(), want)
		}
		wantEnd := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)
		if !w.End.Equal(wantEnd) {
			t.Errorf("%s end = %v, want %v", name, w.End, wantEnd)
		}
	}

	w, err := ResolveWindow(Query{Range: "month"}, anchor)
	if err != nil {
		t.Fatalf("ResolveWindow(month): %v", err)
	}
	if w.Start.Day() != 16 || w.Start.Month() != time.July {
		t.Errorf("month start = %v, want July 16", w.Start)
	}
}

func TestResolveWindow_ExplicitBoundsOverrideRange(t *testing.T) {
	w, err := ResolveWindow(Query{Range: "year", Start: "2026-08-01", End: "2026-08-07"}, anchor)
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	if w.RangeName != "" {
		t.Errorf("RangeName = %q, want empty for explicit bounds", w.RangeName)
	}
	// inclusive end date
	if w.Duration() != 7*24*time.Hour {
		t.Errorf("duration = %v, want 7 days", w.Duration())
	}
}

func TestResolveWindow_RejectsBadInput(t *testing.T) {
	for _, q := range []Query{
		{},
		{Range: "fortnight"},
		{Start: "2026-08-07", End: "2026-08-01"},
	} {
		_, err := ResolveWindow(q, anchor)
		if err == nil {
			t.Errorf("ResolveWindow(%+v) succeeded, want error", q)
			continue
		}
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Errorf("ResolveWindow(%+v) error code = %v, want validation", q, perr.CodeOf(err))
		}
	}
}

func TestPrevious_AdjacentSameDuration(t *testing.T) {
	for _, name := range []string{"day", "week", "month", "quarter", "year"} {
		w, err := ResolveWindow(Query{Range: name}, anchor)
		if err != nil {
			t.Fatalf("ResolveWindow(%s): %v", name, err)
		}
		p := w.Previous()
		if !p.End.Equal(w.Start) {
			t.Errorf("%s: previous.End = %v, want %v", name, p.End, w.Start)
		}
		if p.Duration() != w.Duration() {
			t.Errorf("%s: previous duration = %v, want %v", name, p.Duration(), w.Duration())
		}
	}
}

func TestDayBuckets_ByRangeAndSpan(t *testing.T) {
	for _, name := range []string{"day", "week", "month"} {
		w, _ := ResolveWindow(Query{Range: name}, anchor)
		if !w.DayBuckets() {
			t.Errorf("%s should use day buckets", name)
		}
	}
	for _, name := range []string{"quarter", "year"} {
		w, _ := ResolveWindow(Query{Range: name}, anchor)
		if w.DayBuckets() {
			t.Errorf("%s should use week buckets", name)
		}
	}
	long, _ := ResolveWindow(Query{Start: "2026-01-01", End: "2026-06-30"}, anchor)
	if long.DayBuckets() {
		t.Error("six month explicit window should use week buckets")
	}
}

func TestPercentOf_ZeroBaselineAndRounding(t *testing.T) {
	if got := PercentOf(10, 0); got != 0 {
		t.Errorf("PercentOf(10, 0) = %v, want 0", got)
	}
	if got := PercentOf(0, 0); got != 0 {
		t.Errorf("PercentOf(0, 0) = %v, want 0", got)
	}
	if got := PercentOf(10, 8); got != 25.0 {
		t.Errorf("PercentOf(10, 8) = %v, want 25.0", got)
	}
	if got := PercentOf(500, 400); got != 25.0 {
		t.Errorf("PercentOf(500, 400) = %v, want 25.0", got)
	}
	if got := PercentOf(1, 3); got != -66.7 {
		t.Errorf("PercentOf(1, 3) = %v, want -66.7", got)
	}
}
