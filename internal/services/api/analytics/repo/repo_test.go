package repo

import (
	"context"
	"strings"
	"testing"
	"time"

	"chayfood/internal/modkit/repokit"
)

// dayRows feeds canned daily aggregates through the store Rows seam
type dayRows struct {
	rows []DailyRow
	i    int
}

func (r *dayRows) Next() bool { return r.i < len(r.rows) }

func (r *dayRows) Scan(dest ...any) error {
	row := r.rows[r.i]
	r.i++
	*dest[0].(*time.Time) = row.Day
	*dest[1].(*int64) = row.Orders
	*dest[2].(*float64) = row.Revenue
	return nil
}

func (r *dayRows) Err() error        { return nil }
func (r *dayRows) Close()            {}
func (r *dayRows) Columns() []string { return []string{"day", "orders", "revenue"} }

// recQ records the issued SQL and answers with canned rows
type recQ struct {
	sql  string
	args []any
	rows repokit.Rows
}

func (q *recQ) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	panic("unexpected Exec")
}

func (q *recQ) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	q.sql = sql
	q.args = args
	return q.rows, nil
}

func (q *recQ) QueryRow(context.Context, string, ...any) repokit.Row {
	panic("unexpected QueryRow")
}

func TestOrderDaily_TruncatesInUTC(t *testing.T) {
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	q := &recQ{rows: &dayRows{rows: []DailyRow{{Day: day, Orders: 4, Revenue: 220}}}}
	r := NewPG().Bind(q)

	got, err := r.OrderDaily(context.Background(), day, day.Add(24*time.Hour), nil, nil)
	if err != nil {
		t.Fatalf("OrderDaily: %v", err)
	}
	if len(got) != 1 || !got[0].Day.Equal(day) || got[0].Orders != 4 {
		t.Fatalf("rows = %+v", got)
	}

	// day bucketing must not follow the session time zone
	if !strings.Contains(q.sql, "date_trunc('day', o.created_at at time zone 'UTC')") {
		t.Fatalf("daily query truncates outside UTC:\n%s", q.sql)
	}
	if len(q.args) != 4 {
		t.Fatalf("args = %d, want window bounds plus both filter sets", len(q.args))
	}
}
