package service

import (
	"context"
	"testing"
	"time"

	"chayfood/internal/modkit/repokit"
	"chayfood/internal/services/api/analytics/domain"
	"chayfood/internal/services/api/analytics/repo"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	panic("unexpected Exec")
}
func (fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	panic("unexpected Query")
}
func (fakeDB) QueryRow(context.Context, string, ...any) repokit.Row { panic("unexpected QueryRow") }
func (f fakeDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(f)
}

// fakeRepo answers by window start so current and previous differ
type fakeRepo struct {
	aggs   map[time.Time]repo.OrderAggRow
	active map[time.Time]int64
	newC   map[time.Time]int64
	repeat map[time.Time]int64
	dishes []domain.DishRow
	daily  []repo.DailyRow
	states []repo.OrderStateRow

	custStates    []repo.CustomerStateRow
	categoryItems map[string][]string

	// custIDs passed to the last OrderAgg call
	gotCustIDs []string
}

func (f *fakeRepo) OrderAgg(_ context.Context, start, _ time.Time, custIDs, _ []string) (repo.OrderAggRow, error) {
	f.gotCustIDs = custIDs
	return f.aggs[start], nil
}

func (f *fakeRepo) ActiveCustomers(_ context.Context, start, _ time.Time, _, _ []string) (int64, error) {
	return f.active[start], nil
}

func (f *fakeRepo) RepeatCustomers(_ context.Context, start, _ time.Time, _, _ []string) (int64, error) {
	return f.repeat[start], nil
}

func (f *fakeRepo) NewCustomers(_ context.Context, start, _ time.Time, _ []string) (int64, error) {
	return f.newC[start], nil
}

func (f *fakeRepo) DishTotals(_ context.Context, _, _ time.Time, _, _ []string) ([]domain.DishRow, error) {
	return f.dishes, nil
}

func (f *fakeRepo) OrderDaily(_ context.Context, _, _ time.Time, _, _ []string) ([]repo.DailyRow, error) {
	return f.daily, nil
}

func (f *fakeRepo) OrderStates(_ context.Context, _, _ time.Time, _, _ []string) ([]repo.OrderStateRow, error) {
	return f.states, nil
}

func (f *fakeRepo) CustomerStates(_ context.Context) ([]repo.CustomerStateRow, error) {
	return f.custStates, nil
}

func (f *fakeRepo) ItemIDsByCategory(_ context.Context, category string) ([]string, error) {
	return f.categoryItems[category], nil
}

var testNow = time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)

func newTestSvc(f *fakeRepo) *Svc {
	s := New(fakeDB{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }))
	s.now = func() time.Time { return testNow }
	return s
}

func windowStarts(t *testing.T, rangeName string) (cur, prev time.Time) {
	t.Helper()
	w, err := domain.ResolveWindow(domain.Query{Range: rangeName}, testNow)
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	return w.Start, w.Previous().Start
}

func TestOrderStats_PreviousWindowComparison(t *testing.T) {
	cur, prev := windowStarts(t, "month")
	f := &fakeRepo{aggs: map[time.Time]repo.OrderAggRow{
		cur:  {Total: 10, Completed: 9, Cancelled: 1, Revenue: 500},
		prev: {Total: 8, Completed: 8, Cancelled: 0, Revenue: 400},
	}}
	svc := newTestSvc(f)

	got, err := svc.OrderStats(context.Background(), domain.Query{Range: "month"})
	if err != nil {
		t.Fatalf("OrderStats: %v", err)
	}
	if got.TotalOrders != 10 || got.TotalRevenue != 500 {
		t.Errorf("current snapshot = %+v", got)
	}
	if got.AverageOrderValue != 50 {
		t.Errorf("AOV = %v, want 50", got.AverageOrderValue)
	}
	if got.PercentChange.Orders != 25.0 || got.PercentChange.Revenue != 25.0 {
		t.Errorf("percent change = %+v, want 25.0 / 25.0", got.PercentChange)
	}
	// both AOVs are 50, no change
	if got.PercentChange.AOV != 0 {
		t.Errorf("AOV change = %v, want 0", got.PercentChange.AOV)
	}
}

func TestOrderStats_ZeroBaselineYieldsZeroChange(t *testing.T) {
	cur, _ := windowStarts(t, "week")
	f := &fakeRepo{aggs: map[time.Time]repo.OrderAggRow{
		cur: {Total: 5, Revenue: 100},
	}}
	svc := newTestSvc(f)

	got, err := svc.OrderStats(context.Background(), domain.Query{Range: "week"})
	if err != nil {
		t.Fatalf("OrderStats: %v", err)
	}
	pc := got.PercentChange
	if pc.Orders != 0 || pc.Revenue != 0 || pc.AOV != 0 {
		t.Errorf("percent change = %+v, want all zero", pc)
	}
}

func TestCustomerStats_Counters(t *testing.T) {
	cur, prev := windowStarts(t, "month")
	f := &fakeRepo{
		active: map[time.Time]int64{cur: 40, prev: 32},
		newC:   map[time.Time]int64{cur: 8, prev: 8},
		repeat: map[time.Time]int64{cur: 32, prev: 24},
	}
	svc := newTestSvc(f)

	got, err := svc.CustomerStats(context.Background(), domain.Query{Range: "month"})
	if err != nil {
		t.Fatalf("CustomerStats: %v", err)
	}
	if got.TotalCustomers != 40 || got.NewCustomers != 8 || got.RepeatCustomers != 32 {
		t.Errorf("snapshot = %+v", got)
	}
	if got.PercentChange.Total != 25.0 || got.PercentChange.New != 0 {
		t.Errorf("percent change = %+v", got.PercentChange)
	}
}

func TestOrderTrends_SevenZeroBucketsOverEmptyWeek(t *testing.T) {
	svc := newTestSvc(&fakeRepo{})

	got, err := svc.OrderTrends(context.Background(), domain.Query{Range: "week"})
	if err != nil {
		t.Fatalf("OrderTrends: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("buckets = %d, want 7", len(got))
	}
	for i, p := range got {
		if p.Orders != 0 || p.Revenue != 0 {
			t.Errorf("bucket %d = %+v, want zeros", i, p)
		}
		if p.Date == "" {
			t.Errorf("bucket %d has no date", i)
		}
	}
}

func TestOrderTrends_AccumulatesIntoRightBucket(t *testing.T) {
	w, _ := domain.ResolveWindow(domain.Query{Range: "week"}, testNow)
	f := &fakeRepo{daily: []repo.DailyRow{
		{Day: w.Start, Orders: 2, Revenue: 90},
		{Day: w.Start.Add(3 * 24 * time.Hour), Orders: 1, Revenue: 60},
	}}
	svc := newTestSvc(f)

	got, err := svc.OrderTrends(context.Background(), domain.Query{Range: "week"})
	if err != nil {
		t.Fatalf("OrderTrends: %v", err)
	}
	if got[0].Orders != 2 || got[3].Orders != 1 {
		t.Errorf("buckets = %+v", got)
	}
	if got[1].Orders != 0 {
		t.Errorf("gap bucket not zero: %+v", got[1])
	}
}

func TestRegionalOrders_CanonicalRegionsAlwaysPresent(t *testing.T) {
	f := &fakeRepo{states: []repo.OrderStateRow{
		{State: "Ho Chi Minh", Revenue: 100},
		{State: "Ho Chi Minh", Revenue: 50},
		{State: "Atlantis", Revenue: 10},
	}}
	svc := newTestSvc(f)

	got, err := svc.RegionalOrders(context.Background(), domain.Query{Range: "month"})
	if err != nil {
		t.Fatalf("RegionalOrders: %v", err)
	}
	byName := map[string]domain.RegionRow{}
	for _, r := range got {
		byName[r.Region] = r
	}
	for _, want := range []string{"North", "Central", "South", "Other"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("region %q missing from %v", want, got)
		}
	}
	if byName["South"].Count != 2 || byName["South"].Revenue != 150 {
		t.Errorf("South = %+v", byName["South"])
	}
	if byName["Other"].Count != 1 {
		t.Errorf("Other = %+v, want the unmatched state", byName["Other"])
	}
	// sorted by count descending
	if got[0].Region != "South" {
		t.Errorf("got[0] = %+v, want South first", got[0])
	}
}

func TestFilters_UnmatchedRegionShortCircuits(t *testing.T) {
	f := &fakeRepo{
		aggs: map[time.Time]repo.OrderAggRow{},
		// every customer lives in the South, so a North filter matches nobody
		custStates: []repo.CustomerStateRow{
			{ID: "c1", State: "Ho Chi Minh"},
			{ID: "c2", State: "Can Tho"},
		},
	}
	svc := newTestSvc(f)

	got, err := svc.OrderStats(context.Background(), domain.Query{
		Range:   "month",
		Filters: domain.Filters{Region: "North"},
	})
	if err != nil {
		t.Fatalf("OrderStats: %v", err)
	}
	if got.TotalOrders != 0 || got.TotalRevenue != 0 {
		t.Errorf("snapshot = %+v, want zeros for unmatched filter", got)
	}
}

func TestFilters_RegionMatchesAccentedStates(t *testing.T) {
	cur, _ := windowStarts(t, "month")
	f := &fakeRepo{
		aggs: map[time.Time]repo.OrderAggRow{cur: {Total: 3, Revenue: 120}},
		custStates: []repo.CustomerStateRow{
			{ID: "c1", State: "Hà Nội"},
			{ID: "c2", State: "Hồ Chí Minh"},
			{ID: "c3", State: "Hai Phong"},
		},
	}
	svc := newTestSvc(f)

	got, err := svc.OrderStats(context.Background(), domain.Query{
		Range:   "month",
		Filters: domain.Filters{Region: "North"},
	})
	if err != nil {
		t.Fatalf("OrderStats: %v", err)
	}
	// the accented and the plain spelling both resolve into the filter set
	want := []string{"c1", "c3"}
	if len(f.gotCustIDs) != len(want) {
		t.Fatalf("filter set = %v, want %v", f.gotCustIDs, want)
	}
	for i, id := range want {
		if f.gotCustIDs[i] != id {
			t.Fatalf("filter set = %v, want %v", f.gotCustIDs, want)
		}
	}
	if got.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", got.TotalOrders)
	}
}

func TestFilters_OtherExcludesKnownProvinces(t *testing.T) {
	cur, _ := windowStarts(t, "month")
	f := &fakeRepo{
		aggs: map[time.Time]repo.OrderAggRow{cur: {Total: 1, Revenue: 10}},
		custStates: []repo.CustomerStateRow{
			{ID: "c1", State: "Hà Nội"},   // known region, accented
			{ID: "c2", State: "Atlantis"}, // unknown state
			{ID: "c3", State: ""},         // no saved address
			{ID: "c4", State: "Đà Nẵng"},  // known region, accented
			{ID: "c4", State: "Nowhere"},  // second address does not demote c4
		},
	}
	svc := newTestSvc(f)

	if _, err := svc.OrderStats(context.Background(), domain.Query{
		Range:   "month",
		Filters: domain.Filters{Region: "Other"},
	}); err != nil {
		t.Fatalf("OrderStats: %v", err)
	}
	want := []string{"c2", "c3"}
	if len(f.gotCustIDs) != len(want) || f.gotCustIDs[0] != "c2" || f.gotCustIDs[1] != "c3" {
		t.Errorf("Other filter set = %v, want %v", f.gotCustIDs, want)
	}
}

func TestPopularDishes_PassesThroughRanked(t *testing.T) {
	f := &fakeRepo{dishes: []domain.DishRow{
		{ID: "pho", Name: "Pho Chay", Count: 42, Revenue: 2730},
		{ID: "rice", Name: "Com Chay", Count: 17, Revenue: 900},
	}}
	svc := newTestSvc(f)

	got, err := svc.PopularDishes(context.Background(), domain.Query{Range: "month"})
	if err != nil {
		t.Fatalf("PopularDishes: %v", err)
	}
	if len(got) != 2 || got[0].ID != "pho" {
		t.Errorf("got %+v, want pho ranked first", got)
	}
}
