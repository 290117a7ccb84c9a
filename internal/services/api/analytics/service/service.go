// Package service contains analytics workflows
package service

import (
	"context"
	"sort"
	"time"

	"chayfood/internal/core/region"
	"chayfood/internal/modkit/repokit"
	"chayfood/internal/services/api/analytics/domain"
	"chayfood/internal/services/api/analytics/repo"
)

// Service defines the analytics service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the analytics service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	// now is a seam for tests
	now func() time.Time
}

// New constructs an analytics service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("analytics.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("analytics.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, now: time.Now}
}

// filterSets is the once-resolved form of the optional filters,
// applied identically to both windows
type filterSets struct {
	custIDs []string
	itemIDs []string

	// a requested filter that resolves to nothing matches no orders
	empty bool
}

func (s *Svc) resolveFilters(ctx context.Context, f domain.Filters) (filterSets, error) {
	var out filterSets

	if f.Region != "" {
		rows, err := s.Repo.CustomerStates(ctx)
		if err != nil {
			return filterSets{}, err
		}

		// classify in Go so the filter buckets accented states exactly
		// like RegionalOrders does
		seen := map[string]bool{}
		known := map[string]bool{}
		matched := map[string]bool{}
		for _, row := range rows {
			seen[row.ID] = true
			bucket := region.Classify(row.State)
			if bucket != region.Other {
				known[row.ID] = true
			}
			if bucket == f.Region {
				matched[row.ID] = true
			}
		}

		var ids []string
		if f.Region == region.Other {
			// customers with no address in any known region
			for id := range seen {
				if !known[id] {
					ids = append(ids, id)
				}
			}
		} else {
			for id := range matched {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)

		if len(ids) == 0 {
			out.empty = true
		}
		out.custIDs = ids
	}

	if f.Category != "" {
		ids, err := s.Repo.ItemIDsByCategory(ctx, f.Category)
		if err != nil {
			return filterSets{}, err
		}
		if len(ids) == 0 {
			out.empty = true
		}
		out.itemIDs = ids
	}

	return out, nil
}

// OrderStats computes order volume and revenue with previous-window comparison
func (s *Svc) OrderStats(ctx context.Context, q domain.Query) (domain.OrderStats, error) {
	w, err := domain.ResolveWindow(q, s.now())
	if err != nil {
		return domain.OrderStats{}, err
	}
	fs, err := s.resolveFilters(ctx, q.Filters)
	if err != nil {
		return domain.OrderStats{}, err
	}
	if fs.empty {
		return domain.OrderStats{}, nil
	}

	cur, err := s.Repo.OrderAgg(ctx, w.Start, w.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return domain.OrderStats{}, err
	}
	p := w.Previous()
	prev, err := s.Repo.OrderAgg(ctx, p.Start, p.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return domain.OrderStats{}, err
	}

	curAOV := safeDiv(cur.Revenue, cur.Total)
	prevAOV := safeDiv(prev.Revenue, prev.Total)

	return domain.OrderStats{
		TotalOrders:       cur.Total,
		TotalRevenue:      cur.Revenue,
		AverageOrderValue: curAOV,
		CompletedOrders:   cur.Completed,
		CancelledOrders:   cur.Cancelled,
		PercentChange: domain.PercentChange{
			Orders:  domain.PercentOf(float64(cur.Total), float64(prev.Total)),
			Revenue: domain.PercentOf(cur.Revenue, prev.Revenue),
			AOV:     domain.PercentOf(curAOV, prevAOV),
		},
	}, nil
}

// CustomerStats computes customer activity with previous-window comparison
func (s *Svc) CustomerStats(ctx context.Context, q domain.Query) (domain.CustomerStats, error) {
	w, err := domain.ResolveWindow(q, s.now())
	if err != nil {
		return domain.CustomerStats{}, err
	}
	fs, err := s.resolveFilters(ctx, q.Filters)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	if fs.empty {
		return domain.CustomerStats{}, nil
	}

	p := w.Previous()

	curActive, err := s.Repo.ActiveCustomers(ctx, w.Start, w.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	prevActive, err := s.Repo.ActiveCustomers(ctx, p.Start, p.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	curNew, err := s.Repo.NewCustomers(ctx, w.Start, w.End, fs.custIDs)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	prevNew, err := s.Repo.NewCustomers(ctx, p.Start, p.End, fs.custIDs)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	curRepeat, err := s.Repo.RepeatCustomers(ctx, w.Start, w.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return domain.CustomerStats{}, err
	}
	prevRepeat, err := s.Repo.RepeatCustomers(ctx, p.Start, p.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return domain.CustomerStats{}, err
	}

	return domain.CustomerStats{
		TotalCustomers:  curActive,
		NewCustomers:    curNew,
		RepeatCustomers: curRepeat,
		PercentChange: domain.CustomerChange{
			Total:  domain.PercentOf(float64(curActive), float64(prevActive)),
			New:    domain.PercentOf(float64(curNew), float64(prevNew)),
			Repeat: domain.PercentOf(float64(curRepeat), float64(prevRepeat)),
		},
	}, nil
}

// PopularDishes ranks items by ordered quantity in the window
func (s *Svc) PopularDishes(ctx context.Context, q domain.Query) ([]domain.DishRow, error) {
	w, err := domain.ResolveWindow(q, s.now())
	if err != nil {
		return nil, err
	}
	fs, err := s.resolveFilters(ctx, q.Filters)
	if err != nil {
		return nil, err
	}
	if fs.empty {
		return []domain.DishRow{}, nil
	}
	return s.Repo.DishTotals(ctx, w.Start, w.End, fs.custIDs, fs.itemIDs)
}

// OrderTrends buckets orders by date, gap-free with explicit zero buckets
func (s *Svc) OrderTrends(ctx context.Context, q domain.Query) ([]domain.TrendPoint, error) {
	w, err := domain.ResolveWindow(q, s.now())
	if err != nil {
		return nil, err
	}
	fs, err := s.resolveFilters(ctx, q.Filters)
	if err != nil {
		return nil, err
	}

	step := 24 * time.Hour
	if !w.DayBuckets() {
		step = 7 * 24 * time.Hour
	}

	// pre-fill every bucket with zero before accumulating
	var starts []time.Time
	for t := w.Start; t.Before(w.End); t = t.Add(step) {
		starts = append(starts, t)
	}
	points := make([]domain.TrendPoint, len(starts))
	for i, t := range starts {
		points[i] = domain.TrendPoint{Date: t.Format("2006-01-02")}
	}

	if fs.empty {
		return points, nil
	}

	daily, err := s.Repo.OrderDaily(ctx, w.Start, w.End, fs.custIDs, fs.itemIDs)
	if err != nil {
		return nil, err
	}
	for _, d := range daily {
		i := sort.Search(len(starts), func(i int) bool { return starts[i].After(d.Day) }) - 1
		if i < 0 {
			continue
		}
		points[i].Orders += d.Orders
		points[i].Revenue += d.Revenue
	}
	return points, nil
}

// RegionalOrders accumulates order volume per canonical region
func (s *Svc) RegionalOrders(ctx context.Context, q domain.Query) ([]domain.RegionRow, error) {
	w, err := domain.ResolveWindow(q, s.now())
	if err != nil {
		return nil, err
	}
	fs, err := s.resolveFilters(ctx, q.Filters)
	if err != nil {
		return nil, err
	}

	count := map[string]int64{}
	revenue := map[string]float64{}
	if !fs.empty {
		rows, err := s.Repo.OrderStates(ctx, w.Start, w.End, fs.custIDs, fs.itemIDs)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			bucket := region.Classify(row.State)
			count[bucket]++
			revenue[bucket] += row.Revenue
		}
	}

	// canonical regions always present, Other included for unmatched states
	buckets := append(region.Regions(), region.Other)
	out := make([]domain.RegionRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, domain.RegionRow{Region: b, Count: count[b], Revenue: revenue[b]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func safeDiv(num float64, den int64) float64 {
	if den == 0 {
		return 0
	}
	return num / float64(den)
}
