// Package service contains recommendation workflows
package service

import (
	"context"
	"sort"
	"time"

	"chayfood/internal/core/cooccur"
	"chayfood/internal/modkit/repokit"
	"chayfood/internal/services/api/recs/domain"
	"chayfood/internal/services/api/recs/repo"
)

const (
	defaultPageSize = 10
	comboWindow     = 30 * 24 * time.Hour
	maxCombos       = 5

	// minRecentBaskets is the volume below which combos fall back
	// to the persisted pairings
	minRecentBaskets = 10
)

// Service defines the recommendation service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the recommendation service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	// now is a seam for tests
	now func() time.Time
}

// New constructs a recommendation service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("recs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("recs.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, now: time.Now}
}

// Personalized merges the pairings of the customer's favorite items,
// ranked by aggregate co-occurrence weight
func (s *Svc) Personalized(ctx context.Context, in domain.PersonalizedInput) ([]string, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	favs, err := s.Repo.FavoriteItems(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return s.Repo.MostOrdered(ctx, limit)
	}

	sugg, err := s.Repo.Suggestions(ctx, favs)
	if err != nil {
		return nil, err
	}

	owned := map[string]bool{}
	for _, id := range favs {
		owned[id] = true
	}

	weight := map[string]int{}
	for _, pairs := range sugg {
		for _, p := range pairs {
			if owned[p.ItemID] {
				continue
			}
			weight[p.ItemID] += p.Score
		}
	}
	if len(weight) == 0 {
		return s.Repo.MostOrdered(ctx, limit)
	}

	out := make([]string, 0, len(weight))
	for id := range weight {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if weight[out[i]] != weight[out[j]] {
			return weight[out[i]] > weight[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SpecialOccasion lists available items carrying the requested tag
func (s *Svc) SpecialOccasion(ctx context.Context, in domain.OccasionInput) ([]domain.Item, error) {
	return s.Repo.ByOccasion(ctx, in.Tag)
}

// SmartCombos returns item groups frequently ordered together,
// preferring recent orders over the persisted projection
func (s *Svc) SmartCombos(ctx context.Context) ([]domain.Combo, error) {
	baskets, err := s.Repo.RecentBaskets(ctx, s.now().Add(-comboWindow))
	if err != nil {
		return nil, err
	}

	if len(baskets) >= minRecentBaskets {
		if combos := combosFromBaskets(baskets); len(combos) > 0 {
			return combos, nil
		}
	}
	return s.combosFromProjection(ctx)
}

// combosFromBaskets greedily takes the strongest non-overlapping pairs
func combosFromBaskets(baskets [][]string) []domain.Combo {
	m := cooccur.NewMatrix()
	for _, b := range baskets {
		m.Observe(b)
	}

	type pair struct {
		a, b  string
		count int
	}
	var pairs []pair
	for _, a := range m.Items() {
		for _, r := range m.Top(a, len(m.Items())) {
			if a < r.ItemID {
				pairs = append(pairs, pair{a: a, b: r.ItemID, count: r.Count})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	used := map[string]bool{}
	var out []domain.Combo
	for _, p := range pairs {
		if used[p.a] || used[p.b] {
			continue
		}
		out = append(out, domain.Combo{ItemIDs: []string{p.a, p.b}})
		used[p.a], used[p.b] = true, true
		if len(out) == maxCombos {
			break
		}
	}
	return out
}

// combosFromProjection falls back to the persisted pairings of popular items
func (s *Svc) combosFromProjection(ctx context.Context) ([]domain.Combo, error) {
	popular, err := s.Repo.MostOrdered(ctx, maxCombos*2)
	if err != nil {
		return nil, err
	}
	if len(popular) == 0 {
		return nil, nil
	}

	sugg, err := s.Repo.Suggestions(ctx, popular)
	if err != nil {
		return nil, err
	}

	used := map[string]bool{}
	var out []domain.Combo
	for _, id := range popular {
		if used[id] {
			continue
		}
		for _, p := range sugg[id] {
			if used[p.ItemID] || p.ItemID == id {
				continue
			}
			out = append(out, domain.Combo{ItemIDs: []string{id, p.ItemID}})
			used[id], used[p.ItemID] = true, true
			break
		}
		if len(out) == maxCombos {
			break
		}
	}
	return out, nil
}
