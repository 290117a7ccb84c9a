// Package repo provides postgres access for recommendations
package repo

import (
	"context"
	"encoding/json"
	"time"

	"chayfood/internal/modkit/repokit"
	perr "chayfood/internal/platform/errors"
	"chayfood/internal/services/api/recs/domain"
)

// Suggestion is one persisted co-occurrence pairing
type Suggestion struct {
	ItemID string `json:"item_id"`
	Score  int    `json:"score"`
}

// Repo is the minimal persistence surface for recommendations
type Repo interface {
	// FavoriteItems returns the customer's favorite item ids, empty when absent
	FavoriteItems(ctx context.Context, userID string) ([]string, error)

	// Suggestions returns the persisted pairings for a set of items
	Suggestions(ctx context.Context, itemIDs []string) (map[string][]Suggestion, error)

	// MostOrdered returns item ids ranked by all-time ordered quantity
	MostOrdered(ctx context.Context, limit int) ([]string, error)

	// ByOccasion returns available items carrying the occasion tag
	ByOccasion(ctx context.Context, tag string) ([]domain.Item, error)

	// RecentBaskets returns distinct item id sets for orders since the cutoff
	RecentBaskets(ctx context.Context, since time.Time) ([][]string, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) FavoriteItems(ctx context.Context, userID string) ([]string, error) {
	const sql = `
select favorite_items
from user_preferences
where user_id = $1
`
	var raw []byte
	if err := r.q.QueryRow(ctx, sql, userID).Scan(&raw); err != nil {
		if perr.IsNoRows(err) {
			return nil, nil
		}
		return nil, perr.FromDB(err, "favorite items")
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, perr.JSONErrf("decode favorite items: %v", err)
	}
	return out, nil
}

func (r *queries) Suggestions(ctx context.Context, itemIDs []string) (map[string][]Suggestion, error) {
	if len(itemIDs) == 0 {
		return map[string][]Suggestion{}, nil
	}
	const sql = `
select id, recommended_with
from menu_items
where id = any($1)
`
	rows, err := r.q.Query(ctx, sql, itemIDs)
	if err != nil {
		return nil, perr.FromDB(err, "suggestions")
	}
	defer rows.Close()

	out := make(map[string][]Suggestion, len(itemIDs))
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, perr.FromDB(err, "scan suggestions")
		}
		if len(raw) == 0 {
			continue
		}
		var pairs []Suggestion
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return nil, perr.JSONErrf("decode suggestions for %s: %v", id, err)
		}
		out[id] = pairs
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate suggestions")
	}
	return out, nil
}

func (r *queries) MostOrdered(ctx context.Context, limit int) ([]string, error) {
	const sql = `
select oi.item_id
from orders o
join order_items oi on oi.order_id = o.id
where o.status not in ('cancelled')
group by oi.item_id
order by sum(oi.quantity) desc, oi.item_id asc
limit $1
`
	rows, err := r.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, perr.FromDB(err, "most ordered")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, perr.FromDB(err, "scan most ordered")
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate most ordered")
	}
	return out, nil
}

func (r *queries) ByOccasion(ctx context.Context, tag string) ([]domain.Item, error) {
	const sql = `
select id, name, category, price, occasion_tags
from menu_items
where available
  and occasion_tags @> jsonb_build_array($1::text)
order by name
`
	rows, err := r.q.Query(ctx, sql, tag)
	if err != nil {
		return nil, perr.FromDB(err, "by occasion")
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		var (
			it  domain.Item
			raw []byte
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price, &raw); err != nil {
			return nil, perr.FromDB(err, "scan occasion item")
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &it.OccasionTags); err != nil {
				return nil, perr.JSONErrf("decode occasion tags for %s: %v", it.ID, err)
			}
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate occasion items")
	}
	return out, nil
}

func (r *queries) RecentBaskets(ctx context.Context, since time.Time) ([][]string, error) {
	const sql = `
select o.id, oi.item_id
from orders o
join order_items oi on oi.order_id = o.id
where o.created_at >= $1
  and o.status not in ('cancelled')
order by o.id
`
	rows, err := r.q.Query(ctx, sql, since.UTC())
	if err != nil {
		return nil, perr.FromDB(err, "recent baskets")
	}
	defer rows.Close()

	var (
		out  [][]string
		last string
	)
	for rows.Next() {
		var oid, itemID string
		if err := rows.Scan(&oid, &itemID); err != nil {
			return nil, perr.FromDB(err, "scan recent basket")
		}
		if len(out) == 0 || oid != last {
			out = append(out, nil)
			last = oid
		}
		out[len(out)-1] = append(out[len(out)-1], itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate recent baskets")
	}
	return out, nil
}
