// Package repo provides the tagger storage repository implementation
package repo

import (
	"context"
	"encoding/json"
	"time"

	"chayfood/internal/modkit/repokit"
	perr "chayfood/internal/platform/errors"
	tgdom "chayfood/internal/services/tagger/domain"
)

// NewPG returns a binder for the tagger storage repo
func NewPG() repokit.Binder[tgdom.StorageRepo] { return pgBinder{} }

type pgBinder struct{}

func (pgBinder) Bind(q repokit.Queryer) tgdom.StorageRepo { return &pgStore{q: q} }

type pgStore struct{ q repokit.Queryer }

func (s *pgStore) Begin(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO tagger_runs (run_id, status, started_at)
		VALUES ($1, 'running', $2)
	`, runID, startedAt.UTC())
	if err != nil {
		return perr.FromDB(err, "begin tagger run")
	}
	return nil
}

func (s *pgStore) Finish(ctx context.Context, runID string, fin tgdom.FinishInfo) error {
	_, err := s.q.Exec(ctx, `
		UPDATE tagger_runs
		   SET status = $2,
		       finished_at = now(),
		       seeded_prefs = $3,
		       skipped_prefs = $4,
		       tagged_items = $5,
		       paired_items = $6,
		       seed_ms = $7,
		       tag_ms = $8,
		       build_ms = $9,
		       total_ms = $10,
		       err_text = nullif($11, '')
		 WHERE run_id = $1
	`, runID, fin.Status,
		fin.SeededPrefs, fin.SkippedMore, fin.TaggedItems, fin.PairedItems,
		fin.SeedMS, fin.TagMS, fin.BuildMS, fin.TotalMS, fin.ErrText,
	)
	if err != nil {
		return perr.FromDB(err, "finish tagger run")
	}
	return nil
}

func (s *pgStore) Runs(ctx context.Context, limit int) ([]tgdom.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.q.Query(ctx, `
		SELECT run_id, status, started_at, finished_at,
		       coalesce(seeded_prefs, 0), coalesce(skipped_prefs, 0),
		       coalesce(tagged_items, 0), coalesce(paired_items, 0),
		       coalesce(seed_ms, 0), coalesce(tag_ms, 0),
		       coalesce(build_ms, 0), coalesce(total_ms, 0),
		       coalesce(err_text, '')
		  FROM tagger_runs
		 ORDER BY started_at DESC
		 LIMIT $1
	`, limit)
	if err != nil {
		return nil, perr.FromDB(err, "list tagger runs")
	}
	defer rows.Close()

	var out []tgdom.RunSummary
	for rows.Next() {
		var r tgdom.RunSummary
		if err := rows.Scan(
			&r.RunID, &r.Status, &r.StartedAt, &r.FinishedAt,
			&r.SeededPrefs, &r.SkippedMore, &r.TaggedItems, &r.PairedItems,
			&r.SeedMS, &r.TagMS, &r.BuildMS, &r.TotalMS, &r.ErrText,
		); err != nil {
			return nil, perr.FromDB(err, "scan tagger run")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate tagger runs")
	}
	return out, nil
}

func (s *pgStore) CustomerItemTotals(ctx context.Context, since time.Time) ([]tgdom.CustomerItemQty, error) {
	rows, err := s.q.Query(ctx, `
		SELECT o.customer_id, oi.item_id, sum(oi.quantity)::int
		  FROM orders o
		  JOIN order_items oi ON oi.order_id = o.id
		 WHERE o.created_at >= $1
		   AND o.status NOT IN ('cancelled')
		 GROUP BY o.customer_id, oi.item_id
		 ORDER BY o.customer_id
	`, since.UTC())
	if err != nil {
		return nil, perr.FromDB(err, "customer item totals")
	}
	defer rows.Close()

	var out []tgdom.CustomerItemQty
	for rows.Next() {
		var r tgdom.CustomerItemQty
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Qty); err != nil {
			return nil, perr.FromDB(err, "scan customer item total")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate customer item totals")
	}
	return out, nil
}

func (s *pgStore) SeedPreference(
	ctx context.Context,
	userID string,
	categories, items []string,
	runStart time.Time,
) (bool, error) {
	cats, err := json.Marshal(categories)
	if err != nil {
		return false, perr.JSONErrf("encode seeded categories: %v", err)
	}
	favs, err := json.Marshal(items)
	if err != nil {
		return false, perr.JSONErrf("encode seeded items: %v", err)
	}
	// live events that raced this run win, see updated_at guard
	tag, err := s.q.Exec(ctx, `
		INSERT INTO user_preferences (user_id, favorite_categories, favorite_items, last_viewed, updated_at)
		VALUES ($1, $2, $3, '[]'::jsonb, $4)
		ON CONFLICT (user_id) DO UPDATE
		   SET favorite_categories = excluded.favorite_categories,
		       favorite_items = excluded.favorite_items,
		       updated_at = excluded.updated_at
		 WHERE user_preferences.updated_at < $4
	`, userID, cats, favs, runStart.UTC())
	if err != nil {
		return false, perr.FromDB(err, "seed preference")
	}
	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) MenuItems(ctx context.Context) ([]tgdom.MenuItem, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, category,
		       coalesce((nutrition->>'calories')::int, 0),
		       coalesce((nutrition->>'protein')::int, 0),
		       coalesce((nutrition->>'fat')::int, 0)
		  FROM menu_items
		 WHERE available
	`)
	if err != nil {
		return nil, perr.FromDB(err, "menu items")
	}
	defer rows.Close()

	var out []tgdom.MenuItem
	for rows.Next() {
		var m tgdom.MenuItem
		if err := rows.Scan(&m.ID, &m.Category, &m.Calories, &m.Protein, &m.Fat); err != nil {
			return nil, perr.FromDB(err, "scan menu item")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate menu items")
	}
	return out, nil
}

func (s *pgStore) TagOccasions(ctx context.Context, itemID string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return perr.JSONErrf("encode occasion tags: %v", err)
	}
	if _, err := s.q.Exec(ctx, `
		UPDATE menu_items
		   SET occasion_tags = $2, tagged_at = now()
		 WHERE id = $1
	`, itemID, raw); err != nil {
		return perr.FromDB(err, "tag occasions")
	}
	return nil
}

func (s *pgStore) OrderBaskets(ctx context.Context, since time.Time) ([]tgdom.Basket, error) {
	rows, err := s.q.Query(ctx, `
		SELECT o.id, oi.item_id
		  FROM orders o
		  JOIN order_items oi ON oi.order_id = o.id
		 WHERE o.created_at >= $1
		   AND o.status NOT IN ('cancelled')
		 ORDER BY o.id
	`, since.UTC())
	if err != nil {
		return nil, perr.FromDB(err, "order baskets")
	}
	defer rows.Close()

	var (
		out    []tgdom.Basket
		cur    *tgdom.Basket
		oid    string
		itemID string
	)
	for rows.Next() {
		if err := rows.Scan(&oid, &itemID); err != nil {
			return nil, perr.FromDB(err, "scan order basket")
		}
		if cur == nil || cur.OrderID != oid {
			out = append(out, tgdom.Basket{OrderID: oid})
			cur = &out[len(out)-1]
		}
		cur.ItemIDs = append(cur.ItemIDs, itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromDB(err, "iterate order baskets")
	}
	return out, nil
}

func (s *pgStore) ReplaceSuggestions(ctx context.Context, itemID string, pairs []tgdom.Suggestion) error {
	if pairs == nil {
		pairs = []tgdom.Suggestion{}
	}
	raw, err := json.Marshal(pairs)
	if err != nil {
		return perr.JSONErrf("encode suggestions: %v", err)
	}
	if _, err := s.q.Exec(ctx, `
		UPDATE menu_items
		   SET recommended_with = $2, tagged_at = now()
		 WHERE id = $1
	`, itemID, raw); err != nil {
		return perr.FromDB(err, "replace suggestions")
	}
	return nil
}
