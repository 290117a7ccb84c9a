// Package repo provides postgres access for preference tracking
package repo

import (
	"context"
	"encoding/json"

	"chayfood/internal/modkit/repokit"
	perr "chayfood/internal/platform/errors"
	"chayfood/internal/services/prefs/domain"
)

// Repo is the minimal persistence surface for preferences
type Repo interface {
	Get(ctx context.Context, userID string) (domain.UserPreference, bool, error)
	Upsert(ctx context.Context, pref domain.UserPreference) error
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

func (r *queries) Get(ctx context.Context, userID string) (domain.UserPreference, bool, error) {
	const sql = `
select favorite_categories, favorite_items, last_viewed,
       dietary_restrictions, disliked_ingredients, preferred_nutrition
from user_preferences
where user_id = $1
`
	var (
		cats, items, viewed, diet, disliked []byte
		nutrition                           []byte
	)
	err := r.q.QueryRow(ctx, sql, userID).Scan(&cats, &items, &viewed, &diet, &disliked, &nutrition)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.UserPreference{UserID: userID}, false, nil
		}
		return domain.UserPreference{}, false, perr.FromDB(err, "get preference")
	}

	p := domain.UserPreference{UserID: userID}
	for _, col := range []struct {
		raw []byte
		dst *[]string
	}{
		{cats, &p.FavoriteCategories},
		{items, &p.FavoriteItems},
		{viewed, &p.LastViewed},
		{diet, &p.DietaryRestrictions},
		{disliked, &p.DislikedIngredients},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return domain.UserPreference{}, false, perr.JSONErrf("decode preference lists: %v", err)
		}
	}
	if len(nutrition) > 0 {
		var nt domain.NutritionTarget
		if err := json.Unmarshal(nutrition, &nt); err != nil {
			return domain.UserPreference{}, false, perr.JSONErrf("decode preferred nutrition: %v", err)
		}
		p.PreferredNutrition = &nt
	}
	return p, true, nil
}

func (r *queries) Upsert(ctx context.Context, pref domain.UserPreference) error {
	const sql = `
insert into user_preferences (
	user_id, favorite_categories, favorite_items, last_viewed,
	dietary_restrictions, disliked_ingredients, preferred_nutrition, updated_at
) values ($1, $2, $3, $4, $5, $6, $7, now())
on conflict (user_id) do update set
	favorite_categories = excluded.favorite_categories,
	favorite_items = excluded.favorite_items,
	last_viewed = excluded.last_viewed,
	dietary_restrictions = excluded.dietary_restrictions,
	disliked_ingredients = excluded.disliked_ingredients,
	preferred_nutrition = excluded.preferred_nutrition,
	updated_at = now()
`
	cats, err := json.Marshal(orEmpty(pref.FavoriteCategories))
	if err != nil {
		return perr.JSONErrf("encode favorite categories: %v", err)
	}
	items, err := json.Marshal(orEmpty(pref.FavoriteItems))
	if err != nil {
		return perr.JSONErrf("encode favorite items: %v", err)
	}
	viewed, err := json.Marshal(orEmpty(pref.LastViewed))
	if err != nil {
		return perr.JSONErrf("encode last viewed: %v", err)
	}
	diet, err := json.Marshal(orEmpty(pref.DietaryRestrictions))
	if err != nil {
		return perr.JSONErrf("encode dietary restrictions: %v", err)
	}
	disliked, err := json.Marshal(orEmpty(pref.DislikedIngredients))
	if err != nil {
		return perr.JSONErrf("encode disliked ingredients: %v", err)
	}
	var nutrition []byte
	if pref.PreferredNutrition != nil {
		nutrition, err = json.Marshal(pref.PreferredNutrition)
		if err != nil {
			return perr.JSONErrf("encode preferred nutrition: %v", err)
		}
	}
	if _, err := r.q.Exec(ctx, sql, pref.UserID, cats, items, viewed, diet, disliked, nutrition); err != nil {
		return perr.FromDB(err, "upsert preference")
	}
	return nil
}

// orEmpty keeps jsonb columns as [] instead of null for absent lists
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
