// Package domain holds DTOs for preference tracking contracts
package domain

// Caps on the rolling preference lists
const (
	MaxFavoriteCategories = 3
	MaxFavoriteItems      = 10
	MaxLastViewed         = 10
)

// NutritionTarget is the customer's stated nutrition preference
type NutritionTarget struct {
	Calories int `json:"calories,omitempty"`
	Protein  int `json:"protein,omitempty"`
	Carbs    int `json:"carbs,omitempty"`
	Fat      int `json:"fat,omitempty"`
}

// UserPreference is the rolling per-customer taste profile
type UserPreference struct {
	UserID string `json:"user_id"`

	// FavoriteCategories keeps at most three entries, oldest evicted first
	FavoriteCategories []string `json:"favorite_categories"`

	// FavoriteItems keeps at most ten distinct item ids
	FavoriteItems []string `json:"favorite_items"`

	// LastViewed keeps at most ten distinct item ids, most recent first
	LastViewed []string `json:"last_viewed"`

	DietaryRestrictions []string         `json:"dietary_restrictions,omitempty"`
	DislikedIngredients []string         `json:"disliked_ingredients,omitempty"`
	PreferredNutrition  *NutritionTarget `json:"preferred_nutrition,omitempty"`
}

// ViewEvent reports a customer opening an item page
type ViewEvent struct {
	UserID string `json:"user_id" validate:"required" example:"c1f0a7e2"`
	ItemID string `json:"item_id" validate:"required" example:"m-pho-chay"`
}

// OrderEvent reports a placed order's line items
type OrderEvent struct {
	UserID  string   `json:"user_id" validate:"required" example:"c1f0a7e2"`
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,required"`
}
