// Package domain holds DTOs for recommendation http and service contracts
package domain

// PersonalizedInput selects the customer and page size
type PersonalizedInput struct {
	UserID string `json:"user_id" validate:"required" example:"c1f0a7e2"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=50" example:"10"`
}

// OccasionInput selects an occasion tag to browse by
type OccasionInput struct {
	Tag string `json:"tag" validate:"required,oneof=birthday party diet healthy" example:"diet"`
}

// Item carries the catalog display fields for a recommended dish
type Item struct {
	ID           string   `json:"id" example:"m-pho-chay"`
	Name         string   `json:"name" example:"Pho Chay"`
	Category     string   `json:"category" example:"main"`
	Price        float64  `json:"price" example:"65000"`
	OccasionTags []string `json:"occasion_tags,omitempty"`
}

// Combo is one group of items frequently ordered together
type Combo struct {
	ItemIDs []string `json:"item_ids"`
}
