package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	OnItemViewed(ctx context.Context, ev ViewEvent) error
	OnOrderPlaced(ctx context.Context, ev OrderEvent) error
	Get(ctx context.Context, userID string) (UserPreference, error)
}

// CatalogPort resolves item metadata owned by the menu side of the system
type CatalogPort interface {
	// ItemCategories maps item id to category for ids that exist
	ItemCategories(ctx context.Context, itemIDs []string) (map[string]string, error)
}
