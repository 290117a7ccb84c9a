package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	OrderStats(ctx context.Context, q Query) (OrderStats, error)
	CustomerStats(ctx context.Context, q Query) (CustomerStats, error)
	PopularDishes(ctx context.Context, q Query) ([]DishRow, error)
	OrderTrends(ctx context.Context, q Query) ([]TrendPoint, error)
	RegionalOrders(ctx context.Context, q Query) ([]RegionRow, error)
}
