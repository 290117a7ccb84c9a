package module

import (
	"context"

	"chayfood/internal/services/api/analytics/domain"
	analyticssvc "chayfood/internal/services/api/analytics/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptAnalyticsPort struct{ svc analyticssvc.Service }

// OrderStats computes order volume and revenue for the window
func (a adaptAnalyticsPort) OrderStats(ctx context.Context, q domain.Query) (domain.OrderStats, error) {
	return a.svc.OrderStats(ctx, q)
}

// CustomerStats computes customer activity for the window
func (a adaptAnalyticsPort) CustomerStats(ctx context.Context, q domain.Query) (domain.CustomerStats, error) {
	return a.svc.CustomerStats(ctx, q)
}

// PopularDishes ranks items by ordered quantity
func (a adaptAnalyticsPort) PopularDishes(ctx context.Context, q domain.Query) ([]domain.DishRow, error) {
	return a.svc.PopularDishes(ctx, q)
}

// OrderTrends buckets orders by date
func (a adaptAnalyticsPort) OrderTrends(ctx context.Context, q domain.Query) ([]domain.TrendPoint, error) {
	return a.svc.OrderTrends(ctx, q)
}

// RegionalOrders accumulates order volume per canonical region
func (a adaptAnalyticsPort) RegionalOrders(ctx context.Context, q domain.Query) ([]domain.RegionRow, error) {
	return a.svc.RegionalOrders(ctx, q)
}
