// Package http provides http transport for analytics
package http

import (
	stdhttp "net/http"

	"chayfood/internal/modkit/httpkit"
	"chayfood/internal/services/api/analytics/domain"
	svc "chayfood/internal/services/api/analytics/service"
)

// Register mounts analytics endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.Query](r, "/orders", h.orders)
	httpkit.PostJSON[domain.Query](r, "/customers", h.customers)
	httpkit.PostJSON[domain.Query](r, "/dishes", h.dishes)
	httpkit.PostJSON[domain.Query](r, "/trends", h.trends)
	httpkit.PostJSON[domain.Query](r, "/regions", h.regions)
}

type handlers struct{ svc svc.Service }

// @Summary Order stats with previous-window comparison
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body domain.Query true "Query"
// @Success 200 {object} domain.OrderStats "ok"
// @Router /analytics/orders [post]
func (h *handlers) orders(r *stdhttp.Request, q domain.Query) (any, error) {
	return h.svc.OrderStats(r.Context(), q)
}

// @Summary Customer stats with previous-window comparison
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body domain.Query true "Query"
// @Success 200 {object} domain.CustomerStats "ok"
// @Router /analytics/customers [post]
func (h *handlers) customers(r *stdhttp.Request, q domain.Query) (any, error) {
	return h.svc.CustomerStats(r.Context(), q)
}

// @Summary Dishes ranked by ordered quantity
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body domain.Query true "Query"
// @Success 200 {array} domain.DishRow "ok"
// @Router /analytics/dishes [post]
func (h *handlers) dishes(r *stdhttp.Request, q domain.Query) (any, error) {
	return h.svc.PopularDishes(r.Context(), q)
}

// @Summary Gap-free order trend buckets
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body domain.Query true "Query"
// @Success 200 {array} domain.TrendPoint "ok"
// @Router /analytics/trends [post]
func (h *handlers) trends(r *stdhttp.Request, q domain.Query) (any, error) {
	return h.svc.OrderTrends(r.Context(), q)
}

// @Summary Order volume per canonical region
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body domain.Query true "Query"
// @Success 200 {array} domain.RegionRow "ok"
// @Router /analytics/regions [post]
func (h *handlers) regions(r *stdhttp.Request, q domain.Query) (any, error) {
	return h.svc.RegionalOrders(r.Context(), q)
}
