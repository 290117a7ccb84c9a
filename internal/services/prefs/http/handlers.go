// Package http provides http transport for preference events
package http

import (
	stdhttp "net/http"

	"chayfood/internal/modkit/httpkit"
	"chayfood/internal/platform/logger"
	"chayfood/internal/services/prefs/domain"
	svc "chayfood/internal/services/prefs/service"
)

// Register mounts preference endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// advisory signals, accepted and applied best effort
	httpkit.PostAccepted[domain.ViewEvent](r, "/view", h.view)
	httpkit.PostAccepted[domain.OrderEvent](r, "/order", h.order)
}

type handlers struct{ svc svc.Service }

// @Summary Record an item view
// @Tags Events
// @Accept json
// @Param payload body domain.ViewEvent true "Event"
// @Success 204 "accepted"
// @Router /events/view [post]
func (h *handlers) view(r *stdhttp.Request, ev domain.ViewEvent) {
	if err := h.svc.OnItemViewed(r.Context(), ev); err != nil {
		logger.C(r.Context()).Warn().Err(err).Str("user_id", ev.UserID).Msg("view event dropped")
	}
}

// @Summary Record a placed order
// @Tags Events
// @Accept json
// @Param payload body domain.OrderEvent true "Event"
// @Success 204 "accepted"
// @Router /events/order [post]
func (h *handlers) order(r *stdhttp.Request, ev domain.OrderEvent) {
	if err := h.svc.OnOrderPlaced(r.Context(), ev); err != nil {
		logger.C(r.Context()).Warn().Err(err).Str("user_id", ev.UserID).Msg("order event dropped")
	}
}
