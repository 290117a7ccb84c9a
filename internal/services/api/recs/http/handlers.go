// Package http provides http transport for recommendations
package http

import (
	stdhttp "net/http"

	"chayfood/internal/modkit/httpkit"
	"chayfood/internal/services/api/recs/domain"
	svc "chayfood/internal/services/api/recs/service"
)

// Register mounts recommendation endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// ranked item ids for one customer
	httpkit.PostJSON[domain.PersonalizedInput](r, "/personalized", h.personalized)

	// occasion-filtered browsing
	httpkit.PostJSON[domain.OccasionInput](r, "/occasion", h.occasion)

	// combo suggestions
	httpkit.Get(r, "/combos", h.combos)
}

type handlers struct{ svc svc.Service }

// @Summary Personalized recommendations
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param payload body domain.PersonalizedInput true "Query"
// @Success 200 {array} string "ok"
// @Router /recs/personalized [post]
func (h *handlers) personalized(r *stdhttp.Request, in domain.PersonalizedInput) (any, error) {
	return h.svc.Personalized(r.Context(), in)
}

// @Summary Items for a special occasion
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param payload body domain.OccasionInput true "Query"
// @Success 200 {array} domain.Item "ok"
// @Router /recs/occasion [post]
func (h *handlers) occasion(r *stdhttp.Request, in domain.OccasionInput) (any, error) {
	return h.svc.SpecialOccasion(r.Context(), in)
}

// @Summary Smart combo suggestions
// @Tags Recommendations
// @Produce json
// @Success 200 {array} domain.Combo "ok"
// @Router /recs/combos [get]
func (h *handlers) combos(r *stdhttp.Request) (any, error) {
	return h.svc.SmartCombos(r.Context())
}
