package module

import (
	"context"

	"chayfood/internal/services/prefs/domain"
	prefssvc "chayfood/internal/services/prefs/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptPrefsPort struct{ svc prefssvc.Service }

// OnItemViewed records a menu item view
func (a adaptPrefsPort) OnItemViewed(ctx context.Context, ev domain.ViewEvent) error {
	return a.svc.OnItemViewed(ctx, ev)
}

// OnOrderPlaced folds an order into the customer profile
func (a adaptPrefsPort) OnOrderPlaced(ctx context.Context, ev domain.OrderEvent) error {
	return a.svc.OnOrderPlaced(ctx, ev)
}

// Get returns the customer's current preference record
func (a adaptPrefsPort) Get(ctx context.Context, userID string) (domain.UserPreference, error) {
	return a.svc.Get(ctx, userID)
}
