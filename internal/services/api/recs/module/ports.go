package module

import (
	"context"

	"chayfood/internal/services/api/recs/domain"
	recssvc "chayfood/internal/services/api/recs/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptRecsPort struct{ svc recssvc.Service }

// Personalized returns ranked item ids for one customer
func (a adaptRecsPort) Personalized(ctx context.Context, in domain.PersonalizedInput) ([]string, error) {
	return a.svc.Personalized(ctx, in)
}

// SpecialOccasion lists items carrying the requested tag
func (a adaptRecsPort) SpecialOccasion(ctx context.Context, in domain.OccasionInput) ([]domain.Item, error) {
	return a.svc.SpecialOccasion(ctx, in)
}

// SmartCombos returns item groups frequently ordered together
func (a adaptRecsPort) SmartCombos(ctx context.Context) ([]domain.Combo, error) {
	return a.svc.SmartCombos(ctx)
}
