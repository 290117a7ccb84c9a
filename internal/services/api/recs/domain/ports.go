package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Personalized(ctx context.Context, in PersonalizedInput) ([]string, error)
	SpecialOccasion(ctx context.Context, in OccasionInput) ([]Item, error)
	SmartCombos(ctx context.Context) ([]Combo, error)
}
