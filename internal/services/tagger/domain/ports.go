package domain

import (
	"context"
	"time"
)

// RunnerPort is the public entrypoint exposed by the module.
// The tagger binary calls RunOnce on its schedule; operators can
// trigger it manually the same way
type RunnerPort interface {
	// RunOnce executes one full pipeline run: seed preferences,
	// tag occasions, rebuild co-occurrence pairings. A run another
	// worker already owns is a clean skip, not an error
	RunOnce(ctx context.Context) error

	// LastRuns returns the most recent bookkeeping rows, newest first
	LastRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// StorageRepo encapsulates all storage actions the tagger performs
type StorageRepo interface {
	// Begin inserts the bookkeeping row for a new run
	Begin(ctx context.Context, runID string, startedAt time.Time) error

	// Finish stamps the bookkeeping row with outcomes, including failures
	Finish(ctx context.Context, runID string, fin FinishInfo) error

	// Runs returns recent bookkeeping rows, newest first
	Runs(ctx context.Context, limit int) ([]RunSummary, error)

	// CustomerItemTotals returns per-customer ordered quantity per item
	// for orders placed since the cutoff, grouped and summed
	CustomerItemTotals(ctx context.Context, since time.Time) ([]CustomerItemQty, error)

	// SeedPreference writes a derived preference record unless the live
	// record was updated at or after runStart; reports whether it wrote
	SeedPreference(
		ctx context.Context,
		userID string,
		categories, items []string,
		runStart time.Time,
	) (bool, error)

	// MenuItems returns every active menu item with its nutrition facts
	MenuItems(ctx context.Context) ([]MenuItem, error)

	// TagOccasions replaces the occasion tags on a menu item
	TagOccasions(ctx context.Context, itemID string, tags []string) error

	// OrderBaskets returns distinct item id sets for orders since the cutoff
	OrderBaskets(ctx context.Context, since time.Time) ([]Basket, error)

	// ReplaceSuggestions replaces a menu item's recommended pairings
	ReplaceSuggestions(ctx context.Context, itemID string, pairs []Suggestion) error
}
