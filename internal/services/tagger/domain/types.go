// Package domain defines the tagger core ports and types
package domain

import "time"

// Run step names as stamped into tagger_runs
const (
	StepSeedPreferences   = "seed_preferences"
	StepTagOccasions      = "tag_occasions"
	StepBuildCoOccurrence = "build_cooccurrence"
)

// Basket is one order's distinct line item ids
type Basket struct {
	OrderID string
	ItemIDs []string
}

// CustomerItemQty is one customer's total ordered quantity of one item
type CustomerItemQty struct {
	UserID string
	ItemID string
	Qty    int
}

// MenuItem carries the fields occasion tagging needs
type MenuItem struct {
	ID       string
	Category string
	Calories int
	Protein  int
	Fat      int
}

// Suggestion is one co-occurrence pairing persisted on a menu item
type Suggestion struct {
	ItemID string `json:"item_id"`
	Score  int    `json:"score"`
}

// FinishInfo captures outcomes for one tagger run
type FinishInfo struct {
	Status      string
	SeededPrefs int
	SkippedMore int
	TaggedItems int
	PairedItems int
	SeedMS      int
	TagMS       int
	BuildMS     int
	TotalMS     int
	ErrText     string
}

// RunSummary is the bookkeeping row exposed to operators
type RunSummary struct {
	RunID      string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
	FinishInfo
}
