package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chayfood/internal/modkit/repokit"
	tgdom "chayfood/internal/services/tagger/domain"
	"chayfood/internal/services/tagger/guardrails"
)

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	panic("unexpected Exec")
}
func (fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	panic("unexpected Query")
}
func (fakeDB) QueryRow(context.Context, string, ...any) repokit.Row { panic("unexpected QueryRow") }
func (f fakeDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(f)
}

// fakeRepo records pipeline writes in memory
type fakeRepo struct {
	begun    []string
	finished []tgdom.FinishInfo

	totals  []tgdom.CustomerItemQty
	items   []tgdom.MenuItem
	baskets []tgdom.Basket

	seeds       map[string][2][]string // user -> [categories, items]
	staleUsers  map[string]bool        // users whose live record is fresher
	tags        map[string][]string
	suggestions map[string][]tgdom.Suggestion

	menuErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		seeds:       map[string][2][]string{},
		staleUsers:  map[string]bool{},
		tags:        map[string][]string{},
		suggestions: map[string][]tgdom.Suggestion{},
	}
}

func (f *fakeRepo) Begin(_ context.Context, runID string, _ time.Time) error {
	f.begun = append(f.begun, runID)
	return nil
}

func (f *fakeRepo) Finish(_ context.Context, _ string, fin tgdom.FinishInfo) error {
	f.finished = append(f.finished, fin)
	return nil
}

func (f *fakeRepo) Runs(context.Context, int) ([]tgdom.RunSummary, error) { return nil, nil }

func (f *fakeRepo) CustomerItemTotals(context.Context, time.Time) ([]tgdom.CustomerItemQty, error) {
	return f.totals, nil
}

func (f *fakeRepo) SeedPreference(
	_ context.Context, userID string, categories, items []string, _ time.Time,
) (bool, error) {
	if f.staleUsers[userID] {
		return false, nil
	}
	f.seeds[userID] = [2][]string{categories, items}
	return true, nil
}

func (f *fakeRepo) MenuItems(context.Context) ([]tgdom.MenuItem, error) {
	return f.items, f.menuErr
}

func (f *fakeRepo) TagOccasions(_ context.Context, itemID string, tags []string) error {
	f.tags[itemID] = tags
	return nil
}

func (f *fakeRepo) OrderBaskets(context.Context, time.Time) ([]tgdom.Basket, error) {
	return f.baskets, nil
}

func (f *fakeRepo) ReplaceSuggestions(_ context.Context, itemID string, pairs []tgdom.Suggestion) error {
	f.suggestions[itemID] = pairs
	return nil
}

func newTestSvc(r *fakeRepo) *Service {
	return New(
		fakeDB{},
		repokit.BindFunc[tgdom.StorageRepo](func(repokit.Queryer) tgdom.StorageRepo { return r }),
		Config{},
		nil,
	)
}

func TestRunOnce_FullPipelineBookkeeping(t *testing.T) {
	r := newFakeRepo()
	r.items = []tgdom.MenuItem{
		{ID: "pho", Category: "main", Calories: 350, Protein: 12, Fat: 5},
		{ID: "cake", Category: "dessert", Calories: 500, Protein: 4, Fat: 20},
	}
	r.totals = []tgdom.CustomerItemQty{
		{UserID: "u1", ItemID: "pho", Qty: 2},
		{UserID: "u1", ItemID: "cake", Qty: 1},
	}
	r.baskets = []tgdom.Basket{
		{OrderID: "o1", ItemIDs: []string{"pho", "cake"}},
		{OrderID: "o2", ItemIDs: []string{"pho"}},
	}

	svc := newTestSvc(r)
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(r.begun) != 1 || len(r.finished) != 1 {
		t.Fatalf("begun=%d finished=%d, want 1 and 1", len(r.begun), len(r.finished))
	}
	fin := r.finished[0]
	if fin.Status != "done" {
		t.Errorf("status = %q, want done (err %q)", fin.Status, fin.ErrText)
	}
	if fin.SeededPrefs != 1 || fin.TaggedItems != 2 || fin.PairedItems != 2 {
		t.Errorf("counts = %+v, want 1 seeded, 2 tagged, 2 paired", fin)
	}

	// seeding ranks by total quantity, pho ordered twice
	seed, ok := r.seeds["u1"]
	if !ok {
		t.Fatal("u1 not seeded")
	}
	if len(seed[1]) != 2 || seed[1][0] != "pho" {
		t.Errorf("seeded items = %v, want pho first", seed[1])
	}
	// categories derive from the top items in rank order
	if len(seed[0]) != 2 || seed[0][0] != "main" {
		t.Errorf("seeded categories = %v, want main first", seed[0])
	}

	// occasion tags derive from category and nutrition
	if got := r.tags["pho"]; len(got) != 2 {
		t.Errorf("pho tags = %v, want party and diet", got)
	}
	if got := r.tags["cake"]; len(got) != 2 {
		t.Errorf("cake tags = %v, want birthday and celebration", got)
	}

	// the one shared basket links pho and cake with score 1
	if got := r.suggestions["pho"]; len(got) != 1 || got[0].ItemID != "cake" || got[0].Score != 1 {
		t.Errorf("pho suggestions = %v", got)
	}
}

func TestRunOnce_FresherRecordIsSkippedNotOverwritten(t *testing.T) {
	r := newFakeRepo()
	r.items = []tgdom.MenuItem{{ID: "pho", Category: "main"}}
	r.totals = []tgdom.CustomerItemQty{
		{UserID: "fresh", ItemID: "pho", Qty: 1},
		{UserID: "stale", ItemID: "pho", Qty: 1},
	}
	r.staleUsers["fresh"] = true

	svc := newTestSvc(r)
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	fin := r.finished[0]
	if fin.SeededPrefs != 1 || fin.SkippedMore != 1 {
		t.Errorf("seeded=%d skipped=%d, want 1 and 1", fin.SeededPrefs, fin.SkippedMore)
	}
	if _, ok := r.seeds["fresh"]; ok {
		t.Error("fresh user's record overwritten")
	}
}

func TestRunOnce_StepFailurePreservesPriorCounts(t *testing.T) {
	r := newFakeRepo()
	r.totals = nil // seed step is a no-op
	r.menuErr = errors.New("menu query timed out")

	svc := newTestSvc(r)
	err := svc.RunOnce(context.Background())
	if err == nil {
		t.Fatal("RunOnce succeeded, want error")
	}

	if len(r.finished) != 1 {
		t.Fatalf("finished=%d, want bookkeeping even on failure", len(r.finished))
	}
	fin := r.finished[0]
	if fin.Status != "error" || fin.ErrText == "" {
		t.Errorf("finish = %+v, want error status with text", fin)
	}
	if len(r.suggestions) != 0 {
		t.Error("build step ran after tag failure")
	}
}

func TestRunOnce_HeldLeaseIsCleanSkip(t *testing.T) {
	r := newFakeRepo()
	svc := New(
		fakeDB{},
		repokit.BindFunc[tgdom.StorageRepo](func(repokit.Queryer) tgdom.StorageRepo { return r }),
		Config{EnableLeases: true},
		func(context.Context, func(context.Context) error) error { return guardrails.ErrLeaseHeld },
	)

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v, want clean skip", err)
	}
	if len(r.begun) != 0 {
		t.Error("run began under a held lease")
	}
}

func TestRunOnce_SuggestionsCapped(t *testing.T) {
	r := newFakeRepo()
	// hub co-occurs with twelve spokes
	for i := 0; i < 12; i++ {
		r.baskets = append(r.baskets, tgdom.Basket{
			OrderID: string(rune('a' + i)),
			ItemIDs: []string{"hub", string(rune('A' + i))},
		})
	}

	svc := newTestSvc(r)
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if got := len(r.suggestions["hub"]); got != 5 {
		t.Errorf("hub suggestions = %d, want capped at 5", got)
	}
}
