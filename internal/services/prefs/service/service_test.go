package service

import (
	"context"
	"fmt"
	"testing"

	"chayfood/internal/modkit/repokit"
	"chayfood/internal/services/prefs/domain"
	"chayfood/internal/services/prefs/repo"
)

// fakeDB satisfies repokit.TxRunner without touching a real database
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

// memRepo keeps preference records in a map shared across binds
type memRepo struct {
	recs map[string]domain.UserPreference
}

func (m *memRepo) Get(_ context.Context, userID string) (domain.UserPreference, bool, error) {
	p, ok := m.recs[userID]
	if !ok {
		return domain.UserPreference{UserID: userID}, false, nil
	}
	return p, true, nil
}

func (m *memRepo) Upsert(_ context.Context, pref domain.UserPreference) error {
	m.recs[pref.UserID] = pref
	return nil
}

type memCatalog struct {
	cats map[string]string
}

func (m *memCatalog) ItemCategories(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if c, ok := m.cats[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func newTestSvc(cats map[string]string) (*Svc, *memRepo) {
	mr := &memRepo{recs: map[string]domain.UserPreference{}}
	mc := &memCatalog{cats: cats}
	svc := New(
		fakeDB{},
		repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return mr }),
		repokit.BindFunc[domain.CatalogPort](func(repokit.Queryer) domain.CatalogPort { return mc }),
	)
	return svc, mr
}

func TestOnItemViewed_MostRecentFirstUniqueCapped(t *testing.T) {
	svc, _ := newTestSvc(nil)
	ctx := context.Background()

	for i := range 12 {
		ev := domain.ViewEvent{UserID: "u1", ItemID: fmt.Sprintf("item-%d", i)}
		if err := svc.OnItemViewed(ctx, ev); err != nil {
			t.Fatalf("OnItemViewed: %v", err)
		}
	}
	// re-view an item already in the list
	if err := svc.OnItemViewed(ctx, domain.ViewEvent{UserID: "u1", ItemID: "item-5"}); err != nil {
		t.Fatalf("OnItemViewed: %v", err)
	}

	pref, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(pref.LastViewed) != domain.MaxLastViewed {
		t.Fatalf("LastViewed len = %d, want %d", len(pref.LastViewed), domain.MaxLastViewed)
	}
	if pref.LastViewed[0] != "item-5" {
		t.Errorf("LastViewed[0] = %q, want item-5", pref.LastViewed[0])
	}
	seen := map[string]bool{}
	for _, id := range pref.LastViewed {
		if seen[id] {
			t.Errorf("duplicate id %q in LastViewed", id)
		}
		seen[id] = true
	}
	// oldest entries rolled off
	if seen["item-0"] || seen["item-1"] {
		t.Errorf("stale entries survived the cap: %v", pref.LastViewed)
	}
}

func TestOnItemViewed_CategoriesKeepThreeMostRecent(t *testing.T) {
	cats := map[string]string{
		"pho":   "noodle",
		"salad": "salad",
		"cake":  "dessert",
		"rice":  "rice",
	}
	svc, _ := newTestSvc(cats)
	ctx := context.Background()

	for _, id := range []string{"pho", "salad", "cake", "rice"} {
		ev := domain.ViewEvent{UserID: "u1", ItemID: id}
		if err := svc.OnItemViewed(ctx, ev); err != nil {
			t.Fatalf("OnItemViewed(%s): %v", id, err)
		}
	}

	pref, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []string{"salad", "dessert", "rice"}
	if len(pref.FavoriteCategories) != len(want) {
		t.Fatalf("FavoriteCategories = %v, want %v", pref.FavoriteCategories, want)
	}
	for i, c := range want {
		if pref.FavoriteCategories[i] != c {
			t.Errorf("FavoriteCategories[%d] = %q, want %q", i, pref.FavoriteCategories[i], c)
		}
	}
}

func TestOnItemViewed_RepeatCategoryDoesNotDuplicate(t *testing.T) {
	cats := map[string]string{"pho": "noodle", "bun": "noodle"}
	svc, _ := newTestSvc(cats)
	ctx := context.Background()

	for _, id := range []string{"pho", "bun"} {
		if err := svc.OnItemViewed(ctx, domain.ViewEvent{UserID: "u1", ItemID: id}); err != nil {
			t.Fatalf("OnItemViewed: %v", err)
		}
	}

	pref, _ := svc.Get(ctx, "u1")
	if len(pref.FavoriteCategories) != 1 || pref.FavoriteCategories[0] != "noodle" {
		t.Errorf("FavoriteCategories = %v, want [noodle]", pref.FavoriteCategories)
	}
	if len(pref.LastViewed) != 2 {
		t.Errorf("LastViewed = %v, want two items", pref.LastViewed)
	}
}

func TestOnOrderPlaced_FavoriteItemsCappedAtTen(t *testing.T) {
	cats := map[string]string{}
	ids := make([]string, 0, 12)
	for i := range 12 {
		id := fmt.Sprintf("item-%d", i)
		ids = append(ids, id)
		cats[id] = "main"
	}
	svc, _ := newTestSvc(cats)
	ctx := context.Background()

	if err := svc.OnOrderPlaced(ctx, domain.OrderEvent{UserID: "u1", ItemIDs: ids}); err != nil {
		t.Fatalf("OnOrderPlaced: %v", err)
	}

	pref, _ := svc.Get(ctx, "u1")
	if len(pref.FavoriteItems) != domain.MaxFavoriteItems {
		t.Fatalf("FavoriteItems len = %d, want %d", len(pref.FavoriteItems), domain.MaxFavoriteItems)
	}
	// the two oldest items rolled off
	if pref.FavoriteItems[0] != "item-2" {
		t.Errorf("FavoriteItems[0] = %q, want item-2", pref.FavoriteItems[0])
	}
}

func TestOnOrderPlaced_DoesNotTouchCategoriesOrViews(t *testing.T) {
	svc, _ := newTestSvc(map[string]string{"pho": "noodle"})
	ctx := context.Background()

	ev := domain.OrderEvent{UserID: "u1", ItemIDs: []string{"pho", "ghost-item"}}
	if err := svc.OnOrderPlaced(ctx, ev); err != nil {
		t.Fatalf("OnOrderPlaced: %v", err)
	}

	pref, _ := svc.Get(ctx, "u1")
	// ids become favorites whether or not the catalog knows them
	if len(pref.FavoriteItems) != 2 {
		t.Errorf("FavoriteItems = %v, want both ids", pref.FavoriteItems)
	}
	if len(pref.FavoriteCategories) != 0 || len(pref.LastViewed) != 0 {
		t.Errorf("order event leaked into categories/views: %+v", pref)
	}
}

func TestGet_UnknownUserReturnsZeroProfile(t *testing.T) {
	svc, _ := newTestSvc(nil)

	pref, err := svc.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if pref.UserID != "nobody" {
		t.Errorf("UserID = %q, want nobody", pref.UserID)
	}
	if len(pref.FavoriteCategories)+len(pref.FavoriteItems)+len(pref.LastViewed) != 0 {
		t.Errorf("expected empty lists, got %+v", pref)
	}
}
