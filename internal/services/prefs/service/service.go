// Package service contains preference tracking workflows
package service

import (
	"context"
	"sync"

	"chayfood/internal/modkit/repokit"
	"chayfood/internal/services/prefs/domain"
	"chayfood/internal/services/prefs/repo"
)

// Service defines the preference service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the preference service
type Svc struct {
	binder  repokit.Binder[repo.Repo]
	catalog repokit.Binder[domain.CatalogPort]
	db      repokit.TxRunner

	// per-user serialization so concurrent events cannot lose list updates
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs a preference service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], catalog repokit.Binder[domain.CatalogPort]) *Svc {
	if db == nil {
		panic("prefs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("prefs.Service requires a non nil Repo binder")
	}
	if catalog == nil {
		panic("prefs.Service requires a non nil Catalog binder")
	}
	return &Svc{binder: binder, catalog: catalog, db: db, locks: map[string]*sync.Mutex{}}
}

func (s *Svc) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// OnItemViewed records a menu item view in the customer's rolling history
// and folds the item's category into favorite categories
func (s *Svc) OnItemViewed(ctx context.Context, ev domain.ViewEvent) error {
	l := s.userLock(ev.UserID)
	l.Lock()
	defer l.Unlock()

	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		pref, _, err := r.Get(ctx, ev.UserID)
		if err != nil {
			return err
		}
		pref.LastViewed = pushRecent(pref.LastViewed, ev.ItemID, domain.MaxLastViewed)

		cats, err := s.catalog.Bind(q).ItemCategories(ctx, []string{ev.ItemID})
		if err != nil {
			return err
		}
		if cat := cats[ev.ItemID]; cat != "" {
			pref.FavoriteCategories = appendCapped(pref.FavoriteCategories, cat, domain.MaxFavoriteCategories)
		}
		return r.Upsert(ctx, pref)
	})
}

// OnOrderPlaced folds a placed order's line items into favorite items
func (s *Svc) OnOrderPlaced(ctx context.Context, ev domain.OrderEvent) error {
	l := s.userLock(ev.UserID)
	l.Lock()
	defer l.Unlock()

	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		pref, _, err := r.Get(ctx, ev.UserID)
		if err != nil {
			return err
		}
		for _, id := range ev.ItemIDs {
			if id == "" {
				continue
			}
			pref.FavoriteItems = appendCapped(pref.FavoriteItems, id, domain.MaxFavoriteItems)
		}
		return r.Upsert(ctx, pref)
	})
}

// Get returns the customer's current preference record
// a customer with no events yet gets a zero profile, not an error
func (s *Svc) Get(ctx context.Context, userID string) (domain.UserPreference, error) {
	pref, _, err := s.binder.Bind(s.db).Get(ctx, userID)
	return pref, err
}

// pushRecent moves v to the front of a most-recent-first unique list
func pushRecent(list []string, v string, limit int) []string {
	if v == "" {
		return list
	}
	out := make([]string, 0, limit)
	out = append(out, v)
	for _, x := range list {
		if x == v {
			continue
		}
		out = append(out, x)
		if len(out) == limit {
			break
		}
	}
	return out
}

// appendCapped appends v if absent, evicting the oldest entry when full
func appendCapped(list []string, v string, limit int) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	list = append(list, v)
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}
