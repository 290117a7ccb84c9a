// Package service provides the tagger pipeline implementation
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"chayfood/internal/core/cooccur"
	"chayfood/internal/core/occasion"
	"chayfood/internal/modkit/repokit"
	"chayfood/internal/platform/logger"
	tgdom "chayfood/internal/services/tagger/domain"
	"chayfood/internal/services/tagger/guardrails"
)

// Seed output sizes, see the preference record caps for the online side
const (
	seedTopItems      = 5
	seedTopCategories = 3
)

// Config controls lookback and output size for a run
type Config struct {
	// Lookback bounds the order history scanned for seeding and pairing
	// zero scans the full history
	Lookback time.Duration

	// MaxSuggestions caps recommended pairings persisted per item
	MaxSuggestions int

	// EnableLeases uses the shared advisory lease (optional)
	EnableLeases bool
}

// Service wires TxRunner + Binder into the pipeline operations
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[tgdom.StorageRepo]
	Cfg    Config

	// Lease(ctx, do) should take the run-scoped advisory lock and run do()
	Lease func(ctx context.Context, do func(context.Context) error) error

	// now is a seam for tests
	now func() time.Time
}

// New constructs the tagger service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[tgdom.StorageRepo],
	cfg Config,
	lease func(context.Context, func(context.Context) error) error,
) *Service {
	if db == nil {
		panic("tagger.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("tagger.Service requires a non nil Repo binder")
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 5
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg, Lease: lease, now: time.Now}
}

// RunOnce executes one full pipeline run under the advisory lease
func (s *Service) RunOnce(ctx context.Context) error {
	l := logger.C(ctx).With().Str("mod", "tagger").Logger()

	run := func(ctx context.Context) error {
		return s.runUnlocked(ctx)
	}

	if s.Lease != nil && s.Cfg.EnableLeases {
		if err := s.Lease(ctx, run); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// another worker has the lease, clean skip
			if errors.Is(err, guardrails.ErrLeaseHeld) {
				l.Debug().Msg("tagger: lease not acquired; clean skip")
				return nil
			}
			l.Error().Err(err).Msg("tagger: run failed")
			return err
		}
		return nil
	}

	// single process / tests
	return run(ctx)
}

func (s *Service) runUnlocked(ctx context.Context) (retErr error) {
	runID := uuid.NewString()
	start := s.now().UTC()
	since := time.Time{}
	if s.Cfg.Lookback > 0 {
		since = start.Add(-s.Cfg.Lookback)
	}
	l := logger.C(ctx).With().Str("mod", "tagger").Str("run_id", runID).Logger()
	l.Info().Time("since", since).Msg("tagger: run start")

	if err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Begin(ctx, runID, start)
	}); err != nil {
		return err
	}

	var fin tgdom.FinishInfo

	// always record finish, even on error
	defer func() {
		fin.Status = "done"
		if retErr != nil {
			fin.Status = "error"
			fin.ErrText = retErr.Error()
		}
		fin.TotalMS = int(time.Since(start).Milliseconds())
		_ = s.DB.Tx(context.WithoutCancel(ctx), func(q repokit.Queryer) error {
			return s.Binder.Bind(q).Finish(context.WithoutCancel(ctx), runID, fin)
		})
		l.Info().
			Str("status", fin.Status).
			Int("seeded", fin.SeededPrefs).
			Int("tagged", fin.TaggedItems).
			Int("paired", fin.PairedItems).
			Int("total_ms", fin.TotalMS).
			Msg("tagger: run finished")
	}()

	// step one, seed preferences from order history
	{
		t0 := time.Now()
		err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
			seeded, skipped, e := s.seedPreferences(ctx, s.Binder.Bind(q), since, start)
			fin.SeededPrefs, fin.SkippedMore = seeded, skipped
			return e
		})
		fin.SeedMS = int(time.Since(t0).Milliseconds())
		if err != nil {
			retErr = err
			return retErr
		}
	}

	// step two, derive occasion tags from category and nutrition
	{
		t1 := time.Now()
		err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
			n, e := s.tagOccasions(ctx, s.Binder.Bind(q))
			fin.TaggedItems = n
			return e
		})
		fin.TagMS = int(time.Since(t1).Milliseconds())
		if err != nil {
			retErr = err
			return retErr
		}
	}

	// step three, rebuild co-occurrence pairings
	{
		t2 := time.Now()
		err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
			n, e := s.buildSuggestions(ctx, s.Binder.Bind(q), since)
			fin.PairedItems = n
			return e
		})
		fin.BuildMS = int(time.Since(t2).Milliseconds())
		if err != nil {
			retErr = err
			return retErr
		}
	}

	return nil
}

// LastRuns returns recent bookkeeping rows, newest first
func (s *Service) LastRuns(ctx context.Context, limit int) ([]tgdom.RunSummary, error) {
	return s.Binder.Bind(s.DB).Runs(ctx, limit)
}

func (s *Service) seedPreferences(
	ctx context.Context,
	repo tgdom.StorageRepo,
	since, runStart time.Time,
) (seeded, skipped int, err error) {
	totals, err := repo.CustomerItemTotals(ctx, since)
	if err != nil {
		return 0, 0, err
	}
	if len(totals) == 0 {
		return 0, 0, nil
	}

	cats := map[string]string{}
	items, err := repo.MenuItems(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, m := range items {
		cats[m.ID] = m.Category
	}

	byUser := map[string]map[string]int{}
	for _, t := range totals {
		if byUser[t.UserID] == nil {
			byUser[t.UserID] = map[string]int{}
		}
		byUser[t.UserID][t.ItemID] += t.Qty
	}

	users := make([]string, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, u := range users {
		topItems := topKeys(byUser[u], seedTopItems)
		// categories derive from the top items, in rank order
		var topCats []string
		for _, id := range topItems {
			c := cats[id]
			if c == "" || contains(topCats, c) {
				continue
			}
			topCats = append(topCats, c)
			if len(topCats) == seedTopCategories {
				break
			}
		}
		wrote, err := repo.SeedPreference(ctx, u, topCats, topItems, runStart)
		if err != nil {
			return seeded, skipped, err
		}
		if wrote {
			seeded++
		} else {
			skipped++
		}
	}
	return seeded, skipped, nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func (s *Service) tagOccasions(ctx context.Context, repo tgdom.StorageRepo) (int, error) {
	items, err := repo.MenuItems(ctx)
	if err != nil {
		return 0, err
	}
	tagged := 0
	for _, m := range items {
		tags := occasion.Derive(m.Category, float64(m.Calories), float64(m.Protein), float64(m.Fat))
		if err := repo.TagOccasions(ctx, m.ID, tags); err != nil {
			return tagged, err
		}
		tagged++
	}
	return tagged, nil
}

func (s *Service) buildSuggestions(ctx context.Context, repo tgdom.StorageRepo, since time.Time) (int, error) {
	baskets, err := repo.OrderBaskets(ctx, since)
	if err != nil {
		return 0, err
	}
	m := cooccur.NewMatrix()
	for _, b := range baskets {
		m.Observe(b.ItemIDs)
	}

	paired := 0
	for _, itemID := range m.Items() {
		top := m.Top(itemID, s.Cfg.MaxSuggestions)
		pairs := make([]tgdom.Suggestion, 0, len(top))
		for _, r := range top {
			pairs = append(pairs, tgdom.Suggestion{ItemID: r.ItemID, Score: r.Count})
		}
		if err := repo.ReplaceSuggestions(ctx, itemID, pairs); err != nil {
			return paired, err
		}
		paired++
	}
	return paired, nil
}

// topKeys ranks map keys by count desc then key asc and keeps the first n
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
