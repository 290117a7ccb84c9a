// Package cooccur builds item co-occurrence counts from order item lists
// and projects them into ranked recommendation lists.
//
// The matrix is a pure function of the order history handed to Build: there
// is no shared state across runs, so a batch recomputation is safely
// re-runnable and independently testable
package cooccur

import "sort"

// Ranked is one co-occurring item with its count
type Ranked struct {
	ItemID string
	Count  int
}

// Matrix holds directed co-occurrence counts, item -> co-item -> count
type Matrix struct {
	counts map[string]map[string]int
}

// NewMatrix returns an empty matrix
func NewMatrix() *Matrix {
	return &Matrix{counts: make(map[string]map[string]int)}
}

// Observe records one order's distinct item list. Every unordered pair of
// distinct items contributes both directed increments, so an order with k
// distinct items adds k*(k-1) increments. Presence based: quantities and
// duplicates within the list are ignored
func (m *Matrix) Observe(items []string) {
	distinct := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, id := range items {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	for _, a := range distinct {
		for _, b := range distinct {
			if a == b {
				continue
			}
			row := m.counts[a]
			if row == nil {
				row = make(map[string]int)
				m.counts[a] = row
			}
			row[b]++
		}
	}
}

// Top returns up to n co-items for item, by count descending,
// ties broken by ascending item id. Returns nil when item has no
// recorded co-occurrence
func (m *Matrix) Top(item string, n int) []Ranked {
	row := m.counts[item]
	if len(row) == 0 || n <= 0 {
		return nil
	}
	out := make([]Ranked, 0, len(row))
	for id, c := range row {
		out = append(out, Ranked{ItemID: id, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ItemID < out[j].ItemID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Items returns every item with at least one recorded co-occurrence
func (m *Matrix) Items() []string {
	out := make([]string, 0, len(m.counts))
	for id := range m.counts {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Count returns the directed count for (item, coItem)
func (m *Matrix) Count(item, coItem string) int {
	return m.counts[item][coItem]
}

// Build folds a whole order history into a fresh matrix
func Build(orders [][]string) *Matrix {
	m := NewMatrix()
	for _, items := range orders {
		m.Observe(items)
	}
	return m
}
