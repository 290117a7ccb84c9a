package cooccur

import "testing"

func TestBuild_RanksByCountThenID(t *testing.T) {
	m := Build([][]string{
		{"A", "B"},
		{"A", "C"},
		{"A", "B"},
	})

	top := m.Top("A", 5)
	if len(top) != 2 {
		t.Fatalf("expected 2 co-items for A, got %d", len(top))
	}
	if top[0].ItemID != "B" || top[0].Count != 2 {
		t.Fatalf("expected B with count 2 first, got %+v", top[0])
	}
	if top[1].ItemID != "C" || top[1].Count != 1 {
		t.Fatalf("expected C with count 1 second, got %+v", top[1])
	}

	if got := m.Count("B", "A"); got != 2 {
		t.Fatalf("expected symmetric count B->A == 2, got %d", got)
	}
}

func TestObserve_PairwiseIncrements(t *testing.T) {
	m := NewMatrix()
	m.Observe([]string{"x", "y", "z"})

	// k distinct items contribute k*(k-1) directed increments
	total := 0
	for _, a := range m.Items() {
		for _, b := range m.Items() {
			total += m.Count(a, b)
		}
	}
	if total != 6 {
		t.Fatalf("expected 6 directed increments for a 3-item order, got %d", total)
	}
}

func TestObserve_IgnoresDuplicatesAndBlanks(t *testing.T) {
	m := NewMatrix()
	m.Observe([]string{"x", "x", "", "y"})

	if got := m.Count("x", "y"); got != 1 {
		t.Fatalf("duplicate item ids should not inflate counts, got %d", got)
	}
	if got := m.Count("x", "x"); got != 0 {
		t.Fatalf("self pairs must not be counted, got %d", got)
	}
}

func TestTop_TieBreaksAscendingID(t *testing.T) {
	m := Build([][]string{
		{"A", "D"},
		{"A", "B"},
		{"A", "C"},
	})
	top := m.Top("A", 2)
	if len(top) != 2 || top[0].ItemID != "B" || top[1].ItemID != "C" {
		t.Fatalf("expected [B C] on equal counts, got %+v", top)
	}
}

func TestTop_SingleItemOrderHasNoPairs(t *testing.T) {
	m := Build([][]string{{"solo"}})
	if got := m.Top("solo", 5); got != nil {
		t.Fatalf("expected no co-items for single-item order, got %+v", got)
	}
	if items := m.Items(); len(items) != 0 {
		t.Fatalf("expected empty matrix, got %+v", items)
	}
}
