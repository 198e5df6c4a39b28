package ident

import (
	"strings"
	"sync"
	"testing"

	"github.com/pyroplan/siteplan/pkg/core"
)

func TestNextID_Unique(t *testing.T) {
	g := New()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.NextID(core.CategoryFirework)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNextID_CategoryPrefix(t *testing.T) {
	g := New()

	for _, cat := range core.Categories {
		id := g.NextID(cat)
		if !strings.HasPrefix(id, string(cat)+"-") {
			t.Errorf("expected %q prefix on %q", cat, id)
		}
	}
}

func TestNextID_UniqueAcrossSessions(t *testing.T) {
	// Two generators simulate two sessions whose plans get merged.
	a := New()
	b := New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		for _, id := range []string{a.NextID(core.CategoryCustom), b.NextID(core.CategoryCustom)} {
			if seen[id] {
				t.Fatalf("cross-session duplicate id %q", id)
			}
			seen[id] = true
		}
	}
}

func TestNextID_Concurrent(t *testing.T) {
	g := New()

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				id := g.NextID(core.CategoryFirework)
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 1000 {
		t.Errorf("expected 1000 unique ids, got %d", len(seen))
	}
}

func TestNextNumber_StrictlyIncreasing(t *testing.T) {
	g := New()

	prev := 0
	for i := 0; i < 100; i++ {
		n := g.NextNumber()
		if n <= prev {
			t.Fatalf("number %d not greater than previous %d", n, prev)
		}
		prev = n
	}
	if g.LastNumber() != prev {
		t.Errorf("LastNumber=%d, expected %d", g.LastNumber(), prev)
	}
}

func TestRenumberAll_CategoryThenCreationOrder(t *testing.T) {
	g := New()

	// Interleaved creation across categories, with gaps from removals.
	records := []Numbered{
		{ID: "m1", Category: core.CategoryMeasurement, Number: 2},
		{ID: "f1", Category: core.CategoryFirework, Number: 1},
		{ID: "f2", Category: core.CategoryFirework, Number: 5},
		{ID: "c1", Category: core.CategoryCustom, Number: 3},
		{ID: "r1", Category: core.CategoryRestricted, Number: 7},
	}

	assigned := g.RenumberAll(records)

	want := map[string]int{
		"f1": 1, // fireworks first, creation order
		"f2": 2,
		"c1": 3, // then custom
		"m1": 4, // then measurement
		"r1": 5, // then restricted
	}
	for id, n := range want {
		if assigned[id] != n {
			t.Errorf("%s: expected %d, got %d", id, n, assigned[id])
		}
	}
}

func TestRenumberAll_AdvancesSequence(t *testing.T) {
	g := New()

	records := []Numbered{
		{ID: "a", Category: core.CategoryFirework, Number: 1},
		{ID: "b", Category: core.CategoryFirework, Number: 2},
		{ID: "c", Category: core.CategoryFirework, Number: 3},
	}
	g.RenumberAll(records)

	if n := g.NextNumber(); n != 4 {
		t.Errorf("expected next number 4 after renumbering 3 records, got %d", n)
	}
}

func TestRenumberAll_NeverRegressesSequence(t *testing.T) {
	g := New()
	for i := 0; i < 10; i++ {
		g.NextNumber()
	}

	// Renumbering a smaller set must not hand out numbers already used.
	g.RenumberAll([]Numbered{{ID: "a", Category: core.CategoryFirework, Number: 4}})

	if n := g.NextNumber(); n != 11 {
		t.Errorf("expected next number 11, got %d", n)
	}
}

func TestRenumberAll_Empty(t *testing.T) {
	g := New()
	assigned := g.RenumberAll(nil)
	if len(assigned) != 0 {
		t.Errorf("expected empty assignment, got %v", assigned)
	}
	if n := g.NextNumber(); n != 1 {
		t.Errorf("expected next number 1, got %d", n)
	}
}
