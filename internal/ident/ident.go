// Package ident issues annotation identifiers and display numbers for one
// planning session. IDs combine a session-scoped random salt with a
// monotonic in-process sequence, so rapid successive calls can never
// collide the way wall-clock-based schemes can.
package ident

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pyroplan/siteplan/pkg/core"
)

// Generator produces unique IDs and strictly increasing display numbers.
// The zero value is not usable; call New.
type Generator struct {
	salt   string
	seq    atomic.Uint64
	number atomic.Int64
}

// New creates a Generator with a fresh session salt.
func New() *Generator {
	return &Generator{
		// First UUID group is plenty of entropy to keep IDs from two
		// sessions apart when plans are merged via share links.
		salt: strings.SplitN(uuid.NewString(), "-", 2)[0],
	}
}

// NextID returns a unique identifier for a new record of the given
// category. It never fails and never repeats within or across sessions.
func (g *Generator) NextID(cat core.Category) string {
	return fmt.Sprintf("%s-%s-%d", cat, g.salt, g.seq.Add(1))
}

// NextNumber returns a display number strictly greater than every number
// issued before it in this session. Freed numbers are never reused.
func (g *Generator) NextNumber() int {
	return int(g.number.Add(1))
}

// LastNumber returns the highest number issued so far (0 if none).
func (g *Generator) LastNumber() int {
	return int(g.number.Load())
}

// Numbered is the slice of records RenumberAll reorders. Records sort by
// category display order first, then by their current number, which tracks
// creation order because numbers only ever increase.
type Numbered struct {
	ID       string
	Category core.Category
	Number   int
}

// RenumberAll assigns consecutive numbers 1..N over the given records and
// returns the new number keyed by record ID. The generator's number
// sequence is advanced past N so later adds stay strictly increasing.
func (g *Generator) RenumberAll(records []Numbered) map[string]int {
	order := make(map[core.Category]int, len(core.Categories))
	for i, cat := range core.Categories {
		order[cat] = i
	}

	sorted := make([]Numbered, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order[sorted[i].Category] != order[sorted[j].Category] {
			return order[sorted[i].Category] < order[sorted[j].Category]
		}
		return sorted[i].Number < sorted[j].Number
	})

	assigned := make(map[string]int, len(sorted))
	for i, rec := range sorted {
		assigned[rec.ID] = i + 1
	}

	for {
		cur := g.number.Load()
		if cur >= int64(len(sorted)) {
			break
		}
		if g.number.CompareAndSwap(cur, int64(len(sorted))) {
			break
		}
	}
	return assigned
}
