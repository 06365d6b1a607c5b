package schema

import (
	"sort"
	"strings"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// AUTO-DISCOVERY — Vocabulary from the data itself
// ============================================================================
// Collects the attribute values that actually occur in a Dataset so the
// interpreters recognise places and categories the built-in list lacks.
//
// Pipeline per attribute:
//   1. Read the value from every package and service
//   2. Trim, drop empty and placeholder values ("N/A", "null", "-")
//   3. Deduplicate by folded form, keeping the first spelling seen
//   4. Sort for deterministic output
//
// Currencies and tiers are fixed sets and are never discovered.
// ============================================================================

// Discover returns the departments, cities, destination types and service
// categories present in ds. Merge it over Default() for the effective
// vocabulary.
func Discover(ds *engine.Dataset) Vocabulary {
	if ds == nil {
		return Vocabulary{}
	}

	depts := newCollector()
	cities := newCollector()
	dests := newCollector()
	cats := newCollector()

	for _, p := range ds.Packages() {
		depts.add(p.Department)
		cities.add(p.City)
		dests.add(p.DestinationType)
	}
	for _, s := range ds.Services() {
		depts.add(s.Department)
		cities.add(s.City)
		cats.add(s.Category)
	}

	return Vocabulary{
		Departments:      depts.terms(),
		Cities:           cities.terms(),
		DestinationTypes: dests.terms(),
		Categories:       cats.terms(),
	}
}

// collector keeps the first spelling of each folded value.
type collector struct {
	seen   map[string]bool
	values []string
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) add(raw string) {
	val := strings.TrimSpace(raw)
	if isPlaceholder(val) {
		return
	}
	key := fold.String(val)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.values = append(c.values, val)
}

func (c *collector) terms() []Term {
	sort.Slice(c.values, func(i, j int) bool { return fold.String(c.values[i]) < fold.String(c.values[j]) })
	out := make([]Term, len(c.values))
	for i, v := range c.values {
		out[i] = Term{Value: v}
	}
	return out
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "n/a", "na", "-", "none":
		return true
	}
	return false
}
