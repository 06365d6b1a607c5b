package schema

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// VOCABULARY — Known values the interpreters recognise in free text
// ============================================================================
// Built in (Default), overridden from a file (Load) or discovered from the
// data (Discover). The local interpreter matches commands against it; the
// AI interpreter lists it in its prompt so both emit the same values.
// ============================================================================

// Vocabulary groups the recognisable values per FilterSet key.
type Vocabulary struct {
	Departments      []Term `json:"departamentos" mapstructure:"departamentos"`
	Cities           []Term `json:"ciudades" mapstructure:"ciudades"`
	DestinationTypes []Term `json:"tipos_destino" mapstructure:"tipos_destino"`
	Categories       []Term `json:"categorias" mapstructure:"categorias"`
	Currencies       []Term `json:"monedas" mapstructure:"monedas"`
	Tiers            []Term `json:"tipos_cliente" mapstructure:"tipos_cliente"`
}

// Term is one canonical value and the words that refer to it. The value
// itself always counts as an alias.
type Term struct {
	Value   string   `json:"value" mapstructure:"value"`
	Aliases []string `json:"aliases,omitempty" mapstructure:"aliases"`
}

// Match reports whether text mentions the term as a whole word. text must
// already be folded (see internal/fold). It returns the length of the
// longest alias that matched, 0 when none did.
func (t Term) Match(text string) int {
	best := 0
	for _, alias := range t.forms() {
		if len(alias) > best && containsWord(text, alias) {
			best = len(alias)
		}
	}
	return best
}

func (t Term) forms() []string {
	out := make([]string, 0, len(t.Aliases)+1)
	if v := fold.String(t.Value); v != "" {
		out = append(out, v)
	}
	for _, a := range t.Aliases {
		if a = fold.String(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Lookup returns the value of the term whose longest matching alias is the
// longest in terms. Ties go to the earlier term.
func Lookup(terms []Term, text string) (string, bool) {
	value, best := "", 0
	for _, t := range terms {
		if n := t.Match(text); n > best {
			value, best = t.Value, n
		}
	}
	return value, best > 0
}

// Canonical maps any alias or differently-cased value to the term value.
func Canonical(terms []Term, s string) (string, bool) {
	key := fold.String(s)
	if key == "" {
		return "", false
	}
	for _, t := range terms {
		for _, form := range t.forms() {
			if form == key {
				return t.Value, true
			}
		}
	}
	return "", false
}

// Values returns the canonical values of terms.
func Values(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Value
	}
	return out
}

// Merge returns v extended with other. Terms with the same folded value are
// combined and their aliases unioned; new terms are appended in order.
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	return Vocabulary{
		Departments:      mergeTerms(v.Departments, other.Departments),
		Cities:           mergeTerms(v.Cities, other.Cities),
		DestinationTypes: mergeTerms(v.DestinationTypes, other.DestinationTypes),
		Categories:       mergeTerms(v.Categories, other.Categories),
		Currencies:       mergeTerms(v.Currencies, other.Currencies),
		Tiers:            mergeTerms(v.Tiers, other.Tiers),
	}
}

func mergeTerms(base, extra []Term) []Term {
	out := make([]Term, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))
	add := func(t Term) {
		key := fold.String(t.Value)
		if key == "" {
			return
		}
		if i, ok := index[key]; ok {
			out[i].Aliases = unionAliases(out[i].Aliases, t.Aliases)
			return
		}
		index[key] = len(out)
		out = append(out, Term{Value: t.Value, Aliases: unionAliases(nil, t.Aliases)})
	}
	for _, t := range base {
		add(t)
	}
	for _, t := range extra {
		add(t)
	}
	return out
}

func unionAliases(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, alias := range list {
			key := fold.String(alias)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, alias)
		}
	}
	return out
}

// Sorted returns a copy of terms ordered by value.
func Sorted(terms []Term) []Term {
	out := append([]Term(nil), terms...)
	sort.SliceStable(out, func(i, j int) bool { return fold.String(out[i].Value) < fold.String(out[j].Value) })
	return out
}

// ============================================================================
// WORD MATCHING
// ============================================================================

// containsWord reports whether word occurs in text with a non-alphanumeric
// rune (or the text edge) on both sides.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; from <= len(text)-len(word); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(word)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		from = i + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
