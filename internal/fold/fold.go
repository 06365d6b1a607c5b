// Package fold normalises free text before keyword matching: lower case,
// diacritics removed, runs of whitespace collapsed.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String returns s lower-cased with combining marks stripped, so that
// "Último Año" and "ultimo ano" compare equal.
func String(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Contains reports whether needle occurs in haystack after folding both.
func Contains(haystack, needle string) bool {
	return strings.Contains(String(haystack), String(needle))
}

// Equal reports whether a and b are equal after folding.
func Equal(a, b string) bool {
	return String(a) == String(b)
}
