package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// VOCABULARY TESTS
// ============================================================================
// Tests cover:
//   1. Whole-word alias matching on folded text
//   2. Longest alias wins across terms
//   3. Canonicalisation of aliases and spellings
//   4. Merge semantics (dedupe, alias union, order)
//   5. Loading an override file with viper
// ============================================================================

func TestTermMatchWholeWords(t *testing.T) {
	term := Term{Value: "La Paz", Aliases: []string{"lpz"}}

	assert.Equal(t, 6, term.Match(fold.String("ventas de La Paz en excel")))
	assert.Equal(t, 3, term.Match("reporte lpz"))
	assert.Equal(t, 0, term.Match("reporte lapazeño"))
	assert.Equal(t, 0, term.Match("la pazz"))
	assert.Equal(t, 0, term.Match(""))
}

func TestTermMatchAccents(t *testing.T) {
	term := Term{Value: "Potosí"}
	assert.Positive(t, term.Match(fold.String("paquetes en POTOSÍ")))
	assert.Positive(t, term.Match(fold.String("paquetes en potosi")))
}

func TestLookupPrefersLongestAlias(t *testing.T) {
	cities := []Term{
		{Value: "Santa Cruz"},
		{Value: "Santa Cruz de la Sierra"},
	}
	got, ok := Lookup(cities, "tours en santa cruz de la sierra")
	require.True(t, ok)
	assert.Equal(t, "Santa Cruz de la Sierra", got)

	got, ok = Lookup(cities, "tours en santa cruz")
	require.True(t, ok)
	assert.Equal(t, "Santa Cruz", got)

	_, ok = Lookup(cities, "tours en oruro")
	assert.False(t, ok)
}

func TestDefaultDepartments(t *testing.T) {
	vocab := Default()
	require.Len(t, vocab.Departments, 9)

	tests := map[string]string{
		"reservas de cochabamba":  "Cochabamba",
		"ventas en cbba":          "Cochabamba",
		"paquetes de potosi":      "Potosí",
		"clientes de santa cruz":  "Santa Cruz",
		"reporte scz del mes":     "Santa Cruz",
		"ventas lapaz":            "La Paz",
		"reservas en chuquisaca":  "Chuquisaca",
		"servicios del beni vip":  "Beni",
	}
	for text, want := range tests {
		got, ok := Lookup(vocab.Departments, fold.String(text))
		assert.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}

	_, ok := Lookup(vocab.Departments, "paz y amor")
	assert.False(t, ok)
}

func TestCanonical(t *testing.T) {
	vocab := Default()

	got, ok := Canonical(vocab.Departments, "POTOSI")
	assert.True(t, ok)
	assert.Equal(t, "Potosí", got)

	got, ok = Canonical(vocab.Currencies, "bolivianos")
	assert.True(t, ok)
	assert.Equal(t, "BOB", got)

	_, ok = Canonical(vocab.Departments, "Lima")
	assert.False(t, ok)
	_, ok = Canonical(vocab.Departments, "  ")
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	base := Vocabulary{
		Departments: []Term{{Value: "La Paz", Aliases: []string{"lpz"}}},
		Categories:  []Term{{Value: "Cultural"}},
	}
	extra := Vocabulary{
		Departments: []Term{
			{Value: "la paz", Aliases: []string{"LPZ", "chukiyawu"}},
			{Value: "Oruro"},
			{Value: ""},
		},
	}
	merged := base.Merge(extra)

	require.Len(t, merged.Departments, 2)
	assert.Equal(t, "La Paz", merged.Departments[0].Value)
	assert.Equal(t, []string{"lpz", "chukiyawu"}, merged.Departments[0].Aliases)
	assert.Equal(t, "Oruro", merged.Departments[1].Value)
	assert.Equal(t, []string{"Cultural"}, Values(merged.Categories))

	// Inputs are not modified
	assert.Equal(t, []string{"lpz"}, base.Departments[0].Aliases)
}

func TestSorted(t *testing.T) {
	terms := []Term{{Value: "Uyuni"}, {Value: "Écija"}, {Value: "Coroico"}}
	assert.Equal(t, []string{"Coroico", "Écija", "Uyuni"}, Values(Sorted(terms)))
	assert.Equal(t, "Uyuni", terms[0].Value)
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	vocab, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), vocab)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulario.yaml")
	content := `
departamentos:
  - value: La Paz
    aliases: [chukiyawu]
ciudades:
  - value: Tiwanaku
    aliases: [tiahuanaco]
categorias:
  - value: Ecoturismo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	vocab, err := Load(path)
	require.NoError(t, err)

	got, ok := Lookup(vocab.Departments, "ventas en chukiyawu")
	assert.True(t, ok)
	assert.Equal(t, "La Paz", got)
	got, ok = Lookup(vocab.Cities, "tour a tiahuanaco")
	assert.True(t, ok)
	assert.Equal(t, "Tiwanaku", got)
	assert.Contains(t, Values(vocab.Categories), "Ecoturismo")
	assert.Len(t, vocab.Currencies, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read vocabulary file")
}
