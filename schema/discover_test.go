package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spektr-org/reportes/engine"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

func discoveryDataset() *engine.Dataset {
	packages := []engine.Package{
		{ID: 1, Name: "Salar", Department: "Potosí", City: "Uyuni", DestinationType: "Natural"},
		{ID: 2, Name: "Lago", Department: "La Paz", City: "Copacabana", DestinationType: "Cultural"},
		{ID: 3, Name: "Yungas", Department: "la paz", City: "Coroico", DestinationType: "aventura"},
		{ID: 4, Name: "Sin datos", Department: "N/A", City: " ", DestinationType: ""},
	}
	services := []engine.Service{
		{ID: 10, Title: "City tour", Department: "Chuquisaca", City: "Sucre", Category: "Histórico"},
		{ID: 11, Title: "Cena", Department: "Potosi", City: "Potosí", Category: "Gastronómico"},
		{ID: 12, Title: "Rafting", Department: "Beni", City: "Rurrenabaque", Category: "Aventura"},
	}
	return engine.NewDataset(nil, packages, services, nil)
}

func TestDiscoverCollectsDistinctValues(t *testing.T) {
	vocab := Discover(discoveryDataset())

	assert.Equal(t, []string{"Beni", "Chuquisaca", "La Paz", "Potosí"}, Values(vocab.Departments))
	assert.Equal(t, []string{"Copacabana", "Coroico", "Potosí", "Rurrenabaque", "Sucre", "Uyuni"}, Values(vocab.Cities))
	assert.Equal(t, []string{"aventura", "Cultural", "Natural"}, Values(vocab.DestinationTypes))
	assert.Equal(t, []string{"Aventura", "Gastronómico", "Histórico"}, Values(vocab.Categories))
	assert.Empty(t, vocab.Currencies)
	assert.Empty(t, vocab.Tiers)
}

func TestDiscoverMergedOverDefault(t *testing.T) {
	ds := engine.NewDataset(nil,
		[]engine.Package{{ID: 1, Department: "La Paz", City: "Tiwanaku", DestinationType: "Arqueológico"}},
		nil, nil)
	vocab := Default().Merge(Discover(ds))

	// Known department is not duplicated; new city and type are appended
	assert.Len(t, vocab.Departments, 9)
	assert.Equal(t, "Tiwanaku", vocab.Cities[len(vocab.Cities)-1].Value)
	assert.Equal(t, "Arqueológico", vocab.DestinationTypes[len(vocab.DestinationTypes)-1].Value)
}

func TestDiscoverNilDataset(t *testing.T) {
	assert.Equal(t, Vocabulary{}, Discover(nil))
}
