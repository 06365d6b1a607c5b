package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "ultimo ano", String("Último  Año"))
	assert.Equal(t, "potosi", String("POTOSÍ"))
	assert.Equal(t, "hoja de calculo", String(" hoja de cálculo "))
	assert.Equal(t, "", String(""))
}

func TestContainsAndEqual(t *testing.T) {
	assert.True(t, Contains("Santa Cruz de la Sierra", "cruz"))
	assert.True(t, Contains("Potosí", "potosi"))
	assert.False(t, Contains("Sucre", "oruro"))

	assert.True(t, Equal("Cochabamba", "COCHABAMBA"))
	assert.True(t, Equal("Potosí", "Potosi"))
	assert.False(t, Equal("La Paz", "Paz"))
}
