package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/schema"
)

func parse(t *testing.T, text string) (*TranslateResult, error) {
	t.Helper()
	return parseResponse(text, "comando", testResolver(), schema.Default())
}

func TestParseResponse(t *testing.T) {
	answer := "```json\n" + `{
  "interpretacion": "Ventas de paquetes en La Paz",
  "accion": "generar_reporte",
  "tipo_reporte": "paquetes",
  "formato": "excel",
  "filtros": {
    "departamento": "la paz",
    "monto_minimo": 1000,
    "estado": ["PAGADA", "COMPLETADA"],
    "ciudad": null,
    "categoria": "null",
    "tipo_destino": "",
    "limite": "5",
    "solo_destacados": true
  },
  "respuesta_texto": "Listo",
  "confianza": 1.7
}` + "\n```"

	res, err := parse(t, answer)
	require.NoError(t, err)

	f := res.Filters
	assert.Equal(t, []string{
		engine.KeyMinAmount, engine.KeyStatus, engine.KeyDepartment,
		engine.KeyLimit, engine.KeyFormat, engine.KeyFeaturedOnly,
	}, f.Keys())
	assert.Equal(t, "La Paz", *f.Department)
	assertDecimal(t, "1000", f.MinAmount)
	assert.Equal(t, engine.StatusSet{engine.StatusPaid, engine.StatusCompleted}, f.Statuses)
	assert.Equal(t, 5, *f.Limit)
	assert.Equal(t, engine.FormatExcel, *f.Format)
	assert.True(t, *f.FeaturedOnly)

	assert.Equal(t, ReportProducts, res.ReportKind)
	assert.Equal(t, ActionReport, res.Action)
	assert.Equal(t, SourceAI, res.Source)
	assert.True(t, res.UsedAI())
	assert.Equal(t, "comando", res.Original)
	assert.Equal(t, "Ventas de paquetes en La Paz", res.Interpretation)
	assert.Equal(t, "Listo", res.Reply)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
}

func TestParseResponseDefaults(t *testing.T) {
	res, err := parse(t, `{"filtros": {"tipo_cliente": "vip"}, "accion": "bailar", "confianza": -3}`)
	require.NoError(t, err)

	assert.Equal(t, engine.TierVIP, *res.Filters.Tier)
	assert.Equal(t, ActionReport, res.Action)
	assert.Equal(t, ReportSales, res.ReportKind)
	assert.InDelta(t, 0.0, res.Confidence, 1e-9)
	assert.Equal(t, "Reporte con clientes vip", res.Interpretation)
	assert.Equal(t, "Generaré un reporte de ventas.", res.Reply)

	res, err = parse(t, `{"accion": "ayuda"}`)
	require.NoError(t, err)
	assert.Equal(t, ActionHelp, res.Action)
	assert.True(t, res.Filters.IsEmpty())
	assert.InDelta(t, defaultAIConfidence, res.Confidence, 1e-9)
}

func TestParseResponseMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":      "Claro, aquí tienes el reporte",
		"unknown key":   `{"filtros": {"pais": "Bolivia"}}`,
		"nested object": `{"filtros": {"departamento": {"nombre": "La Paz"}}}`,
		"nested array":  `{"filtros": {"estado": [["PAGADA"]]}}`,
		"wrong type":    `{"filtros": ["departamento"]}`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}
