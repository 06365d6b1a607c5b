package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/reportes/schema"
)

const reservationsCSV = `ID,Fecha,Estado,Total,Moneda,Cliente ID,Cliente Nombre,Paquete ID,Paquete Nombre,Paquete Precio,Paquete Moneda,Paquete Departamento,Tipo Destino
1,2025-01-10,PAGADA,300,USD,100,Ana Quispe,1,Tiwanaku,300,USD,La Paz,Cultural
2,2025-01-11,PAGADA,400,USD,101,Bruno Mamani,1,Tiwanaku,300,USD,La Paz,Cultural
3,2025-01-12,PAGADA,500,USD,100,Ana Quispe,2,Salar de Uyuni,500,USD,Potosí,Natural
`

func writeCSVFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reservas.csv")
	require.NoError(t, os.WriteFile(path, []byte(reservationsCSV), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REPORTES_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryJSON(t *testing.T) {
	out, err := run(t, "query", "--file", writeCSVFile(t), "ventas", "de", "Potosí")
	require.NoError(t, err)

	var got struct {
		Command        string `json:"comando"`
		Interpretation struct {
			Filters map[string]any `json:"filtros"`
			Source  string         `json:"fuente"`
		} `json:"interpretacion"`
		Report struct {
			Summary struct {
				Count int `json:"cantidad_reservas"`
			} `json:"metricas_generales"`
		} `json:"reporte"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "ventas de Potosí", got.Command)
	assert.Equal(t, "local", got.Interpretation.Source)
	assert.Equal(t, "Potosí", got.Interpretation.Filters["departamento"])
	assert.Equal(t, 1, got.Report.Summary.Count)
}

func TestQueryCSV(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "top.csv")
	_, err := run(t, "query", "--file", writeCSVFile(t), "--format", "csv", "--out", outFile, "ventas")
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, productHeaders, records[0])
	assert.Equal(t, []string{"package", "1", "Tiwanaku", "La Paz", "", "", "300.00", "2", "700.00", "2", "100.00"}, records[1])
	assert.Equal(t, "Salar de Uyuni", records[2][2])
}

func TestQueryAIWithoutKeyFallsBack(t *testing.T) {
	t.Setenv("REPORTES_AI_API_KEY", "")
	out, err := run(t, "query", "--file", writeCSVFile(t), "--ai", "ventas")
	require.NoError(t, err)

	var got struct {
		Interpretation struct {
			Source   string `json:"fuente"`
			Fallback string `json:"motivo_fallback"`
		} `json:"interpretacion"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "local", got.Interpretation.Source)
	assert.Equal(t, "IA no configurada", got.Interpretation.Fallback)
}

func TestQueryErrors(t *testing.T) {
	t.Setenv("REPORTES_DATABASE_DSN", "")

	_, err := run(t, "query", "ventas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data source")

	_, err = run(t, "query", "--file", writeCSVFile(t), "--format", "xml", "ventas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = run(t, "query", "--file", filepath.Join(t.TempDir(), "missing.csv"), "ventas")
	require.Error(t, err)

	_, err = run(t, "query")
	require.Error(t, err)
}

func TestVocab(t *testing.T) {
	out, err := run(t, "vocab", "--file", writeCSVFile(t))
	require.NoError(t, err)

	var vocab schema.Vocabulary
	require.NoError(t, json.Unmarshal([]byte(out), &vocab))
	assert.Contains(t, schema.Values(vocab.Departments), "Potosí")
	assert.Contains(t, schema.Values(vocab.DestinationTypes), "Cultural")
	assert.NotEmpty(t, vocab.Currencies)
}
