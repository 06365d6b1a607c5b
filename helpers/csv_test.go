package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
)

const sampleCSV = `ID,Fecha,Estado,Total,Moneda,Cliente ID,Cliente Nombre,Paquete ID,Paquete Nombre,Paquete Precio,Paquete Moneda,Paquete Departamento,Tipo Destino,Destacado,Servicio ID,Servicio Titulo,Servicio Precio,Categoria
1,2025-01-10,PAGADA,300,USD,100,Ana Quispe,1,Salar de Uyuni,300,USD,Potosí,Natural,si,,,,
2,10/02/2025,confirmada,2088,Bs,100,Ana Quispe,3,Trekking,2088,BOB,La Paz,Aventura,0,,,,
3,2025-02-11 09:30:00,COMPLETADA,45.50,,101,Bruno Mamani,,,,,,,,10,Tour Cristo,45.50,Tours
4,2025-02-12,CANCELADA,300,USD,102,Carla Rojas,1,Salar (otro nombre),999,USD,Oruro,Cultural,,,,,
x,2025-02-12,PAGADA,10,USD,102,Carla Rojas,,,,,,,,,,,
5,ayer,PAGADA,10,USD,102,Carla Rojas,,,,,,,,,,,
6,2025-02-13,PERDIDA,10,USD,102,Carla Rojas,,,,,,,,,,,
7,2025-02-13,PAGADA,diez,USD,102,Carla Rojas,,,,,,,,,,,
`

func TestParseReservationsCSV(t *testing.T) {
	ds, err := ParseReservationsCSV([]byte(sampleCSV))
	require.NoError(t, err)

	rows := engine.Collect(ds.View())
	require.Len(t, rows, 4)

	r := rows[1]
	assert.Equal(t, int64(2), r.ID)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, engine.StatusConfirmed, r.Status)
	assert.Equal(t, "2088", r.Total.String())
	assert.Equal(t, currency.Code("BOB"), r.Currency)
	assert.Equal(t, int64(3), r.PackageID)

	r = rows[2]
	assert.Equal(t, time.Date(2025, 2, 11, 9, 30, 0, 0, time.UTC), r.Date)
	assert.Equal(t, currency.Code("USD"), r.Currency, "empty currency is the primary")
	assert.Equal(t, int64(10), r.ServiceID)
	assert.Zero(t, r.PackageID)

	// First row of a package wins
	pkgs := ds.Packages()
	require.Len(t, pkgs, 2)
	assert.Equal(t, "Salar de Uyuni", pkgs[0].Name)
	assert.Equal(t, "Potosí", pkgs[0].Department)
	assert.Equal(t, "Natural", pkgs[0].DestinationType)
	assert.True(t, pkgs[0].Featured)
	assert.False(t, pkgs[1].Featured)
	assert.Equal(t, currency.Code("BOB"), pkgs[1].Currency)

	svcs := ds.Services()
	require.Len(t, svcs, 1)
	assert.Equal(t, "Tour Cristo", svcs[0].Title)
	assert.Equal(t, "Tours", svcs[0].Category)
	assert.Equal(t, "45.5", svcs[0].Price.String())

	custs := ds.Customers()
	require.Len(t, custs, 3)
	assert.Equal(t, "Ana Quispe", custs[0].Name)
	assert.Equal(t, 2, ds.Tiers().Count(100))
}

func TestParseReservationsCSVFeedsEngine(t *testing.T) {
	ds, err := ParseReservationsCSV([]byte(sampleCSV))
	require.NoError(t, err)

	res := engine.Execute(engine.FilterSet{ProductType: engine.Ptr(engine.ProductPackage)}, ds)
	assert.Equal(t, 2, res.Summary.Count)
}

func TestParseReservationsCSVMissingColumn(t *testing.T) {
	_, err := ParseReservationsCSV([]byte("id,fecha,total\n1,2025-01-01,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"estado"`)
}

func TestParseReservationsCSVEmpty(t *testing.T) {
	_, err := ParseReservationsCSV(nil)
	require.Error(t, err)

	ds, err := ParseReservationsCSV([]byte("id,fecha,estado,total\n"))
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "cliente_nombre", toSnakeCase("Cliente Nombre"))
	assert.Equal(t, "paquete_id", toSnakeCase("paquete-ID"))
}
