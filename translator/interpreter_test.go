package translator

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/schema"
	"github.com/spektr-org/reportes/temporal"
)

// ============================================================================
// LOCAL INTERPRETER TESTS
// ============================================================================
// Tests cover:
//   1. Amount bounds, limit and format from one command
//   2. Vocabulary attributes and their context words
//   3. Period phrases not read as limits or amounts
//   4. Campaign and flag extractors
//   5. Report kind, reply and interpretation text
// ============================================================================

// Wednesday.
var fixedNow = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

func testResolver() *temporal.Resolver {
	return temporal.New(temporal.WithClock(func() time.Time { return fixedNow }), temporal.WithLocation(time.UTC))
}

func newTestInterpreter() *Interpreter {
	return NewInterpreter(testResolver(), schema.Default())
}

func assertDecimal(t *testing.T, want string, got *decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	assert.Equal(t, want, got.String(), msgAndArgs...)
}

func TestInterpretAmountsAndFormat(t *testing.T) {
	f := newTestInterpreter().Interpret("reservas mayores a 1000 y menores a 5000 en excel")

	assert.Equal(t, []string{engine.KeyMinAmount, engine.KeyMaxAmount, engine.KeyFormat}, f.Keys())
	assertDecimal(t, "1000", f.MinAmount)
	assertDecimal(t, "5000", f.MaxAmount)
	assert.Equal(t, engine.FormatExcel, *f.Format)
}

func TestInterpretTopPackages(t *testing.T) {
	f := newTestInterpreter().Interpret("top 3 paquetes")

	assert.Equal(t, []string{engine.KeyProductType, engine.KeyLimit}, f.Keys())
	assert.Equal(t, 3, *f.Limit)
	assert.Equal(t, engine.ProductPackage, *f.ProductType)
}

func TestInterpretAmountPhrasings(t *testing.T) {
	it := newTestInterpreter()

	tests := []struct {
		text     string
		min, max string
	}{
		{"ventas de más de 500", "500", ""},
		{"reservas superiores a 250.50", "250.5", ""},
		{"ventas sobre 2 mil", "2000", ""},
		{"reservas mayores que 1,5 mil", "1500", ""},
		{"reservas menos de 300", "", "300"},
		{"paquetes bajo 800", "", "800"},
		{"inferiores a 90", "", "90"},
		{"bookings over 100 and under 900", "100", "900"},
		{"sales greater than 10 less than 20", "10", "20"},
		{"mayores a 1.000 bolivianos", "1000", ""},
		{"reservas de más de 1.250.000", "1250000", ""},
		{"ventas mayores a 1.000,50", "1000.5", ""},
		{"menores a 12.5", "", "12.5"},
		{"más de 500 y mayores a 1000", "500", ""},
		{"menos de 900 y bajo 300", "", "900"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := it.Interpret(tt.text)
			if tt.min == "" {
				assert.Nil(t, f.MinAmount)
			} else {
				assertDecimal(t, tt.min, f.MinAmount)
			}
			if tt.max == "" {
				assert.Nil(t, f.MaxAmount)
			} else {
				assertDecimal(t, tt.max, f.MaxAmount)
			}
		})
	}
}

func TestInterpretBareMonth(t *testing.T) {
	f := newTestInterpreter().Interpret("reservas de marzo")
	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, "2025-03-01", f.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", f.EndDate.Format("2006-01-02"))
}

func TestInterpretCountsAreNotAmounts(t *testing.T) {
	f := newTestInterpreter().Interpret("clientes con más de 3 reservas")
	assert.Nil(t, f.MinAmount)
}

func TestInterpretPeriodIsNotLimit(t *testing.T) {
	f := newTestInterpreter().Interpret("ventas de los últimos 7 días")

	assert.Nil(t, f.Limit)
	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.True(t, fixedNow.AddDate(0, 0, -7).Equal(*f.StartDate))
	assert.True(t, fixedNow.Equal(*f.EndDate))
}

func TestInterpretLimitPhrasings(t *testing.T) {
	it := newTestInterpreter()

	tests := map[string]int{
		"los primeros 10 clientes": 10,
		"mejores 4 paquetes":       4,
		"solo 2 servicios":         2,
		"top 7":                    7,
		"últimos 3 de la lista":    3,
	}
	for text, want := range tests {
		f := it.Interpret(text)
		require.NotNil(t, f.Limit, text)
		assert.Equal(t, want, *f.Limit, text)
	}

	assert.Nil(t, it.Interpret("máximo 500 bs").Limit)
	assert.Nil(t, it.Interpret("top 0 paquetes").Limit)
}

func TestInterpretStatuses(t *testing.T) {
	f := newTestInterpreter().Interpret("reservas canceladas y PAGADAS")
	assert.Equal(t, engine.StatusSet{engine.StatusPaid, engine.StatusCancelled}, f.Statuses)

	f = newTestInterpreter().Interpret("completed bookings")
	assert.Equal(t, engine.StatusSet{engine.StatusCompleted}, f.Statuses)
}

func TestInterpretProductType(t *testing.T) {
	it := newTestInterpreter()

	assert.Equal(t, engine.ProductService, *it.Interpret("servicios vendidos").ProductType)
	assert.Nil(t, it.Interpret("paquetes y servicios").ProductType)
	assert.Nil(t, it.Interpret("ventas").ProductType)
}

func TestInterpretFormats(t *testing.T) {
	it := newTestInterpreter()

	tests := map[string]engine.Format{
		"reporte en PDF":             engine.FormatPDF,
		"exportar a hoja de cálculo": engine.FormatExcel,
		"en word por favor":          engine.FormatDocx,
		"pdf o excel":                engine.FormatPDF,
	}
	for text, want := range tests {
		f := it.Interpret(text)
		require.NotNil(t, f.Format, text)
		assert.Equal(t, want, *f.Format, text)
	}
	assert.Nil(t, it.Interpret("ventas del mes").Format)
}

func TestInterpretPlaces(t *testing.T) {
	it := newTestInterpreter()

	f := it.Interpret("Paquetes en Potosí de tipo cultural")
	assert.Equal(t, []string{engine.KeyProductType, engine.KeyDepartment, engine.KeyDestinationType}, f.Keys())
	assert.Equal(t, "Potosí", *f.Department)
	assert.Equal(t, "Cultural", *f.DestinationType)

	f = it.Interpret("reservas pagadas y completadas de servicios de aventura en La Paz")
	assert.Equal(t, "La Paz", *f.Department)
	assert.Equal(t, "Aventura", *f.Category)
	assert.Nil(t, f.DestinationType)
	assert.Equal(t, engine.ProductService, *f.ProductType)
	assert.Equal(t, engine.StatusSet{engine.StatusPaid, engine.StatusCompleted}, f.Statuses)

	f = it.Interpret("ventas en Uyuni")
	assert.Nil(t, f.Department)
	assert.Equal(t, "Uyuni", *f.City)

	f = it.Interpret("destinos de naturaleza")
	assert.Equal(t, "Natural", *f.DestinationType)

	// Ambiguous without a package or service word
	f = it.Interpret("ventas de aventura")
	assert.Nil(t, f.DestinationType)
	assert.Nil(t, f.Category)
}

func TestInterpretCitySameAsDepartment(t *testing.T) {
	vocab := schema.Vocabulary{
		Departments: []schema.Term{{Value: "Potosí"}},
		Cities:      []schema.Term{{Value: "Potosí"}, {Value: "Uyuni"}},
	}
	it := NewInterpreter(testResolver(), vocab)

	f := it.Interpret("ventas en potosi")
	assert.Equal(t, "Potosí", *f.Department)
	assert.Nil(t, f.City)
}

func TestInterpretCustomerTiersAndCurrency(t *testing.T) {
	it := newTestInterpreter()

	f := it.Interpret("clientes vip de santa cruz en bolivianos")
	assert.Equal(t, engine.TierVIP, *f.Tier)
	assert.Equal(t, "Santa Cruz", *f.Department)
	assert.Nil(t, f.City)
	assert.Equal(t, currency.Code("BOB"), *f.Currency)

	f = it.Interpret("clientes recurrentes")
	assert.Equal(t, engine.TierReturning, *f.Tier)

	assert.Nil(t, it.Interpret("paquetes nuevos").Tier)
	assert.Equal(t, engine.TierVIP, *it.Interpret("reservas vip").Tier)

	f = it.Interpret("ventas mayores a 2 mil bs")
	assertDecimal(t, "2000", f.MinAmount)
	assert.Equal(t, currency.Code("BOB"), *f.Currency)

	f = it.Interpret("ventas en dólares")
	assert.Equal(t, currency.Code("USD"), *f.Currency)
}

func TestInterpretCampaignAndFlags(t *testing.T) {
	it := newTestInterpreter()

	f := it.Interpret("reservas de la campaña #12")
	require.NotNil(t, f.CampaignID)
	assert.Equal(t, int64(12), *f.CampaignID)
	assert.Nil(t, f.WithCampaign)

	f = it.Interpret("reservas de la campaña nro. 7")
	assert.Equal(t, int64(7), *f.CampaignID)

	f = it.Interpret("reservas con campaña")
	assert.Nil(t, f.CampaignID)
	assert.True(t, *f.WithCampaign)

	assert.Nil(t, it.Interpret("reservas sin campaña").WithCampaign)

	f = it.Interpret("paquetes destacados")
	assert.True(t, *f.FeaturedOnly)
	assert.Nil(t, f.PersonalizedOnly)

	f = it.Interpret("paquetes personalizados")
	assert.True(t, *f.PersonalizedOnly)
}

func TestInterpretNothing(t *testing.T) {
	it := newTestInterpreter()
	assert.True(t, it.Interpret("").IsEmpty())
	assert.True(t, it.Interpret("hola, ¿cómo estás?").IsEmpty())
}

func TestInterpretIsDeterministic(t *testing.T) {
	it := newTestInterpreter()
	text := "top 5 clientes vip de Cochabamba con ventas mayores a 300 este mes en pdf"
	assert.Equal(t, it.Interpret(text), it.Interpret(text))
}

func TestTranslateLocal(t *testing.T) {
	res, err := newTestInterpreter().Translate(context.Background(), "top 5 clientes en excel", "reportes")
	require.NoError(t, err)

	assert.Equal(t, "top 5 clientes en excel", res.Original)
	assert.Equal(t, ReportCustomers, res.ReportKind)
	assert.Equal(t, ActionReport, res.Action)
	assert.Equal(t, SourceLocal, res.Source)
	assert.False(t, res.UsedAI())
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	assert.Equal(t, engine.FormatExcel, res.Format())
	assert.Equal(t, "Reporte con límite 5, formato Excel", res.Interpretation)
	assert.Equal(t, "Generaré un reporte de clientes en formato Excel.", res.Reply)
	assert.Empty(t, res.FallbackReason)
}

func TestDetectReportKind(t *testing.T) {
	tests := map[string]ReportKind{
		"ventas de paquetes":  ReportProducts,
		"tours mas vendidos":  ReportProducts,
		"ingresos del mes":    ReportSales,
		"clientes frecuentes": ReportCustomers,
		"ventas por cliente":  ReportSales,
		"reporte general":     ReportSales,
	}
	for text, want := range tests {
		assert.Equal(t, want, detectReportKind(text), text)
	}
}

func TestReplyAndDescribe(t *testing.T) {
	f := engine.FilterSet{
		Department: engine.Ptr("La Paz"),
		Format:     engine.Ptr(engine.FormatPDF),
	}
	assert.Equal(t, "Generaré un reporte de productos turísticos de La Paz en formato PDF.", buildReply(ReportProducts, f))
	assert.Equal(t, "Generaré un reporte de ventas.", buildReply(ReportSales, engine.FilterSet{}))

	assert.Equal(t, "Reporte sin filtros", Describe(engine.FilterSet{}))
	assert.Equal(t, "Reporte con departamento La Paz, formato PDF", Describe(f))
}
