package engine

import (
	"github.com/spektr-org/reportes/currency"
)

// ============================================================================
// EXECUTOR — FilterSet + Dataset → ReportResult
// ============================================================================
// Entry point: Execute(filters, dataset, opts...)
//
// Pipeline:
//   1. Compile the FilterSet into a Predicate
//   2. Apply it to the full view → SubView (zero-copy)
//   3. Aggregate the SubView in one pass, canonical currency, unrounded
//   4. Build rankings, tables and charts in the presentation currency
//   5. Describe the period and write the summary line
//
// This function never calls an external service and never fails: bad or
// empty input yields zeroed metrics and empty lists.
// ============================================================================

// Execute runs a FilterSet against a Dataset and returns a render-ready result.
//
// Options:
//   - WithNormalizer(n) — currencies and exchange rate
//   - WithDefaultLimit(n) — top-N size when limite is absent
//   - WithChartLimit(n) — best-seller chart size
//   - WithLogger(l), WithClock(fn)
func Execute(f FilterSet, ds *Dataset, opts ...Option) *ReportResult {
	cfg := applyOptions(opts)
	if ds == nil {
		ds = NewDataset(nil, nil, nil, nil)
	}
	log := cfg.Logger

	// 1–2. Compile and filter
	pred := Compile(f, ds)
	filtered := pred.Apply(ds.View())

	log.Debug().
		Int("reservations", ds.Len()).
		Int("matched", filtered.Len()).
		Strs("filters", pred.Keys()).
		Msg("report filters applied")

	// 3. Single pass
	totals := Aggregate(filtered, ds, cfg.Normalizer, f.HasStatus())

	// 4. Presentation
	code := Presentation(f, cfg.Normalizer)
	pres := presenter{n: cfg.Normalizer, code: code}
	limit := f.LimitOr(cfg.DefaultLimit)

	result := &ReportResult{
		Filters:      f,
		Currency:     code,
		ExchangeRate: cfg.Normalizer.Rate(),
		Format:       f.FormatOr(),
		Summary: Summary{
			TotalSales:    pres.amount(totals.Sales.Total),
			Count:         totals.Sales.Count,
			AverageTicket: pres.amount(totals.Sales.Average()),
			TotalPaid:     pres.amount(totals.Paid),
			Customers:     len(totals.customers),
		},
		ByType: TypeBreakdown{
			Packages: Breakdown{Total: pres.amount(totals.Packages.Total), Count: totals.Packages.Count},
			Services: Breakdown{Total: pres.amount(totals.Services.Total), Count: totals.Services.Count},
		},
		TopPackages:  buildRanking(RankProducts(totals.PackageTallies(), limit), ds, pres),
		TopServices:  buildRanking(RankProducts(totals.ServiceTallies(), limit), ds, pres),
		TopCustomers: buildCustomerRanking(RankCustomers(totals.CustomerTallies(), 2*limit), ds, pres),
		Products:     buildProductReport(totals, ds, pres),
		Customers:    buildCustomerRows(totals, ds, pres),
		Charts:       buildCharts(totals, ds, pres, cfg.ChartLimit),
		GeneratedAt:  cfg.Now(),
	}

	// 5. Period and summary
	result.Period = BuildPeriod(f, totals)
	result.Reply = BuildReply(result)

	log.Info().
		Int("count", result.Summary.Count).
		Str("total", FormatAmount(result.Summary.TotalSales, code)).
		Str("currency", string(code)).
		Msg("report computed")

	return result
}

// Presentation returns the currency a FilterSet will be presented in.
func Presentation(f FilterSet, n *currency.Normalizer) currency.Code {
	if n == nil {
		n = currency.Default()
	}
	if f.Currency == nil {
		return n.Primary()
	}
	return n.Normalize(*f.Currency)
}
