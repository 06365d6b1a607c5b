package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ============================================================================
// TABLE BUILDER — Rankings, product performance and customer detail
// ============================================================================
// Builders read canonical Totals and emit presentation rows. Every list is
// non-nil so an empty report serialises as [] rather than null.
// ============================================================================

// buildRanking turns ranked product tallies into presentation rows.
func buildRanking(ranked []*ProductTally, ds *Dataset, pres presenter) []RankedItem {
	items := make([]RankedItem, 0, len(ranked))
	for _, p := range ranked {
		items = append(items, RankedItem{
			ID:      p.ID,
			Name:    ds.productName(p.Kind, p.ID),
			Kind:    p.Kind,
			Total:   pres.amount(p.Sold.Total),
			Count:   p.Sold.Count,
			Average: pres.amount(p.Sold.Average()),
		})
	}
	return items
}

// buildCustomerRanking turns ranked customer tallies into presentation rows.
func buildCustomerRanking(ranked []*CustomerTally, ds *Dataset, pres presenter) []RankedItem {
	items := make([]RankedItem, 0, len(ranked))
	for _, c := range ranked {
		items = append(items, RankedItem{
			ID:      c.ID,
			Name:    ds.customerName(c.ID),
			Total:   pres.amount(c.Spent.Total),
			Count:   c.Spent.Count,
			Average: pres.amount(c.Spent.Average()),
		})
	}
	return items
}

// ============================================================================
// PRODUCT PERFORMANCE — every product in the compiled set
// ============================================================================

// buildProductReport lists every product appearing in t, ordered by sales.
func buildProductReport(t *Totals, ds *Dataset, pres presenter) ProductReport {
	report := ProductReport{
		Packages: make([]ProductRow, 0, len(t.packages)),
		Services: make([]ProductRow, 0, len(t.services)),
	}

	var pkgRevenue, svcRevenue decimal.Decimal
	for _, p := range orderBySales(t.PackageTallies()) {
		row := productRow(p, ds, pres)
		if pkg := ds.Package(p.ID); pkg != nil {
			row.Price = pres.both(pres.n.ToCanonical(pkg.BasePrice, pkg.Currency))
			row.Department = pkg.Department
			row.City = pkg.City
			row.Personalized = pkg.Personalized
		}
		report.Packages = append(report.Packages, row)
		report.Totals.PackagesSold += p.Sold.Count
		pkgRevenue = pkgRevenue.Add(p.Sold.Total)
	}
	for _, p := range orderBySales(t.ServiceTallies()) {
		row := productRow(p, ds, pres)
		if svc := ds.Service(p.ID); svc != nil {
			row.Price = pres.both(pres.n.ToCanonical(svc.Price, pres.n.Primary()))
			row.Department = svc.Department
			row.City = svc.City
			row.Category = svc.Category
		}
		report.Services = append(report.Services, row)
		report.Totals.ServicesSold += p.Sold.Count
		svcRevenue = svcRevenue.Add(p.Sold.Total)
	}

	report.Totals.PackageRevenue = pres.both(pkgRevenue)
	report.Totals.ServiceRevenue = pres.both(svcRevenue)
	return report
}

func productRow(p *ProductTally, ds *Dataset, pres presenter) ProductRow {
	return ProductRow{
		ID:             p.ID,
		Name:           ds.productName(p.Kind, p.ID),
		Kind:           p.Kind,
		Price:          pres.both(decimal.Zero),
		UnitsSold:      p.Sold.Count,
		TotalSold:      pres.both(p.Sold.Total),
		Reservations:   p.Reservations,
		ConversionRate: p.ConversionRate(),
	}
}

// orderBySales orders every product, including those with no active sale,
// by total desc, count desc, id asc.
func orderBySales(products []*ProductTally) []*ProductTally {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if !a.Sold.Total.Equal(b.Sold.Total) {
			return a.Sold.Total.GreaterThan(b.Sold.Total)
		}
		if a.Sold.Count != b.Sold.Count {
			return a.Sold.Count > b.Sold.Count
		}
		return a.ID < b.ID
	})
	return products
}

// ============================================================================
// CUSTOMER DETAIL — every customer with an active reservation
// ============================================================================

func buildCustomerRows(t *Totals, ds *Dataset, pres presenter) []CustomerRow {
	ranked := RankCustomers(t.CustomerTallies(), 0)
	rows := make([]CustomerRow, 0, len(ranked))
	for _, c := range ranked {
		row := CustomerRow{
			ID:            c.ID,
			Name:          ds.customerName(c.ID),
			TotalSpent:    pres.both(c.Spent.Total),
			Count:         c.Spent.Count,
			PaidCount:     c.Paid,
			AverageTicket: pres.amount(c.Spent.Average()),
			Tier:          ds.Tiers().Tier(c.ID),
		}
		if cust := ds.Customer(c.ID); cust != nil {
			row.Email = cust.Email
		}
		if !c.Last.IsZero() {
			last := c.Last
			row.LastPurchase = &last
		}
		rows = append(rows, row)
	}
	return rows
}
