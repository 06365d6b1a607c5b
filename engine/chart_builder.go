package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CHART BUILDER — Dashboard series from canonical Totals
// ============================================================================
// Monthly sales with month-over-month growth, sales share per department,
// customer tier distribution and the combined best-seller list.
// ============================================================================

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthLabel formats a month the way reports print it ("Marzo 2025").
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

func buildCharts(t *Totals, ds *Dataset, pres presenter, chartLimit int) Charts {
	return Charts{
		Monthly:     buildMonthly(t, pres),
		Departments: buildDepartments(t, pres),
		Tiers:       buildTierDistribution(t, ds, pres),
		BestSellers: buildBestSellers(t, ds, pres, chartLimit),
	}
}

// buildMonthly lists months chronologically. Growth is relative to the
// previous listed month, in percent to two decimals; 0 for the first month
// or when the previous month summed to zero.
func buildMonthly(t *Totals, pres presenter) []MonthPoint {
	keys := make([]string, 0, len(t.months))
	for k := range t.months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]MonthPoint, 0, len(keys))
	var prev decimal.Decimal
	for i, k := range keys {
		m := t.months[k]
		point := MonthPoint{
			Month: k,
			Total: pres.amount(m.Total),
			Count: m.Count,
		}
		if at, err := time.Parse("2006-01", k); err == nil {
			point.Label = MonthLabel(at)
		}
		if i > 0 && prev.IsPositive() {
			point.Growth = sharePercent(m.Total.Sub(prev), prev, 2)
		}
		prev = m.Total
		points = append(points, point)
	}
	return points
}

// buildDepartments orders departments by sales and gives each its share.
func buildDepartments(t *Totals, pres presenter) []ShareItem {
	items := make([]ShareItem, 0, len(t.departments))
	for label, d := range t.departments {
		items = append(items, ShareItem{
			Label:      label,
			Total:      pres.amount(d.Total),
			Count:      d.Count,
			Percentage: sharePercent(d.Total, t.Sales.Total, 2),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Total.Equal(items[j].Total) {
			return items[i].Total.GreaterThan(items[j].Total)
		}
		return items[i].Label < items[j].Label
	})
	return items
}

// buildTierDistribution counts the active customers of each tier. Tiers come
// from the whole dataset, like the tipo_cliente filter. Empty when no
// customer is active.
func buildTierDistribution(t *Totals, ds *Dataset, pres presenter) []ShareItem {
	if len(t.customers) == 0 {
		return []ShareItem{}
	}
	counts := make(map[Tier]int, len(AllTiers))
	spent := make(map[Tier]decimal.Decimal, len(AllTiers))
	for _, c := range t.customers {
		tier := ds.Tiers().Tier(c.ID)
		counts[tier]++
		spent[tier] = spent[tier].Add(c.Spent.Total)
	}

	items := make([]ShareItem, 0, len(AllTiers))
	for _, tier := range AllTiers {
		items = append(items, ShareItem{
			Label:      string(tier),
			Total:      pres.amount(spent[tier]),
			Count:      counts[tier],
			Percentage: percentOf(int64(counts[tier]), int64(len(t.customers)), 2),
		})
	}
	return items
}

// buildBestSellers ranks packages and services together.
func buildBestSellers(t *Totals, ds *Dataset, pres presenter, limit int) []RankedItem {
	all := append(t.PackageTallies(), t.ServiceTallies()...)
	return buildRanking(RankProducts(all, limit), ds, pres)
}
