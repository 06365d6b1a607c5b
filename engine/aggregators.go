package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
)

// ============================================================================
// AGGREGATORS — Single streaming pass, ranking, presentation
// ============================================================================
// Aggregate walks a View once. Every amount is converted to the canonical
// currency as it is read and summed unrounded; conversion to the
// presentation currency and rounding happen only when the result is built.
//
// Active rule: unless the caller filtered by status, CANCELADA reservations
// are left out of sales, rankings, customers and charts. They still count
// as reservations of their product, so conversion rates reflect them.
// ============================================================================

// Tally is a running sum and count in canonical currency.
type Tally struct {
	Total decimal.Decimal
	Count int
}

func (t *Tally) add(amount decimal.Decimal) {
	t.Total = t.Total.Add(amount)
	t.Count++
}

// Average returns Total/Count, or zero for an empty tally.
func (t Tally) Average() decimal.Decimal {
	if t.Count == 0 {
		return decimal.Zero
	}
	return t.Total.Div(decimal.NewFromInt(int64(t.Count)))
}

// ProductTally accumulates one product's reservations.
type ProductTally struct {
	Kind         ProductType
	ID           int64
	Sold         Tally // active reservations
	Reservations int   // every reservation in the compiled set
	Converted    int   // PAGADA, COMPLETADA or CONFIRMADA
}

// ConversionRate returns Converted/Reservations × 100 to one decimal.
func (p *ProductTally) ConversionRate() float64 {
	return percentOf(int64(p.Converted), int64(p.Reservations), 1)
}

// CustomerTally accumulates one customer's active reservations.
type CustomerTally struct {
	ID    int64
	Spent Tally
	Paid  int
	Last  time.Time
}

// Totals is the outcome of one pass over a view, in canonical currency.
type Totals struct {
	Sales    Tally
	Paid     decimal.Decimal
	Packages Tally
	Services Tally

	packages    map[int64]*ProductTally
	services    map[int64]*ProductTally
	customers   map[int64]*CustomerTally
	months      map[string]*Tally
	departments map[string]*Tally
}

// Aggregate reduces view in a single pass. countCancelled makes every
// reservation active, as when the caller filtered by status explicitly.
func Aggregate(view View, ds *Dataset, n *currency.Normalizer, countCancelled bool) *Totals {
	if ds == nil {
		ds = NewDataset(nil, nil, nil, nil)
	}
	if n == nil {
		n = currency.Default()
	}
	t := &Totals{
		packages:    make(map[int64]*ProductTally),
		services:    make(map[int64]*ProductTally),
		customers:   make(map[int64]*CustomerTally),
		months:      make(map[string]*Tally),
		departments: make(map[string]*Tally),
	}

	Each(view, func(r *Reservation) {
		amount := n.ToCanonical(r.Total, r.Currency)
		active := countCancelled || r.Status != StatusCancelled

		// Product performance sees every reservation
		var product *ProductTally
		switch {
		case r.HasPackage():
			product = productEntry(t.packages, ProductPackage, r.PackageID)
		case r.HasService():
			product = productEntry(t.services, ProductService, r.ServiceID)
		}
		if product != nil {
			product.Reservations++
			if r.Status.Converted() {
				product.Converted++
			}
			if active {
				product.Sold.add(amount)
			}
		}

		if !active {
			return
		}

		t.Sales.add(amount)
		if r.Status.Paid() {
			t.Paid = t.Paid.Add(amount)
		}
		switch {
		case r.HasPackage():
			t.Packages.add(amount)
		case r.HasService():
			t.Services.add(amount)
		}

		c, ok := t.customers[r.CustomerID]
		if !ok {
			c = &CustomerTally{ID: r.CustomerID}
			t.customers[r.CustomerID] = c
		}
		c.Spent.add(amount)
		if r.Status.Paid() {
			c.Paid++
		}
		if r.Date.After(c.Last) {
			c.Last = r.Date
		}

		month := r.Date.Format("2006-01")
		if _, ok := t.months[month]; !ok {
			t.months[month] = &Tally{}
		}
		t.months[month].add(amount)

		dept := departmentOf(ds, r)
		if _, ok := t.departments[dept]; !ok {
			t.departments[dept] = &Tally{}
		}
		t.departments[dept].add(amount)
	})

	return t
}

func productEntry(m map[int64]*ProductTally, kind ProductType, id int64) *ProductTally {
	p, ok := m[id]
	if !ok {
		p = &ProductTally{Kind: kind, ID: id}
		m[id] = p
	}
	return p
}

const unknownDepartment = "Sin especificar"

func departmentOf(ds *Dataset, r *Reservation) string {
	if p := ds.Package(r.PackageID); p != nil && strings.TrimSpace(p.Department) != "" {
		return p.Department
	}
	if s := ds.Service(r.ServiceID); s != nil && strings.TrimSpace(s.Department) != "" {
		return s.Department
	}
	return unknownDepartment
}

// ============================================================================
// RANKING
// ============================================================================

// RankProducts returns products with at least one active sale, ordered by
// total desc, count desc, then id asc, truncated to limit (0 = all).
func RankProducts(products []*ProductTally, limit int) []*ProductTally {
	out := make([]*ProductTally, 0, len(products))
	for _, p := range products {
		if p.Sold.Count > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Sold.Total.Equal(b.Sold.Total) {
			return a.Sold.Total.GreaterThan(b.Sold.Total)
		}
		if a.Sold.Count != b.Sold.Count {
			return a.Sold.Count > b.Sold.Count
		}
		if a.Kind != b.Kind {
			return a.Kind == ProductPackage
		}
		return a.ID < b.ID
	})
	return truncate(out, limit)
}

// RankCustomers orders customers like RankProducts.
func RankCustomers(customers []*CustomerTally, limit int) []*CustomerTally {
	out := append([]*CustomerTally(nil), customers...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Spent.Total.Equal(b.Spent.Total) {
			return a.Spent.Total.GreaterThan(b.Spent.Total)
		}
		if a.Spent.Count != b.Spent.Count {
			return a.Spent.Count > b.Spent.Count
		}
		return a.ID < b.ID
	})
	return truncate(out, limit)
}

// PackageTallies returns every package seen, ordered by id.
func (t *Totals) PackageTallies() []*ProductTally { return sortedProducts(t.packages) }

// ServiceTallies returns every service seen, ordered by id.
func (t *Totals) ServiceTallies() []*ProductTally { return sortedProducts(t.services) }

// CustomerTallies returns every active customer, ordered by id.
func (t *Totals) CustomerTallies() []*CustomerTally {
	out := make([]*CustomerTally, 0, len(t.customers))
	for _, c := range t.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedProducts(m map[int64]*ProductTally) []*ProductTally {
	out := make([]*ProductTally, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// ============================================================================
// PRESENTATION
// ============================================================================

// presenter converts canonical amounts for output. It is the only place
// amounts are rounded.
type presenter struct {
	n    *currency.Normalizer
	code currency.Code
}

func (p presenter) amount(canonical decimal.Decimal) decimal.Decimal {
	return currency.Present(p.n.FromCanonical(canonical, p.code))
}

func (p presenter) both(canonical decimal.Decimal) Amounts {
	return Amounts{
		p.n.Primary():   currency.Present(p.n.FromCanonical(canonical, p.n.Primary())),
		p.n.Secondary(): currency.Present(p.n.FromCanonical(canonical, p.n.Secondary())),
	}
}

// percentOf returns part/whole × 100 rounded to places; 0 when whole is 0.
func percentOf(part, whole int64, places int32) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).Round(places).InexactFloat64()
}

// sharePercent is percentOf for decimal amounts.
func sharePercent(part, whole decimal.Decimal, places int32) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(places).InexactFloat64()
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatAmount formats an amount with currency prefix and comma separators.
func FormatAmount(amount decimal.Decimal, code currency.Code) string {
	s := amount.Abs().StringFixed(2)
	intPart, decPart := s, "00"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, decPart = s[:i], s[i+1:]
	}

	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}

	result := fmt.Sprintf("%s %s.%s", code, intPart, decPart)
	if amount.IsNegative() {
		result = "-" + result
	}
	return result
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
