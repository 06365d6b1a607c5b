package engine

import (
	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// PREDICATE COMPILER — FilterSet → single-pass reservation filter
// ============================================================================
// Every set field becomes one named clause. Clauses are AND-combined; the
// location clauses are OR-combined across the package and service a
// reservation references. Absent fields add no clause, so an empty
// FilterSet compiles to a predicate that keeps everything.
//
// Apply returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Predicate is a compiled FilterSet bound to a dataset.
type Predicate struct {
	filters FilterSet
	clauses []clause
}

type clause struct {
	key   string
	match func(r *Reservation) bool
}

// Compile turns f into a predicate over ds. Compilation never fails; the
// clause order is fixed, so the result does not depend on how f was built.
func Compile(f FilterSet, ds *Dataset) *Predicate {
	if ds == nil {
		ds = NewDataset(nil, nil, nil, nil)
	}
	p := &Predicate{filters: f}

	// ── Dates and amounts ──────────────────────────────────────────────────
	if f.StartDate != nil {
		start := *f.StartDate
		p.add(KeyStartDate, func(r *Reservation) bool { return !r.Date.Before(start) })
	}
	if f.EndDate != nil {
		end := *f.EndDate
		p.add(KeyEndDate, func(r *Reservation) bool { return !r.Date.After(end) })
	}
	if f.MinAmount != nil {
		lo := *f.MinAmount
		p.add(KeyMinAmount, func(r *Reservation) bool { return r.Total.GreaterThanOrEqual(lo) })
	}
	if f.MaxAmount != nil {
		hi := *f.MaxAmount
		p.add(KeyMaxAmount, func(r *Reservation) bool { return r.Total.LessThanOrEqual(hi) })
	}

	// ── Product relation ───────────────────────────────────────────────────
	if f.ProductType != nil {
		switch *f.ProductType {
		case ProductPackage:
			p.add(KeyProductType, func(r *Reservation) bool { return r.HasPackage() && !r.HasService() })
		case ProductService:
			p.add(KeyProductType, func(r *Reservation) bool { return r.HasService() && !r.HasPackage() })
		}
	}

	// ── Status and customer ────────────────────────────────────────────────
	if len(f.Statuses) > 0 {
		statuses := f.Statuses
		p.add(KeyStatus, func(r *Reservation) bool { return statuses.Contains(r.Status) })
	}
	if f.CustomerID != nil {
		id := *f.CustomerID
		p.add(KeyCustomerID, func(r *Reservation) bool { return r.CustomerID == id })
	}
	if f.Tier != nil {
		members := ds.Tiers().Members(*f.Tier)
		p.add(KeyTier, func(r *Reservation) bool { return members[r.CustomerID] })
	}

	// ── Location (package OR service) ──────────────────────────────────────
	if f.Department != nil {
		dept := *f.Department
		p.add(KeyDepartment, func(r *Reservation) bool {
			if pkg := ds.Package(r.PackageID); pkg != nil && pkg.Department == dept {
				return true
			}
			svc := ds.Service(r.ServiceID)
			return svc != nil && svc.Department == dept
		})
	}
	if f.City != nil {
		city := *f.City
		p.add(KeyCity, func(r *Reservation) bool {
			if pkg := ds.Package(r.PackageID); pkg != nil && fold.Contains(pkg.City, city) {
				return true
			}
			svc := ds.Service(r.ServiceID)
			return svc != nil && fold.Contains(svc.City, city)
		})
	}

	// ── Package and service attributes ─────────────────────────────────────
	if f.DestinationType != nil {
		dest := *f.DestinationType
		p.add(KeyDestinationType, func(r *Reservation) bool {
			pkg := ds.Package(r.PackageID)
			return pkg != nil && fold.Equal(pkg.DestinationType, dest)
		})
	}
	if f.Category != nil {
		cat := *f.Category
		p.add(KeyCategory, func(r *Reservation) bool {
			svc := ds.Service(r.ServiceID)
			return svc != nil && fold.Equal(svc.Category, cat)
		})
	}
	if f.FeaturedOnly != nil && *f.FeaturedOnly {
		p.add(KeyFeaturedOnly, func(r *Reservation) bool {
			pkg := ds.Package(r.PackageID)
			return pkg != nil && pkg.Featured
		})
	}
	if f.PersonalizedOnly != nil && *f.PersonalizedOnly {
		p.add(KeyPersonalizedOnly, func(r *Reservation) bool {
			pkg := ds.Package(r.PackageID)
			return pkg != nil && pkg.Personalized
		})
	}
	if f.WithCampaign != nil && *f.WithCampaign {
		p.add(KeyWithCampaign, func(r *Reservation) bool {
			pkg := ds.Package(r.PackageID)
			return pkg != nil && pkg.CampaignID != 0
		})
	}
	if f.CampaignID != nil {
		id := *f.CampaignID
		p.add(KeyCampaignID, func(r *Reservation) bool {
			pkg := ds.Package(r.PackageID)
			return pkg != nil && pkg.CampaignID == id
		})
	}

	return p
}

func (p *Predicate) add(key string, match func(r *Reservation) bool) {
	p.clauses = append(p.clauses, clause{key: key, match: match})
}

// Filters returns the FilterSet the predicate was compiled from.
func (p *Predicate) Filters() FilterSet { return p.filters }

// Keys returns the canonical keys of the clauses in evaluation order.
func (p *Predicate) Keys() []string {
	keys := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		keys[i] = c.key
	}
	return keys
}

// Match reports whether r satisfies every clause.
func (p *Predicate) Match(r *Reservation) bool {
	if r == nil {
		return false
	}
	for _, c := range p.clauses {
		if !c.match(r) {
			return false
		}
	}
	return true
}

// Violations returns the keys of the clauses r fails. It is empty exactly
// when Match is true.
func (p *Predicate) Violations(r *Reservation) []string {
	if r == nil {
		return nil
	}
	var failed []string
	for _, c := range p.clauses {
		if !c.match(r) {
			failed = append(failed, c.key)
		}
	}
	return failed
}

// Apply returns the reservations of view that satisfy the predicate.
// A predicate with no clauses returns view unchanged.
func (p *Predicate) Apply(view View) View {
	if len(p.clauses) == 0 {
		return view
	}

	// Single pass — reservation passes if it matches ALL clauses
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if p.Match(view.At(i)) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}
