package engine

import (
	"fmt"
)

// ============================================================================
// RESERVATION VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView — wraps []Reservation held by a Dataset
//   SubView   — filtered subset (indices into parent, zero-copy)
//
// A predicate pass yields a SubView; applying another pass to it yields a
// SubView of the SubView. Nothing is copied along the way.
// ============================================================================

// View provides indexed, read-only access to reservations.
// The engine calls At in tight loops — keep implementations fast.
type View interface {
	Len() int
	At(i int) *Reservation
}

// Each calls fn for every reservation in view, in order.
func Each(view View, fn func(*Reservation)) {
	for i := 0; i < view.Len(); i++ {
		fn(view.At(i))
	}
}

// Collect copies the reservations of a view into a slice.
func Collect(view View) []Reservation {
	out := make([]Reservation, 0, view.Len())
	Each(view, func(r *Reservation) { out = append(out, *r) })
	return out
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []Reservation slice as a View.
type SliceView struct {
	rows []Reservation
}

// NewSliceView creates a View over rows. The slice is not copied.
func NewSliceView(rows []Reservation) *SliceView {
	return &SliceView{rows: rows}
}

func (v *SliceView) Len() int { return len(v.rows) }

func (v *SliceView) At(i int) *Reservation {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return &v.rows[i]
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent View.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  View
	indices []int
}

func newSubView(parent View, indices []int) View {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) *Reservation {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.At(v.indices[i])
}

// ============================================================================
// DATASET — reservations plus the collections they reference
// ============================================================================

// Dataset is an immutable snapshot of the read-only collections a report
// runs against. Build one per request; it is safe to share once built.
type Dataset struct {
	reservations []Reservation
	packages     map[int64]*Package
	services     map[int64]*Service
	customers    map[int64]*Customer
	pkgOrder     []int64
	svcOrder     []int64
	custOrder    []int64
	tiers        *TierIndex
}

// NewDataset indexes the collections. Later duplicates of an id replace
// earlier ones. Customer tiers are computed here, over every reservation.
func NewDataset(reservations []Reservation, packages []Package, services []Service, customers []Customer) *Dataset {
	ds := &Dataset{
		reservations: reservations,
		packages:     make(map[int64]*Package, len(packages)),
		services:     make(map[int64]*Service, len(services)),
		customers:    make(map[int64]*Customer, len(customers)),
	}
	for i := range packages {
		p := packages[i]
		if _, ok := ds.packages[p.ID]; !ok {
			ds.pkgOrder = append(ds.pkgOrder, p.ID)
		}
		ds.packages[p.ID] = &p
	}
	for i := range services {
		s := services[i]
		if _, ok := ds.services[s.ID]; !ok {
			ds.svcOrder = append(ds.svcOrder, s.ID)
		}
		ds.services[s.ID] = &s
	}
	for i := range customers {
		c := customers[i]
		if _, ok := ds.customers[c.ID]; !ok {
			ds.custOrder = append(ds.custOrder, c.ID)
		}
		ds.customers[c.ID] = &c
	}
	ds.tiers = NewTierIndex(ds.View())
	return ds
}

// View returns the full, unfiltered reservation view.
func (d *Dataset) View() View { return NewSliceView(d.reservations) }

// Len returns the number of reservations.
func (d *Dataset) Len() int { return len(d.reservations) }

// Tiers returns the customer tier index computed over the whole dataset.
func (d *Dataset) Tiers() *TierIndex { return d.tiers }

// Package returns the package with id, or nil.
func (d *Dataset) Package(id int64) *Package {
	if id == 0 {
		return nil
	}
	return d.packages[id]
}

// Service returns the service with id, or nil.
func (d *Dataset) Service(id int64) *Service {
	if id == 0 {
		return nil
	}
	return d.services[id]
}

// Customer returns the customer with id, or nil.
func (d *Dataset) Customer(id int64) *Customer {
	return d.customers[id]
}

// Packages returns the packages in insertion order.
func (d *Dataset) Packages() []Package {
	out := make([]Package, 0, len(d.pkgOrder))
	for _, id := range d.pkgOrder {
		out = append(out, *d.packages[id])
	}
	return out
}

// Services returns the services in insertion order.
func (d *Dataset) Services() []Service {
	out := make([]Service, 0, len(d.svcOrder))
	for _, id := range d.svcOrder {
		out = append(out, *d.services[id])
	}
	return out
}

// Customers returns the customers in insertion order.
func (d *Dataset) Customers() []Customer {
	out := make([]Customer, 0, len(d.custOrder))
	for _, id := range d.custOrder {
		out = append(out, *d.customers[id])
	}
	return out
}

// productName resolves a display name for the product a reservation references.
func (d *Dataset) productName(kind ProductType, id int64) string {
	switch kind {
	case ProductPackage:
		if p := d.Package(id); p != nil {
			return displayName(p.Name, fmt.Sprintf("Paquete #%d", id))
		}
		return fmt.Sprintf("Paquete #%d", id)
	default:
		if s := d.Service(id); s != nil {
			return displayName(s.Title, fmt.Sprintf("Servicio #%d", id))
		}
		return fmt.Sprintf("Servicio #%d", id)
	}
}

func (d *Dataset) customerName(id int64) string {
	if c := d.Customer(id); c != nil {
		return displayName(c.Name, fmt.Sprintf("Cliente #%d", id))
	}
	return fmt.Sprintf("Cliente #%d", id)
}
