package store

import (
	"context"

	"github.com/spektr-org/reportes/engine"
)

// MemoryStore is a slice-backed Reader. It serves CSV imports and tests.
type MemoryStore struct {
	reservations []engine.Reservation
	packages     []engine.Package
	services     []engine.Service
	customers    []engine.Customer
}

// NewMemoryStore copies the given collections.
func NewMemoryStore(reservations []engine.Reservation, packages []engine.Package, services []engine.Service, customers []engine.Customer) *MemoryStore {
	return &MemoryStore{
		reservations: append([]engine.Reservation(nil), reservations...),
		packages:     append([]engine.Package(nil), packages...),
		services:     append([]engine.Service(nil), services...),
		customers:    append([]engine.Customer(nil), customers...),
	}
}

// FromDataset exposes an already built Dataset as a Reader.
func FromDataset(ds *engine.Dataset) *MemoryStore {
	if ds == nil {
		return &MemoryStore{}
	}
	return NewMemoryStore(engine.Collect(ds.View()), ds.Packages(), ds.Services(), ds.Customers())
}

func (m *MemoryStore) Reservations(ctx context.Context, q Query) ([]engine.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]engine.Reservation, 0, len(m.reservations))
	for i := range m.reservations {
		if q.Matches(&m.reservations[i]) {
			out = append(out, m.reservations[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) Packages(ctx context.Context) ([]engine.Package, error) {
	return append([]engine.Package(nil), m.packages...), ctx.Err()
}

func (m *MemoryStore) Services(ctx context.Context) ([]engine.Service, error) {
	return append([]engine.Service(nil), m.services...), ctx.Err()
}

func (m *MemoryStore) Customers(ctx context.Context) ([]engine.Customer, error) {
	return append([]engine.Customer(nil), m.customers...), ctx.Err()
}
