// Package store reads the collections a report runs against. Every
// implementation is read-only.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/spektr-org/reportes/engine"
)

// Query narrows the reservations a Reader returns. Zero fields do not
// constrain.
type Query struct {
	From       *time.Time
	To         *time.Time
	Statuses   []engine.Status
	CustomerID int64
}

// Matches reports whether r satisfies q.
func (q Query) Matches(r *engine.Reservation) bool {
	if q.From != nil && r.Date.Before(*q.From) {
		return false
	}
	if q.To != nil && r.Date.After(*q.To) {
		return false
	}
	if len(q.Statuses) > 0 && !engine.NewStatusSet(q.Statuses...).Contains(r.Status) {
		return false
	}
	if q.CustomerID != 0 && r.CustomerID != q.CustomerID {
		return false
	}
	return true
}

// Reader is the read-only source of reservations and their catalogues.
type Reader interface {
	Reservations(ctx context.Context, q Query) ([]engine.Reservation, error)
	Packages(ctx context.Context) ([]engine.Package, error)
	Services(ctx context.Context) ([]engine.Service, error)
	Customers(ctx context.Context) ([]engine.Customer, error)
}

// Load reads every collection and builds a Dataset. Reservations are not
// filtered: customer tiers need the whole history.
func Load(ctx context.Context, r Reader) (*engine.Dataset, error) {
	if r == nil {
		return nil, errors.New("store: nil reader")
	}
	logger := zerolog.Ctx(ctx)

	reservations, err := r.Reservations(ctx, Query{})
	if err != nil {
		return nil, errors.Wrap(err, "load reservations")
	}
	packages, err := r.Packages(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}
	services, err := r.Services(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load services")
	}
	customers, err := r.Customers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}

	logger.Debug().
		Int("reservations", len(reservations)).
		Int("packages", len(packages)).
		Int("services", len(services)).
		Int("customers", len(customers)).
		Msg("dataset loaded")

	return engine.NewDataset(reservations, packages, services, customers), nil
}
