// Package sqlstore implements store.Reader over database/sql. Queries are
// read-only and use "?" placeholders (SQLite, MySQL).
package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/store"
)

// Tables read by the store.
//
//	reservas   (id, fecha, estado, total, moneda, cliente_id, paquete_id, servicio_id)
//	paquetes   (id, nombre, precio_base, moneda, departamento, ciudad, tipo_destino,
//	            destacado, es_personalizado, campania_id)
//	servicios  (id, titulo, precio_usd, departamento, ciudad, categoria_id)
//	categorias (id, nombre)
//	usuarios   (id, nombre, email)
const (
	reservationsQuery = `SELECT id, fecha, estado, total, moneda, cliente_id, paquete_id, servicio_id FROM reservas`

	packagesQuery = `SELECT id, nombre, precio_base, moneda, departamento, ciudad, tipo_destino, destacado, es_personalizado, campania_id FROM paquetes ORDER BY id`

	servicesQuery = `SELECT s.id, s.titulo, s.precio_usd, s.departamento, s.ciudad, c.nombre FROM servicios s LEFT JOIN categorias c ON c.id = s.categoria_id ORDER BY s.id`

	customersQuery = `SELECT id, nombre, email FROM usuarios ORDER BY id`
)

// Store is a store.Reader backed by a *sql.DB.
type Store struct {
	db      *sql.DB
	primary currency.Code
}

var _ store.Reader = (*Store)(nil)

// New wraps db. Rows without a currency are read in primary.
func New(db *sql.DB, primary currency.Code) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlstore: database connection is nil")
	}
	if primary == "" {
		primary = currency.Default().Primary()
	}
	return &Store{db: db, primary: primary}, nil
}

// Open opens a database with the given driver and checks the connection.
// The driver must be registered by the caller.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driver)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s database", driver)
	}
	return db, nil
}

// Reservations returns the reservations matching q, oldest first.
func (s *Store) Reservations(ctx context.Context, q store.Query) ([]engine.Reservation, error) {
	query, args := buildReservationsQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query reservas")
	}
	defer closeRows(ctx, rows)

	var out []engine.Reservation
	for rows.Next() {
		var (
			r        engine.Reservation
			status   string
			code     sql.NullString
			customer sql.NullInt64
			pkg, svc sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Date, &status, &r.Total, &code, &customer, &pkg, &svc); err != nil {
			return nil, errors.Wrap(err, "scan reserva")
		}
		st, ok := engine.ParseStatus(status)
		if !ok {
			zerolog.Ctx(ctx).Warn().Int64("id", r.ID).Str("estado", status).Msg("skipping reservation with unknown status")
			continue
		}
		r.Status = st
		r.Currency = currency.ParseCodeOr(code.String, s.primary)
		r.CustomerID = customer.Int64
		r.PackageID = pkg.Int64
		r.ServiceID = svc.Int64
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate reservas")
}

// buildReservationsQuery appends the WHERE clause for q. Date bounds are
// widened to whole days; the predicate compiler applies the exact bounds.
func buildReservationsQuery(q store.Query) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if q.From != nil {
		conditions = append(conditions, "fecha >= ?")
		args = append(args, q.From.Format(time.DateOnly))
	}
	if q.To != nil {
		conditions = append(conditions, "fecha < ?")
		args = append(args, q.To.AddDate(0, 0, 1).Format(time.DateOnly))
	}
	if statuses := engine.NewStatusSet(q.Statuses...); len(statuses) > 0 {
		marks := make([]string, len(statuses))
		for i, st := range statuses {
			marks[i] = "?"
			args = append(args, string(st))
		}
		conditions = append(conditions, "estado IN ("+strings.Join(marks, ", ")+")")
	}
	if q.CustomerID != 0 {
		conditions = append(conditions, "cliente_id = ?")
		args = append(args, q.CustomerID)
	}

	query := reservationsQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query + " ORDER BY fecha, id", args
}

// Packages returns every package.
func (s *Store) Packages(ctx context.Context) ([]engine.Package, error) {
	rows, err := s.db.QueryContext(ctx, packagesQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query paquetes")
	}
	defer closeRows(ctx, rows)

	var out []engine.Package
	for rows.Next() {
		var (
			p                    engine.Package
			price                decimal.NullDecimal
			code                 sql.NullString
			dept, city, destType sql.NullString
			featured, custom     sql.NullBool
			campaign             sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &code, &dept, &city, &destType, &featured, &custom, &campaign); err != nil {
			return nil, errors.Wrap(err, "scan paquete")
		}
		p.BasePrice = price.Decimal
		p.Currency = currency.ParseCodeOr(code.String, s.primary)
		p.Department = dept.String
		p.City = city.String
		p.DestinationType = destType.String
		p.Featured = featured.Bool
		p.Personalized = custom.Bool
		p.CampaignID = campaign.Int64
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterate paquetes")
}

// Services returns every service with its category name.
func (s *Store) Services(ctx context.Context) ([]engine.Service, error) {
	rows, err := s.db.QueryContext(ctx, servicesQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query servicios")
	}
	defer closeRows(ctx, rows)

	var out []engine.Service
	for rows.Next() {
		var (
			svc                  engine.Service
			price                decimal.NullDecimal
			dept, city, category sql.NullString
		)
		if err := rows.Scan(&svc.ID, &svc.Title, &price, &dept, &city, &category); err != nil {
			return nil, errors.Wrap(err, "scan servicio")
		}
		svc.Price = price.Decimal
		svc.Department = dept.String
		svc.City = city.String
		svc.Category = category.String
		out = append(out, svc)
	}
	return out, errors.Wrap(rows.Err(), "iterate servicios")
}

// Customers returns every user profile.
func (s *Store) Customers(ctx context.Context) ([]engine.Customer, error) {
	rows, err := s.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query usuarios")
	}
	defer closeRows(ctx, rows)

	var out []engine.Customer
	for rows.Next() {
		var (
			c     engine.Customer
			email sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &email); err != nil {
			return nil, errors.Wrap(err, "scan usuario")
		}
		c.Email = email.String
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate usuarios")
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close rows")
	}
}
