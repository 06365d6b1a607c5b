package helpers

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/temporal"
)

// ============================================================================
// CSV HELPER — Parses a reservation export into an engine.Dataset
// ============================================================================
// One denormalised row per reservation: the reservation columns plus the
// columns of its customer, package or service. Headers are matched in
// snake_case, in any order; unknown columns are ignored. Packages, services
// and customers are deduplicated by id, first row wins.
//
// Required columns: id, fecha, estado, total. A row whose id, date, status
// or total does not parse is skipped.
// ============================================================================

// Column names understood by ParseReservationsCSV.
const (
	ColID              = "id"
	ColDate            = "fecha"
	ColStatus          = "estado"
	ColTotal           = "total"
	ColCurrency        = "moneda"
	ColCustomerID      = "cliente_id"
	ColCustomerName    = "cliente_nombre"
	ColCustomerEmail   = "cliente_email"
	ColPackageID       = "paquete_id"
	ColPackageName     = "paquete_nombre"
	ColPackagePrice    = "paquete_precio"
	ColPackageCurrency = "paquete_moneda"
	ColPackageDept     = "paquete_departamento"
	ColPackageCity     = "paquete_ciudad"
	ColDestinationType = "tipo_destino"
	ColFeatured        = "destacado"
	ColPersonalized    = "es_personalizado"
	ColCampaignID      = "campana_id"
	ColServiceID       = "servicio_id"
	ColServiceTitle    = "servicio_titulo"
	ColServicePrice    = "servicio_precio"
	ColServiceDept     = "servicio_departamento"
	ColServiceCity     = "servicio_ciudad"
	ColServiceCategory = "categoria"
)

var requiredColumns = []string{ColID, ColDate, ColStatus, ColTotal}

var dateTimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// ParseReservationsCSV parses CSV bytes into a Dataset. Dates without a
// zone are read as UTC.
func ParseReservationsCSV(data []byte) (*engine.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv headers")
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[toSnakeCase(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errors.WithHintf(errors.Newf("missing csv column %q", col),
				"required columns: %s", strings.Join(requiredColumns, ", "))
		}
	}

	b := &datasetBuilder{
		dates:     temporal.New(temporal.WithLocation(time.UTC)),
		primary:   currency.Default().Primary(),
		packages:  map[int64]bool{},
		services:  map[int64]bool{},
		customers: map[int64]bool{},
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		b.add(row, index)
	}
	return engine.NewDataset(b.reservations, b.packageRows, b.serviceRows, b.customerRows), nil
}

type datasetBuilder struct {
	dates   *temporal.Resolver
	primary currency.Code

	reservations []engine.Reservation
	packageRows  []engine.Package
	serviceRows  []engine.Service
	customerRows []engine.Customer

	packages  map[int64]bool
	services  map[int64]bool
	customers map[int64]bool
}

func (b *datasetBuilder) add(row []string, index map[string]int) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id, err := strconv.ParseInt(get(ColID), 10, 64)
	if err != nil {
		return
	}
	date, ok := b.parseDate(get(ColDate))
	if !ok {
		return
	}
	status, ok := engine.ParseStatus(get(ColStatus))
	if !ok {
		return
	}
	total, err := decimal.NewFromString(get(ColTotal))
	if err != nil {
		return
	}

	r := engine.Reservation{
		ID:         id,
		Date:       date,
		Status:     status,
		Total:      total,
		Currency:   currency.ParseCodeOr(get(ColCurrency), b.primary),
		CustomerID: parseID(get(ColCustomerID)),
		PackageID:  parseID(get(ColPackageID)),
		ServiceID:  parseID(get(ColServiceID)),
	}
	b.reservations = append(b.reservations, r)

	if r.CustomerID != 0 && !b.customers[r.CustomerID] {
		b.customers[r.CustomerID] = true
		b.customerRows = append(b.customerRows, engine.Customer{
			ID:    r.CustomerID,
			Name:  get(ColCustomerName),
			Email: get(ColCustomerEmail),
		})
	}
	if r.PackageID != 0 && !b.packages[r.PackageID] {
		b.packages[r.PackageID] = true
		b.packageRows = append(b.packageRows, engine.Package{
			ID:              r.PackageID,
			Name:            get(ColPackageName),
			BasePrice:       parseDecimal(get(ColPackagePrice)),
			Currency:        currency.ParseCodeOr(get(ColPackageCurrency), b.primary),
			Department:      get(ColPackageDept),
			City:            get(ColPackageCity),
			DestinationType: get(ColDestinationType),
			Featured:        parseBool(get(ColFeatured)),
			Personalized:    parseBool(get(ColPersonalized)),
			CampaignID:      parseID(get(ColCampaignID)),
		})
	}
	if r.ServiceID != 0 && !b.services[r.ServiceID] {
		b.services[r.ServiceID] = true
		b.serviceRows = append(b.serviceRows, engine.Service{
			ID:         r.ServiceID,
			Title:      get(ColServiceTitle),
			Price:      parseDecimal(get(ColServicePrice)),
			Department: get(ColServiceDept),
			City:       get(ColServiceCity),
			Category:   get(ColServiceCategory),
		})
	}
}

func (b *datasetBuilder) parseDate(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return b.dates.ParseDate(s)
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "si", "sí", "yes", "x":
		return true
	}
	return false
}

// toSnakeCase converts "Cliente Nombre" → "cliente_nombre".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
