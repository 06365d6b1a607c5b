package main

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
)

// ============================================================================
// OUTPUT — JSON for programs, CSV of the product table for spreadsheets
// ============================================================================

const (
	outputJSON   = "json"
	outputPretty = "pretty"
	outputCSV    = "csv"
)

func validOutput(format string) bool {
	switch format {
	case outputJSON, outputPretty, outputCSV:
		return true
	}
	return false
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(v), "encode output")
}

var productHeaders = []string{
	"tipo", "id", "nombre", "departamento", "ciudad", "categoria",
	"precio", "cantidad_vendida", "ventas_totales", "total_reservas", "tasa_conversion",
}

// writeCSV writes one row per package and service in the report, amounts
// in the report currency.
func writeCSV(w io.Writer, r *engine.ReportResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productHeaders); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	rows := append(append([]engine.ProductRow(nil), r.Products.Packages...), r.Products.Services...)
	for _, p := range rows {
		record := []string{
			string(p.Kind),
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Department,
			p.City,
			p.Category,
			amount(p.Price, r.Currency),
			strconv.Itoa(p.UnitsSold),
			amount(p.TotalSold, r.Currency),
			strconv.Itoa(p.Reservations),
			strconv.FormatFloat(p.ConversionRate, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func amount(a engine.Amounts, code currency.Code) string {
	v, ok := a[code]
	if !ok {
		return ""
	}
	return v.StringFixed(2)
}
