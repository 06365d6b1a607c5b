package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ============================================================================
// TEXT BUILDER — Period description and one-line Spanish summary
// ============================================================================

// BuildPeriod describes the period a report covers. Explicit date filters
// win; otherwise the period is derived from the months with sales.
func BuildPeriod(f FilterSet, t *Totals) Period {
	p := Period{Start: f.StartDate, End: f.EndDate}
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		p.Label = fmt.Sprintf("%s - %s", f.StartDate.Format("02/01/2006"), f.EndDate.Format("02/01/2006"))
	case f.StartDate != nil:
		p.Label = "desde " + f.StartDate.Format("02/01/2006")
	case f.EndDate != nil:
		p.Label = "hasta " + f.EndDate.Format("02/01/2006")
	default:
		p.Label = DerivePeriod(t)
	}
	return p
}

// DerivePeriod builds a human-readable period string from the months seen.
func DerivePeriod(t *Totals) string {
	if t == nil || len(t.months) == 0 {
		return "Sin datos"
	}

	months := make([]string, 0, len(t.months))
	for m := range t.months {
		months = append(months, m)
	}
	sort.Strings(months)

	earliest, _ := time.Parse("2006-01", months[0])
	latest, _ := time.Parse("2006-01", months[len(months)-1])
	if len(months) == 1 {
		return MonthLabel(earliest)
	}
	return fmt.Sprintf("%s - %s", MonthLabel(earliest), MonthLabel(latest))
}

// BuildReply writes the one-line summary shown above the report.
func BuildReply(r *ReportResult) string {
	if r.Summary.Count == 0 {
		return "No se encontraron reservas para los filtros indicados."
	}

	var b strings.Builder
	noun := "reservas"
	if r.Summary.Count == 1 {
		noun = "reserva"
	}
	fmt.Fprintf(&b, "%s %s por un total de %s (ticket promedio %s)",
		FormatInt(r.Summary.Count), noun,
		FormatAmount(r.Summary.TotalSales, r.Currency),
		FormatAmount(r.Summary.AverageTicket, r.Currency))

	if r.Period.Label != "" {
		fmt.Fprintf(&b, ", periodo %s", r.Period.Label)
	}
	if len(r.TopPackages) > 0 {
		fmt.Fprintf(&b, ". Paquete líder: %s", r.TopPackages[0].Name)
	}
	if len(r.TopServices) > 0 {
		fmt.Fprintf(&b, ". Servicio líder: %s", r.TopServices[0].Name)
	}
	b.WriteString(".")
	return b.String()
}
