package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// ENGINE TYPES — Reservations, products, customers and the report result
// ============================================================================
// The engine never owns consumer data and never mutates it. Rows come in
// through a Dataset; results go out as a ReportResult for an external
// renderer. Money is decimal.Decimal end to end.
// ============================================================================

// ============================================================================
// ENUMS
// ============================================================================

// Status is a reservation lifecycle state. Values are the wire values.
type Status string

const (
	StatusPending      Status = "PENDIENTE"
	StatusConfirmed    Status = "CONFIRMADA"
	StatusPaid         Status = "PAGADA"
	StatusCancelled    Status = "CANCELADA"
	StatusCompleted    Status = "COMPLETADA"
	StatusReprogrammed Status = "REPROGRAMADA"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPending, StatusConfirmed, StatusPaid,
	StatusCancelled, StatusCompleted, StatusReprogrammed,
}

var statusAliases = map[string]Status{
	"pendiente": StatusPending, "pendientes": StatusPending, "pending": StatusPending,
	"confirmada": StatusConfirmed, "confirmadas": StatusConfirmed, "confirmed": StatusConfirmed,
	"pagada": StatusPaid, "pagadas": StatusPaid, "paid": StatusPaid,
	"cancelada": StatusCancelled, "canceladas": StatusCancelled, "cancelled": StatusCancelled, "canceled": StatusCancelled,
	"completada": StatusCompleted, "completadas": StatusCompleted, "completed": StatusCompleted,
	"reprogramada": StatusReprogrammed, "reprogramadas": StatusReprogrammed, "reprogrammed": StatusReprogrammed,
}

// ParseStatus accepts wire values and Spanish/English words in any case.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[fold.String(s)]
	return st, ok
}

// Paid reports whether the status counts as money received.
func (s Status) Paid() bool { return s == StatusPaid || s == StatusCompleted }

// Converted reports whether the status counts towards a product's conversion rate.
func (s Status) Converted() bool { return s.Paid() || s == StatusConfirmed }

// ProductType selects package-bound or service-bound reservations.
type ProductType string

const (
	ProductPackage ProductType = "package"
	ProductService ProductType = "service"
)

// ParseProductType accepts the canonical values and their Spanish forms.
func ParseProductType(s string) (ProductType, bool) {
	switch fold.String(s) {
	case "package", "packages", "paquete", "paquetes":
		return ProductPackage, true
	case "service", "services", "servicio", "servicios":
		return ProductService, true
	}
	return "", false
}

// Format is the document format the caller wants the result rendered as.
// The engine only echoes it.
type Format string

const (
	FormatJSON  Format = "json"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatDocx  Format = "docx"
)

// ParseFormat accepts canonical values and common synonyms.
func ParseFormat(s string) (Format, bool) {
	switch fold.String(s) {
	case "json":
		return FormatJSON, true
	case "pdf":
		return FormatPDF, true
	case "excel", "xlsx", "xls", "hoja de calculo", "spreadsheet":
		return FormatExcel, true
	case "docx", "word", "doc":
		return FormatDocx, true
	}
	return "", false
}

// Tier is a customer classification by historical reservation count.
type Tier string

const (
	TierNew       Tier = "nuevo"
	TierReturning Tier = "recurrente"
	TierVIP       Tier = "vip"
)

// AllTiers lists tiers from lowest to highest.
var AllTiers = []Tier{TierNew, TierReturning, TierVIP}

// ParseTier accepts the Spanish tier names and English equivalents.
func ParseTier(s string) (Tier, bool) {
	switch fold.String(s) {
	case "nuevo", "nuevos", "new":
		return TierNew, true
	case "recurrente", "recurrentes", "returning", "recurring":
		return TierReturning, true
	case "vip", "vips":
		return TierVIP, true
	}
	return "", false
}

// ============================================================================
// DOMAIN ROWS
// ============================================================================

// Reservation is one booking. Exactly one of PackageID/ServiceID is
// non-zero for simple bookings; zero means absent.
type Reservation struct {
	ID         int64           `json:"id"`
	Date       time.Time       `json:"fecha"`
	Status     Status          `json:"estado"`
	Total      decimal.Decimal `json:"total"`
	Currency   currency.Code   `json:"moneda"`
	CustomerID int64           `json:"cliente_id"`
	PackageID  int64           `json:"paquete_id,omitempty"`
	ServiceID  int64           `json:"servicio_id,omitempty"`
}

// HasPackage reports whether the reservation references a package.
func (r *Reservation) HasPackage() bool { return r.PackageID != 0 }

// HasService reports whether the reservation references a service.
func (r *Reservation) HasService() bool { return r.ServiceID != 0 }

// Package is a tour package.
type Package struct {
	ID              int64           `json:"id"`
	Name            string          `json:"nombre"`
	BasePrice       decimal.Decimal `json:"precio_base"`
	Currency        currency.Code   `json:"moneda"`
	Department      string          `json:"departamento"`
	City            string          `json:"ciudad"`
	DestinationType string          `json:"tipo_destino"`
	Featured        bool            `json:"destacado"`
	Personalized    bool            `json:"es_personalizado"`
	CampaignID      int64           `json:"campana_id,omitempty"`
}

// Service is a bookable service. Prices are in the primary currency.
type Service struct {
	ID         int64           `json:"id"`
	Title      string          `json:"titulo"`
	Price      decimal.Decimal `json:"precio"`
	Department string          `json:"departamento"`
	City       string          `json:"ciudad"`
	Category   string          `json:"categoria"`
}

// Customer is a buyer. Reservation counts are derived, never stored.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email,omitempty"`
}

// ============================================================================
// REPORT RESULT — Render-ready output
// ============================================================================

// Amounts holds one value per supported currency.
type Amounts map[currency.Code]decimal.Decimal

// ReportResult is the engine's output, consumed by an external renderer.
type ReportResult struct {
	Filters      FilterSet       `json:"filtros_aplicados"`
	Currency     currency.Code   `json:"moneda"`
	ExchangeRate decimal.Decimal `json:"tasa_cambio"`
	Format       Format          `json:"formato"`
	Period       Period          `json:"periodo"`
	Summary      Summary         `json:"metricas_generales"`
	ByType       TypeBreakdown   `json:"ventas_por_tipo"`
	TopPackages  []RankedItem    `json:"top_paquetes"`
	TopServices  []RankedItem    `json:"top_servicios"`
	TopCustomers []RankedItem    `json:"top_clientes"`
	Products     ProductReport   `json:"rendimiento_productos"`
	Customers    []CustomerRow   `json:"clientes"`
	Charts       Charts          `json:"graficos"`
	Reply        string          `json:"resumen_texto"`
	GeneratedAt  time.Time       `json:"generado_en"`
}

// Period echoes the date bounds the report covers.
type Period struct {
	Start *time.Time `json:"fecha_inicio"`
	End   *time.Time `json:"fecha_fin"`
	Label string     `json:"descripcion"`
}

// Summary holds the headline metrics, in the presentation currency.
type Summary struct {
	TotalSales    decimal.Decimal `json:"total_ventas"`
	Count         int             `json:"cantidad_reservas"`
	AverageTicket decimal.Decimal `json:"ticket_promedio"`
	TotalPaid     decimal.Decimal `json:"total_pagado"`
	Customers     int             `json:"total_clientes"`
}

// Breakdown is a sum and a count.
type Breakdown struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"cantidad"`
}

// TypeBreakdown splits sales by product relation.
type TypeBreakdown struct {
	Packages Breakdown `json:"paquetes"`
	Services Breakdown `json:"servicios"`
}

// RankedItem is one row of a top-N list.
type RankedItem struct {
	ID      int64           `json:"id"`
	Name    string          `json:"nombre"`
	Kind    ProductType     `json:"tipo,omitempty"`
	Total   decimal.Decimal `json:"total_ventas"`
	Count   int             `json:"cantidad"`
	Average decimal.Decimal `json:"promedio"`
}

// ProductReport is the per-product performance table.
type ProductReport struct {
	Packages []ProductRow  `json:"paquetes"`
	Services []ProductRow  `json:"servicios"`
	Totals   ProductTotals `json:"resumen"`
}

// ProductRow describes one product's performance in the filtered set.
type ProductRow struct {
	ID             int64       `json:"id"`
	Name           string      `json:"nombre"`
	Kind           ProductType `json:"tipo"`
	Price          Amounts     `json:"precio"`
	Department     string      `json:"departamento,omitempty"`
	City           string      `json:"ciudad,omitempty"`
	Category       string      `json:"categoria,omitempty"`
	Personalized   bool        `json:"es_personalizado,omitempty"`
	UnitsSold      int         `json:"cantidad_vendida"`
	TotalSold      Amounts     `json:"ventas_totales"`
	Reservations   int         `json:"total_reservas"`
	ConversionRate float64     `json:"tasa_conversion"`
}

// ProductTotals sums the product table.
type ProductTotals struct {
	PackagesSold   int     `json:"total_paquetes_vendidos"`
	ServicesSold   int     `json:"total_servicios_vendidos"`
	PackageRevenue Amounts `json:"ingresos_paquetes"`
	ServiceRevenue Amounts `json:"ingresos_servicios"`
}

// CustomerRow is one customer's detail in the filtered set.
type CustomerRow struct {
	ID            int64           `json:"id"`
	Name          string          `json:"nombre"`
	Email         string          `json:"email,omitempty"`
	TotalSpent    Amounts         `json:"total_gastado"`
	Count         int             `json:"cantidad_reservas"`
	PaidCount     int             `json:"reservas_pagadas"`
	AverageTicket decimal.Decimal `json:"ticket_promedio"`
	LastPurchase  *time.Time      `json:"ultima_compra"`
	Tier          Tier            `json:"tipo_cliente"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Charts carries the series a dashboard draws.
type Charts struct {
	Monthly     []MonthPoint `json:"ventas_por_mes"`
	Departments []ShareItem  `json:"ventas_por_departamento"`
	Tiers       []ShareItem  `json:"tipos_cliente"`
	BestSellers []RankedItem `json:"productos_mas_vendidos"`
}

// MonthPoint is one month of sales with growth against the previous month.
type MonthPoint struct {
	Month  string          `json:"mes"`
	Label  string          `json:"mes_nombre"`
	Total  decimal.Decimal `json:"ventas"`
	Count  int             `json:"reservas"`
	Growth float64         `json:"crecimiento"`
}

// ShareItem is a labelled slice of a whole.
type ShareItem struct {
	Label      string          `json:"etiqueta"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"cantidad"`
	Percentage float64         `json:"porcentaje"`
}

func displayName(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
