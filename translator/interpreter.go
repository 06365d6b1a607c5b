package translator

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/internal/fold"
	"github.com/spektr-org/reportes/schema"
	"github.com/spektr-org/reportes/temporal"
)

// ============================================================================
// LOCAL INTERPRETER — Keyword and regex extractors, no network
// ============================================================================
// The command is folded once (lower case, accents stripped, spaces
// collapsed) and handed to every extractor. Each extractor fills at most
// one FilterSet concern and never fails; none reads what another wrote, so
// their order does not matter.
//
// Extractors:
//   dates        → fecha_inicio, fecha_fin (temporal.Resolver)
//   amounts      → monto_minimo, monto_maximo (first match per direction)
//   product type → tipo_producto (exactly one of paquete/servicio)
//   statuses     → estado (every status word)
//   limit        → limite (not "últimos N días")
//   format       → formato
//   vocabulary   → departamento, ciudad, tipo_destino, categoria, moneda,
//                  tipo_cliente
//   flags        → campana_id, con_campana, solo_destacados,
//                  solo_personalizados
// ============================================================================

// localConfidence is the confidence reported for keyword interpretation.
const localConfidence = 0.5

// input is one command prepared for the extractors.
type input struct {
	raw  string // as typed, for the temporal resolver
	text string // folded
}

type extractor func(in *input, f *engine.FilterSet)

// Interpreter is the local command interpreter. It is safe for concurrent
// use.
type Interpreter struct {
	resolver   *temporal.Resolver
	vocab      schema.Vocabulary
	extractors []extractor
}

// NewInterpreter builds an interpreter over a resolver (nil = wall clock)
// and a vocabulary, usually schema.Default() merged with discovered terms.
func NewInterpreter(resolver *temporal.Resolver, vocab schema.Vocabulary) *Interpreter {
	if resolver == nil {
		resolver = temporal.New()
	}
	it := &Interpreter{resolver: resolver, vocab: vocab}
	it.extractors = []extractor{
		it.extractDates,
		extractMinAmount,
		extractMaxAmount,
		extractProductType,
		extractStatuses,
		extractLimit,
		extractFormat,
		it.extractDepartment,
		it.extractCity,
		it.extractDestinationType,
		it.extractCategory,
		it.extractCurrency,
		it.extractTier,
		extractCampaign,
		extractFeatured,
		extractPersonalized,
	}
	return it
}

// Vocabulary returns the vocabulary the interpreter matches against.
func (it *Interpreter) Vocabulary() schema.Vocabulary { return it.vocab }

// Resolver returns the temporal resolver used for date phrases.
func (it *Interpreter) Resolver() *temporal.Resolver { return it.resolver }

// Interpret extracts a FilterSet from text. Unrecognised text yields an
// empty FilterSet.
func (it *Interpreter) Interpret(text string) engine.FilterSet {
	in := &input{raw: text, text: fold.String(text)}
	var f engine.FilterSet
	for _, extract := range it.extractors {
		extract(in, &f)
	}
	return f
}

// Translate implements Translator. It never returns an error.
func (it *Interpreter) Translate(_ context.Context, text, _ string) (*TranslateResult, error) {
	f := it.Interpret(text)
	kind := detectReportKind(fold.String(text))
	return &TranslateResult{
		Filters:        f,
		Original:       text,
		Interpretation: Describe(f),
		Action:         ActionReport,
		ReportKind:     kind,
		Confidence:     localConfidence,
		Source:         SourceLocal,
		Reply:          buildReply(kind, f),
	}, nil
}

// ============================================================================
// DATES
// ============================================================================

func (it *Interpreter) extractDates(in *input, f *engine.FilterSet) {
	r := it.resolver.Resolve(in.raw)
	f.StartDate = r.Start
	f.EndDate = r.End
}

// ============================================================================
// AMOUNTS
// ============================================================================

// amountToken captures "1000", "1.000" (grouped thousands), "1500.50", "2,5"
// and an optional "mil".
const amountToken = `(\d{1,3}(?:\.\d{3})+\b(?:,\d+)?|\d+(?:[.,]\d+)?)(\s*mil\b)?`

// groupedThousandsRe matches amounts written with "." between digit groups.
var groupedThousandsRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+(?:,\d+)?$`)

var minAmountPatterns = compileAll(
	`\bmayor(?:es)?\s+(?:a|que|de)\s+`+amountToken,
	`\bmas\s+de\s+`+amountToken,
	`\bsuperior(?:es)?\s+a\s+`+amountToken,
	`\bsobre\s+`+amountToken,
	`\b(?:greater|more|higher)\s+than\s+`+amountToken,
	`\b(?:above|over)\s+`+amountToken,
)

var maxAmountPatterns = compileAll(
	`\bmenor(?:es)?\s+(?:a|que|de)\s+`+amountToken,
	`\bmenos\s+de\s+`+amountToken,
	`\binferior(?:es)?\s+a\s+`+amountToken,
	`\bbajo\s+`+amountToken,
	`\b(?:less|lower)\s+than\s+`+amountToken,
	`\b(?:under|below)\s+`+amountToken,
)

// countUnitRe marks a number as a count, not money ("más de 3 reservas").
var countUnitRe = regexp.MustCompile(`^\s*(?:reservas?|dias?|semanas?|meses|mes|anos?|clientes?|paquetes?|servicios?|veces|bookings?|days?|weeks?|months?|years?|customers?|times)\b`)

func extractMinAmount(in *input, f *engine.FilterSet) {
	if v, ok := firstAmount(in.text, minAmountPatterns); ok {
		f.MinAmount = &v
	}
}

func extractMaxAmount(in *input, f *engine.FilterSet) {
	if v, ok := firstAmount(in.text, maxAmountPatterns); ok {
		f.MaxAmount = &v
	}
}

// firstAmount returns the money amount whose phrase starts leftmost in text,
// across all patterns.
func firstAmount(text string, patterns []*regexp.Regexp) (decimal.Decimal, bool) {
	var (
		best  decimal.Decimal
		start = -1
	)
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if start >= 0 && m[0] >= start {
				break
			}
			if countUnitRe.MatchString(text[m[1]:]) {
				continue
			}
			number := text[m[2]:m[3]]
			thousands := m[4] >= 0
			if v, ok := parseAmount(number, thousands); ok {
				best, start = v, m[0]
				break
			}
		}
	}
	return best, start >= 0
}

func parseAmount(number string, thousands bool) (decimal.Decimal, bool) {
	if groupedThousandsRe.MatchString(number) {
		number = strings.ReplaceAll(number, ".", "")
	}
	v, err := decimal.NewFromString(strings.Replace(number, ",", ".", 1))
	if err != nil || !v.IsPositive() {
		return decimal.Decimal{}, false
	}
	if thousands {
		v = v.Mul(decimal.NewFromInt(1000))
	}
	return v, true
}

// ============================================================================
// PRODUCT TYPE, STATUS, LIMIT, FORMAT
// ============================================================================

var (
	packageWordRe = regexp.MustCompile(`\b(?:paquetes?|packages?)\b`)
	serviceWordRe = regexp.MustCompile(`\b(?:servicios?|services?)\b`)
)

func extractProductType(in *input, f *engine.FilterSet) {
	pkg := packageWordRe.MatchString(in.text)
	svc := serviceWordRe.MatchString(in.text)
	switch {
	case pkg && !svc:
		f.ProductType = engine.Ptr(engine.ProductPackage)
	case svc && !pkg:
		f.ProductType = engine.Ptr(engine.ProductService)
	}
}

var statusWordRe = regexp.MustCompile(`\b(?:pendientes?|confirmadas?|pagadas?|completadas?|canceladas?|reprogramadas?|pending|confirmed|paid|completed|cancell?ed|reprogrammed)\b`)

func extractStatuses(in *input, f *engine.FilterSet) {
	words := statusWordRe.FindAllString(in.text, -1)
	if len(words) == 0 {
		return
	}
	f.Statuses = engine.ParseStatusSet(words...)
}

var (
	limitRe = regexp.MustCompile(`\b(?:top|primer(?:os|as)?|mejor(?:es)?|ultim(?:o|os|a|as)|solo|maximo|first|best|last|only|maximum)\s+(\d+)\b`)

	// limitSkipRe marks "últimos 7 días" (a period) and "máximo 500 Bs"
	// (an amount) as not being result limits.
	limitSkipRe = regexp.MustCompile(`^\s*(?:dias?|semanas?|mes(?:es)?|anos?|days?|weeks?|months?|years?|bs|bob|usd|dolares?|bolivianos?)\b`)
)

func extractLimit(in *input, f *engine.FilterSet) {
	for _, m := range limitRe.FindAllStringSubmatchIndex(in.text, -1) {
		if limitSkipRe.MatchString(in.text[m[1]:]) {
			continue
		}
		n, err := strconv.Atoi(in.text[m[2]:m[3]])
		if err != nil || n <= 0 {
			continue
		}
		f.Limit = &n
		return
	}
}

var formatPatterns = []struct {
	re     *regexp.Regexp
	format engine.Format
}{
	{regexp.MustCompile(`\bpdf\b`), engine.FormatPDF},
	{regexp.MustCompile(`\b(?:excel|xlsx|hoja\s+de\s+calculo|spreadsheet)\b`), engine.FormatExcel},
	{regexp.MustCompile(`\b(?:word|docx)\b`), engine.FormatDocx},
}

func extractFormat(in *input, f *engine.FilterSet) {
	for _, p := range formatPatterns {
		if p.re.MatchString(in.text) {
			f.Format = engine.Ptr(p.format)
			return
		}
	}
}

// ============================================================================
// VOCABULARY MATCHES
// ============================================================================

var (
	destinationHintRe = regexp.MustCompile(`\b(?:destinos?|destinations?)\b`)
	categoryHintRe    = regexp.MustCompile(`\b(?:categorias?|categories|category)\b`)
	customerWordRe    = regexp.MustCompile(`\b(?:clientes?|customers?|compradores?|usuarios?)\b`)
)

func (it *Interpreter) extractDepartment(in *input, f *engine.FilterSet) {
	if v, ok := schema.Lookup(it.vocab.Departments, in.text); ok {
		f.Department = &v
	}
}

// extractCity skips a city spelled like the department in the same command,
// so "Potosí" narrows by department only.
func (it *Interpreter) extractCity(in *input, f *engine.FilterSet) {
	city, ok := schema.Lookup(it.vocab.Cities, in.text)
	if !ok {
		return
	}
	if dept, ok := schema.Lookup(it.vocab.Departments, in.text); ok && fold.Equal(dept, city) {
		return
	}
	f.City = &city
}

// extractDestinationType needs a destination hint or a package-only
// command; "cultural" alone is ambiguous with the service category.
func (it *Interpreter) extractDestinationType(in *input, f *engine.FilterSet) {
	v, ok := schema.Lookup(it.vocab.DestinationTypes, in.text)
	if !ok {
		return
	}
	pkgOnly := packageWordRe.MatchString(in.text) && !serviceWordRe.MatchString(in.text)
	if destinationHintRe.MatchString(in.text) || pkgOnly {
		f.DestinationType = &v
	}
}

func (it *Interpreter) extractCategory(in *input, f *engine.FilterSet) {
	v, ok := schema.Lookup(it.vocab.Categories, in.text)
	if !ok {
		return
	}
	svcOnly := serviceWordRe.MatchString(in.text) && !packageWordRe.MatchString(in.text)
	if categoryHintRe.MatchString(in.text) || svcOnly {
		f.Category = &v
	}
}

func (it *Interpreter) extractCurrency(in *input, f *engine.FilterSet) {
	v, ok := schema.Lookup(it.vocab.Currencies, in.text)
	if !ok {
		return
	}
	if code, ok := currency.ParseCode(v); ok {
		f.Currency = &code
	}
}

// extractTier needs a customer word for nuevo/recurrente; "vip" stands alone.
func (it *Interpreter) extractTier(in *input, f *engine.FilterSet) {
	v, ok := schema.Lookup(it.vocab.Tiers, in.text)
	if !ok {
		return
	}
	tier, ok := engine.ParseTier(v)
	if !ok {
		return
	}
	if tier != engine.TierVIP && !customerWordRe.MatchString(in.text) {
		return
	}
	f.Tier = &tier
}

// ============================================================================
// FLAGS
// ============================================================================

var (
	campaignIDRe  = regexp.MustCompile(`\b(?:campanas?|campaigns?)\s+(?:#\s*|n(?:ro|umero|o)?\.?\s*)?(\d+)\b`)
	campaignRe    = regexp.MustCompile(`\b(sin\s+)?(?:campanas?|campaigns?|promocion(?:es)?)\b`)
	featuredRe    = regexp.MustCompile(`\b(?:destacad[oa]s?|featured)\b`)
	personalizeRe = regexp.MustCompile(`\b(?:personalizad[oa]s?|customi[sz]ed)\b`)
)

func extractCampaign(in *input, f *engine.FilterSet) {
	if m := campaignIDRe.FindStringSubmatch(in.text); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil && id > 0 {
			f.CampaignID = &id
			return
		}
	}
	for _, m := range campaignRe.FindAllStringSubmatch(in.text, -1) {
		if m[1] == "" {
			f.WithCampaign = engine.Ptr(true)
			return
		}
	}
}

func extractFeatured(in *input, f *engine.FilterSet) {
	if featuredRe.MatchString(in.text) {
		f.FeaturedOnly = engine.Ptr(true)
	}
}

func extractPersonalized(in *input, f *engine.FilterSet) {
	if personalizeRe.MatchString(in.text) {
		f.PersonalizedOnly = engine.Ptr(true)
	}
}

// ============================================================================
// REPORT KIND
// ============================================================================

var (
	productKindRe  = regexp.MustCompile(`\b(?:paquetes?|productos?|tours?|servicios?|packages?|products?|services?)\b`)
	salesKindRe    = regexp.MustCompile(`\b(?:ventas?|ingresos?|ganancias?|sales|revenue)\b`)
	customerKindRe = regexp.MustCompile(`\b(?:clientes?|usuarios?|compradores?|customers?)\b`)
)

// detectReportKind picks the report family; sales when nothing matches.
func detectReportKind(text string) ReportKind {
	switch {
	case productKindRe.MatchString(text):
		return ReportProducts
	case salesKindRe.MatchString(text):
		return ReportSales
	case customerKindRe.MatchString(text):
		return ReportCustomers
	}
	return ReportSales
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
