package translator

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/reportes/engine"
)

// ============================================================================
// TRANSLATOR — Free text → canonical FilterSet
// ============================================================================
// Two implementations share one contract: the local Interpreter (keyword and
// regex extractors, always available) and the Gemini client. Both emit the
// same canonical FilterSet keys, so the predicate compiler never knows which
// one answered. Chain wraps the AI client and falls back to the local
// Interpreter on any failure.
// ============================================================================

// Translator turns a command into filters. scope is the caller's context
// string ("reportes" by default) and is only a hint.
type Translator interface {
	Translate(ctx context.Context, text, scope string) (*TranslateResult, error)
}

// TranslateResult is the interpretation of one command.
type TranslateResult struct {
	Filters        engine.FilterSet `json:"filtros"`
	Original       string           `json:"comando_original"`
	Interpretation string           `json:"interpretacion"`
	Action         Action           `json:"accion"`
	ReportKind     ReportKind       `json:"tipo_reporte"`
	Confidence     float64          `json:"confianza"`
	Source         Source           `json:"fuente"`
	Reply          string           `json:"respuesta_texto"`
	FallbackReason string           `json:"motivo_fallback,omitempty"`
}

// Format returns the requested document format, structured JSON by default.
func (r *TranslateResult) Format() engine.Format { return r.Filters.FormatOr() }

// UsedAI reports whether the AI interpreter produced the result.
func (r *TranslateResult) UsedAI() bool { return r.Source == SourceAI }

// ReportKind is the report family a command asks for.
type ReportKind string

const (
	ReportSales     ReportKind = "ventas"
	ReportCustomers ReportKind = "clientes"
	ReportProducts  ReportKind = "productos"
)

// ParseReportKind accepts the kinds and the older "paquetes" spelling.
func ParseReportKind(s string) (ReportKind, bool) {
	switch s {
	case "ventas":
		return ReportSales, true
	case "clientes":
		return ReportCustomers, true
	case "productos", "paquetes", "servicios":
		return ReportProducts, true
	}
	return "", false
}

// Action is what the caller should do with the interpretation.
type Action string

const (
	ActionReport Action = "generar_reporte"
	ActionQuery  Action = "consulta"
	ActionHelp   Action = "ayuda"
	ActionClear  Action = "limpiar_filtros"
)

func parseAction(s string) Action {
	switch a := Action(s); a {
	case ActionReport, ActionQuery, ActionHelp, ActionClear:
		return a
	}
	return ActionReport
}

// Source names the interpreter that answered.
type Source string

const (
	SourceAI    Source = "ia"
	SourceLocal Source = "local"
)

// Sentinel errors of the AI boundary. Chain treats every error as a reason
// to fall back; these let callers tell the cases apart.
var (
	ErrUnavailable       = errors.New("ai interpreter unavailable")
	ErrMalformedResponse = errors.New("malformed ai response")
)

// Config holds the AI provider settings.
type Config struct {
	APIKey   string        // provider API key; empty disables the client
	Model    string        // model name
	Endpoint string        // API base URL
	Timeout  time.Duration // per-request timeout
}

// Defaults for the Gemini client.
const (
	DefaultModel    = "gemini-2.0-flash"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultTimeout  = 30 * time.Second
)

// DefaultGeminiConfig returns a Config with the Gemini defaults.
func DefaultGeminiConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		Model:    DefaultModel,
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
	}
}
