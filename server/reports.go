package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/schema"
	"github.com/spektr-org/reportes/store"
	"github.com/spektr-org/reportes/translator"
)

const (
	defaultScope    = "reportes"
	maxRequestBytes = 64 << 10

	errMissingCommand = `El campo "comando" (o alias "prompt"/"texto") es requerido y no puede estar vacío`
	errInvalidBody    = "El cuerpo de la solicitud debe ser JSON válido"
	errInterpret      = "Error al procesar el comando"
	errLoadData       = "Error al cargar los datos del reporte"
)

// commandRequest accepts the field names used by the different clients.
type commandRequest struct {
	Command string `json:"comando"`
	Prompt  string `json:"prompt"`
	Text    string `json:"texto"`
	Scope   string `json:"contexto"`
}

func (r commandRequest) text() string {
	for _, s := range []string{r.Command, r.Prompt, r.Text} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type interpretResponse struct {
	Success bool `json:"success"`
	*translator.TranslateResult
	UsedAI      bool `json:"usando_ia"`
	AIAvailable bool `json:"ia_disponible"`
}

type commandResponse struct {
	interpretResponse
	Report *engine.ReportResult `json:"reporte"`
}

type reportHandler struct {
	deps Dependencies
}

func newReportHandler(deps Dependencies) *reportHandler {
	if deps.Local == nil {
		deps.Local = translator.NewInterpreter(nil, schema.Default())
	}
	if deps.Translator == nil {
		deps.Translator = deps.Local
	}
	return &reportHandler{deps: deps}
}

// Interpret answers POST /api/reportes/ia/procesar with the filters a
// command maps to, without running the report.
func (h *reportHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	result, ok := h.translate(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, h.interpretation(result))
}

// Command answers POST /api/reportes/comando: interpret, then execute.
func (h *reportHandler) Command(w http.ResponseWriter, r *http.Request) {
	result, ok := h.translate(w, r)
	if !ok {
		return
	}
	report, ok := h.execute(w, r, result.Filters)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, commandResponse{
		interpretResponse: h.interpretation(result),
		Report:            report,
	})
}

// Report answers GET /api/reportes with filters taken from the query string.
func (h *reportHandler) Report(w http.ResponseWriter, r *http.Request) {
	filters := translator.FromParams(r.URL.Query(), h.deps.Local.Resolver(), h.deps.Local.Vocabulary())
	report, ok := h.execute(w, r, filters)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (h *reportHandler) translate(w http.ResponseWriter, r *http.Request) (*translator.TranslateResult, bool) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req commandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, r, http.StatusBadRequest, errInvalidBody)
		return nil, false
	}
	text := req.text()
	if text == "" {
		writeError(w, r, http.StatusBadRequest, errMissingCommand)
		return nil, false
	}
	scope := strings.TrimSpace(req.Scope)
	if scope == "" {
		scope = defaultScope
	}

	result, err := h.deps.Translator.Translate(ctx, text, scope)
	if err != nil {
		logger.Error().Err(err).Msg("failed to interpret command")
		writeError(w, r, http.StatusInternalServerError, errInterpret)
		return nil, false
	}
	result.Original = text

	logger.Info().
		Str("source", string(result.Source)).
		Strs("filters", result.Filters.Keys()).
		Msg("command interpreted")
	return result, true
}

func (h *reportHandler) interpretation(result *translator.TranslateResult) interpretResponse {
	return interpretResponse{
		Success:         true,
		TranslateResult: result,
		UsedAI:          result.UsedAI(),
		AIAvailable:     h.deps.AIAvailable,
	}
}

func (h *reportHandler) execute(w http.ResponseWriter, r *http.Request, filters engine.FilterSet) (*engine.ReportResult, bool) {
	ctx := r.Context()

	ds, err := store.Load(ctx, h.deps.Reader)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load dataset")
		writeError(w, r, http.StatusInternalServerError, errLoadData)
		return nil, false
	}
	return engine.Execute(filters, ds, h.deps.EngineOptions...), true
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
