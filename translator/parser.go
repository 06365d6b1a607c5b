package translator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/schema"
	"github.com/spektr-org/reportes/temporal"
)

// ============================================================================
// RESPONSE PARSER — AI JSON → TranslateResult
// ============================================================================
// The model answers with one JSON object. Filters go through the same
// structured-params path as the HTTP query string, so both interpreters
// produce identical FilterSets for identical values.
//
// Rules:
//   - Markdown code fences are stripped
//   - Unknown filter keys make the whole response malformed
//   - null, "" and "null" filter values are dropped
//   - Missing fields get defaults; confidence is clamped to [0, 1]
// ============================================================================

// defaultAIConfidence applies when the model omits "confianza".
const defaultAIConfidence = 0.7

type aiResponse struct {
	Interpretation string                     `json:"interpretacion"`
	Action         string                     `json:"accion"`
	ReportKind     string                     `json:"tipo_reporte"`
	Format         string                     `json:"formato"`
	Filters        map[string]json.RawMessage `json:"filtros"`
	Reply          string                     `json:"respuesta_texto"`
	Confidence     *float64                   `json:"confianza"`
}

// parseResponse validates a model answer and builds the result.
func parseResponse(text, original string, resolver *temporal.Resolver, vocab schema.Vocabulary) (*TranslateResult, error) {
	body := stripFences(text)

	var resp aiResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "decode: %v (response: %.200s)", err, body)
	}

	q := url.Values{}
	for key, raw := range resp.Filters {
		if !engine.IsCanonicalKey(key) {
			return nil, errors.Wrapf(ErrMalformedResponse, "unknown filter key %q", key)
		}
		values, err := filterValues(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedResponse, "filter %q: %v", key, err)
		}
		for _, v := range values {
			q.Add(key, v)
		}
	}
	if resp.Format != "" && q.Get(engine.KeyFormat) == "" {
		q.Set(engine.KeyFormat, resp.Format)
	}

	f := FromParams(q, resolver, vocab)

	kind, ok := ParseReportKind(strings.TrimSpace(resp.ReportKind))
	if !ok {
		kind = ReportSales
	}
	result := &TranslateResult{
		Filters:        f,
		Original:       original,
		Interpretation: strings.TrimSpace(resp.Interpretation),
		Action:         parseAction(strings.TrimSpace(resp.Action)),
		ReportKind:     kind,
		Confidence:     clampConfidence(resp.Confidence),
		Source:         SourceAI,
		Reply:          strings.TrimSpace(resp.Reply),
	}
	if result.Interpretation == "" {
		result.Interpretation = Describe(f)
	}
	if result.Reply == "" {
		result.Reply = buildReply(kind, f)
	}
	return result, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// filterValues flattens one JSON filter value into query values.
// Arrays become repeated values; null and empty strings become none.
func filterValues(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		var out []string
		for _, item := range x {
			s, ok := scalarString(item)
			if !ok {
				return nil, errors.Newf("unsupported array item %v", item)
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		s, ok := scalarString(x)
		if !ok {
			return nil, errors.Newf("unsupported value %v", x)
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	}
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		s := strings.TrimSpace(x)
		if strings.EqualFold(s, "null") {
			return "", true
		}
		return s, true
	case json.Number:
		return x.String(), true
	case bool:
		return fmt.Sprint(x), true
	}
	return "", false
}

func clampConfidence(c *float64) float64 {
	if c == nil {
		return defaultAIConfidence
	}
	switch {
	case *c < 0:
		return 0
	case *c > 1:
		return 1
	}
	return *c
}
