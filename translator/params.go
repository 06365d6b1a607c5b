package translator

import (
	"net/url"
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
// STRUCTURED PARAMS — Query string → FilterSet
// ============================================================================
// Same canonical keys as the JSON form of engine.FilterSet. Values that do
// not parse are dropped; the remaining filters still apply. Free-text
// attributes (departamento, ciudad, tipo_destino, categoria) take the
// vocabulary spelling when one matches and the trimmed value otherwise.
// ============================================================================

// FromParams builds a FilterSet from URL query values.
func FromParams(q url.Values, resolver *temporal.Resolver, vocab schema.Vocabulary) engine.FilterSet {
	if resolver == nil {
		resolver = temporal.New()
	}
	var f engine.FilterSet

	if t, ok := resolver.ParseDate(param(q, engine.KeyStartDate)); ok {
		f.StartDate = &t
	}
	if raw := param(q, engine.KeyEndDate); raw != "" {
		if t, ok := resolver.ParseDate(raw); ok {
			if isDateOnly(raw) {
				t = temporal.EndOfDay(t)
			}
			f.EndDate = &t
		}
	}

	f.MinAmount = decimalParam(q, engine.KeyMinAmount)
	f.MaxAmount = decimalParam(q, engine.KeyMaxAmount)

	if pt, ok := engine.ParseProductType(param(q, engine.KeyProductType)); ok {
		f.ProductType = &pt
	}
	if values := q[engine.KeyStatus]; len(values) > 0 {
		f.Statuses = engine.ParseStatusSet(values...)
	}

	f.Department = vocabParam(q, engine.KeyDepartment, vocab.Departments)
	f.City = vocabParam(q, engine.KeyCity, vocab.Cities)
	f.DestinationType = vocabParam(q, engine.KeyDestinationType, vocab.DestinationTypes)
	f.Category = vocabParam(q, engine.KeyCategory, vocab.Categories)

	if n, err := strconv.Atoi(param(q, engine.KeyLimit)); err == nil && n > 0 {
		f.Limit = &n
	}
	if fm, ok := engine.ParseFormat(param(q, engine.KeyFormat)); ok {
		f.Format = &fm
	}
	if tier, ok := engine.ParseTier(param(q, engine.KeyTier)); ok {
		f.Tier = &tier
	}
	if code, ok := currency.ParseCode(param(q, engine.KeyCurrency)); ok {
		f.Currency = &code
	}

	f.CampaignID = idParam(q, engine.KeyCampaignID)
	f.CustomerID = idParam(q, engine.KeyCustomerID)
	f.WithCampaign = boolParam(q, engine.KeyWithCampaign)
	f.FeaturedOnly = boolParam(q, engine.KeyFeaturedOnly)
	f.PersonalizedOnly = boolParam(q, engine.KeyPersonalizedOnly)

	return f
}

func param(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

func isDateOnly(raw string) bool {
	return !strings.ContainsAny(raw, "T:")
}

func decimalParam(q url.Values, key string) *decimal.Decimal {
	raw := param(q, key)
	if raw == "" {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return nil
	}
	return &v
}

func vocabParam(q url.Values, key string, terms []schema.Term) *string {
	raw := param(q, key)
	if raw == "" {
		return nil
	}
	if v, ok := schema.Canonical(terms, raw); ok {
		return &v
	}
	return &raw
}

func idParam(q url.Values, key string) *int64 {
	id, err := strconv.ParseInt(param(q, key), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func boolParam(q url.Values, key string) *bool {
	raw := param(q, key)
	if raw == "" {
		return nil
	}
	switch fold.String(raw) {
	case "1", "true", "si", "yes", "on":
		return engine.Ptr(true)
	case "0", "false", "no", "off":
		return engine.Ptr(false)
	}
	return nil
}
