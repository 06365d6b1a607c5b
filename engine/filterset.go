package engine

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/currency"
)

// ============================================================================
// FILTERSET — Contract between interpreters and the predicate compiler
// ============================================================================
// Fixed schema, every field optional. nil means "no constraint". JSON keys
// are the canonical vocabulary shared by the local interpreter, the AI
// interpreter and the HTTP layer.
// ============================================================================

// FilterSet is a canonical set of optional report constraints.
type FilterSet struct {
	StartDate        *time.Time       `json:"fecha_inicio,omitempty"`
	EndDate          *time.Time       `json:"fecha_fin,omitempty"`
	MinAmount        *decimal.Decimal `json:"monto_minimo,omitempty"`
	MaxAmount        *decimal.Decimal `json:"monto_maximo,omitempty"`
	ProductType      *ProductType     `json:"tipo_producto,omitempty"`
	Statuses         StatusSet        `json:"estado,omitempty"`
	Department       *string          `json:"departamento,omitempty"`
	City             *string          `json:"ciudad,omitempty"`
	DestinationType  *string          `json:"tipo_destino,omitempty"`
	Category         *string          `json:"categoria,omitempty"`
	Limit            *int             `json:"limite,omitempty"`
	Format           *Format          `json:"formato,omitempty"`
	Tier             *Tier            `json:"tipo_cliente,omitempty"`
	Currency         *currency.Code   `json:"moneda,omitempty"`
	CampaignID       *int64           `json:"campana_id,omitempty"`
	WithCampaign     *bool            `json:"con_campana,omitempty"`
	FeaturedOnly     *bool            `json:"solo_destacados,omitempty"`
	PersonalizedOnly *bool            `json:"solo_personalizados,omitempty"`
	CustomerID       *int64           `json:"cliente_id,omitempty"`
}

// Canonical filter keys.
const (
	KeyStartDate        = "fecha_inicio"
	KeyEndDate          = "fecha_fin"
	KeyMinAmount        = "monto_minimo"
	KeyMaxAmount        = "monto_maximo"
	KeyProductType      = "tipo_producto"
	KeyStatus           = "estado"
	KeyDepartment       = "departamento"
	KeyCity             = "ciudad"
	KeyDestinationType  = "tipo_destino"
	KeyCategory         = "categoria"
	KeyLimit            = "limite"
	KeyFormat           = "formato"
	KeyTier             = "tipo_cliente"
	KeyCurrency         = "moneda"
	KeyCampaignID       = "campana_id"
	KeyWithCampaign     = "con_campana"
	KeyFeaturedOnly     = "solo_destacados"
	KeyPersonalizedOnly = "solo_personalizados"
	KeyCustomerID       = "cliente_id"
)

// CanonicalKeys lists every key a FilterSet understands, in declaration order.
var CanonicalKeys = []string{
	KeyStartDate, KeyEndDate, KeyMinAmount, KeyMaxAmount, KeyProductType,
	KeyStatus, KeyDepartment, KeyCity, KeyDestinationType, KeyCategory,
	KeyLimit, KeyFormat, KeyTier, KeyCurrency, KeyCampaignID, KeyWithCampaign,
	KeyFeaturedOnly, KeyPersonalizedOnly, KeyCustomerID,
}

// IsCanonicalKey reports whether key belongs to the FilterSet vocabulary.
func IsCanonicalKey(key string) bool {
	for _, k := range CanonicalKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Keys returns the canonical keys of the fields that are set.
func (f FilterSet) Keys() []string {
	set := map[string]bool{
		KeyStartDate:        f.StartDate != nil,
		KeyEndDate:          f.EndDate != nil,
		KeyMinAmount:        f.MinAmount != nil,
		KeyMaxAmount:        f.MaxAmount != nil,
		KeyProductType:      f.ProductType != nil,
		KeyStatus:           len(f.Statuses) > 0,
		KeyDepartment:       f.Department != nil,
		KeyCity:             f.City != nil,
		KeyDestinationType:  f.DestinationType != nil,
		KeyCategory:         f.Category != nil,
		KeyLimit:            f.Limit != nil,
		KeyFormat:           f.Format != nil,
		KeyTier:             f.Tier != nil,
		KeyCurrency:         f.Currency != nil,
		KeyCampaignID:       f.CampaignID != nil,
		KeyWithCampaign:     f.WithCampaign != nil,
		KeyFeaturedOnly:     f.FeaturedOnly != nil,
		KeyPersonalizedOnly: f.PersonalizedOnly != nil,
		KeyCustomerID:       f.CustomerID != nil,
	}
	keys := make([]string, 0, len(set))
	for _, k := range CanonicalKeys {
		if set[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsEmpty returns true if no field is set.
func (f FilterSet) IsEmpty() bool { return len(f.Keys()) == 0 }

// HasStatus returns true if the caller asked for specific statuses.
func (f FilterSet) HasStatus() bool { return len(f.Statuses) > 0 }

// LimitOr returns the requested limit, or def when unset or not positive.
func (f FilterSet) LimitOr(def int) int {
	if f.Limit != nil && *f.Limit > 0 {
		return *f.Limit
	}
	return def
}

// FormatOr returns the requested format, defaulting to structured JSON.
func (f FilterSet) FormatOr() Format {
	if f.Format != nil {
		return *f.Format
	}
	return FormatJSON
}

// Merge overlays the fields set in other onto a copy of f.
func (f FilterSet) Merge(other FilterSet) FilterSet {
	out := f
	if other.StartDate != nil {
		out.StartDate = other.StartDate
	}
	if other.EndDate != nil {
		out.EndDate = other.EndDate
	}
	if other.MinAmount != nil {
		out.MinAmount = other.MinAmount
	}
	if other.MaxAmount != nil {
		out.MaxAmount = other.MaxAmount
	}
	if other.ProductType != nil {
		out.ProductType = other.ProductType
	}
	if len(other.Statuses) > 0 {
		out.Statuses = other.Statuses
	}
	if other.Department != nil {
		out.Department = other.Department
	}
	if other.City != nil {
		out.City = other.City
	}
	if other.DestinationType != nil {
		out.DestinationType = other.DestinationType
	}
	if other.Category != nil {
		out.Category = other.Category
	}
	if other.Limit != nil {
		out.Limit = other.Limit
	}
	if other.Format != nil {
		out.Format = other.Format
	}
	if other.Tier != nil {
		out.Tier = other.Tier
	}
	if other.Currency != nil {
		out.Currency = other.Currency
	}
	if other.CampaignID != nil {
		out.CampaignID = other.CampaignID
	}
	if other.WithCampaign != nil {
		out.WithCampaign = other.WithCampaign
	}
	if other.FeaturedOnly != nil {
		out.FeaturedOnly = other.FeaturedOnly
	}
	if other.PersonalizedOnly != nil {
		out.PersonalizedOnly = other.PersonalizedOnly
	}
	if other.CustomerID != nil {
		out.CustomerID = other.CustomerID
	}
	return out
}

// Ptr returns a pointer to v. Convenience for building FilterSets.
func Ptr[T any](v T) *T { return &v }

// ============================================================================
// STATUS SET
// ============================================================================

// StatusSet is a set of statuses kept in lifecycle order without duplicates.
// It unmarshals from a single string, a comma-separated string or an array;
// unknown values are dropped.
type StatusSet []Status

// NewStatusSet builds a normalised set.
func NewStatusSet(statuses ...Status) StatusSet {
	seen := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		seen[s] = true
	}
	out := make(StatusSet, 0, len(seen))
	for _, s := range AllStatuses {
		if seen[s] {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseStatusSet parses free-form values ("PAGADA,completada", "paid").
func ParseStatusSet(values ...string) StatusSet {
	var statuses []Status
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if st, ok := ParseStatus(part); ok {
				statuses = append(statuses, st)
			}
		}
	}
	return NewStatusSet(statuses...)
}

// Contains reports whether s is in the set.
func (ss StatusSet) Contains(s Status) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts "PAGADA", "PAGADA,COMPLETADA" or ["PAGADA", ...].
func (ss *StatusSet) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*ss = ParseStatusSet(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*ss = ParseStatusSet(many...)
	return nil
}

// Strings returns the wire values.
func (ss StatusSet) Strings() []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
