package currency

import (
	"github.com/shopspring/decimal"

	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// CURRENCY NORMALIZER — Fixed-rate conversion between two currencies
// ============================================================================
// One primary unit = Rate secondary units. The primary currency is also the
// canonical currency: every sum is accumulated there, unrounded, and only
// converted/rounded when a value leaves the engine (Present).
// ============================================================================

// Code is an ISO-like currency code.
type Code string

const (
	USD Code = "USD"
	BOB Code = "BOB"
)

// DefaultRate is the BOB per USD rate used when nothing is configured.
var DefaultRate = decimal.RequireFromString("6.96")

var aliases = map[string]Code{
	"usd":        USD,
	"us$":        USD,
	"$us":        USD,
	"dolar":      USD,
	"dolares":    USD,
	"bob":        BOB,
	"bs":         BOB,
	"bs.":        BOB,
	"boliviano":  BOB,
	"bolivianos": BOB,
}

// Normalizer converts amounts between a primary and a secondary currency.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	primary   Code
	secondary Code
	rate      decimal.Decimal
}

// New creates a Normalizer. A non-positive rate falls back to DefaultRate.
func New(primary, secondary Code, rate decimal.Decimal) *Normalizer {
	if primary == "" {
		primary = USD
	}
	if secondary == "" {
		secondary = BOB
	}
	if !rate.IsPositive() {
		rate = DefaultRate
	}
	return &Normalizer{primary: primary, secondary: secondary, rate: rate}
}

// Default returns the USD/BOB normalizer at DefaultRate.
func Default() *Normalizer {
	return New(USD, BOB, DefaultRate)
}

func (n *Normalizer) Primary() Code         { return n.primary }
func (n *Normalizer) Secondary() Code       { return n.secondary }
func (n *Normalizer) Rate() decimal.Decimal { return n.rate }

// Canonical is the currency intermediate sums are kept in.
func (n *Normalizer) Canonical() Code { return n.primary }

// Supports reports whether code is one of the two configured currencies.
func (n *Normalizer) Supports(code Code) bool {
	return code == n.primary || code == n.secondary
}

// Normalize maps unsupported or empty codes to the primary currency.
func (n *Normalizer) Normalize(code Code) Code {
	if n.Supports(code) {
		return code
	}
	return n.primary
}

// Convert converts amount from one currency to another without rounding.
func (n *Normalizer) Convert(amount decimal.Decimal, from, to Code) decimal.Decimal {
	from, to = n.Normalize(from), n.Normalize(to)
	if from == to {
		return amount
	}
	if from == n.primary {
		return amount.Mul(n.rate)
	}
	return amount.Div(n.rate)
}

// ToCanonical converts amount into the canonical currency.
func (n *Normalizer) ToCanonical(amount decimal.Decimal, from Code) decimal.Decimal {
	return n.Convert(amount, from, n.primary)
}

// FromCanonical converts a canonical amount into the requested currency.
func (n *Normalizer) FromCanonical(amount decimal.Decimal, to Code) decimal.Decimal {
	return n.Convert(amount, n.primary, to)
}

// Present rounds an amount for display. Nothing else in the module rounds money.
func Present(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ParseCode maps free text ("Bs", "dólares", "usd") to a Code.
// ok is false when the text is not a known currency.
func ParseCode(s string) (Code, bool) {
	key := fold.String(s)
	if key == "" {
		return "", false
	}
	code, ok := aliases[key]
	return code, ok
}

// ParseCodeOr is ParseCode with a fallback for unknown input.
func ParseCodeOr(s string, fallback Code) Code {
	if code, ok := ParseCode(s); ok {
		return code
	}
	return fallback
}
