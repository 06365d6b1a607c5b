package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvert(t *testing.T) {
	n := Default()

	assert.True(t, d("696").Equal(n.Convert(d("100"), USD, BOB)))
	assert.True(t, d("100").Equal(n.Convert(d("696"), BOB, USD)))
	assert.True(t, d("42.5").Equal(n.Convert(d("42.5"), USD, USD)))
}

func TestConvertRoundTrip(t *testing.T) {
	n := Default()
	tolerance := d("0.005")

	for _, s := range []string{"0.01", "1", "3.33", "1000", "1234.56", "99999.99"} {
		x := d(s)
		back := n.Convert(n.Convert(x, USD, BOB), BOB, USD)
		assert.True(t, back.Sub(x).Abs().LessThanOrEqual(tolerance), "round trip of %s gave %s", s, back)

		back = n.Convert(n.Convert(x, BOB, USD), USD, BOB)
		assert.True(t, back.Sub(x).Abs().LessThanOrEqual(tolerance), "reverse round trip of %s gave %s", s, back)
	}
}

func TestUnknownCurrencyDefaultsToPrimary(t *testing.T) {
	n := Default()

	assert.Equal(t, USD, n.Normalize("EUR"))
	assert.Equal(t, USD, n.Normalize(""))
	assert.True(t, d("10").Equal(n.Convert(d("10"), "EUR", USD)))
	assert.True(t, d("69.6").Equal(n.Convert(d("10"), "EUR", BOB)))
}

func TestInjectedRate(t *testing.T) {
	n := New(USD, BOB, d("7"))
	assert.True(t, d("70").Equal(n.ToCanonical(d("490"), BOB)))
	assert.True(t, d("14").Equal(n.FromCanonical(d("2"), BOB)))

	fallback := New(USD, BOB, decimal.Zero)
	assert.True(t, DefaultRate.Equal(fallback.Rate()))
}

func TestNoRoundingUntilPresent(t *testing.T) {
	n := Default()
	v := n.Convert(d("1"), BOB, USD)

	assert.False(t, v.Equal(v.Round(2)), "conversion must keep full precision")
	assert.Equal(t, "0.14", Present(v).StringFixed(2))
}

func TestParseCode(t *testing.T) {
	cases := map[string]Code{
		"USD":        USD,
		"dólares":    USD,
		"dolar":      USD,
		"Bs":         BOB,
		"bolivianos": BOB,
	}
	for in, want := range cases {
		got, ok := ParseCode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseCode("yen")
	assert.False(t, ok)
	assert.Equal(t, USD, ParseCodeOr("yen", USD))
}
