package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/spektr-org/reportes/currency"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Normalizer   *currency.Normalizer
	DefaultLimit int // top-N size when the FilterSet has no limit
	ChartLimit   int // best-seller chart size
	Logger       zerolog.Logger
	Now          func() time.Time
}

// Defaults used when no option overrides them.
const (
	DefaultLimit      = 5
	DefaultChartLimit = 10
)

// WithNormalizer sets the currency normalizer (primary, secondary, rate).
func WithNormalizer(n *currency.Normalizer) Option {
	return func(c *config) {
		if n != nil {
			c.Normalizer = n
		}
	}
}

// WithDefaultLimit sets the top-N size used when limite is absent.
func WithDefaultLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.DefaultLimit = n
		}
	}
}

// WithChartLimit sets how many products the best-seller chart keeps.
func WithChartLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.ChartLimit = n
		}
	}
}

// WithLogger sets the logger the engine reports through. Default is a no-op.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// WithClock sets the time source used for the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.Now = now
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Normalizer:   currency.Default(),
		DefaultLimit: DefaultLimit,
		ChartLimit:   DefaultChartLimit,
		Logger:       zerolog.Nop(),
		Now:          time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
