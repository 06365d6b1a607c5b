// Package config loads the service configuration from defaults, an optional
// file and REPORTES_* environment variables, in increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/spektr-org/reportes/currency"
	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/translator"
)

// EnvPrefix prefixes every environment override: ai.api_key is read from
// REPORTES_AI_API_KEY.
const EnvPrefix = "REPORTES"

// Registered database/sql drivers. MySQL DSNs need parseTime=true.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// AI providers.
const (
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

type Config struct {
	Currency   CurrencyConfig   `mapstructure:"currency"`
	Report     ReportConfig     `mapstructure:"report"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	AI         AIConfig         `mapstructure:"ai"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Log        LogConfig        `mapstructure:"log"`
}

type CurrencyConfig struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	// Rate is secondary units per primary unit, kept as text so it is
	// parsed exactly.
	Rate string `mapstructure:"rate"`
}

type ReportConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	ChartLimit   int `mapstructure:"chart_limit"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type VocabularyConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for AutomaticEnv to reach them through Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("currency.primary", string(currency.USD))
	v.SetDefault("currency.secondary", string(currency.BOB))
	v.SetDefault("currency.rate", currency.DefaultRate.String())

	v.SetDefault("report.default_limit", 5)
	v.SetDefault("report.chart_limit", 10)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "")

	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", translator.DefaultModel)
	v.SetDefault("ai.endpoint", translator.DefaultEndpoint)
	v.SetDefault("ai.timeout", translator.DefaultTimeout)

	v.SetDefault("vocabulary.path", "")
	v.SetDefault("log.level", zerolog.InfoLevel.String())
}

// New returns a viper instance with defaults and environment binding but no
// file.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads path (YAML, TOML or JSON by extension) when non-empty and
// returns the validated configuration.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if _, err := c.rate(); err != nil {
		return err
	}
	if _, ok := currency.ParseCode(c.Currency.Primary); !ok {
		return errors.WithHintf(
			errors.Newf("unknown primary currency %q", c.Currency.Primary),
			"use %s or %s", currency.USD, currency.BOB)
	}
	if _, ok := currency.ParseCode(c.Currency.Secondary); !ok {
		return errors.WithHintf(
			errors.Newf("unknown secondary currency %q", c.Currency.Secondary),
			"use %s or %s", currency.USD, currency.BOB)
	}
	if c.Report.DefaultLimit <= 0 || c.Report.ChartLimit <= 0 {
		return errors.Newf("report limits must be positive (default_limit=%d, chart_limit=%d)",
			c.Report.DefaultLimit, c.Report.ChartLimit)
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		return errors.WithHintf(
			errors.Newf("unknown database.driver %q", c.Database.Driver),
			"use %q or %q", DriverSQLite, DriverMySQL)
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderNone:
	default:
		return errors.WithHintf(
			errors.Newf("unknown ai.provider %q", c.AI.Provider),
			"use %q or %q", ProviderGemini, ProviderNone)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "parse log.level")
	}
	return nil
}

func (c *Config) rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.Currency.Rate))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse currency.rate %q", c.Currency.Rate)
	}
	if !rate.IsPositive() {
		return decimal.Zero, errors.Newf("currency.rate must be positive, got %s", rate)
	}
	return rate, nil
}

// Normalizer builds the currency normalizer for the configured pair.
func (c *Config) Normalizer() *currency.Normalizer {
	rate, _ := c.rate()
	return currency.New(
		currency.ParseCodeOr(c.Currency.Primary, currency.USD),
		currency.ParseCodeOr(c.Currency.Secondary, currency.BOB),
		rate,
	)
}

// EngineOptions returns the executor options implied by the configuration.
func (c *Config) EngineOptions(logger zerolog.Logger) []engine.Option {
	return []engine.Option{
		engine.WithNormalizer(c.Normalizer()),
		engine.WithDefaultLimit(c.Report.DefaultLimit),
		engine.WithChartLimit(c.Report.ChartLimit),
		engine.WithLogger(logger),
	}
}

// Level returns the configured log level, info when unparseable.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// AIEnabled reports whether the AI interpreter should be tried at all.
func (c *Config) AIEnabled() bool {
	return c.AI.Provider == ProviderGemini && c.AI.APIKey != ""
}

// Translator returns the Gemini client configuration.
func (c *Config) Translator() translator.Config {
	return translator.Config{
		APIKey:   c.AI.APIKey,
		Model:    c.AI.Model,
		Endpoint: c.AI.Endpoint,
		Timeout:  c.AI.Timeout,
	}
}
