package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/reportes/config"
	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/helpers"
	"github.com/spektr-org/reportes/schema"
	"github.com/spektr-org/reportes/store"
	"github.com/spektr-org/reportes/store/sqlstore"
	"github.com/spektr-org/reportes/temporal"
	"github.com/spektr-org/reportes/translator"
)

// app holds the state shared by every subcommand once the persistent flags
// are parsed.
type app struct {
	configPath string
	filePath   string
	dsn        string

	out    io.Writer
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "reportes",
		Short:         "Reservation reports from natural-language commands",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a config file (YAML, TOML or JSON)")
	flags.StringVarP(&a.filePath, "file", "f", "", "Path to a reservations CSV export")
	flags.StringVar(&a.dsn, "db", "", "Database DSN (overrides database.dsn)")

	rootCmd.AddCommand(
		newQueryCmd(a),
		newServeCmd(a),
		newVocabCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	// A .env file in the working directory feeds REPORTES_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "load .env")
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dsn != "" {
		cfg.Database.DSN = a.dsn
	}
	a.cfg = cfg

	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(a.logger.WithContext(ctx))
	return nil
}

// source is an opened data source; Close releases database handles.
type source struct {
	reader store.Reader
	close  func() error
}

func (s *source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSource opens the CSV file when --file is set, the database otherwise.
func (a *app) openSource(ctx context.Context) (*source, error) {
	if a.filePath != "" {
		data, err := os.ReadFile(a.filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", a.filePath)
		}
		ds, err := helpers.ParseReservationsCSV(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", a.filePath)
		}
		zerolog.Ctx(ctx).Info().
			Str("file", a.filePath).
			Int("reservations", ds.Len()).
			Msg("csv loaded")
		return &source{reader: store.FromDataset(ds)}, nil
	}

	if a.cfg.Database.DSN == "" {
		return nil, errors.WithHint(
			errors.New("no data source"),
			"pass --file with a CSV export, or --db / REPORTES_DATABASE_DSN")
	}
	db, err := sqlstore.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	s, err := sqlstore.New(db, a.cfg.Normalizer().Primary())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &source{reader: s, close: db.Close}, nil
}

// vocabulary is the configured vocabulary merged with the values seen in ds.
func (a *app) vocabulary(ds *engine.Dataset) (schema.Vocabulary, error) {
	vocab, err := schema.Load(a.cfg.Vocabulary.Path)
	if err != nil {
		return schema.Vocabulary{}, err
	}
	return vocab.Merge(schema.Discover(ds)), nil
}

// newTranslator returns the local interpreter, wrapped in the AI chain when
// useAI is set.
func (a *app) newTranslator(vocab schema.Vocabulary, useAI bool) (translator.Translator, *translator.Interpreter) {
	resolver := temporal.New()
	local := translator.NewInterpreter(resolver, vocab)
	if !useAI {
		return local, local
	}
	if a.cfg.AI.Provider == config.ProviderNone {
		return translator.Chain(nil, local), local
	}
	return translator.Chain(translator.NewGemini(a.cfg.Translator(), vocab, resolver), local), local
}
