package main

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/store"
	"github.com/spektr-org/reportes/translator"
)

type queryOptions struct {
	format  string
	outFile string
	useAI   bool
}

func newQueryCmd(a *app) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <comando>",
		Short: "Interpret a command and print the report",
		Example: `  reportes query --file reservas.csv "ventas de La Paz del mes pasado"
  reportes query --db file:reservas.db --format csv --out top.csv "top 5 paquetes de Potosí"
  reportes query --file reservas.csv --ai "clientes vip con reservas pagadas"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, strings.Join(args, " "), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.format, "format", outputJSON, "Output format: json, pretty, csv")
	flags.StringVarP(&opts.outFile, "out", "o", "", "Write output to a file instead of stdout")
	flags.BoolVar(&opts.useAI, "ai", false, "Try the AI interpreter first (falls back to the local one)")
	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, text string, opts *queryOptions) error {
	if !validOutput(opts.format) {
		return errors.WithHintf(errors.Newf("unknown format %q", opts.format),
			"use %s, %s or %s", outputJSON, outputPretty, outputCSV)
	}
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	src, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close data source")
		}
	}()

	ds, err := store.Load(ctx, src.reader)
	if err != nil {
		return err
	}
	vocab, err := a.vocabulary(ds)
	if err != nil {
		return err
	}

	tr, _ := a.newTranslator(vocab, opts.useAI)
	interpretation, err := tr.Translate(ctx, text, "reportes")
	if err != nil {
		return errors.Wrap(err, "interpret command")
	}
	logger.Info().
		Str("source", string(interpretation.Source)).
		Str("interpretation", interpretation.Interpretation).
		Str("fallback", interpretation.FallbackReason).
		Msg("command interpreted")

	report := engine.Execute(interpretation.Filters, ds, a.cfg.EngineOptions(*logger)...)

	var w io.Writer = a.out
	if opts.outFile != "" {
		f, err := os.Create(opts.outFile)
		if err != nil {
			return errors.Wrapf(err, "create %s", opts.outFile)
		}
		defer f.Close()
		w = f
	}

	if opts.format == outputCSV {
		return writeCSV(w, report)
	}
	return writeJSON(w, queryOutput{
		Command:        text,
		Interpretation: interpretation,
		Report:         report,
	}, opts.format == outputPretty)
}

type queryOutput struct {
	Command        string                      `json:"comando"`
	Interpretation *translator.TranslateResult `json:"interpretacion"`
	Report         *engine.ReportResult        `json:"reporte"`
}
