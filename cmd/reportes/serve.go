package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/reportes/server"
	"github.com/spektr-org/reportes/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.runServe(cmd)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
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

	// The vocabulary is discovered once at startup; reports reload the data
	// on every request.
	ds, err := store.Load(ctx, src.reader)
	if err != nil {
		return err
	}
	vocab, err := a.vocabulary(ds)
	if err != nil {
		return err
	}
	tr, local := a.newTranslator(vocab, true)

	api := server.NewWebAPI(server.Config{
		Addr:            a.cfg.Server.Addr,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		RequestTimeout:  a.cfg.Server.RequestTimeout,
		Dependencies: server.Dependencies{
			Reader:        src.reader,
			Translator:    tr,
			Local:         local,
			AIAvailable:   a.cfg.AIEnabled(),
			EngineOptions: a.cfg.EngineOptions(a.logger),
			Logger:        a.logger,
		},
	})

	logger.Info().
		Int("reservations", ds.Len()).
		Bool("ai", a.cfg.AIEnabled()).
		Msg("report api ready")
	return api.Start(ctx)
}
