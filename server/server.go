// Package server exposes the report engine over HTTP.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/spektr-org/reportes/engine"
	reportesmiddleware "github.com/spektr-org/reportes/server/middleware"
	"github.com/spektr-org/reportes/store"
	"github.com/spektr-org/reportes/translator"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultRequestTimeout  = 60 * time.Second
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	// Reader is loaded once per report request.
	Reader store.Reader
	// Translator answers free-text commands, usually a Chain.
	Translator translator.Translator
	// Local resolves structured query parameters.
	Local *translator.Interpreter
	// AIAvailable is reported to clients as ia_disponible.
	AIAvailable   bool
	EngineOptions []engine.Option
	Logger        zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter builds the routing tree.
func ConfigureRouter(config Config) *chi.Mux {
	h := newReportHandler(config.Dependencies)

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	logger := config.Dependencies.Logger

	router := chi.NewRouter()
	router.Use(reportesmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(timeout))

	router.Route("/api/reportes", func(r chi.Router) {
		r.Get("/", h.Report)
		r.Post("/comando", h.Command)
		r.Post("/ia/procesar", h.Interpret)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	shutdown := config.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdown,
	}
}

// Handler returns the root handler.
func (w *WebAPI) Handler() http.Handler { return w.router }

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains outstanding requests for at most the shutdown timeout.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
	case <-ctx.Done():
	}
	w.logger.Info().Msg("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()

	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.Error().Err(err).Msg("graceful shutdown failed")
		return w.server.Close()
	}
	return nil
}
