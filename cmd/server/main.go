package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/config"
	"github.com/Simplici0/printquote/internal/export"
	"github.com/Simplici0/printquote/internal/jobschema"
	"github.com/Simplici0/printquote/internal/quote"
	"github.com/Simplici0/printquote/internal/seed"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	quotes  *quote.Service
	exports *export.Service
	jobs    *jobschema.Validator
	logger  *slog.Logger
	now     func() time.Time
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server.failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts)).With("app", cfg.AppName)
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := quote.OpenStore(ctx, cfg.StoreConfig(), logger)
	if err != nil {
		return fmt.Errorf("open quote store: %w", err)
	}
	defer store.Close()

	if cfg.SeedSampleData {
		if _, err := seed.Run(ctx, store, logger); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
	}

	srv, err := newServer(store, cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", httpServer.Addr, "store", string(cfg.Store))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func newServer(store quote.Store, cfg config.Config, logger *slog.Logger) (*server, error) {
	jobs, err := jobschema.New()
	if err != nil {
		return nil, fmt.Errorf("compile job schema: %w", err)
	}

	var opts []quote.Option
	if !cfg.EnableInsights {
		opts = append(opts, quote.WithoutInsights())
	}

	return &server{
		quotes:  quote.NewService(store, catalog.Builtin(), logger, opts...),
		exports: export.NewService(cfg.AppURL, logger),
		jobs:    jobs,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Post("/calculate/swap", s.handleSwapFilament)
		r.Get("/filaments", s.handleFilaments)
		r.Get("/printers", s.handlePrinters)

		r.Get("/quotes", s.handleQuotesList)
		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes/export.xlsx", s.handleQuotesWorkbook)
		r.Get("/quotes/{id}", s.handleQuoteGet)
		r.Patch("/quotes/{id}", s.handleQuoteUpdate)
		r.Delete("/quotes/{id}", s.handleQuoteDelete)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
		r.Get("/quotes/{id}/pdf", s.handleQuotePDF)
		r.Get("/quotes/{id}/mailto", s.handleQuoteMailto)

		r.Get("/presets", s.handlePresetsList)
		r.Post("/presets", s.handlePresetCreate)
	})
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
