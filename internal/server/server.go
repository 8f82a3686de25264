// Package server exposes charts over HTTP. Every request reloads its source
// and rebuilds the chart, so a re-sort is a fresh pipeline run.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Server serves the charts of one dashboard manifest.
type Server struct {
	cfg      *contract.Config
	mgr      contract.CacheManager
	loader   contract.DatasetLoader
	manifest *schema.Manifest
	specs    map[string]schema.ChartSpec
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
}

// New builds a Server for manifest using the configured loader and cache manager.
func New(cfg *contract.Config, mgr contract.CacheManager, manifest *schema.Manifest, logger *slog.Logger) *Server {
	return newServer(cfg, mgr, core.NewLoader(cfg, mgr), manifest, logger)
}

func newServer(cfg *contract.Config, mgr contract.CacheManager, loader contract.DatasetLoader, manifest *schema.Manifest, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	specs := make(map[string]schema.ChartSpec, len(manifest.Charts))
	for _, spec := range manifest.Charts {
		specs[spec.Name] = spec
	}

	registry := prometheus.NewRegistry()
	return &Server{
		cfg:      cfg,
		mgr:      mgr,
		loader:   loader,
		manifest: manifest,
		specs:    specs,
		logger:   logger.With(slog.String("component", "server")),
		registry: registry,
		metrics:  newMetrics(registry),
	}
}

// Routes returns the HTTP handler with every route mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/charts", s.handleListCharts)
		r.Route("/charts/{name}", func(r chi.Router) {
			r.Use(s.chartCtx)
			r.Get("/", s.handleChart)
		})
		r.Route("/regions/{name}", func(r chi.Router) {
			r.Use(s.chartCtx)
			r.Get("/", s.handleRegions)
		})
		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.cfg.Addr), slog.Int("charts", len(s.manifest.Charts)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
