package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd exposes the manifest's charts over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboard charts as a JSON API",
	Long: `Start an HTTP server exposing the charts of a dashboard manifest.

Routes:
  GET /charts              - list chart names from the manifest
  GET /charts/{name}       - build one chart (query: sort, top, kind)
  GET /regions/{name}      - join a region chart against the region list
  GET /dashboard           - build every chart of the manifest
  GET /healthz             - liveness probe
  GET /metrics             - Prometheus metrics

Examples:
  genviz serve --manifest dashboard.yaml --addr :8080 --log-format json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		manifest, err := contract.LoadManifest(cfg.Manifest)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(cfg, cacheManager, manifest, logger).ListenAndServe(ctx)
	},
}
