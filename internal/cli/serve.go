// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/middleware"
	"github.com/tomtom215/menurec/internal/supervisor"
	"github.com/tomtom215/menurec/internal/supervisor/services"
)

const healthPath = "/healthz"

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine under the supervision tree",
		Long: `Run the engine until SIGINT or SIGTERM. The supervision tree keeps
trending scores fresh, routes feedback and orders through the event bus,
snapshots learned state when --state or store.enabled is set, and serves
Prometheus metrics and a health check when metrics.enabled is set.

Example:
  menurec serve --catalog items.json --state /var/lib/menurec`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root)
		},
	}
}

func runServe(ctx context.Context, root *rootOptions) error {
	a, err := newApp(root, true)
	if err != nil {
		return err
	}
	defer closeApp(a)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), a.cfg.Supervisor)
	if err != nil {
		a.closeBus()
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	a.addServices(tree)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	if err := a.seedWhenReady(ctx); err != nil {
		a.logger.Error().Err(err).Msg("seeding catalog state failed, shutting down")
		cancel()
	}

	var serveErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error().Err(err).Msg("supervisor tree error")
			serveErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		a.logger.Warn().Str("service", svc.Name).Msg("service failed to stop")
	}

	a.logger.Info().Msg("menurec stopped")
	return serveErr
}

// addServices registers the long-running services on the tree.
func (a *app) addServices(tree *supervisor.SupervisorTree) {
	logger := logging.Logger()

	tree.AddStateService(services.NewTrendingRefreshService(a.engine.Trending(), a.cfg.Trending.RefreshInterval, logger))
	if a.store != nil {
		snap := services.NewSnapshotService(a.store, a.state(), a.cfg.Store.SnapshotInterval, logger)
		snap.SkipRestore()
		tree.AddStateService(snap)
	}

	if a.bus != nil {
		tree.AddMessagingService(services.NewEventBusService(a.bus, logger))
	}

	if a.cfg.Metrics.Enabled {
		tree.AddAPIService(services.NewEndpointService(a.cfg.Metrics.Addr, a.handler(), a.cfg.Supervisor.ShutdownTimeout, logger))
		a.logger.Info().Str("addr", a.cfg.Metrics.Addr).Str("path", a.cfg.Metrics.Path).Msg("metrics endpoint enabled")
	}
}

// seedWhenReady seeds the catalog state once the bus accepts events.
func (a *app) seedWhenReady(ctx context.Context) error {
	if a.restored {
		return nil
	}
	if a.bus != nil {
		select {
		case <-a.bus.Running():
		case <-ctx.Done():
			return nil
		}
	}
	return a.seed(ctx)
}

type healthStatus struct {
	Status       string `json:"status"`
	TrackedItems int    `json:"tracked_items"`
	Profiles     int    `json:"profiles"`
	BusRunning   bool   `json:"bus_running"`
}

func (a *app) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	if limit := a.cfg.Metrics.RateLimit; limit > 0 {
		r.Use(httprate.LimitByIP(limit, a.cfg.Metrics.RateWindow))
	}

	r.Method(http.MethodGet, a.cfg.Metrics.Path, promhttp.Handler())
	r.Get(healthPath, a.handleHealth)
	return r
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:       "ok",
		TrackedItems: a.engine.Trending().Tracked(),
		Profiles:     a.engine.Profiles().Count(),
		BusRunning:   a.bus != nil && a.bus.IsRunning(),
	}
	if a.bus != nil && !status.BusRunning {
		status.Status = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, status); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("writing health response")
	}
}
