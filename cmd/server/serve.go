package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"survey-dashboard/internal/api"
	"survey-dashboard/internal/config"
	"survey-dashboard/internal/service"
	"survey-dashboard/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP (default command)",
	RunE:  runServe,
}

func init() {
	registerServeFlags(serveCmd)
}

func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides PORT)")
}

// app holds the wired components of one dashboard process
type app struct {
	loader    *service.CachedLoader
	dashboard *service.DashboardService
	export    *service.ExportService
}

func newApp(c *config.Config) (*app, error) {
	src, err := service.NewLoader(c.SourceLocator(), c.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	loader := service.NewCachedLoader(src, state.NewCache(c.CacheTTL), c.HTTPTimeout)
	renderer := service.NewChartRenderer(c.ChartWidth, c.ChartHeight)
	return &app{
		loader:    loader,
		dashboard: service.NewDashboardService(loader, renderer, c.AnalysisOptions()),
		export:    service.NewExportService(),
	}, nil
}

func newRouter(c *config.Config, a *app) http.Handler {
	handler := api.NewHandler(a.dashboard, a.loader, a.export, c.RefreshInterval, c.CORSOrigins)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handler.RegisterRoutes(r)
	return r
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	refresher := service.NewRefresher(a.loader, cfg.RefreshInterval)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	if fs, ok := isFileSource(cfg.SourceLocator()); ok {
		watcher, err := service.WatchFile(fs.Path, service.DefaultDebounce, a.loader.Invalidate)
		if err != nil {
			slog.Warn("file watch disabled", "path", fs.Path, "error", err)
		} else {
			defer watcher.Close()
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting survey dashboard", "addr", fmt.Sprintf("http://localhost%s", cfg.Addr()), "source", a.loader.Locator())
	slog.Info("page refresh", "interval", cfg.RefreshInterval, "cache_ttl", cfg.CacheTTL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func isFileSource(locator string) (*service.FileSource, bool) {
	src, err := service.NewLoader(locator, 0)
	if err != nil {
		return nil, false
	}
	fs, ok := src.(*service.FileSource)
	return fs, ok
}
