package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baxromumarov/fundedlist/internal/api"
	"github.com/baxromumarov/fundedlist/internal/app"
	"github.com/baxromumarov/fundedlist/internal/config"
	"github.com/baxromumarov/fundedlist/internal/core"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	app.SetupLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Site: true, Store: true})
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Refresh loop; a zero interval serves whatever is already on disk.
	if cfg.RefreshInterval > 0 {
		a.Ingestion.Start(ctx, cfg.RefreshInterval)
	}

	var history api.History
	if a.Store != nil {
		history = a.Store
		core.NewSchedulerService(a.Store, cfg.Retention).Start(ctx)
	}

	srv := api.NewServer(api.LiveSnapshot(a.Ingestion, cfg.DataDir), a.Renderer, history, a.Ingestion)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("starting server", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
