// cmd/dashboard/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"solagire-dashboard/internal/alerting"
	"solagire-dashboard/internal/api"
	"solagire-dashboard/internal/auth"
	"solagire-dashboard/internal/config"
	"solagire-dashboard/internal/dashboard"
	"solagire-dashboard/internal/logging"
	"solagire-dashboard/internal/simulator"
	"solagire-dashboard/internal/storage"
	"solagire-dashboard/internal/websocket"
)

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(os.Stderr, "error", false).Error("loading config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.NoColor)

	seed := cfg.Generator.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Initialize Components ---
	hub := websocket.NewHub(log)
	store := storage.NewSnapshotStore(cfg.Storage.History)
	alerter := alerting.NewAlerter(log, hub)
	gen := simulator.NewGenerator(seed, cfg.Generator.Spacing)
	svc := dashboard.New(log, dashboard.Options{
		Samples:    cfg.Generator.Samples,
		Location:   cfg.Location,
		Thresholds: cfg.Alerts,
	}, gen, store, alerter, hub)
	am := auth.NewAuthManager(cfg.Auth)
	if !am.Enabled() {
		log.Warn("no api keys or users configured, control endpoints are open")
	}

	go hub.Run(ctx)

	if _, err := svc.Refresh(ctx); err != nil {
		log.Error("initial refresh", "err", err)
		os.Exit(1)
	}
	go svc.Run(ctx, cfg.Refresh.Interval)

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: api.SetupRouter(api.NewAPIHandler(log, svc, hub, am)),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard listening", "addr", srv.Addr, "location", cfg.Location.Name, "seed", seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}
	log.Info("server stopped")
}
