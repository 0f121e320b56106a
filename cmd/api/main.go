package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/config"
	"crime-insights-go/internal/httpapi"
	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/metrics"
	"crime-insights-go/internal/processor"
	"crime-insights-go/internal/scheduler"
	"crime-insights-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	log := logger.New()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.WithField("service", "crime-insights-go").
		WithField("environment", cfg.Environment).
		Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN, log.Component("store"))
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer db.Close()
	st := store.NewCached(db, cfg.CacheTTL)

	m := metrics.New()
	svc := processor.New(st, processor.Options{Delay: cfg.PredictionDelay, Metrics: m}, log)

	if cfg.SeedOnEmpty {
		n, err := svc.SeedIfEmpty(ctx, cfg.SeedCount)
		if err != nil {
			log.WithError(err).Warn("seeding failed, continuing with an empty dataset")
		} else if n > 0 {
			log.WithField("incidents", n).Info("dataset seeded")
		}
	}
	if _, err := svc.RefreshDashboard(ctx); err != nil {
		log.WithError(err).Warn("initial stats build failed")
	}

	refresh := scheduler.RefresherFunc(func(ctx context.Context) error {
		st.Invalidate()
		_, err := svc.RefreshDashboard(ctx)
		return err
	})
	cron, err := scheduler.New(cfg.StatsCron, 30*time.Second, refresh, log)
	if err != nil {
		log.WithError(err).Fatal("failed to set up stats refresh")
	}
	cron.Start()

	authn := auth.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
	api := httpapi.New(svc, authn, m, log, cfg.MaxUploadBytes)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cron.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}
