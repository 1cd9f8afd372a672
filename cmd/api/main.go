package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/secnews-crawler/internal/app"
	"github.com/user/secnews-crawler/internal/delivery/http/handler"
	"github.com/user/secnews-crawler/internal/delivery/http/router"
	"github.com/user/secnews-crawler/internal/delivery/scheduler"
	"github.com/user/secnews-crawler/pkg/config"
	"github.com/user/secnews-crawler/pkg/logger"
	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Dependencies ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, m)
	if err != nil {
		log.Fatal("failed to initialise", zap.Error(err))
	}
	defer a.Close()

	deps := map[string]handler.Pinger{"postgres": a.Pool}
	if a.Redis != nil {
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() })
	}

	// --- Scheduler ---
	var sched *scheduler.Scheduler
	if cfg.CrawlSchedule != "" {
		sched, err = scheduler.New(ctx, cfg.CrawlSchedule, a.Manager, log.Named("scheduler"))
		if err != nil {
			log.Fatal("failed to configure scheduler", zap.Error(err))
		}
		sched.Start()
	}

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(a.Manager, deps, log)
	httpRouter := router.New(apiHandler, m, promhttp.Handler(), log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}
	// Background runs see the cancelled context, record FAILED and return.
	a.Manager.Wait()

	log.Info("server exiting")
}
