package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/astromapa/astromapa-backend/config"
	cronjob "github.com/astromapa/astromapa-backend/internal/astro/cron"
	"github.com/astromapa/astromapa-backend/internal/astro/gateway"
	"github.com/astromapa/astromapa-backend/internal/astro/repository"
	"github.com/astromapa/astromapa-backend/internal/bootstrap"
	"github.com/astromapa/astromapa-backend/internal/logging"
	"go.uber.org/zap"
)

const serviceName = "astromapa-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// The ephemeris path is process-wide library state, configured once
	// before the server accepts requests.
	gw, err := gateway.Open(cfg.Ephemeris.Path)
	if err != nil {
		logger.Fatal("ephemeris gateway", zap.Error(err))
	}
	defer gw.Close()
	logger.Info("ephemeris gateway ready",
		zap.String("path", cfg.Ephemeris.Path),
		zap.String("library", gw.Version()),
	)

	var cache *repository.ChartCache
	if cfg.Cache.RedisAddr != "" {
		client, err := bootstrap.OpenRedis(context.Background(), bootstrap.RedisOptions{Addr: cfg.Cache.RedisAddr})
		if err != nil {
			logger.Warn("redis unreachable, chart cache disabled", zap.Error(err))
		} else {
			cache = repository.NewChartCache(client, cfg.Cache.TTL)
			logger.Info("chart cache enabled",
				zap.String("addr", cfg.Cache.RedisAddr),
				zap.Duration("ttl", cfg.Cache.TTL),
			)
		}
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	probe := cronjob.NewProbe(gw, logger)
	if err := probe.Start(cfg.Probe.Schedule); err != nil {
		logger.Warn("ephemeris probe disabled", zap.Error(err))
	}
	defer probe.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Gateway:     gw,
		Cache:       cache,
		Ephemeris:   probe,
		Logger:      logger,
		RateRPS:     cfg.RateLimit.RPS,
		RateBurst:   cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
