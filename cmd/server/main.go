package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homescout/homescout/internal/cache"
	"github.com/homescout/homescout/internal/config"
	"github.com/homescout/homescout/internal/geocoding"
	"github.com/homescout/homescout/internal/httpserver"
	"github.com/homescout/homescout/internal/monitoring"
	"github.com/homescout/homescout/internal/places"
	"github.com/homescout/homescout/internal/ranking"
	"github.com/homescout/homescout/internal/telemetry"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := telemetry.InitGlobalLogger(&telemetry.LogConfig{
		Level:  telemetry.LogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: "stdout",
	}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "startup",
		"service":   "server",
	})

	otelShutdown, err := telemetry.InitializeOpenTelemetry(ctx, telemetry.LoadConfigFromEnv())
	if err != nil {
		logger.WithError(err).Warn("OpenTelemetry initialization failed, continuing without tracing")
	} else {
		defer otelShutdown()
	}

	var store cache.Store
	switch cfg.CacheBackend {
	case "redis":
		redisStore, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis cache")
		}
		defer redisStore.Close()
		store = redisStore
	default:
		store = cache.NewFileStore(cfg.CacheDir, cfg.CacheTTL)
	}

	metrics := monitoring.NewCollector()
	searcher := places.NewClient(cfg.GoogleMapsAPIKey, cfg.ProviderTimeout, cfg.PaginationBackoff)
	poiService := places.NewService(searcher, store)
	geocoder := geocoding.NewService(cfg.GoogleMapsAPIKey, cfg.ProviderTimeout)
	pipeline := ranking.New(geocoder, poiService, cfg.GeocodeConcurrency, metrics)

	handler := httpserver.NewRankHandler(pipeline, metrics)
	router := httpserver.New(handler, metrics, cfg.IsDevelopment())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
	logger.Info("Server stopped")
}
