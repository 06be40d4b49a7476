// Package main provides the entrypoint for the washmap API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/washmap/washmap/internal/api"
	"github.com/washmap/washmap/internal/api/middleware"
	"github.com/washmap/washmap/internal/config"
	"github.com/washmap/washmap/internal/provider/resilience"
	"github.com/washmap/washmap/internal/proxy"
	"github.com/washmap/washmap/internal/station/upstream"
	"github.com/washmap/washmap/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "washmap-api"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting washmap API")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Telemetry.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	upstreamTimeout := time.Duration(cfg.Upstream.TimeoutMS) * time.Millisecond

	// The proxies are transparent: zero retries so an upstream failure is
	// surfaced exactly once, with the upstream status passed through.
	stationsClient := resilience.NewClient(resilience.ClientConfig{
		Name:       "stations",
		Timeout:    upstreamTimeout,
		MaxRetries: resilience.NoRetries,
	})
	geocodeClient := resilience.NewClient(resilience.ClientConfig{
		Name:       "geocode",
		Timeout:    upstreamTimeout,
		MaxRetries: resilience.NoRetries,
	})

	stationsProxy := proxy.New(proxy.Config{
		Client:      stationsClient,
		CacheMaxAge: cfg.Upstream.CacheMaxAge,
		Logger:      log,
	})
	geocodeProxy := proxy.New(proxy.Config{
		Client:      geocodeClient,
		CacheMaxAge: cfg.Upstream.CacheMaxAge,
		Logger:      log,
	})

	stationSource := upstream.NewClient(upstream.ClientConfig{
		BaseURL:    cfg.Upstream.StationsURL,
		HTTPClient: stationsClient,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		Metrics:          metrics,
		StationsProxy:    stationsProxy,
		GeocodeProxy:     geocodeProxy,
		StationsURL:      cfg.Upstream.StationsURL,
		GeocodeURL:       cfg.Upstream.GeocodeURL,
		GeocodeUserAgent: cfg.Upstream.UserAgent,
		GeocodeLimit:     cfg.Search.Limit,
		StationSource:    stationSource,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
