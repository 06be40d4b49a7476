// Package api provides the HTTP API for washmap.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/washmap/washmap/internal/api/handler"
	"github.com/washmap/washmap/internal/api/middleware"
	"github.com/washmap/washmap/internal/proxy"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	// StationsProxy and GeocodeProxy relay the two upstreams. They are
	// separate so each carries its own circuit breaker and timeout.
	StationsProxy *proxy.Proxy
	GeocodeProxy  *proxy.Proxy

	// StationsURL is the fixed station-list upstream endpoint.
	StationsURL string

	// GeocodeURL is the fixed geocoding upstream endpoint.
	GeocodeURL string

	// GeocodeUserAgent identifies this service to the geocoding upstream.
	GeocodeUserAgent string

	// GeocodeLimit is the default result count requested from the geocoding
	// upstream when the client sends no limit parameter.
	GeocodeLimit int

	// StationSource feeds the server-side marker pipeline.
	StationSource handler.StationSource
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	stationsHandler := handler.NewStationsHandler(cfg.StationsProxy, cfg.StationsURL)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeProxy, cfg.GeocodeURL, cfg.GeocodeUserAgent, cfg.GeocodeLimit)
	markersHandler := handler.NewMarkersHandler(cfg.StationSource)

	proxyRateLimit := middleware.RateLimitByIP(middleware.ProxyRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/api", func(r chi.Router) {
		r.With(proxyRateLimit).Get("/stations", stationsHandler.List)
		r.With(proxyRateLimit).Get("/geocode", geocodeHandler.Search)
		r.With(standardRateLimit).Get("/markers", markersHandler.List)
	})

	r.Route("/ops", func(r chi.Router) {
		r.Get("/health", opsHandler.HealthCheck)
	})

	return r
}
