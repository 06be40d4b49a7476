// Package config loads the washmap configuration from a yaml file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// UpstreamConfig holds the two fixed upstream endpoints the proxies forward
// to.
type UpstreamConfig struct {
	// StationsURL is the station-list endpoint. No query parameters are
	// forwarded to it.
	StationsURL string `yaml:"stationsURL" validate:"required,url"`

	// GeocodeURL is the geocoding search endpoint.
	GeocodeURL string `yaml:"geocodeURL" validate:"required,url"`

	// UserAgent identifies this service to the geocoding upstream, as its
	// usage policy requires.
	UserAgent string `yaml:"userAgent" validate:"required"`

	// TimeoutMS is the per-request upstream timeout in milliseconds.
	TimeoutMS int `yaml:"timeoutMS" validate:"gte=0"`

	// CacheMaxAge is the max-age in seconds added to relayed responses.
	CacheMaxAge int `yaml:"cacheMaxAge" validate:"gte=0"`
}

// SearchConfig tunes the geocode search proxy.
type SearchConfig struct {
	// Limit is the default geocode result count requested when the client
	// does not send one.
	Limit int `yaml:"limit" validate:"gte=0"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	Environment  string `yaml:"environment"`
}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Search    SearchConfig    `yaml:"search"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// defaults returns the configuration used when the file and environment are
// silent.
func defaults() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Upstream: UpstreamConfig{
			GeocodeURL:  "https://nominatim.openstreetmap.org/search",
			UserAgent:   "washmap/1.0 (+https://washmap.app)",
			TimeoutMS:   10000,
			CacheMaxAge: 60,
		},
		Search: SearchConfig{
			Limit: 8,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: "localhost:4317",
			Environment:  "development",
		},
	}
}

// Load reads the configuration file at path (optional: a missing file keeps
// the defaults), applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults plus environment only.
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
func applyEnv(cfg *Config) {
	if port, ok := envInt("APP_PORT"); ok {
		cfg.Server.Port = port
	}
	if v := os.Getenv("STATIONS_UPSTREAM_URL"); v != "" {
		cfg.Upstream.StationsURL = v
	}
	if v := os.Getenv("GEOCODE_UPSTREAM_URL"); v != "" {
		cfg.Upstream.GeocodeURL = v
	}
	if v := os.Getenv("GEOCODE_USER_AGENT"); v != "" {
		cfg.Upstream.UserAgent = v
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = v == "true"
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Telemetry.Environment = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
