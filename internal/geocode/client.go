// Package geocode provides a client for the geocode proxy endpoint and the
// defensive parsing of its Nominatim-shaped responses.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/washmap/washmap/internal/provider/resilience"
	"github.com/washmap/washmap/pkg/geo"
)

const (
	// MinQueryLength is the shortest query that triggers a lookup. Shorter
	// input short-circuits to an empty result list without a network call.
	MinQueryLength = 2

	// DefaultLimit is the result count requested when none is configured.
	DefaultLimit = 8

	// ProviderName identifies this upstream for circuit breaker naming.
	ProviderName = "geocode"
)

// Result is one selectable geocoding hit. BBox is nil when the upstream did
// not report a usable 4-element bounding box.
type Result struct {
	Display string    `json:"display"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	BBox    *geo.BBox `json:"bbox,omitempty"`
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the geocode client.
type ClientConfig struct {
	// BaseURL is the geocode endpoint (the /api/geocode proxy, or the
	// upstream search URL directly).
	BaseURL string

	// UserAgent is sent with every request, as required by the upstream
	// service's usage policy.
	UserAgent string

	// Limit is the maximum result count to request (default DefaultLimit).
	Limit int

	// HTTPClient is the HTTP client to use. If nil, a resilient client with
	// zero retries is created: a failed search surfaces exactly once.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default 10s).
	Timeout time.Duration
}

// Client queries a geocoding endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	httpClient HTTPDoer
}

// NewClient creates a geocode client.
func NewClient(cfg ClientConfig) *Client {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:       ProviderName,
			Timeout:    timeout,
			MaxRetries: resilience.NoRetries,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limit:      limit,
		httpClient: httpClient,
	}
}

// rawResult mirrors the upstream schema. Coordinates arrive as strings and
// are coerced field by field; a malformed entry is dropped, never fatal.
type rawResult struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
}

// Search looks up free-text input. Queries shorter than MinQueryLength
// (after trimming) return an empty list without contacting the endpoint.
// Results are rebuilt on every call; nothing is cached.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return []Result{}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from geocode endpoint", resp.StatusCode)
	}

	var raws []rawResult
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	results := make([]Result, 0, len(raws))
	for _, raw := range raws {
		if r, ok := toResult(raw); ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// toResult coerces one raw entry. Entries with missing or non-numeric
// coordinates are rejected before use.
func toResult(raw rawResult) (Result, bool) {
	lat, ok := parseCoord(raw.Lat)
	if !ok {
		return Result{}, false
	}
	lon, ok := parseCoord(raw.Lon)
	if !ok {
		return Result{}, false
	}

	return Result{
		Display: raw.DisplayName,
		Lat:     lat,
		Lon:     lon,
		BBox:    parseBBox(raw.BoundingBox),
	}, true
}

func parseCoord(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseBBox parses the upstream 4-element bounding box, ordered
// south/north/west/east. Anything malformed collapses to nil.
func parseBBox(box []string) *geo.BBox {
	if len(box) != 4 {
		return nil
	}
	vals := make([]float64, 4)
	for i, s := range box {
		v, ok := parseCoord(s)
		if !ok {
			return nil
		}
		vals[i] = v
	}
	return &geo.BBox{South: vals[0], North: vals[1], West: vals[2], East: vals[3]}
}

// Viewport returns where the map should move when a result is selected:
// fit the padded bounding box when one is present, otherwise center on the
// point at the fixed focus zoom.
func (r Result) Viewport() geo.Viewport {
	if r.BBox != nil {
		return geo.FitBounds(*r.BBox, geo.DefaultPadding)
	}
	return geo.CenterOn(geo.Point{Lat: r.Lat, Lng: r.Lon}, geo.FocusZoom)
}
