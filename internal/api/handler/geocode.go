package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/washmap/washmap/internal/api/response"
	"github.com/washmap/washmap/internal/proxy"
)

// Geocode proxy limits. The limit is capped so a single search cannot ask
// the upstream for an unbounded result set.
const (
	geocodeMinQueryLength = 2
	geocodeDefaultLimit   = 8
	geocodeMaxLimit       = 20
)

// GeocodeHandler proxies the geocoding upstream with fixed query parameters
// and the identifying User-Agent its usage policy requires.
type GeocodeHandler struct {
	proxy        *proxy.Proxy
	baseURL      string
	userAgent    string
	defaultLimit int
}

// NewGeocodeHandler creates a GeocodeHandler forwarding to baseURL.
// defaultLimit applies when the client sends no limit parameter; zero or
// negative falls back to geocodeDefaultLimit.
func NewGeocodeHandler(p *proxy.Proxy, baseURL, userAgent string, defaultLimit int) *GeocodeHandler {
	if defaultLimit <= 0 {
		defaultLimit = geocodeDefaultLimit
	}
	return &GeocodeHandler{proxy: p, baseURL: baseURL, userAgent: userAgent, defaultLimit: defaultLimit}
}

// Search handles GET /api/geocode?q=&limit=. A trimmed query shorter than
// two runes responds 200 with an empty array without contacting the
// upstream. Everything else is relayed verbatim.
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(query)) < geocodeMinQueryLength {
		response.JSON(w, r, http.StatusOK, []any{})
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, geocodeMaxLimit)
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))

	header := http.Header{}
	header.Set("User-Agent", h.userAgent)

	if err := h.proxy.Forward(w, r, h.baseURL+"?"+params.Encode(), header); err != nil {
		response.BadGateway(w, r, "geocoding service unreachable")
	}
}
