package handler

import (
	"net/http"

	"github.com/washmap/washmap/internal/api/response"
	"github.com/washmap/washmap/internal/proxy"
)

// StationsHandler proxies the station-list upstream. Method is GET only and
// no client query parameters are forwarded; the upstream URL is fixed.
type StationsHandler struct {
	proxy  *proxy.Proxy
	target string
}

// NewStationsHandler creates a StationsHandler forwarding to target.
func NewStationsHandler(p *proxy.Proxy, target string) *StationsHandler {
	return &StationsHandler{proxy: p, target: target}
}

// List handles GET /api/stations. Upstream status and body pass through
// verbatim; an unreachable upstream is the only locally generated error.
func (h *StationsHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.proxy.Forward(w, r, h.target, nil); err != nil {
		response.BadGateway(w, r, "station service unreachable")
	}
}
