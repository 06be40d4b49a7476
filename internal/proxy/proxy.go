// Package proxy implements the transparent upstream passthrough used by the
// stations and geocode endpoints: status and body are relayed verbatim,
// headers are adjusted only as documented.
package proxy

import (
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// DefaultCacheMaxAge is the max-age in seconds of the Cache-Control header
// added to every relayed response.
const DefaultCacheMaxAge = 60

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for a Proxy.
type Config struct {
	// Client executes the upstream requests.
	Client HTTPDoer

	// CacheMaxAge overrides DefaultCacheMaxAge (seconds).
	CacheMaxAge int

	Logger zerolog.Logger
}

// Proxy forwards GET requests to a fixed upstream URL and relays the
// response.
type Proxy struct {
	client      HTTPDoer
	cacheHeader string
	log         zerolog.Logger
}

// New creates a Proxy.
func New(cfg Config) *Proxy {
	maxAge := cfg.CacheMaxAge
	if maxAge == 0 {
		maxAge = DefaultCacheMaxAge
	}
	return &Proxy{
		client:      cfg.Client,
		cacheHeader: "public, max-age=" + strconv.Itoa(maxAge),
		log:         cfg.Logger,
	}
}

// Forward issues a GET to target with the given extra headers and relays
// status and body verbatim. The upstream Content-Type is kept, defaulting to
// application/json when omitted, and the cache header is always added.
// A transport-level failure returns an error with nothing written, so the
// handler can respond with its own error shape.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, target string, header http.Header) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", p.cacheHeader)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are already out; log and give up on this response.
		p.log.Warn().Err(err).Str("target", target).Msg("relay interrupted")
	}
	return nil
}
