package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washmap/washmap/internal/api"
	"github.com/washmap/washmap/internal/api/models"
	"github.com/washmap/washmap/internal/proxy"
	"github.com/washmap/washmap/internal/station/upstream"
)

// testBackends wires the router against fake upstreams.
type testBackends struct {
	router       http.Handler
	geocodeCalls *atomic.Int64
}

func newTestBackends(t *testing.T, stationsBody string, stationsStatus int) testBackends {
	t.Helper()

	stationsUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stationsStatus)
		_, _ = w.Write([]byte(stationsBody))
	}))
	t.Cleanup(stationsUpstream.Close)

	var geocodeCalls atomic.Int64
	geocodeUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geocodeCalls.Add(1)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "washmap-test/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"display_name":"Oslo","lat":"59.9","lon":"10.7"}]`))
	}))
	t.Cleanup(geocodeUpstream.Close)

	p := proxy.New(proxy.Config{Client: http.DefaultClient, Logger: zerolog.Nop()})

	router := api.NewRouter(api.RouterConfig{
		Version:          "test",
		BuildTime:        "2025-01-01T00:00:00Z",
		Logger:           zerolog.Nop(),
		StationsProxy:    p,
		GeocodeProxy:     p,
		StationsURL:      stationsUpstream.URL,
		GeocodeURL:       geocodeUpstream.URL,
		GeocodeUserAgent: "washmap-test/1.0",
		GeocodeLimit:     5,
		StationSource: upstream.NewClient(upstream.ClientConfig{
			BaseURL:    stationsUpstream.URL,
			HTTPClient: http.DefaultClient,
		}),
	})

	return testBackends{router: router, geocodeCalls: &geocodeCalls}
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	b := newTestBackends(t, `[]`, http.StatusOK)

	rec := get(t, b.router, "/ops/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_StationsPassthrough(t *testing.T) {
	b := newTestBackends(t, `[{"name":"A","lat":59.9,"lng":10.7}]`, http.StatusOK)

	rec := get(t, b.router, "/api/stations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"A","lat":59.9,"lng":10.7}]`, rec.Body.String())
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestRouter_StationsUpstreamStatusPreserved(t *testing.T) {
	b := newTestBackends(t, `{"error":"nope"}`, http.StatusForbidden)

	rec := get(t, b.router, "/api/stations")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}

func TestRouter_GeocodeShortCircuit(t *testing.T) {
	b := newTestBackends(t, `[]`, http.StatusOK)

	for _, path := range []string{"/api/geocode", "/api/geocode?q=o", "/api/geocode?q=%20%20o"} {
		rec := get(t, b.router, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String())
	}
	assert.Equal(t, int64(0), b.geocodeCalls.Load())
}

func TestRouter_GeocodeForwards(t *testing.T) {
	b := newTestBackends(t, `[]`, http.StatusOK)

	rec := get(t, b.router, "/api/geocode?q=oslo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), b.geocodeCalls.Load())
	assert.Contains(t, rec.Body.String(), "Oslo")
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestRouter_Markers(t *testing.T) {
	body := `[
		{"name":"A","lat":"60,1","lng":"10,2","stationType":"Wash"},
		{"name":"B","lat":"not-a-number","lng":"5","stationType":"Truck"},
		{"name":"C","lat":63.4,"lng":10.4,"stationType":"Truck"}
	]`
	b := newTestBackends(t, body, http.StatusOK)

	t.Run("unfiltered", func(t *testing.T) {
		rec := get(t, b.router, "/api/markers")
		require.Equal(t, http.StatusOK, rec.Code)

		var set models.MarkerSet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
		assert.Equal(t, 2, set.Count)
		assert.Equal(t, 3, set.Total)
	})

	t.Run("hideWash empties A, B never renders", func(t *testing.T) {
		rec := get(t, b.router, "/api/markers?hideWash=true&hideTruck=true")
		require.Equal(t, http.StatusOK, rec.Code)

		var set models.MarkerSet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
		assert.Equal(t, 0, set.Count)
		assert.Empty(t, set.Markers)
	})
}

func TestRouter_MarkersBadUpstreamFormat(t *testing.T) {
	b := newTestBackends(t, `{"whatever": 1}`, http.StatusOK)

	rec := get(t, b.router, "/api/markers")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	b := newTestBackends(t, `[]`, http.StatusOK)
	rec := get(t, b.router, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
