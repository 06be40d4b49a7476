package proxy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washmap/washmap/internal/proxy"
)

func newTestProxy() *proxy.Proxy {
	return proxy.New(proxy.Config{
		Client: http.DefaultClient,
		Logger: zerolog.Nop(),
	})
}

func TestProxy_Forward_PassesStatusAndBodyThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"verbatim":true}`))
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stations", http.NoBody)

	err := newTestProxy().Forward(rec, req, upstream.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.JSONEq(t, `{"verbatim":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestProxy_Forward_DefaultsContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Suppress Go's content sniffing default.
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stations", http.NoBody)

	require.NoError(t, newTestProxy().Forward(rec, req, upstream.URL, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestProxy_Forward_ExtraHeaders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "washmap-test/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	header := http.Header{}
	header.Set("User-Agent", "washmap-test/1.0")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geocode", http.NoBody)
	require.NoError(t, newTestProxy().Forward(rec, req, upstream.URL, header))
}

func TestProxy_Forward_TransportErrorWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stations", http.NoBody)

	err := newTestProxy().Forward(rec, req, "http://127.0.0.1:1", nil)
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestProxy_CustomCacheMaxAge(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	p := proxy.New(proxy.Config{Client: http.DefaultClient, CacheMaxAge: 300, Logger: zerolog.Nop()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stations", http.NoBody)
	require.NoError(t, p.Forward(rec, req, upstream.URL, nil))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}
