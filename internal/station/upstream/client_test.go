package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washmap/washmap/internal/station/upstream"
)

func newTestClient(handler http.HandlerFunc) (*upstream.Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := upstream.NewClient(upstream.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})
	return client, server
}

func TestClient_Fetch_BareArray(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"A","lat":59.9,"lng":10.7},{"name":"B"}]`))
	})
	defer server.Close()

	records, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0]["name"])
}

func TestClient_Fetch_ItemsEnvelope(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"name":"A"}]}`))
	})
	defer server.Close()

	records, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestClient_Fetch_BadFormat(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrong object shape", body: `{"stations": "nope"}`},
		{name: "null body", body: `null`},
		{name: "null items", body: `{"items": null}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			defer server.Close()

			_, err := client.Fetch(context.Background())
			assert.ErrorIs(t, err, upstream.ErrBadFormat)
		})
	}
}

func TestClient_Fetch_EmptyArray(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	defer server.Close()

	records, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Fetch_UpstreamStatusPreserved(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.Fetch(context.Background())
	var statusErr *upstream.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}
