// Package upstream provides the client for the station-list upstream API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/washmap/washmap/internal/provider/resilience"
	"github.com/washmap/washmap/internal/station"
)

// ProviderName identifies this upstream for circuit breaker naming.
const ProviderName = "stations"

// ErrBadFormat is returned when the upstream body is neither a bare array
// nor an object with an items array. This is fatal for the load: the caller
// clears its station list.
var ErrBadFormat = errors.New("unexpected station payload format")

// StatusError reports a non-2xx upstream response. The code is preserved so
// it can be surfaced verbatim.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the stations client.
type ClientConfig struct {
	// BaseURL is the fixed station-list endpoint. No query parameters are
	// forwarded to it.
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client with
	// zero retries is created so a failed load surfaces exactly once.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default 10s).
	Timeout time.Duration
}

// Client fetches raw station records from the upstream.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a stations client.
func NewClient(cfg ClientConfig) *Client {
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
		httpClient: httpClient,
	}
}

// itemsEnvelope is the alternative upstream shape {items: [...]}.
type itemsEnvelope struct {
	Items []station.RawRecord `json:"items"`
}

// Fetch retrieves the raw station records. The upstream may respond with a
// bare array or an {items: [...]} envelope; anything else is ErrBadFormat.
func (c *Client) Fetch(ctx context.Context) ([]station.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode stations response: %w", err)
	}

	return decodeRecords(body)
}

// decodeRecords accepts either upstream shape. A JSON null unmarshals into a
// nil slice without error, so the array branch requires a non-nil result.
func decodeRecords(body json.RawMessage) ([]station.RawRecord, error) {
	var records []station.RawRecord
	if err := json.Unmarshal(body, &records); err == nil && records != nil {
		return records, nil
	}

	var envelope itemsEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Items != nil {
		return envelope.Items, nil
	}

	return nil, ErrBadFormat
}
