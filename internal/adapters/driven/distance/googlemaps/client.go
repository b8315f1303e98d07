// Package googlemaps implements the travel-distance collaborator on the
// Google Distance Matrix API. One batched request resolves every
// destination; a destination the API cannot match comes back with a nil
// distance, which the core caches like any resolved value.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

// DefaultBaseURL is the Distance Matrix endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// DefaultTimeout bounds a single batch request.
const DefaultTimeout = 20 * time.Second

// Ensure Client implements the interface.
var _ driven.DistanceSource = (*Client)(nil)

// Client calls the Distance Matrix API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Distance Matrix client. A nil httpClient gets a
// default with a request timeout; an empty baseURL uses the public API.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// matrixResponse is the subset of the Distance Matrix payload we read.
type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"` // metres
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// BatchDistance resolves driving distances from origin to every destination
// in one request. API-level failure resolves every destination to nil
// rather than returning an error: a lookup failure is "no data", not fatal.
func (c *Client) BatchDistance(
	ctx context.Context, origin string, destinations []string,
) ([]domain.DistanceRecord, error) {
	records := make([]domain.DistanceRecord, len(destinations))
	for i, dest := range destinations {
		records[i] = domain.DistanceRecord{Origin: origin, Destination: dest}
	}
	if len(destinations) == 0 {
		return records, nil
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("origins", origin)
	q.Set("destinations", strings.Join(destinations, "|"))
	q.Set("mode", "driving")
	q.Set("key", c.apiKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Distance matrix request failed: %v", err)
		return records, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Distance matrix returned status %d", resp.StatusCode)
		return records, nil
	}

	var payload matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Debug("Decoding distance matrix response failed: %v", err)
		return records, nil
	}

	if payload.Status != "OK" || len(payload.Rows) == 0 {
		logger.Debug("Distance matrix status %q", payload.Status)
		return records, nil
	}

	elements := payload.Rows[0].Elements
	for i := range records {
		if i >= len(elements) || elements[i].Status != "OK" {
			continue
		}
		km := float64(elements[i].Distance.Value) / 1000
		records[i].Km = &km
	}
	return records, nil
}
