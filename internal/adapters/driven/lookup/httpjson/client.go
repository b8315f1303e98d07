// Package httpjson implements the price-lookup collaborator against an
// HTTP endpoint that returns offers as JSON. It performs no markup parsing:
// deployments that scrape HTML sit behind their own gateway exposing this
// shape.
package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

// DefaultTimeout bounds a single lookup request.
const DefaultTimeout = 20 * time.Second

// Ensure Client implements the interface.
var _ driven.PriceSource = (*Client)(nil)

// Client queries a JSON price-lookup endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a lookup client for the given base URL. A nil
// httpClient gets a default with a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// offerPayload is the wire shape of one offer row.
type offerPayload struct {
	Store              string   `json:"store"`
	Address            string   `json:"address"`
	RegularPrice       float64  `json:"regular_price"`
	SalePrice          *float64 `json:"sale_price,omitempty"`
	DiscountDescriptor string   `json:"discount_descriptor,omitempty"`
}

// Lookup returns every offer for a product near an origin address.
// Any transport failure or non-200 status is treated as "no data for this
// key": nil offers, nil error.
func (c *Client) Lookup(ctx context.Context, product, origin string) ([]domain.Offer, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("product_name_or_barcode", product)
	q.Set("shopping_address", origin)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Lookup request for %q failed: %v", product, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Lookup for %q returned status %d", product, resp.StatusCode)
		return nil, nil
	}

	var payload []offerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Debug("Decoding lookup response for %q failed: %v", product, err)
		return nil, nil
	}

	offers := make([]domain.Offer, 0, len(payload))
	for _, p := range payload {
		offer := domain.Offer{
			Branch:             domain.Branch{Store: p.Store, Address: p.Address},
			RegularPrice:       domain.MoneyFromFloat(p.RegularPrice),
			DiscountDescriptor: p.DiscountDescriptor,
		}
		if p.SalePrice != nil {
			sale := domain.MoneyFromFloat(*p.SalePrice)
			offer.SalePrice = &sale
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
