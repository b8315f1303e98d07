package services

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

// ProactiveLookupRate throttles lookups against the external source to
// roughly four per second on top of the concurrency ceiling, so a burst of
// thirty in-flight requests does not hammer the collaborator.
const ProactiveLookupRate = 4.0

// RefreshResult is the outcome of one product's refresh: the branches now
// known to sell it and the price records behind them. A failed or empty
// lookup yields an empty Branches slice, never an error.
type RefreshResult struct {
	Listing domain.StoreListing
	Prices  []domain.PriceRecord
}

// FetchOrchestrator dispatches refresh lookups to the price-lookup
// collaborator with a global concurrency ceiling and writes the results
// back through the cache ports.
type FetchOrchestrator struct {
	source   driven.PriceSource
	listings driven.ListingStore
	prices   driven.PriceStore
	clock    driven.Clock

	sem     chan struct{}
	limiter *rate.Limiter
}

// NewFetchOrchestrator creates an orchestrator with the given concurrency
// ceiling. A ceiling at or below zero falls back to the policy default.
func NewFetchOrchestrator(
	source driven.PriceSource,
	listings driven.ListingStore,
	prices driven.PriceStore,
	clock driven.Clock,
	concurrency int,
) *FetchOrchestrator {
	if concurrency <= 0 {
		concurrency = domain.DefaultFetchConcurrency
	}
	return &FetchOrchestrator{
		source:   source,
		listings: listings,
		prices:   prices,
		clock:    clock,
		sem:      make(chan struct{}, concurrency),
		limiter:  rate.NewLimiter(rate.Limit(ProactiveLookupRate), concurrency),
	}
}

// Refresh looks up every product concurrently, parses offers into listings
// and price records, persists them, and returns the results keyed by
// product. Results are correlated by key, never by completion order, and a
// failure for one product does not block or fail the others. Cache write
// failures are logged and absorbed: the fresh in-memory values are still
// returned for the current call.
func (o *FetchOrchestrator) Refresh(
	ctx context.Context, origin string, products []string,
) map[string]RefreshResult {
	results := make(map[string]RefreshResult, len(products))
	if len(products) == 0 {
		return results
	}

	logger.Debug("Refreshing %d product(s) near %q", len(products), origin)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, product := range products {
		wg.Add(1)
		go func(product string) {
			defer wg.Done()

			select {
			case o.sem <- struct{}{}:
				defer func() { <-o.sem }()
			case <-ctx.Done():
				return
			}

			result := o.refreshOne(ctx, origin, product)

			mu.Lock()
			results[product] = result
			mu.Unlock()
		}(product)
	}
	wg.Wait()

	o.persist(ctx, results)
	return results
}

// refreshOne performs a single throttled lookup and converts the offers.
func (o *FetchOrchestrator) refreshOne(ctx context.Context, origin, product string) RefreshResult {
	result := RefreshResult{
		Listing: domain.StoreListing{
			Product:     product,
			Origin:      origin,
			LastUpdated: o.clock.Now(),
		},
	}

	if err := o.limiter.Wait(ctx); err != nil {
		logger.Debug("Lookup cancelled for %q: %v", product, err)
		return result
	}

	offers, err := o.source.Lookup(ctx, product, origin)
	if err != nil {
		// Absorbed: no data for this product only.
		logger.Debug("Lookup failed for %q: %v", product, err)
		return result
	}

	now := o.clock.Now()
	for _, offer := range offers {
		if offer.Branch.WebOnly() {
			continue
		}
		requiredQty := domain.ParseDiscountDescriptor(offer.DiscountDescriptor)

		result.Listing.Branches = append(result.Listing.Branches, offer.Branch)
		result.Prices = append(result.Prices, domain.PriceRecord{
			Product:          product,
			Branch:           offer.Branch,
			RegularPrice:     offer.RegularPrice,
			SalePrice:        offer.SalePrice,
			RequiredQuantity: &requiredQty,
			LastUpdated:      now,
		})
	}
	result.Listing.LastUpdated = now
	return result
}

// persist writes all refreshed listings and prices through the cache ports.
// Upserts are idempotent replace-by-key, so a concurrent refresh of the
// same key is harmless.
func (o *FetchOrchestrator) persist(ctx context.Context, results map[string]RefreshResult) {
	var records []domain.PriceRecord
	for product, result := range results {
		if err := o.listings.UpsertListing(ctx, result.Listing); err != nil {
			logger.Warn("Caching listing for %q failed: %v", product, err)
		}
		records = append(records, result.Prices...)
	}
	if len(records) == 0 {
		return
	}
	if err := o.prices.Upsert(ctx, records); err != nil {
		logger.Warn("Caching %d price record(s) failed: %v", len(records), err)
	}
}
