// Package memory provides in-memory implementations of the cache store
// ports. They back tests and serve as a no-persistence fallback when the
// SQLite store cannot be opened.
package memory

import (
	"context"
	"sync"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
)

// Ensure ListingStore implements the interface.
var _ driven.ListingStore = (*ListingStore)(nil)

// listingKey is the natural key of a store listing.
type listingKey struct {
	product string
	origin  string
}

// ListingStore is an in-memory implementation of driven.ListingStore.
type ListingStore struct {
	mu       sync.RWMutex
	listings map[listingKey]domain.StoreListing
}

// NewListingStore creates a new in-memory listing store.
func NewListingStore() *ListingStore {
	return &ListingStore{
		listings: make(map[listingKey]domain.StoreListing),
	}
}

// GetListing retrieves the listing for a product near an origin.
func (s *ListingStore) GetListing(_ context.Context, product, origin string) (*domain.StoreListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[listingKey{product: product, origin: origin}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &listing, nil
}

// UpsertListing stores or replaces a listing by its natural key.
func (s *ListingStore) UpsertListing(_ context.Context, listing domain.StoreListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listingKey{product: listing.Product, origin: listing.Origin}] = listing
	return nil
}

// Len returns the number of stored listings. Test helper.
func (s *ListingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}
