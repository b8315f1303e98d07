package driven

import (
	"context"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

// ListingStore persists store listings keyed by (product, origin address).
type ListingStore interface {
	// GetListing retrieves the listing for a product near an origin.
	// Returns domain.ErrNotFound when no listing has been cached.
	GetListing(ctx context.Context, product, origin string) (*domain.StoreListing, error)

	// UpsertListing stores or replaces a listing by its natural key.
	// Replaying the same upsert must not create duplicates.
	UpsertListing(ctx context.Context, listing domain.StoreListing) error
}

// PriceStore persists price records keyed by (product, store, address).
type PriceStore interface {
	// GetByProducts retrieves every cached price record for the given
	// products, across all branches. Callers narrow to the branches they
	// care about.
	GetByProducts(ctx context.Context, products []string) ([]domain.PriceRecord, error)

	// Upsert stores or replaces price records by their natural key.
	Upsert(ctx context.Context, records []domain.PriceRecord) error
}

// DistanceStore persists resolved distances keyed by (origin, destination).
// Records have no freshness window: an unresolvable pair is stored with a
// nil Km and is never re-requested.
type DistanceStore interface {
	// GetDistances retrieves the cached records for the given destination
	// addresses. Missing pairs are simply absent from the result.
	GetDistances(ctx context.Context, origin string, destinations []string) ([]domain.DistanceRecord, error)

	// PutDistances stores or replaces distance records for one origin.
	PutDistances(ctx context.Context, records []domain.DistanceRecord) error
}
