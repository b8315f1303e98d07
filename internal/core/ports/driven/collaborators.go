package driven

import (
	"context"
	"time"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

// PriceSource is the external price-lookup collaborator. Implementations
// query whatever comparison source backs the deployment; the core never
// sees markup, only offers.
type PriceSource interface {
	// Lookup returns every offer for a product near an origin address.
	// "Not found" is a nil slice and a nil error, never an error value.
	Lookup(ctx context.Context, product, origin string) ([]domain.Offer, error)
}

// DistanceSource is the external travel-distance collaborator.
type DistanceSource interface {
	// BatchDistance resolves driving distances from one origin to many
	// destinations in a single call. A destination the collaborator cannot
	// resolve comes back with a nil Km, not an error.
	BatchDistance(ctx context.Context, origin string, destinations []string) ([]domain.DistanceRecord, error)
}

// Clock abstracts wall-clock time so tests can simulate staleness
// deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
}
