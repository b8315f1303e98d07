package driving

import (
	"context"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

// Ranker is the core-exposed contract: rank the branches that can satisfy a
// cart near an address, blending price and distance by alpha.
type Ranker interface {
	// Rank returns up to five ranked branches plus, when fewer than the
	// qualifying minimum carry the whole cart, the products whose removal
	// would restore coverage. An empty result list is a valid outcome, not
	// an error; only structurally invalid input (empty cart, quantity
	// below one, alpha outside [0,1]) fails the call.
	Rank(ctx context.Context, cart domain.Cart, address string, alpha float64) (*domain.RankReport, error)
}
