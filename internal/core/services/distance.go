package services

import (
	"context"

	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

// DistanceResolver resolves travel distances through the distance cache,
// batching cache misses into a single collaborator call.
type DistanceResolver struct {
	cache  driven.DistanceStore
	source driven.DistanceSource
}

// NewDistanceResolver creates a resolver over the given cache and source.
func NewDistanceResolver(cache driven.DistanceStore, source driven.DistanceSource) *DistanceResolver {
	return &DistanceResolver{cache: cache, source: source}
}

// Resolve returns the distance in km from origin to each destination, nil
// where the pair is unresolvable. Cached records — including cached nil
// results — are served without a collaborator call; every miss goes out in
// one batched request and the answers are persisted, nils included, so an
// unresolvable pair is never asked about twice.
func (r *DistanceResolver) Resolve(
	ctx context.Context, origin string, destinations []string,
) map[string]*float64 {
	distances := make(map[string]*float64, len(destinations))
	if len(destinations) == 0 {
		return distances
	}

	cached, err := r.cache.GetDistances(ctx, origin, destinations)
	if err != nil {
		// Degrades to "no caching" for this call.
		logger.Warn("Distance cache read failed: %v", err)
		cached = nil
	}
	known := make(map[string]bool, len(cached))
	for _, rec := range cached {
		distances[rec.Destination] = rec.Km
		known[rec.Destination] = true
	}

	var misses []string
	for _, dest := range destinations {
		if !known[dest] {
			misses = append(misses, dest)
		}
	}
	if len(misses) == 0 {
		return distances
	}

	logger.Debug("Distance cache: %d hit(s), %d miss(es)", len(known), len(misses))

	resolved, err := r.source.BatchDistance(ctx, origin, misses)
	if err != nil {
		// Absorbed: the missing destinations stay unresolved for this call.
		logger.Debug("Batch distance lookup failed: %v", err)
		return distances
	}

	for _, rec := range resolved {
		distances[rec.Destination] = rec.Km
	}
	if err := r.cache.PutDistances(ctx, resolved); err != nil {
		logger.Warn("Caching %d distance(s) failed: %v", len(resolved), err)
	}
	return distances
}
