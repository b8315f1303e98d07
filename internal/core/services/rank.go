package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driving"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

// Ensure RankService implements the interface.
var _ driving.Ranker = (*RankService)(nil)

// RankService runs the single-pass ranking pipeline: freshness-gated cache
// reads, bounded-concurrency refresh, coverage filtering, pricing, the
// recommendation search and distance scoring. Each invocation is stateless
// except for the cache; a caller-level context timeout wraps the whole call.
type RankService struct {
	listings  driven.ListingStore
	prices    driven.PriceStore
	refresher *FetchOrchestrator
	distances *DistanceResolver
	clock     driven.Clock
	policy    domain.RankPolicy
}

// NewRankService creates the pipeline over the given cache stores,
// orchestrator and distance resolver.
func NewRankService(
	listings driven.ListingStore,
	prices driven.PriceStore,
	refresher *FetchOrchestrator,
	distances *DistanceResolver,
	clock driven.Clock,
	policy domain.RankPolicy,
) *RankService {
	return &RankService{
		listings:  listings,
		prices:    prices,
		refresher: refresher,
		distances: distances,
		clock:     clock,
		policy:    policy.Normalised(),
	}
}

// Rank ranks the branches that can satisfy the cart near address, blending
// normalised price and distance scores by alpha.
func (s *RankService) Rank(
	ctx context.Context, cart domain.Cart, address string, alpha float64,
) (*domain.RankReport, error) {
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	if alpha < 0 || alpha > 1 {
		return nil, domain.ErrInvalidAlpha
	}

	id := uuid.New().String()[:8]
	products := cart.Products()

	logger.Section("Rank " + id)
	logger.Debug("[%s] %d product(s), address %q, alpha %.2f", id, len(products), address, alpha)

	// 1. Store listings, refreshing stale and missing ones.
	listings := s.loadListings(ctx, id, address, products)

	// 2. Price records for the listed branches, refreshing stale ones.
	index := s.loadPrices(ctx, id, address, products, listings)

	// 3. Coverage: which branches carry the whole cart.
	cov := FilterBranches(index, products)
	logger.Info("[%s] %d branch(es) cover the full cart", id, len(cov.Qualifying))

	report := &domain.RankReport{}

	// 4. Recommendation search when coverage falls short.
	if len(cov.Qualifying) < s.policy.MinQualifying {
		report.RecommendedRemovals = RecommendRemovals(
			index, cov, products, s.policy.MinQualifying, s.policy.MaxRemovalSize)
		if len(report.RecommendedRemovals) > 0 {
			logger.Info("[%s] removing %v would restore coverage", id, report.RecommendedRemovals)
		}
	}
	if len(cov.Qualifying) == 0 {
		return report, nil
	}

	// 5. Totals per qualifying branch.
	branches, totals := branchTotals(cov.Qualifying, cart, products)

	// 6. Distances, with the hard cutoff applied before scoring.
	distances := s.distances.Resolve(ctx, address, branchAddresses(branches))
	branches, totals = filterByDistance(branches, totals, distances, s.policy.MaxDistanceKm)
	if len(branches) == 0 {
		logger.Info("[%s] no branch within %.0f km", id, s.policy.MaxDistanceKm)
		return report, nil
	}

	// 7. Score, rank, truncate, annotate.
	report.Results = s.score(cov.Qualifying, branches, totals, distances, cart, products, alpha)
	logger.Info("[%s] returning %d result(s)", id, len(report.Results))
	return report, nil
}

// loadListings returns the branch listing per product, consulting the cache
// first and refreshing everything stale or missing in one orchestrator pass.
func (s *RankService) loadListings(
	ctx context.Context, id, address string, products []string,
) map[string]domain.StoreListing {
	now := s.clock.Now()
	listings := make(map[string]domain.StoreListing, len(products))
	var stale []string

	for _, product := range products {
		listing, err := s.listings.GetListing(ctx, product, address)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Warn("[%s] listing cache read failed for %q: %v", id, product, err)
			}
			stale = append(stale, product)
			continue
		}
		if !listing.FreshWithin(s.policy.ListingWindow, now) {
			stale = append(stale, product)
			continue
		}
		listings[product] = *listing
	}

	if len(stale) > 0 {
		logger.Debug("[%s] %d listing(s) stale or missing", id, len(stale))
		for product, result := range s.refresher.Refresh(ctx, address, stale) {
			listings[product] = result.Listing
		}
	}
	return listings
}

// loadPrices assembles the branch price index for the listed branches. A
// product whose records are stale is re-fetched through the orchestrator;
// the freshly fetched records win over cached ones.
func (s *RankService) loadPrices(
	ctx context.Context, id, address string, products []string,
	listings map[string]domain.StoreListing,
) BranchPriceIndex {
	listed := make(map[domain.Branch]bool)
	for _, listing := range listings {
		for _, branch := range listing.Branches {
			listed[branch] = true
		}
	}

	now := s.clock.Now()
	index := make(BranchPriceIndex)
	staleProducts := make(map[string]bool)

	records, err := s.prices.GetByProducts(ctx, products)
	if err != nil {
		// Degrades to refreshing every product for this call.
		logger.Warn("[%s] price cache read failed: %v", id, err)
		records = nil
	}
	for _, rec := range records {
		if !listed[rec.Branch] {
			continue
		}
		if !rec.FreshWithin(s.policy.PriceWindow, now) {
			staleProducts[rec.Product] = true
			continue
		}
		insertRecord(index, rec)
	}

	// A listed branch with no cached record at all also needs its product
	// refreshed; the per-product lookup returns every branch in one call.
	for _, product := range products {
		listing, ok := listings[product]
		if !ok {
			continue
		}
		for _, branch := range listing.Branches {
			if _, ok := index[branch][product]; !ok {
				staleProducts[product] = true
				break
			}
		}
	}

	if len(staleProducts) == 0 {
		return index
	}

	refresh := make([]string, 0, len(staleProducts))
	for _, product := range products {
		if staleProducts[product] {
			refresh = append(refresh, product)
		}
	}
	logger.Debug("[%s] refreshing prices for %d product(s)", id, len(refresh))

	for _, result := range s.refresher.Refresh(ctx, address, refresh) {
		for _, rec := range result.Prices {
			if listed[rec.Branch] {
				insertRecord(index, rec)
			}
		}
	}
	return index
}

// insertRecord places a price record into the branch index.
func insertRecord(index BranchPriceIndex, rec domain.PriceRecord) {
	held, ok := index[rec.Branch]
	if !ok {
		held = make(map[string]domain.PriceRecord)
		index[rec.Branch] = held
	}
	held[rec.Product] = rec
}

// branchTotals computes the rounded cart total per qualifying branch.
// Branches come back in a deterministic order so downstream ties break
// reproducibly.
func branchTotals(
	qualifying BranchPriceIndex, cart domain.Cart, products []string,
) ([]domain.Branch, map[domain.Branch]domain.Money) {
	branches := make([]domain.Branch, 0, len(qualifying))
	for branch := range qualifying {
		branches = append(branches, branch)
	}
	sort.Slice(branches, func(i, j int) bool {
		if branches[i].Store != branches[j].Store {
			return branches[i].Store < branches[j].Store
		}
		return branches[i].Address < branches[j].Address
	})

	totals := make(map[domain.Branch]domain.Money, len(branches))
	for _, branch := range branches {
		var total domain.Money
		for _, product := range products {
			total += qualifying[branch][product].Total(cart[product])
		}
		totals[branch] = domain.RoundDisplay(total)
	}
	return branches, totals
}

// branchAddresses collects the distinct branch addresses, preserving order.
func branchAddresses(branches []domain.Branch) []string {
	seen := make(map[string]bool, len(branches))
	addrs := make([]string, 0, len(branches))
	for _, branch := range branches {
		if !seen[branch.Address] {
			seen[branch.Address] = true
			addrs = append(addrs, branch.Address)
		}
	}
	return addrs
}

// filterByDistance drops branches with an unresolved distance or one beyond
// the hard cutoff. An unresolved (nil) distance excludes the branch from
// ranking exactly like a too-far one.
func filterByDistance(
	branches []domain.Branch, totals map[domain.Branch]domain.Money,
	distances map[string]*float64, maxKm float64,
) ([]domain.Branch, map[domain.Branch]domain.Money) {
	kept := branches[:0]
	for _, branch := range branches {
		km := distances[branch.Address]
		if km == nil || *km > maxKm {
			delete(totals, branch)
			continue
		}
		kept = append(kept, branch)
	}
	return kept, totals
}

// score converts totals and distances into final ranked results: linear
// price and distance scores blended by alpha, collapsed to stars, stable
// sorted descending and truncated to the policy maximum.
func (s *RankService) score(
	qualifying BranchPriceIndex,
	branches []domain.Branch,
	totals map[domain.Branch]domain.Money,
	distances map[string]*float64,
	cart domain.Cart,
	products []string,
	alpha float64,
) []domain.RankedResult {
	minPrice, maxPrice := totals[branches[0]], totals[branches[0]]
	for _, branch := range branches {
		if totals[branch] < minPrice {
			minPrice = totals[branch]
		}
		if totals[branch] > maxPrice {
			maxPrice = totals[branch]
		}
	}

	results := make([]domain.RankedResult, 0, len(branches))
	for _, branch := range branches {
		km := *distances[branch.Address]
		priceScore := domain.PriceScore(totals[branch], minPrice, maxPrice)
		distScore := domain.DistanceScore(km, s.policy.DistancePivotKm)
		final := alpha*priceScore + (1-alpha)*distScore

		results = append(results, domain.RankedResult{
			Branch:     branch,
			Total:      totals[branch],
			DistanceKm: km,
			Stars:      domain.StarRating(final),
			UnitPrices: unitPrices(qualifying[branch], cart, products),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Stars > results[j].Stars
	})
	if len(results) > s.policy.MaxResults {
		results = results[:s.policy.MaxResults]
	}
	return results
}

// unitPrices computes the per-unit display price of each cart product at a
// branch: the product's promotional total divided across its quantity.
func unitPrices(
	held map[string]domain.PriceRecord, cart domain.Cart, products []string,
) map[string]*domain.Money {
	prices := make(map[string]*domain.Money, len(products))
	for _, product := range products {
		rec, ok := held[product]
		if !ok || cart[product] <= 0 {
			prices[product] = nil
			continue
		}
		unit := domain.UnitPrice(rec.Total(cart[product]), cart[product])
		prices[product] = &unit
	}
	return prices
}
