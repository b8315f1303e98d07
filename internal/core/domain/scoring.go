package domain

import "math"

// PriceScore rescales a branch total onto [1,10] against the cheapest and
// most expensive qualifying totals: the cheapest scores 10, the most
// expensive 1. When every total is equal the score is 10 for all.
func PriceScore(price, minPrice, maxPrice Money) float64 {
	if maxPrice == minPrice {
		return 10
	}
	return 10 - 9*float64(price-minPrice)/float64(maxPrice-minPrice)
}

// DistanceScore rescales a travel distance onto [1,10]: zero km scores 10
// and anything at or beyond pivotKm scores 1. pivotKm is the rescale pivot,
// independent of the hard distance cutoff applied before scoring.
func DistanceScore(km, pivotKm float64) float64 {
	score := 10 - 9*km/pivotKm
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// StarRating collapses a blended [1,10] score to an integer rating in [1,5].
func StarRating(final float64) int {
	stars := int(math.Ceil(final / 2))
	if stars > 5 {
		return 5
	}
	if stars < 1 {
		return 1
	}
	return stars
}

// RankedResult is one branch recommendation: the branch, the rounded total
// for the whole cart, the travel distance from the origin, the star rating
// and the per-unit price of each product. A unit price is nil where the
// product's price could not be resolved for the branch.
type RankedResult struct {
	Branch     Branch
	Total      Money
	DistanceKm float64
	Stars      int
	UnitPrices map[string]*Money
}

// RankReport is the outcome of one pipeline invocation: up to five ranked
// branches and, when coverage fell short, the products whose removal would
// restore it.
type RankReport struct {
	Results             []RankedResult
	RecommendedRemovals []string
}
