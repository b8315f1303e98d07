package domain

import "time"

// Policy defaults. The distance cutoff and the score pivot are deliberately
// distinct constants: a branch beyond DefaultMaxDistanceKm is excluded
// outright, while DefaultDistancePivotKm only shapes the score curve.
const (
	DefaultListingWindow    = 48 * time.Hour
	DefaultPriceWindow      = 2 * time.Hour
	DefaultMinQualifying    = 5
	DefaultMaxResults       = 5
	DefaultMaxDistanceKm    = 10.0
	DefaultDistancePivotKm  = 5.0
	DefaultMaxRemovalSize   = 4
	DefaultFetchConcurrency = 30
)

// RankPolicy carries the tunable constants of the ranking pipeline.
// Zero fields are replaced with the defaults above via Normalised.
type RankPolicy struct {
	// ListingWindow is the freshness window for cached store listings.
	ListingWindow time.Duration

	// PriceWindow is the freshness window for cached price records.
	PriceWindow time.Duration

	// MinQualifying is the branch count below which the recommendation
	// search runs.
	MinQualifying int

	// MaxResults bounds the ranked output.
	MaxResults int

	// MaxDistanceKm excludes branches farther than this from ranking.
	MaxDistanceKm float64

	// DistancePivotKm is the distance at which the distance score bottoms
	// out at 1.
	DistancePivotKm float64

	// MaxRemovalSize caps the subset size the recommendation search will
	// enumerate. A policy choice bounding worst-case runtime, not a
	// correctness requirement.
	MaxRemovalSize int

	// FetchConcurrency is the global ceiling on concurrent lookups.
	FetchConcurrency int
}

// DefaultRankPolicy returns the policy with every field at its default.
func DefaultRankPolicy() RankPolicy {
	return RankPolicy{
		ListingWindow:    DefaultListingWindow,
		PriceWindow:      DefaultPriceWindow,
		MinQualifying:    DefaultMinQualifying,
		MaxResults:       DefaultMaxResults,
		MaxDistanceKm:    DefaultMaxDistanceKm,
		DistancePivotKm:  DefaultDistancePivotKm,
		MaxRemovalSize:   DefaultMaxRemovalSize,
		FetchConcurrency: DefaultFetchConcurrency,
	}
}

// Normalised returns a copy with unset fields replaced by defaults.
func (p RankPolicy) Normalised() RankPolicy {
	if p.ListingWindow <= 0 {
		p.ListingWindow = DefaultListingWindow
	}
	if p.PriceWindow <= 0 {
		p.PriceWindow = DefaultPriceWindow
	}
	if p.MinQualifying <= 0 {
		p.MinQualifying = DefaultMinQualifying
	}
	if p.MaxResults <= 0 {
		p.MaxResults = DefaultMaxResults
	}
	if p.MaxDistanceKm <= 0 {
		p.MaxDistanceKm = DefaultMaxDistanceKm
	}
	if p.DistancePivotKm <= 0 {
		p.DistancePivotKm = DefaultDistancePivotKm
	}
	if p.MaxRemovalSize <= 0 {
		p.MaxRemovalSize = DefaultMaxRemovalSize
	}
	if p.FetchConcurrency <= 0 {
		p.FetchConcurrency = DefaultFetchConcurrency
	}
	return p
}
