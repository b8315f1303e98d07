package domain

import (
	"strings"
	"time"
)

// Branch identifies a physical retailer location by the pair
// (store name, address). Two branches with the same name but different
// addresses are distinct; the struct is comparable and used as a map key
// everywhere a branch is referenced.
type Branch struct {
	Store   string
	Address string
}

// String renders the branch key for logs and output.
func (b Branch) String() string {
	return b.Store + " @ " + b.Address
}

// WebOnly reports whether the branch address points at a web shop rather
// than a physical location. Such branches cannot be driven to and are
// dropped during refresh.
func (b Branch) WebOnly() bool {
	return strings.Contains(strings.ToLower(b.Address), "http")
}

// StoreListing is the set of branches known to sell a product near an
// origin address, stamped with the time it was scraped.
type StoreListing struct {
	Product     string
	Origin      string
	Branches    []Branch
	LastUpdated time.Time
}

// FreshWithin reports whether the listing is younger than window at the
// given instant. Absent listings and stale listings are treated identically
// by callers: both must be refreshed.
func (l StoreListing) FreshWithin(window time.Duration, now time.Time) bool {
	return now.Sub(l.LastUpdated) < window
}

// PriceRecord is the price of one product at one branch. SalePrice and
// RequiredQuantity are optional as a pair: a promotion unlocks SalePrice per
// unit once RequiredQuantity units are bought together.
type PriceRecord struct {
	Product          string
	Branch           Branch
	RegularPrice     Money
	SalePrice        *Money
	RequiredQuantity *int
	LastUpdated      time.Time
}

// FreshWithin reports whether the record is younger than window at the
// given instant.
func (r PriceRecord) FreshWithin(window time.Duration, now time.Time) bool {
	return now.Sub(r.LastUpdated) < window
}

// Total computes the cost of qty units under this record's promotion, if any.
func (r PriceRecord) Total(qty int) Money {
	return TotalPrice(r.RegularPrice, r.RequiredQuantity, r.SalePrice, qty)
}

// DistanceRecord is a resolved travel distance between two addresses.
// Km is nil when the distance collaborator could not resolve the pair; the
// nil result is cached like any other so the pair is never re-requested.
// Distances have no freshness window.
type DistanceRecord struct {
	Origin      string
	Destination string
	Km          *float64
}

// Offer is a single row returned by the price-lookup collaborator: a branch
// selling the product, its prices and the raw promotion text, if present.
type Offer struct {
	Branch             Branch
	RegularPrice       Money
	SalePrice          *Money
	DiscountDescriptor string
}
