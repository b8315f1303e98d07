package services

import (
	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

// BranchPriceIndex maps each branch to the price records it holds, keyed by
// product. Absence of a product means "price unknown" for that branch.
type BranchPriceIndex map[domain.Branch]map[string]domain.PriceRecord

// Coverage is the outcome of filtering branches against a product list.
type Coverage struct {
	// Qualifying holds the branches with a resolvable price for every
	// product, with their per-product records.
	Qualifying BranchPriceIndex

	// Missing maps each product to the branches that lack a price for it.
	Missing map[string][]domain.Branch
}

// FilterBranches splits branches into those that cover every product and an
// index of what the rest are missing. A branch qualifies only if it has a
// price record for every product in products.
func FilterBranches(index BranchPriceIndex, products []string) Coverage {
	cov := Coverage{
		Qualifying: make(BranchPriceIndex),
		Missing:    make(map[string][]domain.Branch),
	}

	for branch, held := range index {
		missing := false
		for _, product := range products {
			if _, ok := held[product]; !ok {
				cov.Missing[product] = append(cov.Missing[product], branch)
				missing = true
			}
		}
		if !missing {
			cov.Qualifying[branch] = held
		}
	}
	return cov
}

// RecommendRemovals searches for the first product subset whose removal
// from the cart restores at least minQualifying covering branches.
//
// Candidates are the problematic products (those appearing in cov.Missing),
// enumerated lazily in increasing subset size and, within a size, in the
// positional order they hold in products. The first qualifying subset wins;
// the search is deliberately first-match, not globally optimal. maxSize
// caps the subset size to keep the exponential worst case in check.
//
// An empty problematic set returns nil without searching: the coverage
// shortfall is then due to unresolved prices, not cart composition.
func RecommendRemovals(index BranchPriceIndex, cov Coverage, products []string, minQualifying, maxSize int) []string {
	var problematic []string
	for _, product := range products {
		if _, ok := cov.Missing[product]; ok {
			problematic = append(problematic, product)
		}
	}
	if len(problematic) == 0 {
		return nil
	}
	if maxSize <= 0 || maxSize > len(problematic) {
		maxSize = len(problematic)
	}

	logger.Debug("Recommendation search over %d problematic product(s), max subset %d",
		len(problematic), maxSize)

	var removal []string
	for size := 1; size <= maxSize && removal == nil; size++ {
		eachCombination(len(problematic), size, func(picked []int) bool {
			subset := make(map[string]bool, size)
			for _, i := range picked {
				subset[problematic[i]] = true
			}

			remaining := make([]string, 0, len(products)-size)
			for _, product := range products {
				if !subset[product] {
					remaining = append(remaining, product)
				}
			}

			if len(FilterBranches(index, remaining).Qualifying) >= minQualifying {
				removal = make([]string, 0, size)
				for _, i := range picked {
					removal = append(removal, problematic[i])
				}
				return true
			}
			return false
		})
	}
	return removal
}

// eachCombination enumerates the size-k index combinations of [0,n) in
// lexicographic order, invoking visit for each until it returns true.
// Combinations are generated one at a time; nothing is materialised beyond
// the current pick.
func eachCombination(n, k int, visit func(picked []int) bool) {
	if k <= 0 || k > n {
		return
	}
	picked := make([]int, k)
	for i := range picked {
		picked[i] = i
	}
	for {
		if visit(picked) {
			return
		}
		// Advance to the next combination.
		i := k - 1
		for i >= 0 && picked[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		picked[i]++
		for j := i + 1; j < k; j++ {
			picked[j] = picked[j-1] + 1
		}
	}
}
