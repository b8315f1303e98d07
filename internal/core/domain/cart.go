package domain

import "sort"

// Cart maps a product name to the desired quantity.
// Order is irrelevant; each product appears at most once by construction.
type Cart map[string]int

// Validate checks the structural invariants of a cart: it must not be empty
// and every quantity must be at least one.
func (c Cart) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCart
	}
	for _, qty := range c {
		if qty < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Products returns the cart's product names in sorted order.
// Sorting gives every pipeline pass a deterministic product order, which the
// recommendation search relies on for reproducible enumeration.
func (c Cart) Products() []string {
	products := make([]string, 0, len(c))
	for p := range c {
		products = append(products, p)
	}
	sort.Strings(products)
	return products
}
