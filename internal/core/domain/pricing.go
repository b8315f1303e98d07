package domain

// TotalPrice computes the cost of qty units given a regular per-unit price
// and an optional "buy requiredQty, each at salePrice" promotion.
//
// Without a complete promotion (both salePrice and requiredQty present and
// positive) every unit costs the regular price. With one, full bundles of
// requiredQty units are charged at the promotional per-unit price and the
// remainder at the regular price; a quantity below requiredQty never
// triggers the promotion.
func TotalPrice(regular Money, requiredQty *int, sale *Money, qty int) Money {
	if qty <= 0 {
		return 0
	}
	if sale == nil || requiredQty == nil || *requiredQty <= 0 {
		return regular * Money(qty)
	}

	groups := qty / *requiredQty
	remainder := qty % *requiredQty
	return Money(groups)*(*sale)*Money(*requiredQty) + Money(remainder)*regular
}
