// Package domain contains the business entities and pure calculations of the
// cartrank core: carts, branches, price records, discount parsing, pricing
// arithmetic and the price/distance scoring model.
//
// The package has no dependencies on storage, transport or any other
// infrastructure. Everything here is synchronous and reentrant.
package domain
