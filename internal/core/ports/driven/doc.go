// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ListingStore: store-listing cache persistence
//   - PriceStore: price-record cache persistence
//   - DistanceStore: distance cache persistence
//   - PriceSource: external price-lookup collaborator
//   - DistanceSource: external travel-distance collaborator
//   - Clock: wall-clock abstraction for freshness decisions
//
// Cache-store failures degrade the pipeline to "no caching" for the current
// call; they never fail a rank request. Collaborator failures for one key
// are absorbed as absence of data for that key only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
