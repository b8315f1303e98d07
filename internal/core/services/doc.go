// Package services implements the core use-cases of cartrank: the
// bounded-concurrency refresh of listings and prices, the coverage filter
// and recommendation search, distance resolution through the distance
// cache, and the rank pipeline that ties them together.
//
// Services depend only on domain types and driven ports; every external
// effect goes through an injected interface so tests can substitute
// in-memory fakes and a deterministic clock.
package services
