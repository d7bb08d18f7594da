// Package services provides domain services that implement business
// computations spanning multiple domain entities of the returns marketplace.
//
// The package includes:
//   - PricingCalculator: a pure service computing the itemized price breakdown
//     that is frozen on an order at booking time
//   - SettlementEngine: a pure service computing driver earning and platform
//     fee when an order completes
//
// Both services are stateless and deterministic. They never touch storage or
// the network, which keeps every pricing and settlement decision replayable
// from the order's persisted attributes.
package services
