// Package kernel contains the shared value objects of the domain model:
// identifiers, money, and geographic points. These types are immutable,
// validated at construction, and free of infrastructure concerns, so they can
// be used by every aggregate without introducing coupling between bounded
// contexts.
package kernel
