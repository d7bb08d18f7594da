package order

import (
	"fmt"

	"returns/internal/pkg/errs"
)

// BoxSize classifies a package box into one of the four supported size tiers.
// Size determines the per-box surcharge in the pricing formula and the per-box
// bonus in driver settlement.
type BoxSize int

const (
	// BoxSizeUnknown represents an invalid or undefined box size.
	BoxSizeUnknown BoxSize = iota

	// BoxSizeS is a small box. No size surcharge.
	BoxSizeS

	// BoxSizeM is a medium box. No size surcharge.
	BoxSizeM

	// BoxSizeL is a large box, carrying a per-box surcharge.
	BoxSizeL

	// BoxSizeXL is an extra-large box, carrying the highest per-box surcharge.
	BoxSizeXL
)

var boxSizeStrings = map[BoxSize]string{
	BoxSizeUnknown: "unknown",
	BoxSizeS:       "S",
	BoxSizeM:       "M",
	BoxSizeL:       "L",
	BoxSizeXL:      "XL",
}

// BoxSizeFromString parses a box size received at the system boundary,
// rejecting anything outside {S, M, L, XL}.
func BoxSizeFromString(s string) (BoxSize, error) {
	for size, str := range boxSizeStrings {
		if str == s && size != BoxSizeUnknown {
			return size, nil
		}
	}
	return BoxSizeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"boxSize", fmt.Errorf("%q is not a recognized box size", s))
}

// Validate checks that the BoxSize belongs to the closed enumeration.
func (s BoxSize) Validate() error {
	if _, ok := boxSizeStrings[s]; !ok || s == BoxSizeUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"boxSize", fmt.Errorf("%d is not a valid box size", s))
	}
	return nil
}

// String returns the size tier name ("S", "M", "L", "XL").
func (s BoxSize) String() string {
	if str, ok := boxSizeStrings[s]; ok {
		return str
	}
	return "unknown"
}
