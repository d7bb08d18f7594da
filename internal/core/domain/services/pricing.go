package services

import (
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/promo"
	"returns/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Pricing constants. Values are business configuration frozen at booking
// time; changing them never affects already-priced orders because the
// breakdown is persisted on the order.
var (
	basePrice       = kernel.MustMoneyFromString("3.99")
	perMileFee      = kernel.MustMoneyFromString("0.50")
	largeBoxFee     = kernel.MustMoneyFromString("2.00")
	extraLargeFee   = kernel.MustMoneyFromString("4.00")
	multiBoxFee     = kernel.MustMoneyFromString("1.50")
	rushFee         = kernel.MustMoneyFromString("3.00")
	serviceFeeShare = decimal.RequireFromString("0.15")
)

// ErrNegativeDistance is returned when pricing is asked for a negative distance.
var ErrNegativeDistance = errs.NewValueIsInvalidError("distanceMiles must not be negative")

// PricingCalculator is a domain service that produces the itemized price
// breakdown for a pickup order.
//
// Business rules:
//   - the base price is a floor charge: the total never drops below it
//   - size fees apply per box (S/M free, L and XL surcharged)
//   - every box after the first adds a multi-box fee
//   - the service fee is a percentage of the discounted subtotal
//   - all customer-facing amounts are rounded to the cent, half up
//
// The calculator is pure: same inputs, same breakdown, no side effects.
// Prices are computed exactly once per order and persisted; they are never
// recomputed after booking.
//
// Example usage:
//
//	calc := services.NewPricingCalculator()
//	breakdown, err := calc.Calculate(services.PricingInput{
//	    Boxes:         []order.BoxSize{order.BoxSizeM},
//	    DistanceMiles: 5,
//	})
type PricingCalculator struct{}

// NewPricingCalculator creates a new PricingCalculator instance.
func NewPricingCalculator() PricingCalculator {
	return PricingCalculator{}
}

// PricingInput carries the order attributes the price depends on.
// Promo is optional; when set it must already be validated as usable,
// the calculator only applies its discount.
type PricingInput struct {
	Boxes         []order.BoxSize
	DistanceMiles float64
	Rush          bool
	Promo         *promo.Promo
	At            time.Time
}

// Calculate computes the full price breakdown for the given input.
//
// Returns:
//   - order.PriceBreakdown: itemized fees satisfying the additive identity
//     total = base + distance + size + multiBox - discount + service + rush
//   - error: validation errors for empty boxes, invalid sizes, or negative
//     distance; promo usability errors when a promo is supplied
//
// When the floor kicks in (a discount large enough to push the total below
// the base price) the discount is reduced so the identity still holds with
// total equal to the base price.
func (c PricingCalculator) Calculate(input PricingInput) (order.PriceBreakdown, error) {
	if len(input.Boxes) == 0 {
		return order.PriceBreakdown{}, errs.NewValueIsRequiredError("boxes")
	}
	for _, size := range input.Boxes {
		if err := size.Validate(); err != nil {
			return order.PriceBreakdown{}, err
		}
	}
	if input.DistanceMiles < 0 {
		return order.PriceBreakdown{}, ErrNegativeDistance
	}

	distanceFee := perMileFee.Mul(decimal.NewFromFloat(input.DistanceMiles)).RoundToCent()

	sizeFee := kernel.ZeroMoney()
	for _, size := range input.Boxes {
		switch size {
		case order.BoxSizeL:
			sizeFee = sizeFee.Add(largeBoxFee)
		case order.BoxSizeXL:
			sizeFee = sizeFee.Add(extraLargeFee)
		}
	}

	multiBox := kernel.ZeroMoney()
	if extra := len(input.Boxes) - 1; extra > 0 {
		multiBox = multiBoxFee.Mul(decimal.NewFromInt(int64(extra)))
	}

	subtotal := basePrice.Add(distanceFee).Add(sizeFee).Add(multiBox)

	discount := kernel.ZeroMoney()
	if input.Promo != nil {
		if err := input.Promo.CheckUsable(input.At); err != nil {
			return order.PriceBreakdown{}, err
		}
		discount = input.Promo.DiscountFor(subtotal)
	}

	serviceFee := subtotal.Sub(discount).Mul(serviceFeeShare).RoundToCent()

	rush := kernel.ZeroMoney()
	if input.Rush {
		rush = rushFee
	}

	total := subtotal.Sub(discount).Add(serviceFee).Add(rush).RoundToCent()

	// Floor at the base price. The discount absorbs the difference so the
	// additive identity on the breakdown still holds.
	if total.LessThan(basePrice) {
		discount = discount.Sub(basePrice.Sub(total))
		total = basePrice
	}

	return order.PriceBreakdown{
		BasePrice:   basePrice,
		DistanceFee: distanceFee,
		SizeFee:     sizeFee,
		MultiBoxFee: multiBox,
		Discount:    discount,
		ServiceFee:  serviceFee,
		RushFee:     rush,
		Total:       total,
	}, nil
}
