package order

import (
	"fmt"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
)

// ErrPriceBreakdownInconsistent indicates that the itemized fees of a price
// breakdown do not add up to its total, or that the total undercuts the base
// price floor.
var ErrPriceBreakdownInconsistent = errs.NewValueIsInvalidError(
	"price breakdown components do not add up to the total")

// PriceBreakdown is the itemized price of an order, frozen at booking and
// never silently recomputed afterwards. Every component is rounded to the
// cent. The breakdown always satisfies
//
//	Total = BasePrice + DistanceFee + SizeFee + MultiBoxFee - Discount + ServiceFee + RushFee
//
// and Total >= BasePrice.
type PriceBreakdown struct {
	BasePrice   kernel.Money
	DistanceFee kernel.Money
	SizeFee     kernel.Money
	MultiBoxFee kernel.Money
	Discount    kernel.Money
	ServiceFee  kernel.Money
	RushFee     kernel.Money
	Total       kernel.Money
}

// Validate checks the additive identity and the base price floor.
func (p PriceBreakdown) Validate() error {
	sum := p.BasePrice.
		Add(p.DistanceFee).
		Add(p.SizeFee).
		Add(p.MultiBoxFee).
		Sub(p.Discount).
		Add(p.ServiceFee).
		Add(p.RushFee)

	if !sum.IsEqual(p.Total) {
		return fmt.Errorf("%w: components add to %s, total is %s",
			ErrPriceBreakdownInconsistent, sum, p.Total)
	}
	if p.Total.LessThan(p.BasePrice) {
		return fmt.Errorf("%w: total %s is below base price %s",
			ErrPriceBreakdownInconsistent, p.Total, p.BasePrice)
	}
	return nil
}
