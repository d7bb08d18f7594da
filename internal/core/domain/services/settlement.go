package services

import (
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Payout constants. Like the pricing constants these are business
// configuration; the computed earning and fee are persisted on the order at
// completion and never recomputed.
var (
	perOrderBase     = kernel.MustMoneyFromString("2.50")
	perMileRate      = kernel.MustMoneyFromString("0.60")
	smallBoxBonus    = kernel.MustMoneyFromString("0.50")
	largeBoxBonus    = kernel.MustMoneyFromString("1.00")
	xlBoxBonus       = kernel.MustMoneyFromString("2.00")
	perMinuteRate    = kernel.MustMoneyFromString("0.10")
	timeComponentCap = kernel.MustMoneyFromString("6.00")
)

// SettlementEngine is a domain service that computes driver compensation when
// an order completes.
//
// Business rules:
//   - earning is computed from realized work, not estimated at booking
//   - box bonuses scale with handled size (S/M, L, XL tiers)
//   - the time component rewards long jobs but is capped
//   - tips pass through to the driver in full and never reduce the
//     platform fee
//
// The engine is pure and runs exactly once per order, at the
// delivered to completed transition.
type SettlementEngine struct{}

// NewSettlementEngine creates a new SettlementEngine instance.
func NewSettlementEngine() SettlementEngine {
	return SettlementEngine{}
}

// Settlement is the outcome of settling one order.
type Settlement struct {
	// DriverEarning is the full driver payout including the tip.
	DriverEarning kernel.Money

	// PlatformFee is the platform's take: the order total minus the
	// driver's earning excluding the tip.
	PlatformFee kernel.Money
}

// SettlementInput carries the realized order attributes compensation
// depends on.
type SettlementInput struct {
	Total         kernel.Money
	Tip           kernel.Money
	Boxes         []order.BoxSize
	DistanceMiles float64

	// JobDuration is the elapsed time from pickup to delivery. Zero or
	// negative durations contribute nothing.
	JobDuration time.Duration
}

// Settle computes the driver earning and platform fee for a completed order.
//
// The earning is perOrderBase + perMileRate x distance + per-box size
// bonuses + a capped per-minute time component, plus the customer's tip.
// The platform fee is the order total minus the earning without the tip, so
// tipping never costs the platform.
func (e SettlementEngine) Settle(input SettlementInput) Settlement {
	earning := perOrderBase.
		Add(perMileRate.Mul(decimal.NewFromFloat(input.DistanceMiles))).
		RoundToCent()

	for _, size := range input.Boxes {
		switch size {
		case order.BoxSizeS, order.BoxSizeM:
			earning = earning.Add(smallBoxBonus)
		case order.BoxSizeL:
			earning = earning.Add(largeBoxBonus)
		case order.BoxSizeXL:
			earning = earning.Add(xlBoxBonus)
		}
	}

	if input.JobDuration > 0 {
		minutes := decimal.NewFromFloat(input.JobDuration.Minutes())
		timeComponent := perMinuteRate.Mul(minutes).RoundToCent()
		if timeComponentCap.LessThan(timeComponent) {
			timeComponent = timeComponentCap
		}
		earning = earning.Add(timeComponent)
	}

	platformFee := input.Total.Sub(earning).RoundToCent()

	if !input.Tip.IsZero() {
		earning = earning.Add(input.Tip)
	}

	return Settlement{
		DriverEarning: earning.RoundToCent(),
		PlatformFee:   platformFee,
	}
}
