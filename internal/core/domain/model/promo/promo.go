// Package promo contains the promotional code entity used during pricing.
package promo

import (
	"errors"
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
	"returns/internal/pkg/guard"
)

// Kind discriminates how a promo code discounts the subtotal.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// KindPercent discounts a percentage of the subtotal.
	KindPercent

	// KindFlat discounts a fixed dollar amount.
	KindFlat
)

var kindStrings = map[Kind]string{
	KindUnknown: "unknown",
	KindPercent: "percent",
	KindFlat:    "flat",
}

// KindFromString parses a promo kind received at the system boundary.
func KindFromString(s string) (Kind, error) {
	for kind, str := range kindStrings {
		if str == s && kind != KindUnknown {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidError("promo kind: " + s)
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if str, ok := kindStrings[k]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Kind belongs to the closed enumeration.
func (k Kind) Validate() error {
	if k != KindPercent && k != KindFlat {
		return errs.NewValueIsInvalidError("promo kind")
	}
	return nil
}

// Domain errors for promo operations.
var (
	// ErrPromoIsNotConstructed is returned when using an improperly
	// initialized Promo.
	ErrPromoIsNotConstructed = errors.New("Promo must be created via NewPromo or RestorePromo")

	// ErrPromoExpired is returned when the code's expiry is in the past.
	ErrPromoExpired = errors.New("promo code has expired")

	// ErrPromoExhausted is returned when the code's usage limit is reached.
	ErrPromoExhausted = errors.New("promo code usage limit reached")
)

// Promo is a promotional code applied at booking time.
//
// A percent promo discounts value% of the pre-fee subtotal; a flat promo
// discounts a fixed amount. Either way the discount never exceeds the
// subtotal it applies to.
type Promo struct {
	id         kernel.UUID
	code       string
	kind       Kind
	value      kernel.Money
	expiresAt  time.Time
	usageLimit int
	usedCount  int
	guard      guard.ConstructorGuard
}

// NewPromo creates an unused promo code. For percent promos value carries the
// percentage (e.g. 10.00 for 10%), for flat promos the dollar amount.
// A usageLimit of zero means unlimited.
func NewPromo(
	id kernel.UUID,
	code string,
	kind Kind,
	value kernel.Money,
	expiresAt time.Time,
	usageLimit int,
) (*Promo, error) {
	return RestorePromo(id, code, kind, value, expiresAt, usageLimit, 0)
}

// RestorePromo reconstructs a promo from persistence.
func RestorePromo(
	id kernel.UUID,
	code string,
	kind Kind,
	value kernel.Money,
	expiresAt time.Time,
	usageLimit int,
	usedCount int,
) (*Promo, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if value.IsNegative() || value.IsZero() {
		return nil, errs.NewValueIsInvalidError("promo value must be positive")
	}
	if kind == KindPercent && kernel.MustMoneyFromString("100").LessThan(value) {
		return nil, errs.NewValueIsOutOfRangeError("value", value.String(), "0", "100")
	}
	if usageLimit < 0 {
		return nil, errs.NewValueIsInvalidError("usageLimit must not be negative")
	}
	if usedCount < 0 {
		return nil, errs.NewValueIsInvalidError("usedCount must not be negative")
	}

	return &Promo{
		id:         id,
		code:       code,
		kind:       kind,
		value:      value,
		expiresAt:  expiresAt,
		usageLimit: usageLimit,
		usedCount:  usedCount,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Promo was created via a constructor.
func (p *Promo) Validate() error {
	if p == nil {
		return ErrPromoIsNotConstructed
	}
	return p.guard.Validate(ErrPromoIsNotConstructed)
}

// ID returns the promo's unique identifier.
func (p *Promo) ID() kernel.UUID { return p.id }

// Code returns the customer-facing promo code.
func (p *Promo) Code() string { return p.code }

// Kind returns the discount kind.
func (p *Promo) Kind() Kind { return p.kind }

// Value returns the raw discount value (percentage or dollar amount).
func (p *Promo) Value() kernel.Money { return p.value }

// ExpiresAt returns the code's expiry instant.
func (p *Promo) ExpiresAt() time.Time { return p.expiresAt }

// UsageLimit returns the maximum number of redemptions, zero for unlimited.
func (p *Promo) UsageLimit() int { return p.usageLimit }

// UsedCount returns how many times the code has been redeemed.
func (p *Promo) UsedCount() int { return p.usedCount }

// CheckUsable reports whether the code can be redeemed at the given instant.
func (p *Promo) CheckUsable(at time.Time) error {
	if !p.expiresAt.After(at) {
		return ErrPromoExpired
	}
	if p.usageLimit > 0 && p.usedCount >= p.usageLimit {
		return ErrPromoExhausted
	}
	return nil
}

// DiscountFor computes the dollar discount this promo grants against the
// given subtotal. The result is rounded to the cent and capped at the
// subtotal so a flat $10 promo on a $7 subtotal discounts exactly $7.
func (p *Promo) DiscountFor(subtotal kernel.Money) kernel.Money {
	var discount kernel.Money
	switch p.kind {
	case KindPercent:
		discount = subtotal.Mul(p.value.Decimal().Div(hundred)).RoundToCent()
	case KindFlat:
		discount = p.value
	default:
		return kernel.ZeroMoney()
	}

	if subtotal.LessThan(discount) {
		return subtotal
	}
	return discount
}

// MarkUsed records one redemption. Fails when the code is no longer usable.
func (p *Promo) MarkUsed(at time.Time) error {
	if err := p.CheckUsable(at); err != nil {
		return err
	}
	p.usedCount++
	return nil
}

var hundred = kernel.MustMoneyFromString("100").Decimal()
