package commands

import (
	"errors"
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/promo"
	"returns/internal/pkg/errs"
	"returns/internal/pkg/guard"
)

var (
	ErrCreatePromoCommandIsNotConstructed = errors.New(
		"CreatePromoCommand must be created via NewCreatePromoCommand constructor",
	)
	ErrPromoCodeIsRequired = errors.New("promo code is required")
)

// CreatePromoCommand represents an admin request to create a promo code.
type CreatePromoCommand struct { //nolint:recvcheck //using for validation
	promoID    kernel.UUID
	code       string
	kind       promo.Kind
	value      kernel.Money
	expiresAt  time.Time
	usageLimit int

	guard guard.ConstructorGuard
}

// NewCreatePromoCommand creates a command to register a promo code. A
// usageLimit of zero means unlimited redemptions.
func NewCreatePromoCommand(
	promoID kernel.UUID,
	code string,
	kind promo.Kind,
	value kernel.Money,
	expiresAt time.Time,
	usageLimit int,
) (CreatePromoCommand, error) {
	if err := errors.Join(promoID.Validate(), kind.Validate()); err != nil {
		return CreatePromoCommand{}, err
	}
	if strings.TrimSpace(code) == "" {
		return CreatePromoCommand{}, ErrPromoCodeIsRequired
	}
	if value.IsNegative() || value.IsZero() {
		return CreatePromoCommand{}, errs.NewValueIsInvalidError("promo value must be positive")
	}
	if usageLimit < 0 {
		return CreatePromoCommand{}, errs.NewValueIsInvalidError("usageLimit must not be negative")
	}

	return CreatePromoCommand{
		promoID:    promoID,
		code:       strings.TrimSpace(code),
		kind:       kind,
		value:      value,
		expiresAt:  expiresAt,
		usageLimit: usageLimit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePromoCommand) Validate() error {
	return c.guard.Validate(ErrCreatePromoCommandIsNotConstructed)
}

// PromoID returns the identifier of the new promo.
func (c CreatePromoCommand) PromoID() kernel.UUID { return c.promoID }

// Code returns the customer-facing promo code.
func (c CreatePromoCommand) Code() string { return c.code }

// Kind returns whether the promo is percent-based or a flat amount.
func (c CreatePromoCommand) Kind() promo.Kind { return c.kind }

// Value returns the percentage or flat amount of the promo.
func (c CreatePromoCommand) Value() kernel.Money { return c.value }

// ExpiresAt returns the expiry instant of the promo.
func (c CreatePromoCommand) ExpiresAt() time.Time { return c.expiresAt }

// UsageLimit returns the redemption cap, zero meaning unlimited.
func (c CreatePromoCommand) UsageLimit() int { return c.usageLimit }
