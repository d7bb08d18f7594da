package commands

import (
	"errors"
	"strings"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrPickupAddressIsRequired = errors.New("pickup address is required")
	ErrRetailerIsRequired      = errors.New("retailer is required")
	ErrBoxesAreRequired        = errors.New("at least one box is required")
	ErrTipIsInvalid            = errors.New("tip must not be negative")
)

// CreateOrderCommand represents a request to book a new return pickup.
// Encapsulates the customer, addresses, package attributes, and the optional
// promo code and tip. The price is computed by the handler, never supplied by
// the caller.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID,
//	    "123 Main St", "Acme Retail", []order.BoxSize{order.BoxSizeM},
//	    false, nil, kernel.ZeroMoney())
//	if err != nil {
//	    return fmt.Errorf("invalid booking data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	pickupAddress string
	retailer      string
	boxes         []order.BoxSize
	rush          bool
	promoCode     *string
	tip           kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to book a new pickup order.
// Validates identifiers, addresses, box sizes, and the tip amount.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	pickupAddress string,
	retailer string,
	boxes []order.BoxSize,
	rush bool,
	promoCode *string,
	tip kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		rush:      rush,
		promoCode: promoCode,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setPickupAddress(pickupAddress),
		cmd.setRetailer(retailer),
		cmd.setBoxes(boxes),
		cmd.setTip(tip),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be created under.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the booking customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PickupAddress returns the customer's pickup street address.
func (c CreateOrderCommand) PickupAddress() string {
	return c.pickupAddress
}

// Retailer returns the dropoff retailer name.
func (c CreateOrderCommand) Retailer() string {
	return c.retailer
}

// Boxes returns the package boxes with their size tiers.
func (c CreateOrderCommand) Boxes() []order.BoxSize {
	return append([]order.BoxSize(nil), c.boxes...)
}

// Rush reports whether same-day pickup was requested.
func (c CreateOrderCommand) Rush() bool {
	return c.rush
}

// PromoCode returns the optional promo code.
func (c CreateOrderCommand) PromoCode() *string {
	return c.promoCode
}

// Tip returns the optional driver tip.
func (c CreateOrderCommand) Tip() kernel.Money {
	return c.tip
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setPickupAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrPickupAddressIsRequired
	}

	c.pickupAddress = address
	return nil
}

func (c *CreateOrderCommand) setRetailer(retailer string) error {
	if strings.TrimSpace(retailer) == "" {
		return ErrRetailerIsRequired
	}

	c.retailer = retailer
	return nil
}

func (c *CreateOrderCommand) setBoxes(boxes []order.BoxSize) error {
	if len(boxes) == 0 {
		return ErrBoxesAreRequired
	}
	for _, b := range boxes {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	c.boxes = append([]order.BoxSize(nil), boxes...)
	return nil
}

func (c *CreateOrderCommand) setTip(tip kernel.Money) error {
	if tip.IsNegative() {
		return ErrTipIsInvalid
	}

	c.tip = tip
	return nil
}
