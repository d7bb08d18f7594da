package commands

import (
	"errors"
	"strings"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/guard"
)

var (
	ErrRequestRefundCommandIsNotConstructed = errors.New(
		"RequestRefundCommand must be created via NewRequestRefundCommand constructor",
	)
	ErrRefundAmountIsInvalid  = errors.New("refund amount must be positive")
	ErrRefundReasonIsRequired = errors.New("refund reason is required")
)

// RequestRefundCommand represents a request to refund part or all of an
// order's paid amount. The idempotency key derived from (order, amount,
// reason) deduplicates replays of the same request.
type RequestRefundCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  kernel.Money
	reason  string

	guard guard.ConstructorGuard
}

// NewRequestRefundCommand creates a command to request a refund.
func NewRequestRefundCommand(orderID kernel.UUID, amount kernel.Money, reason string) (RequestRefundCommand, error) {
	cmd := RequestRefundCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAmount(amount),
		cmd.setReason(reason),
	); err != nil {
		return RequestRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestRefundCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefundCommandIsNotConstructed)
}

// OrderID returns the order being refunded.
func (c RequestRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Amount returns the requested refund amount.
func (c RequestRefundCommand) Amount() kernel.Money {
	return c.amount
}

// Reason returns the refund reason.
func (c RequestRefundCommand) Reason() string {
	return c.reason
}

func (c *RequestRefundCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RequestRefundCommand) setAmount(amount kernel.Money) error {
	if amount.IsNegative() || amount.IsZero() {
		return ErrRefundAmountIsInvalid
	}

	c.amount = amount
	return nil
}

func (c *RequestRefundCommand) setReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrRefundReasonIsRequired
	}

	c.reason = reason
	return nil
}
