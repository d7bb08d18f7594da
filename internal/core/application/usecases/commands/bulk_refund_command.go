package commands

import (
	"errors"
	"strings"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/guard"
)

var ErrBulkRefundCommandIsNotConstructed = errors.New(
	"BulkRefundCommand must be created via NewBulkRefundCommand constructor",
)

// BulkRefundItem is one order's refund request inside a bulk refund.
type BulkRefundItem struct {
	OrderID kernel.UUID
	Amount  kernel.Money
}

// BulkRefundCommand represents an admin request to refund many orders with a
// shared reason, for example after a retailer recall.
type BulkRefundCommand struct { //nolint:recvcheck //using for validation
	items  []BulkRefundItem
	reason string

	guard guard.ConstructorGuard
}

// NewBulkRefundCommand creates a command for an admin bulk refund.
func NewBulkRefundCommand(items []BulkRefundItem, reason string) (BulkRefundCommand, error) {
	cmd := BulkRefundCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItems(items),
		cmd.setReason(reason),
	); err != nil {
		return BulkRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkRefundCommand) Validate() error {
	return c.guard.Validate(ErrBulkRefundCommandIsNotConstructed)
}

// Items returns the per-order refund requests.
func (c BulkRefundCommand) Items() []BulkRefundItem {
	return append([]BulkRefundItem(nil), c.items...)
}

// Reason returns the shared refund reason.
func (c BulkRefundCommand) Reason() string {
	return c.reason
}

func (c *BulkRefundCommand) setItems(items []BulkRefundItem) error {
	if len(items) == 0 {
		return ErrOrderIDsAreRequired
	}
	for _, item := range items {
		if err := item.OrderID.Validate(); err != nil {
			return err
		}
		if item.Amount.IsNegative() || item.Amount.IsZero() {
			return ErrRefundAmountIsInvalid
		}
	}

	c.items = append([]BulkRefundItem(nil), items...)
	return nil
}

func (c *BulkRefundCommand) setReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrRefundReasonIsRequired
	}

	c.reason = reason
	return nil
}
