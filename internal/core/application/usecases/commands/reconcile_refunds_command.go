package commands

import (
	"errors"

	"returns/internal/pkg/guard"
)

var ErrReconcileRefundsCommandIsNotConstructed = errors.New(
	"ReconcileRefundsCommand must be created via NewReconcileRefundsCommand constructor",
)

// ReconcileRefundsCommand triggers one sweep over refunds that still await a
// terminal processor response. Issued periodically by the reconciliation job.
type ReconcileRefundsCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewReconcileRefundsCommand creates a command to reconcile pending refunds.
func NewReconcileRefundsCommand() ReconcileRefundsCommand {
	return ReconcileRefundsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ReconcileRefundsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileRefundsCommandIsNotConstructed)
}
