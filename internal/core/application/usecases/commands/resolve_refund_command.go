package commands

import (
	"errors"

	"returns/internal/pkg/guard"
)

var (
	ErrResolveRefundCommandIsNotConstructed = errors.New(
		"ResolveRefundCommand must be created via NewResolveRefundCommand constructor",
	)
	ErrProcessorRefundIDIsRequired = errors.New("processor refund id is required")
)

// ResolveRefundCommand represents a terminal processor response for a
// previously submitted refund, delivered by webhook or discovered by the
// reconciliation job's poll.
type ResolveRefundCommand struct { //nolint:recvcheck //using for validation
	processorRefundID string
	succeeded         bool

	guard guard.ConstructorGuard
}

// NewResolveRefundCommand creates a command to resolve a pending refund.
func NewResolveRefundCommand(processorRefundID string, succeeded bool) (ResolveRefundCommand, error) {
	cmd := ResolveRefundCommand{
		succeeded: succeeded,
		guard:     guard.NewConstructorGuard(),
	}

	if err := cmd.setProcessorRefundID(processorRefundID); err != nil {
		return ResolveRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveRefundCommand) Validate() error {
	return c.guard.Validate(ErrResolveRefundCommandIsNotConstructed)
}

// ProcessorRefundID returns the processor-side refund identifier.
func (c ResolveRefundCommand) ProcessorRefundID() string {
	return c.processorRefundID
}

// Succeeded reports whether the processor confirmed the refund.
func (c ResolveRefundCommand) Succeeded() bool {
	return c.succeeded
}

func (c *ResolveRefundCommand) setProcessorRefundID(id string) error {
	if id == "" {
		return ErrProcessorRefundIDIsRequired
	}

	c.processorRefundID = id
	return nil
}
