package ports

import (
	"context"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/refund"
)

// RefundRepository defines the persistence contract for the refund ledger.
type RefundRepository interface {
	// Add persists a new refund ledger entry.
	Add(ctx context.Context, aggregate *refund.Refund) error

	// Update persists changes to an existing refund entry.
	Update(ctx context.Context, aggregate *refund.Refund) error

	// Get retrieves a refund by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error)

	// GetByIdempotencyKey retrieves the refund recorded under the given
	// deduplication key. Returns an error unwrapping to
	// errs.ErrObjectNotFound when no attempt with this key exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*refund.Refund, error)

	// GetByProcessorID retrieves the refund assigned the given
	// processor-side identifier. Used to match webhook callbacks.
	GetByProcessorID(ctx context.Context, processorRefundID string) (*refund.Refund, error)

	// ListPending retrieves refunds still awaiting a terminal processor
	// response, oldest first. Used by the reconciliation job.
	ListPending(ctx context.Context) ([]*refund.Refund, error)
}
