package ports

import (
	"context"
	"errors"

	"returns/internal/core/domain/model/kernel"
)

// Processor-facing failure classification. Timeouts are retryable with
// bounded backoff; rejections are terminal and surfaced for manual action.
var (
	// ErrProcessorTimeout indicates the processor did not answer in time.
	// The outcome of the submitted operation is unknown.
	ErrProcessorTimeout = errors.New("payment processor timed out")

	// ErrProcessorRejected indicates the processor definitively refused the
	// operation. Retrying will not help.
	ErrProcessorRejected = errors.New("payment processor rejected the request")
)

// ChargeResult is the processor's answer to a charge submission.
type ChargeResult struct {
	// PaymentIntentID identifies the charge on the processor side.
	PaymentIntentID string
}

// RefundSubmission is the processor's answer to a refund submission.
// Acceptance is not confirmation: the refund resolves asynchronously via
// webhook or polling.
type RefundSubmission struct {
	// ProcessorRefundID identifies the refund on the processor side.
	ProcessorRefundID string
}

// RefundState is the processor-side state of a previously submitted refund,
// as reported by polling.
type RefundState int

const (
	// RefundStateUnknown means the processor could not report a state.
	RefundStateUnknown RefundState = iota

	// RefundStatePending means the refund is still being processed.
	RefundStatePending

	// RefundStateSucceeded means the processor completed the refund.
	RefundStateSucceeded

	// RefundStateFailed means the processor failed the refund.
	RefundStateFailed
)

// PaymentProcessor is the outbound port to the external payment provider.
//
// Implementations retry transient failures internally with bounded
// exponential backoff and return ErrProcessorTimeout once attempts are
// exhausted. They never fabricate terminal outcomes: a refund is only
// reported succeeded or failed when the processor said so.
type PaymentProcessor interface {
	// Charge captures the order total from the customer's payment method.
	Charge(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (ChargeResult, error)

	// SubmitRefund asks the processor to return amount against the original
	// charge. The idempotency key deduplicates replays on the processor side.
	SubmitRefund(ctx context.Context, paymentIntentID string, amount kernel.Money, idempotencyKey string) (RefundSubmission, error)

	// RefundStatus polls the processor for the state of a submitted refund.
	RefundStatus(ctx context.Context, processorRefundID string) (RefundState, error)
}
