// Package refund contains the refund ledger entity. Every refund attempt is
// recorded as its own Refund with a deterministic idempotency key, so retried
// requests are deduplicated and money is never returned twice.
package refund

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"
	"returns/internal/pkg/guard"
)

// Status tracks a refund attempt through the payment processor.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusRequested means the refund was recorded but not yet submitted.
	StatusRequested

	// StatusProcessing means the processor accepted the refund and will
	// confirm asynchronously.
	StatusProcessing

	// StatusSucceeded means the processor confirmed the refund.
	StatusSucceeded

	// StatusFailed means the processor rejected or failed the refund.
	StatusFailed
)

var statusStrings = map[Status]string{
	StatusUnknown:    "unknown",
	StatusRequested:  "requested",
	StatusProcessing: "processing",
	StatusSucceeded:  "succeeded",
	StatusFailed:     "failed",
}

// StatusFromString parses a refund status received at the system boundary.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("refund status: " + s)
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Status belongs to the closed enumeration.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidError("refund status")
	}
	if _, ok := statusStrings[s]; !ok {
		return errs.NewValueIsInvalidError("refund status")
	}
	return nil
}

// Domain errors for refund operations.
var (
	// ErrRefundIsNotConstructed is returned when using an improperly
	// initialized Refund.
	ErrRefundIsNotConstructed = errors.New("Refund must be created via NewRefund or RestoreRefund")

	// ErrRefundNotPending is returned when resolving a refund that is not
	// in the requested or processing state.
	ErrRefundNotPending = errors.New("refund is not pending resolution")
)

// IdempotencyKeyFor derives the deterministic deduplication key for a refund
// attempt. Two requests for the same order, amount, and reason produce the
// same key and therefore the same ledger entry.
func IdempotencyKeyFor(orderID kernel.UUID, amount kernel.Money, reason string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s", orderID, amount.RoundToCent(), reason))
	return hex.EncodeToString(sum[:])
}

// Refund is a single ledger entry for a refund attempt against an order.
type Refund struct {
	id                kernel.UUID
	orderID           kernel.UUID
	amount            kernel.Money
	reason            string
	idempotencyKey    string
	status            Status
	processorRefundID string
	requestedAt       time.Time
	resolvedAt        *time.Time
	guard             guard.ConstructorGuard
}

// NewRefund records a refund request in the requested state. The idempotency
// key is derived from the order, amount, and reason.
func NewRefund(
	id kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	reason string,
	requestedAt time.Time,
) (*Refund, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, errs.NewValueIsInvalidError("refund amount must be positive")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}

	return &Refund{
		id:             id,
		orderID:        orderID,
		amount:         amount.RoundToCent(),
		reason:         reason,
		idempotencyKey: IdempotencyKeyFor(orderID, amount, reason),
		status:         StatusRequested,
		requestedAt:    requestedAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// RestoreRefund reconstructs a refund ledger entry from persistence.
func RestoreRefund(
	id kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
	status Status,
	processorRefundID string,
	requestedAt time.Time,
	resolvedAt *time.Time,
) (*Refund, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	return &Refund{
		id:                id,
		orderID:           orderID,
		amount:            amount,
		reason:            reason,
		idempotencyKey:    idempotencyKey,
		status:            status,
		processorRefundID: processorRefundID,
		requestedAt:       requestedAt,
		resolvedAt:        resolvedAt,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Refund was created via a constructor.
func (r *Refund) Validate() error {
	if r == nil {
		return ErrRefundIsNotConstructed
	}
	return r.guard.Validate(ErrRefundIsNotConstructed)
}

// ID returns the refund's unique identifier.
func (r *Refund) ID() kernel.UUID { return r.id }

// OrderID returns the order this refund applies to.
func (r *Refund) OrderID() kernel.UUID { return r.orderID }

// Amount returns the refunded amount.
func (r *Refund) Amount() kernel.Money { return r.amount }

// Reason returns the customer- or admin-provided refund reason.
func (r *Refund) Reason() string { return r.reason }

// IdempotencyKey returns the deterministic deduplication key.
func (r *Refund) IdempotencyKey() string { return r.idempotencyKey }

// Status returns the refund's processing status.
func (r *Refund) Status() Status { return r.status }

// ProcessorRefundID returns the processor-side refund identifier, empty until
// the processor accepted the refund.
func (r *Refund) ProcessorRefundID() string { return r.processorRefundID }

// RequestedAt returns when the refund was recorded.
func (r *Refund) RequestedAt() time.Time { return r.requestedAt }

// ResolvedAt returns when the refund reached a final state, or nil.
func (r *Refund) ResolvedAt() *time.Time { return r.resolvedAt }

// IsPending reports whether the refund still awaits processor confirmation.
func (r *Refund) IsPending() bool {
	return r.status == StatusRequested || r.status == StatusProcessing
}

// MarkProcessing records that the processor accepted the refund and assigned
// it an identifier.
func (r *Refund) MarkProcessing(processorRefundID string) error {
	if r.status != StatusRequested {
		return ErrRefundNotPending
	}
	if processorRefundID == "" {
		return errs.NewValueIsRequiredError("processorRefundID")
	}

	r.status = StatusProcessing
	r.processorRefundID = processorRefundID
	return nil
}

// MarkSucceeded records processor confirmation of the refund.
func (r *Refund) MarkSucceeded(at time.Time) error {
	return r.resolve(StatusSucceeded, at)
}

// MarkFailed records processor rejection of the refund.
func (r *Refund) MarkFailed(at time.Time) error {
	return r.resolve(StatusFailed, at)
}

func (r *Refund) resolve(final Status, at time.Time) error {
	if !r.IsPending() {
		return ErrRefundNotPending
	}

	r.status = final
	r.resolvedAt = &at
	return nil
}
