package order

import (
	"fmt"

	"returns/internal/pkg/errs"
)

// PaymentStatus tracks the money side of an order independently from the
// delivery lifecycle. It moves forward only on confirmed processor responses;
// refund_processing is never resolved locally without a terminal answer from
// the payment processor.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending means the charge has not completed yet.
	PaymentPending

	// PaymentCompleted means the customer was charged the frozen total.
	PaymentCompleted

	// PaymentFailed means the charge was declined or errored terminally.
	PaymentFailed

	// RefundProcessing means a refund was submitted to the processor and a
	// terminal response is still outstanding.
	RefundProcessing

	// PaymentRefunded means the processor confirmed the refund.
	PaymentRefunded

	// RefundFailed means the processor terminally rejected the refund;
	// the case is surfaced for manual intervention.
	RefundFailed
)

var paymentStatusStrings = map[PaymentStatus]string{
	PaymentUnknown:   "unknown",
	PaymentPending:   "pending",
	PaymentCompleted: "completed",
	PaymentFailed:    "failed",
	RefundProcessing: "refund_processing",
	PaymentRefunded:  "refunded",
	RefundFailed:     "refund_failed",
}

// PaymentStatusFromString parses a payment status received at the system
// boundary, rejecting unrecognized values.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range paymentStatusStrings {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"paymentStatus", fmt.Errorf("%q is not a recognized payment status", s))
}

// Validate checks that the PaymentStatus belongs to the closed enumeration.
func (s PaymentStatus) Validate() error {
	if _, ok := paymentStatusStrings[s]; !ok || s == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentStatus", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the wire name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := paymentStatusStrings[s]; ok {
		return str
	}
	return "unknown"
}
