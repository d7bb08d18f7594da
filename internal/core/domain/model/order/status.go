package order

import (
	"fmt"

	"returns/internal/pkg/errs"
)

// ErrIllegalTransition indicates a requested status change that is not present
// in the order lifecycle transition table. The order is left unmodified.
var ErrIllegalTransition = errs.NewValueIsInvalidError("illegal order status transition")

// Status represents the lifecycle state of a pickup/return order.
// It implements a state machine with an explicit transition table so that
// only legal status changes can ever be applied, regardless of which actor
// (customer, driver, admin, payment processor) requests them.
//
// Lifecycle:
//
//	created ──> confirmed ──> assigned ──> pickup_scheduled ──> picked_up ──> in_transit ──> delivered ──> completed ──> refunded
//	                 ^             │               │                  │              │              │
//	                 └─(unassign)──┴───────────────┘           return_refused  return_refused    refunded
//
// cancelled is reachable from created, confirmed, assigned, and
// pickup_scheduled. cancelled, return_refused, and refunded are terminal;
// completed is terminal except for the single completed -> refunded edge.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusCreated is the initial status assigned at booking, with the price
	// breakdown already frozen on the order.
	StatusCreated

	// StatusConfirmed means payment has been confirmed and the order is in the
	// assignable pool, waiting for a driver to accept it.
	StatusConfirmed

	// StatusAssigned means exactly one driver holds the order.
	StatusAssigned

	// StatusPickupScheduled means the assigned driver agreed a pickup window
	// with the customer.
	StatusPickupScheduled

	// StatusPickedUp means the driver has collected the package.
	StatusPickedUp

	// StatusInTransit means the package is on its way to the retailer.
	StatusInTransit

	// StatusDelivered means the package reached the retailer; settlement has
	// not happened yet.
	StatusDelivered

	// StatusCompleted means settlement ran: driver earning and platform fee
	// are fixed. Terminal except for the refund edge.
	StatusCompleted

	// StatusCancelled is terminal; the order was cancelled before pickup.
	StatusCancelled

	// StatusReturnRefused is terminal; the retailer refused the return.
	StatusReturnRefused

	// StatusRefunded is terminal; the customer received a full refund.
	StatusRefunded
)

// transitions is the closed transition table of the order lifecycle.
// Any (from, to) pair absent from this table is illegal.
var transitions = map[Status][]Status{
	StatusCreated:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusAssigned, StatusCancelled},
	StatusAssigned:        {StatusPickupScheduled, StatusPickedUp, StatusConfirmed, StatusCancelled},
	StatusPickupScheduled: {StatusPickedUp, StatusConfirmed, StatusCancelled},
	StatusPickedUp:        {StatusInTransit, StatusReturnRefused},
	StatusInTransit:       {StatusDelivered, StatusReturnRefused},
	StatusDelivered:       {StatusCompleted, StatusRefunded},
	StatusCompleted:       {StatusRefunded},
	StatusCancelled:       {},
	StatusReturnRefused:   {},
	StatusRefunded:        {},
}

var statusStrings = map[Status]string{
	StatusUnknown:         "unknown",
	StatusCreated:         "created",
	StatusConfirmed:       "confirmed",
	StatusAssigned:        "assigned",
	StatusPickupScheduled: "pickup_scheduled",
	StatusPickedUp:        "picked_up",
	StatusInTransit:       "in_transit",
	StatusDelivered:       "delivered",
	StatusCompleted:       "completed",
	StatusCancelled:       "cancelled",
	StatusReturnRefused:   "return_refused",
	StatusRefunded:        "refunded",
}

// StatusFromString parses a status received at the system boundary.
// Unrecognized values are rejected rather than trusted, so callers can never
// inject a status outside the closed enumeration.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a recognized order status", s))
}

// Validate checks that the Status belongs to the closed enumeration.
// StatusUnknown and any other out-of-range value are invalid.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pickup_scheduled" etc.).
// Implements fmt.Stringer; safe on any value, invalid ones render "unknown".
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether the transition table permits moving from s
// to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target if the transition table permits it, or
// ErrIllegalTransition (wrapped with the offending pair) otherwise.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, target)
	}
	return target, nil
}

// IsTerminal reports whether no further transition is permitted from s.
// completed is not terminal here because the completed -> refunded edge exists.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
