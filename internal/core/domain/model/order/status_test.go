package order_test

import (
	"testing"

	"returns/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowedTransitions mirrors the documented lifecycle table. Anything absent
// from this map must be rejected by the state machine.
var allowedTransitions = map[order.Status][]order.Status{
	order.StatusCreated:         {order.StatusConfirmed, order.StatusCancelled},
	order.StatusConfirmed:       {order.StatusAssigned, order.StatusCancelled},
	order.StatusAssigned:        {order.StatusPickupScheduled, order.StatusPickedUp, order.StatusConfirmed, order.StatusCancelled},
	order.StatusPickupScheduled: {order.StatusPickedUp, order.StatusConfirmed, order.StatusCancelled},
	order.StatusPickedUp:        {order.StatusInTransit, order.StatusReturnRefused},
	order.StatusInTransit:       {order.StatusDelivered, order.StatusReturnRefused},
	order.StatusDelivered:       {order.StatusCompleted, order.StatusRefunded},
	order.StatusCompleted:       {order.StatusRefunded},
	order.StatusCancelled:       {},
	order.StatusReturnRefused:   {},
	order.StatusRefunded:        {},
}

func allStatuses() []order.Status {
	statuses := make([]order.Status, 0, len(allowedTransitions))
	for s := range allowedTransitions {
		statuses = append(statuses, s)
	}
	return statuses
}

func contains(list []order.Status, s order.Status) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func TestStatus_TransitionTable(t *testing.T) {
	// Every (from, to) pair across the full enumeration: pairs in the table
	// succeed, every other pair fails with ErrIllegalTransition.
	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			from, to := from, to
			t.Run(from.String()+"_to_"+to.String(), func(t *testing.T) {
				next, err := from.TransitionTo(to)

				if contains(allowedTransitions[from], to) {
					require.NoError(t, err)
					assert.Equal(t, to, next)
				} else {
					require.Error(t, err)
					require.ErrorIs(t, err, order.ErrIllegalTransition)
					assert.Equal(t, order.StatusUnknown, next)
				}
			})
		}
	}
}

func TestStatus_TransitionToUnknown(t *testing.T) {
	_, err := order.StatusCreated.TransitionTo(order.StatusUnknown)
	require.Error(t, err)

	_, err = order.StatusCreated.TransitionTo(order.Status(99))
	require.Error(t, err)
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := []order.Status{order.StatusCancelled, order.StatusReturnRefused, order.StatusRefunded}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}

	// completed keeps the single refund edge open.
	assert.False(t, order.StatusCompleted.IsTerminal())
	assert.False(t, order.StatusCreated.IsTerminal())
	assert.False(t, order.StatusInTransit.IsTerminal())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round_trips_every_valid_status", func(t *testing.T) {
		for _, s := range allStatuses() {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects_unknown_values", func(t *testing.T) {
		for _, input := range []string{"unknown", "COMPLETED", "shipped", ""} {
			_, err := order.StatusFromString(input)
			require.Error(t, err, "input %q must be rejected", input)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		require.NoError(t, s.Validate())
	}

	require.Error(t, order.StatusUnknown.Validate())
	require.Error(t, order.Status(42).Validate())
}

func TestPaymentStatusFromString(t *testing.T) {
	valid := []order.PaymentStatus{
		order.PaymentPending, order.PaymentCompleted, order.PaymentFailed,
		order.RefundProcessing, order.PaymentRefunded, order.RefundFailed,
	}
	for _, s := range valid {
		parsed, err := order.PaymentStatusFromString(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := order.PaymentStatusFromString("charged")
	require.Error(t, err)
	require.Error(t, order.PaymentUnknown.Validate())
}

func TestBoxSizeFromString(t *testing.T) {
	for _, input := range []string{"S", "M", "L", "XL"} {
		size, err := order.BoxSizeFromString(input)
		require.NoError(t, err)
		assert.Equal(t, input, size.String())
	}

	for _, input := range []string{"s", "XXL", "medium", ""} {
		_, err := order.BoxSizeFromString(input)
		require.Error(t, err, "input %q must be rejected", input)
	}
}
