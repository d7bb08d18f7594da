package commands_test

import (
	"testing"
	"time"

	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/refund"
	"returns/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// paidOrder returns an order charged for $15.00 and confirmed, ready to be
// refunded against.
func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	location, err := kernel.NewGeoPoint(37.7749, -122.4194)
	require.NoError(t, err)

	breakdown := order.PriceBreakdown{
		BasePrice:   kernel.MustMoneyFromString("3.99"),
		DistanceFee: kernel.MustMoneyFromString("9.05"),
		SizeFee:     kernel.ZeroMoney(),
		MultiBoxFee: kernel.ZeroMoney(),
		Discount:    kernel.ZeroMoney(),
		ServiceFee:  kernel.MustMoneyFromString("1.96"),
		RushFee:     kernel.ZeroMoney(),
		Total:       kernel.MustMoneyFromString("15.00"),
	}
	require.NoError(t, breakdown.Validate())

	o, err := order.NewOrder(order.NewOrderParams{
		ID:             kernel.NewUUID(),
		CustomerID:     kernel.NewUUID(),
		PickupAddress:  "500 Market St, San Francisco",
		Retailer:       "Acme Retail",
		PickupLocation: location,
		Boxes:          []order.BoxSize{order.BoxSizeM},
		DistanceMiles:  18.1,
		Tip:            kernel.ZeroMoney(),
		Price:          breakdown,
		Now:            time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, o.MarkCharged("pi_paid", breakdown.Total))
	require.NoError(t, o.Confirm(time.Now().UTC()))
	o.ClearEvents()
	return o
}

func TestRequestRefundCommandHandler_Handle_SubmitsAndMarksProcessing(t *testing.T) {
	ctx := t.Context()

	store := newFakeStore()
	target := paidOrder(t)
	store.orders[target.ID().String()] = target

	processor := new(MockPaymentProcessor)
	processor.On("SubmitRefund", ctx, "pi_paid", mock.Anything, mock.Anything).
		Return(ports.RefundSubmission{ProcessorRefundID: "re_1"}, nil).Once()

	cmd, err := commands.NewRequestRefundCommand(
		target.ID(), kernel.MustMoneyFromString("10"), "damaged label")
	require.NoError(t, err)

	handler := commands.NewRequestRefundCommandHandler(&fakeUoWFactory{store: store}, processor)
	require.NoError(t, handler.Handle(ctx, cmd))

	// The order moves to refund_processing but nothing is refunded yet; the
	// running total grows only on processor confirmation.
	assert.Equal(t, order.RefundProcessing, target.PaymentStatus())
	assert.Equal(t, "0.00", target.RefundedToDate().String())

	entry, err := (&fakeRefundRepo{store: store}).GetByProcessorID(ctx, "re_1")
	require.NoError(t, err)
	assert.Equal(t, refund.StatusProcessing, entry.Status())
	processor.AssertExpectations(t)
}

func TestRequestRefundCommandHandler_Handle_IdempotentReplay(t *testing.T) {
	ctx := t.Context()

	store := newFakeStore()
	target := paidOrder(t)
	store.orders[target.ID().String()] = target

	processor := new(MockPaymentProcessor)
	processor.On("SubmitRefund", ctx, "pi_paid", mock.Anything, mock.Anything).
		Return(ports.RefundSubmission{ProcessorRefundID: "re_1"}, nil).Once()

	handler := commands.NewRequestRefundCommandHandler(&fakeUoWFactory{store: store}, processor)
	resolver := commands.NewResolveRefundCommandHandler(&fakeUoWFactory{store: store}, nil)

	amount := kernel.MustMoneyFromString("10")
	cmd, err := commands.NewRequestRefundCommand(target.ID(), amount, "damaged label")
	require.NoError(t, err)

	// First request submits; the processor later confirms.
	require.NoError(t, handler.Handle(ctx, cmd))
	resolveCmd, err := commands.NewResolveRefundCommand("re_1", true)
	require.NoError(t, err)
	require.NoError(t, resolver.Handle(ctx, resolveCmd))
	assert.Equal(t, "10.00", target.RefundedToDate().String())

	// Replay of the identical request must not refund again; the processor
	// is not called a second time.
	replay, err := commands.NewRequestRefundCommand(target.ID(), amount, "damaged label")
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, replay))

	assert.Equal(t, "10.00", target.RefundedToDate().String(), "replayed key must not double-refund")
	processor.AssertNumberOfCalls(t, "SubmitRefund", 1)
}

func TestRequestRefundCommandHandler_Handle_ExceedsBalance(t *testing.T) {
	ctx := t.Context()

	store := newFakeStore()
	target := paidOrder(t)
	store.orders[target.ID().String()] = target

	processor := new(MockPaymentProcessor)
	handler := commands.NewRequestRefundCommandHandler(&fakeUoWFactory{store: store}, processor)

	cmd, err := commands.NewRequestRefundCommand(
		target.ID(), kernel.MustMoneyFromString("20"), "damaged label")
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrRefundExceedsBalance)
	assert.Equal(t, order.PaymentCompleted, target.PaymentStatus())
	processor.AssertNotCalled(t, "SubmitRefund")
}

func TestRequestRefundCommandHandler_Handle_ProcessorTimeoutLeavesPending(t *testing.T) {
	ctx := t.Context()

	store := newFakeStore()
	target := paidOrder(t)
	store.orders[target.ID().String()] = target

	processor := new(MockPaymentProcessor)
	processor.On("SubmitRefund", ctx, "pi_paid", mock.Anything, mock.Anything).
		Return(ports.RefundSubmission{}, ports.ErrProcessorTimeout).Once()

	cmd, err := commands.NewRequestRefundCommand(
		target.ID(), kernel.MustMoneyFromString("5"), "late pickup")
	require.NoError(t, err)

	handler := commands.NewRequestRefundCommandHandler(&fakeUoWFactory{store: store}, processor)
	require.NoError(t, handler.Handle(ctx, cmd))

	// The order stays in refund_processing and the ledger entry stays
	// requested; the reconciliation job resubmits with the same key.
	assert.Equal(t, order.RefundProcessing, target.PaymentStatus())
	pending, err := (&fakeRefundRepo{store: store}).ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, refund.StatusRequested, pending[0].Status())
}

func TestRequestRefundCommandHandler_Handle_ProcessorRejected(t *testing.T) {
	ctx := t.Context()

	store := newFakeStore()
	target := paidOrder(t)
	store.orders[target.ID().String()] = target

	processor := new(MockPaymentProcessor)
	processor.On("SubmitRefund", ctx, "pi_paid", mock.Anything, mock.Anything).
		Return(ports.RefundSubmission{}, ports.ErrProcessorRejected).Once()

	cmd, err := commands.NewRequestRefundCommand(
		target.ID(), kernel.MustMoneyFromString("5"), "late pickup")
	require.NoError(t, err)

	handler := commands.NewRequestRefundCommandHandler(&fakeUoWFactory{store: store}, processor)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrProcessorRejected)
	assert.Equal(t, order.RefundFailed, target.PaymentStatus())
	assert.Equal(t, "0.00", target.RefundedToDate().String())
}

func TestResolveRefundCommandHandler_Handle_FullRefundAfterSettlement(t *testing.T) {
	ctx := t.Context()

	store := newFakeStore()
	target := paidOrder(t)
	store.orders[target.ID().String()] = target

	// Walk the order through fulfillment and settlement.
	now := time.Now().UTC()
	require.NoError(t, target.Assign(kernel.NewUUID(), now))
	require.NoError(t, target.MarkPickedUp(now))
	require.NoError(t, target.MarkInTransit(now))
	require.NoError(t, target.MarkDelivered(now))
	require.NoError(t, target.Complete(
		kernel.MustMoneyFromString("9.00"), kernel.MustMoneyFromString("6.00"), now))
	target.ClearEvents()

	processor := new(MockPaymentProcessor)
	processor.On("SubmitRefund", ctx, "pi_paid", mock.Anything, mock.Anything).
		Return(ports.RefundSubmission{ProcessorRefundID: "re_full"}, nil).Once()

	handler := commands.NewRequestRefundCommandHandler(&fakeUoWFactory{store: store}, processor)
	resolver := commands.NewResolveRefundCommandHandler(&fakeUoWFactory{store: store}, nil)

	cmd, err := commands.NewRequestRefundCommand(
		target.ID(), kernel.MustMoneyFromString("15.00"), "recall")
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, cmd))

	resolveCmd, err := commands.NewResolveRefundCommand("re_full", true)
	require.NoError(t, err)
	require.NoError(t, resolver.Handle(ctx, resolveCmd))

	// Full refund after payout: the order is refunded but flagged for manual
	// reconciliation instead of clawing back the driver's pay.
	assert.Equal(t, order.StatusRefunded, target.Status())
	assert.True(t, target.NeedsReconciliation())
	assert.Equal(t, "9.00", target.DriverEarning().String())
}
