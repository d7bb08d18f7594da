package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/domain/model/driver"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/promo"
	"returns/internal/core/domain/model/refund"
	"returns/internal/core/ports"
	"returns/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Testify mocks shared by the handler tests in this package.

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*order.Order, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAvailable(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Accept(ctx context.Context, orderID, driverID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Claim(ctx context.Context, driverID, orderID kernel.UUID) error {
	args := m.Called(ctx, driverID, orderID)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

type MockPromoRepository struct{ mock.Mock }

func (m *MockPromoRepository) Add(ctx context.Context, p *promo.Promo) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPromoRepository) GetByCode(ctx context.Context, code string) (*promo.Promo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promo.Promo), args.Error(1)
}

func (m *MockPromoRepository) Update(ctx context.Context, p *promo.Promo) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) Update(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}

func (m *MockRefundRepository) GetByIdempotencyKey(ctx context.Context, key string) (*refund.Refund, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}

func (m *MockRefundRepository) GetByProcessorID(ctx context.Context, processorRefundID string) (*refund.Refund, error) {
	args := m.Called(ctx, processorRefundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}

func (m *MockRefundRepository) ListPending(ctx context.Context) ([]*refund.Refund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) PromoRepository() ports.PromoRepository {
	args := m.Called()
	return args.Get(0).(ports.PromoRepository)
}

func (m *MockUoW) RefundRepository() ports.RefundRepository {
	args := m.Called()
	return args.Get(0).(ports.RefundRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockDistanceResolver struct{ mock.Mock }

func (m *MockDistanceResolver) ResolveMiles(ctx context.Context, pickup, dropoff string) (float64, error) {
	args := m.Called(ctx, pickup, dropoff)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDistanceResolver) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockPaymentProcessor struct{ mock.Mock }

func (m *MockPaymentProcessor) Charge(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (ports.ChargeResult, error) {
	args := m.Called(ctx, orderID, amount)
	return args.Get(0).(ports.ChargeResult), args.Error(1)
}

func (m *MockPaymentProcessor) SubmitRefund(ctx context.Context, paymentIntentID string, amount kernel.Money, idempotencyKey string) (ports.RefundSubmission, error) {
	args := m.Called(ctx, paymentIntentID, amount, idempotencyKey)
	return args.Get(0).(ports.RefundSubmission), args.Error(1)
}

func (m *MockPaymentProcessor) RefundStatus(ctx context.Context, processorRefundID string) (ports.RefundState, error) {
	args := m.Called(ctx, processorRefundID)
	return args.Get(0).(ports.RefundState), args.Error(1)
}

// In-memory fakes used by the concurrency and bulk tests, where real locking
// semantics matter more than call-order assertions.

// fakeStore is a mutex-guarded store shared by every unit of work a
// fakeUoWFactory hands out. Commit/rollback are no-ops; the compare-and-swap
// in Accept runs under the store lock, mirroring the row-level conditional
// update of the real repository.
type fakeStore struct {
	mu      sync.Mutex
	orders  map[string]*order.Order
	drivers map[string]*driver.Driver
	refunds map[string]*refund.Refund
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  make(map[string]*order.Order),
		drivers: make(map[string]*driver.Driver),
		refunds: make(map[string]*refund.Refund),
	}
}

type fakeUoW struct{ store *fakeStore }

func (u *fakeUoW) Begin(context.Context) error              { return nil }
func (u *fakeUoW) Commit(context.Context) error             { return nil }
func (u *fakeUoW) Rollback(context.Context) error           { return nil }
func (u *fakeUoW) OrderRepository() ports.OrderRepository   { return &fakeOrderRepo{store: u.store} }
func (u *fakeUoW) DriverRepository() ports.DriverRepository { return &fakeDriverRepo{store: u.store} }
func (u *fakeUoW) PromoRepository() ports.PromoRepository   { panic("not used") }
func (u *fakeUoW) RefundRepository() ports.RefundRepository { return &fakeRefundRepo{store: u.store} }

type fakeUoWFactory struct{ store *fakeStore }

func (f *fakeUoWFactory) Create() commands.UoW { return &fakeUoW{store: f.store} }

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID().String()] = o
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID().String()] = o
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return o, nil
}

func (r *fakeOrderRepo) GetByTrackingNumber(_ context.Context, trackingNumber string) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.TrackingNumber() == trackingNumber {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("trackingNumber", trackingNumber)
}

func (r *fakeOrderRepo) GetAvailable(_ context.Context) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var available []*order.Order
	for _, o := range r.store.orders {
		if o.Status() == order.StatusConfirmed && o.Driver() == nil {
			available = append(available, o)
		}
	}
	return available, nil
}

func (r *fakeOrderRepo) Accept(_ context.Context, orderID, driverID kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[orderID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", orderID)
	}
	if o.Status() != order.StatusConfirmed || o.Driver() != nil {
		return nil, order.ErrAlreadyAssigned
	}
	if err := o.Assign(driverID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return o, nil
}

type fakeDriverRepo struct{ store *fakeStore }

func (r *fakeDriverRepo) Add(_ context.Context, d *driver.Driver) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.drivers[d.ID().String()] = d
	return nil
}

func (r *fakeDriverRepo) Update(_ context.Context, d *driver.Driver) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.drivers[d.ID().String()] = d
	return nil
}

// Claim mirrors the production conditional write: it succeeds only while the
// stored driver has no active order. The handler mutates the shared aggregate
// before claiming, so a claim for the order already recorded on the aggregate
// is the winning path; any other active order means a lost race.
func (r *fakeDriverRepo) Claim(_ context.Context, driverID, orderID kernel.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.drivers[driverID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("driverID", driverID)
	}
	active := d.ActiveOrder()
	if active == nil {
		return d.AssignOrder(orderID)
	}
	if !active.IsEqual(orderID) {
		return driver.ErrDriverBusy
	}
	return nil
}

func (r *fakeDriverRepo) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.drivers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driverID", id)
	}
	return d, nil
}

type fakeRefundRepo struct{ store *fakeStore }

func (r *fakeRefundRepo) Add(_ context.Context, entry *refund.Refund) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.refunds[entry.ID().String()] = entry
	return nil
}

func (r *fakeRefundRepo) Update(_ context.Context, entry *refund.Refund) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.refunds[entry.ID().String()] = entry
	return nil
}

func (r *fakeRefundRepo) Get(_ context.Context, id kernel.UUID) (*refund.Refund, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.refunds[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("refundID", id)
	}
	return entry, nil
}

func (r *fakeRefundRepo) GetByIdempotencyKey(_ context.Context, key string) (*refund.Refund, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, entry := range r.store.refunds {
		if entry.IdempotencyKey() == key {
			return entry, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("idempotencyKey", key)
}

func (r *fakeRefundRepo) GetByProcessorID(_ context.Context, processorRefundID string) (*refund.Refund, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, entry := range r.store.refunds {
		if entry.ProcessorRefundID() == processorRefundID {
			return entry, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("processorRefundID", processorRefundID)
}

func (r *fakeRefundRepo) ListPending(_ context.Context) ([]*refund.Refund, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var pending []*refund.Refund
	for _, entry := range r.store.refunds {
		if entry.IsPending() {
			pending = append(pending, entry)
		}
	}
	return pending, nil
}

// Fixtures.

func testBreakdown(t *testing.T) order.PriceBreakdown {
	t.Helper()
	b := order.PriceBreakdown{
		BasePrice:   kernel.MustMoneyFromString("3.99"),
		DistanceFee: kernel.MustMoneyFromString("2.50"),
		SizeFee:     kernel.ZeroMoney(),
		MultiBoxFee: kernel.ZeroMoney(),
		Discount:    kernel.ZeroMoney(),
		ServiceFee:  kernel.MustMoneyFromString("0.97"),
		RushFee:     kernel.ZeroMoney(),
		Total:       kernel.MustMoneyFromString("7.46"),
	}
	require.NoError(t, b.Validate())
	return b
}

func confirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	location, err := kernel.NewGeoPoint(37.7749, -122.4194)
	require.NoError(t, err)

	o, err := order.NewOrder(order.NewOrderParams{
		ID:             kernel.NewUUID(),
		CustomerID:     kernel.NewUUID(),
		PickupAddress:  "500 Market St, San Francisco",
		Retailer:       "Acme Retail",
		PickupLocation: location,
		Boxes:          []order.BoxSize{order.BoxSizeM},
		DistanceMiles:  5,
		Tip:            kernel.ZeroMoney(),
		Price:          testBreakdown(t),
		Now:            time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, o.MarkCharged("pi_test", o.Price().Total))
	require.NoError(t, o.Confirm(time.Now().UTC()))
	o.ClearEvents()
	return o
}

func onlineTestDriver(t *testing.T) *driver.Driver {
	t.Helper()
	location, err := kernel.NewGeoPoint(37.78, -122.41)
	require.NoError(t, err)
	d, err := driver.NewDriver(kernel.NewUUID(), "Jordan", location)
	require.NoError(t, err)
	d.SetOnline(true)
	return d
}
