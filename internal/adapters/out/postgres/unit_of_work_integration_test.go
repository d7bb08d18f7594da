package postgres_test

import (
	"context"
	"testing"
	"time"

	"returns/internal/adapters/out/postgres"
	"returns/internal/adapters/out/postgres/driverrepo"
	"returns/internal/adapters/out/postgres/orderrepo"
	"returns/internal/adapters/out/postgres/promorepo"
	"returns/internal/adapters/out/postgres/refundrepo"
	"returns/internal/core/domain/model/driver"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/promo"
	"returns/internal/core/domain/model/refund"
	"returns/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that repositories handed out by one
// unit of work share a transaction: either every change commits or none does.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&driverrepo.DriverDTO{},
		&promorepo.PromoDTO{},
		&refundrepo.RefundDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, drivers, promos, refunds").Error)
	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	now := time.Now().UTC()

	testOrder := suite.newConfirmedOrder()
	testDriver := suite.newOnlineDriver()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, testDriver))

	entry, err := refund.NewRefund(
		kernel.NewUUID(), testOrder.ID(), kernel.MustMoneyFromString("5"), "damaged box", now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.RefundRepository().Add(ctx, entry))

	suite.Require().NoError(uow.Commit(ctx))

	// Every aggregate is visible outside the transaction.
	verify := suite.factory.Create()
	storedOrder, err := verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, storedOrder.Status())

	storedDriver, err := verify.DriverRepository().Get(ctx, testDriver.ID())
	suite.Require().NoError(err)
	suite.True(storedDriver.Online())

	storedRefund, err := verify.RefundRepository().GetByIdempotencyKey(ctx, entry.IdempotencyKey())
	suite.Require().NoError(err)
	suite.Equal(refund.StatusRequested, storedRefund.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEverything() {
	ctx := context.Background()

	testOrder := suite.newConfirmedOrder()
	testDriver := suite.newOnlineDriver()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, testDriver))
	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err := verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = verify.DriverRepository().Get(ctx, testDriver.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPromoRepository_UsageRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC()

	code, err := promo.NewPromo(
		kernel.NewUUID(), "WELCOME5", promo.KindFlat,
		kernel.MustMoneyFromString("5"), now.Add(24*time.Hour), 2)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.PromoRepository().Add(ctx, code))
	suite.Require().NoError(uow.Commit(ctx))

	booking := suite.factory.Create()
	suite.Require().NoError(booking.Begin(ctx))

	stored, err := booking.PromoRepository().GetByCode(ctx, "WELCOME5")
	suite.Require().NoError(err)
	suite.Require().NoError(stored.MarkUsed(now))
	suite.Require().NoError(booking.PromoRepository().Update(ctx, stored))
	suite.Require().NoError(booking.Commit(ctx))

	verify := suite.factory.Create()
	used, err := verify.PromoRepository().GetByCode(ctx, "WELCOME5")
	suite.Require().NoError(err)
	suite.Equal(1, used.UsedCount())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackAfterCommit_IsHarmless() {
	ctx := context.Background()

	testDriver := suite.newOnlineDriver()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, testDriver))
	suite.Require().NoError(uow.Commit(ctx))

	// The deferred rollback pattern runs after commit; it must not undo it.
	suite.Require().Error(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err := verify.DriverRepository().Get(ctx, testDriver.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) newConfirmedOrder() *order.Order {
	location, err := kernel.NewGeoPoint(37.7749, -122.4194)
	suite.Require().NoError(err)

	o, err := order.NewOrder(order.NewOrderParams{
		ID:             kernel.NewUUID(),
		CustomerID:     kernel.NewUUID(),
		PickupAddress:  "500 Market St, San Francisco",
		Retailer:       "Acme Retail",
		PickupLocation: location,
		Boxes:          []order.BoxSize{order.BoxSizeM},
		DistanceMiles:  5,
		Tip:            kernel.ZeroMoney(),
		Price: order.PriceBreakdown{
			BasePrice:   kernel.MustMoneyFromString("3.99"),
			DistanceFee: kernel.MustMoneyFromString("2.50"),
			SizeFee:     kernel.ZeroMoney(),
			MultiBoxFee: kernel.ZeroMoney(),
			Discount:    kernel.ZeroMoney(),
			ServiceFee:  kernel.MustMoneyFromString("0.97"),
			RushFee:     kernel.ZeroMoney(),
			Total:       kernel.MustMoneyFromString("7.46"),
		},
		Now: time.Now().UTC(),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(o.MarkCharged("pi_itest", o.Price().Total))
	suite.Require().NoError(o.Confirm(time.Now().UTC()))
	o.ClearEvents()
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) newOnlineDriver() *driver.Driver {
	location, err := kernel.NewGeoPoint(37.78, -122.41)
	suite.Require().NoError(err)
	d, err := driver.NewDriver(kernel.NewUUID(), "Jordan", location)
	suite.Require().NoError(err)
	d.SetOnline(true)
	return d
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
