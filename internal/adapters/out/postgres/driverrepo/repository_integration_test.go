package driverrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"returns/internal/adapters/out/postgres/driverrepo"
	"returns/internal/core/domain/model/driver"
	"returns/internal/core/domain/model/kernel"
	"returns/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DriverRepositoryIntegrationTestSuite verifies driver persistence against a
// real PostgreSQL instance, in particular the conditional claim that keeps a
// driver on at most one active order under concurrent accepts.
type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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

	suite.Require().NoError(db.AutoMigrate(&driverrepo.DriverDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drivers").Error)
	suite.repository = driverrepo.NewGormDriverRepository(suite.db)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	original := suite.createOnlineDriver()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(original.ID()))
	suite.Equal(original.Name(), retrieved.Name())
	suite.True(retrieved.Online())
	suite.Nil(retrieved.ActiveOrder())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_NonExistent_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_RecordsActiveOrder() {
	ctx := context.Background()

	claimant := suite.createOnlineDriver()
	suite.Require().NoError(suite.repository.Add(ctx, claimant))

	orderID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Claim(ctx, claimant.ID(), orderID))

	retrieved, err := suite.repository.Get(ctx, claimant.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrieved.ActiveOrder())
	suite.True(retrieved.ActiveOrder().IsEqual(orderID))
}

func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_BusyDriver_IsRejected() {
	ctx := context.Background()

	claimant := suite.createOnlineDriver()
	suite.Require().NoError(suite.repository.Add(ctx, claimant))
	suite.Require().NoError(suite.repository.Claim(ctx, claimant.ID(), kernel.NewUUID()))

	err := suite.repository.Claim(ctx, claimant.ID(), kernel.NewUUID())

	suite.Require().ErrorIs(err, driver.ErrDriverBusy)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_NonExistentDriver_ReturnsNotFound() {
	err := suite.repository.Claim(context.Background(), kernel.NewUUID(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// One driver races claims for many different orders. The conditional update
// on active_order_id must admit exactly one.
func (suite *DriverRepositoryIntegrationTestSuite) TestClaim_ConcurrentOrders_ExactlyOneWins() {
	ctx := context.Background()

	claimant := suite.createOnlineDriver()
	suite.Require().NoError(suite.repository.Add(ctx, claimant))

	const racers = 8

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		wins, losses int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.repository.Claim(ctx, claimant.ID(), kernel.NewUUID())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case suite.ErrorIs(err, driver.ErrDriverBusy):
				losses++
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, wins, "exactly one claim must land on the driver row")
	suite.Equal(racers-1, losses)

	retrieved, err := suite.repository.Get(ctx, claimant.ID())
	suite.Require().NoError(err)
	suite.NotNil(retrieved.ActiveOrder())
}

func (suite *DriverRepositoryIntegrationTestSuite) createOnlineDriver() *driver.Driver {
	location, err := kernel.NewGeoPoint(37.7749, -122.4194)
	suite.Require().NoError(err)

	d, err := driver.NewDriver(kernel.NewUUID(), "Jordan", location)
	suite.Require().NoError(err)
	d.SetOnline(true)
	return d
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
