package cmd

import (
	"returns/internal/adapters/out/geo"
	"returns/internal/adapters/out/kafka"
	"returns/internal/adapters/out/payment"
	"returns/internal/adapters/out/postgres"
	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/application/usecases/queries"
	"returns/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	distance   ports.DistanceResolver
	processor  ports.PaymentProcessor
	publisher  *kafka.Publisher
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		distance:   geo.NewClient(config.GeoServiceURL),
		processor:  payment.NewClient(config.PaymentServiceURL),
		publisher:  kafka.NewPublisher([]string{config.KafkaHost}, config.KafkaStatusChangedTopic),
	}
}

// EventPublisher exposes the Kafka publisher so main can close it on
// shutdown.
func (c *CompositionRoot) EventPublisher() *kafka.Publisher {
	return c.publisher
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.createUoWFactory(), c.distance, c.processor, c.publisher)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateUnassignOrderCommandHandler() commands.UnassignOrderCommandHandler {
	return commands.NewUnassignOrderCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateProgressOrderCommandHandler() commands.ProgressOrderCommandHandler {
	return commands.NewProgressOrderCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRequestRefundCommandHandler() commands.RequestRefundCommandHandler {
	return commands.NewRequestRefundCommandHandler(c.createUoWFactory(), c.processor)
}

func (c *CompositionRoot) CreateResolveRefundCommandHandler() commands.ResolveRefundCommandHandler {
	return commands.NewResolveRefundCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateBulkTransitionCommandHandler() commands.BulkTransitionCommandHandler {
	return commands.NewBulkTransitionCommandHandler(c.createUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateBulkRefundCommandHandler() commands.BulkRefundCommandHandler {
	return commands.NewBulkRefundCommandHandler(c.createUoWFactory(), c.processor)
}

func (c *CompositionRoot) CreateCreatePromoCommandHandler() commands.CreatePromoCommandHandler {
	return commands.NewCreatePromoCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateReconcileRefundsCommandHandler() commands.ReconcileRefundsCommandHandler {
	return commands.NewReconcileRefundsCommandHandler(
		c.createUoWFactory(), c.processor, c.publisher)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
