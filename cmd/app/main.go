package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"returns/cmd"
	httpin "returns/internal/adapters/in/http"
	"returns/internal/adapters/out/postgres/driverrepo"
	"returns/internal/adapters/out/postgres/orderrepo"
	"returns/internal/adapters/out/postgres/promorepo"
	"returns/internal/adapters/out/postgres/refundrepo"
	"returns/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(configs, gormDB)
	defer func() {
		if closeErr := app.EventPublisher().Close(); closeErr != nil {
			logger.Error("Failed to close event publisher", "error", closeErr)
		}
	}()

	jobManager := jobs.NewJobManager(
		app.CreateReconcileRefundsCommandHandler(),
		configs.RefundReconcileSchedule,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:    app.CreateCreateOrderCommandHandler(),
		AcceptOrder:    app.CreateAcceptOrderCommandHandler(),
		UnassignOrder:  app.CreateUnassignOrderCommandHandler(),
		ProgressOrder:  app.CreateProgressOrderCommandHandler(),
		CancelOrder:    app.CreateCancelOrderCommandHandler(),
		CompleteOrder:  app.CreateCompleteOrderCommandHandler(),
		RequestRefund:  app.CreateRequestRefundCommandHandler(),
		ResolveRefund:  app.CreateResolveRefundCommandHandler(),
		BulkTransition: app.CreateBulkTransitionCommandHandler(),
		BulkRefund:     app.CreateBulkRefundCommandHandler(),
		CreatePromo:    app.CreateCreatePromoCommandHandler(),

		GetAvailableOrders: app.CreateGetAvailableOrdersQueryHandler(),
		GetOrder:           app.CreateGetOrderQueryHandler(),
	}, httpin.NewDefaultPolicy())
	server.RegisterRoutes(e)

	go func() {
		if startErr := e.Start("0.0.0.0:" + configs.HTTPPort); startErr != nil {
			logger.Info("HTTP server stopped", "error", startErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&driverrepo.DriverDTO{},
		&promorepo.PromoDTO{},
		&refundrepo.RefundDTO{},
	)
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:                envOrDefault("HTTP_PORT", "8080"),
		DBHost:                  envOrDefault("DB_HOST", "localhost"),
		DBPort:                  envOrDefault("DB_PORT", "5432"),
		DBUser:                  envOrDefault("DB_USER", "postgres"),
		DBPassword:              envOrDefault("DB_PASSWORD", "postgres"),
		DBName:                  envOrDefault("DB_NAME", "returns"),
		DBSslMode:               envOrDefault("DB_SSLMODE", "disable"),
		PaymentServiceURL:       envOrDefault("PAYMENT_SERVICE_URL", "http://localhost:9090"),
		GeoServiceURL:           envOrDefault("GEO_SERVICE_URL", "http://localhost:9091"),
		KafkaHost:               envOrDefault("KAFKA_HOST", "localhost:9092"),
		KafkaStatusChangedTopic: envOrDefault("KAFKA_ORDER_STATUS_CHANGED_TOPIC", "order.status.changed"),
		RefundReconcileSchedule: envOrDefault("REFUND_RECONCILE_SCHEDULE", "@every 1m"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
