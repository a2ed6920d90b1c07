package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/hizamruljaen123/ppob-backend/internal/adapter/events/kafka"
	"github.com/hizamruljaen123/ppob-backend/internal/adapter/handler"
	"github.com/hizamruljaen123/ppob-backend/internal/adapter/middleware"
	"github.com/hizamruljaen123/ppob-backend/internal/adapter/storage"
	"github.com/hizamruljaen123/ppob-backend/internal/core/config"
	"github.com/hizamruljaen123/ppob-backend/internal/core/ledger"
	"github.com/hizamruljaen123/ppob-backend/internal/core/worker"
)

const transactionTopic = "transaction.completed"

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	userRepo := storage.NewUserRepository(dbPool)
	catalogRepo := storage.NewCatalogRepository(dbPool)
	ledgerStore := storage.NewLedgerStore(dbPool)

	engine := ledger.NewEngine(ledgerStore, catalogRepo)

	authHandler := &handler.AuthHandler{Users: userRepo, JWTSecret: cfg.JWTSecret}
	profileHandler := &handler.ProfileHandler{Users: userRepo}
	informationHandler := &handler.InformationHandler{Catalog: catalogRepo}
	transactionHandler := &handler.TransactionHandler{Engine: engine}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// Public
	app.Post("/registration", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Get("/banner", informationHandler.GetBanners)

	// Protected
	private := app.Use(middleware.Protected(userRepo, cfg.JWTSecret))
	private.Get("/services", informationHandler.GetServices)
	private.Get("/profile", profileHandler.GetProfile)
	private.Put("/profile/update", profileHandler.UpdateProfile)
	private.Get("/balance", transactionHandler.GetBalance)
	private.Post("/topup", middleware.Idempotency(dbPool), transactionHandler.TopUp)
	private.Post("/transaction", middleware.Idempotency(dbPool), transactionHandler.CreateTransaction)
	private.Get("/transaction/history", transactionHandler.GetHistory)

	// The outbox worker only runs when brokers are configured; the
	// API works without Kafka, events just stay PENDING.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, transactionTopic)
		worker.StartOutboxWorker(workerCtx, dbPool, publisher)
	} else {
		slog.Warn("KAFKA_BROKERS not set, transaction events will not be published")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutting down server")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	stopWorker()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slog.Error("Failed to close event publisher", "error", err)
		}
	}

	dbPool.Close()
	slog.Info("Server exited")
}
