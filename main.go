package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/repositories"
	"productapi/internal/server"
	"productapi/internal/services"
	"productapi/internal/storage"
	"productapi/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, cleanup, err := buildApp(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s (db=%s, storage=%s)", cfg.AppPort, cfg.DBDriver, cfg.StorageDriver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// buildApp wires repositories, object storage and the optional event broker
// selected by cfg. cleanup releases whatever was opened.
func buildApp(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*fiber.App, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	var (
		productRepo repositories.ProductRepository
		userRepo    repositories.UserRepository
	)
	switch cfg.DBDriver {
	case "memory":
		productRepo = repositories.NewMemoryProductRepository()
		userRepo = repositories.NewMemoryUserRepository()
	case "postgres", "sqlite":
		db, err := database.OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		productRepo = repositories.NewGORMProductRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
	case "mongo":
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		})
		productRepo = repositories.NewMongoProductRepository(db)
		userRepo = repositories.NewMongoUserRepository(db)
	default:
		return fail(fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver))
	}

	var (
		store      storage.ObjectStore
		uploadsDir string
	)
	switch cfg.StorageDriver {
	case "s3":
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
		if err != nil {
			return fail(err)
		}
		store = s3Store
	default:
		local, err := storage.NewLocalStore(cfg.StorageLocalRoot, cfg.StorageURL)
		if err != nil {
			return fail(err)
		}
		store = local
		uploadsDir = local.Root()
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: rabbitmq.DefaultQueue})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			if err := mq.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		})
		if err := mq.ConsumeProductEvents(rabbitmq.HandleProductMessage); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
		publisher = mq
	} else {
		log.Println("RABBITMQ_URL not set, product events are disabled")
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	if cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fail(fmt.Errorf("bootstrap admin: %w", err))
		}
	}

	productService := services.NewProductService(productRepo, storage.NewImageUploader(store), publisher)

	app := server.NewApp(server.Deps{
		Config:     cfg,
		Products:   productService,
		Auth:       authService,
		UploadsDir: uploadsDir,
	})
	return app, cleanup, nil
}
