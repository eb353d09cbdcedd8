package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SShahid97/marcos/internal/config"
	"github.com/SShahid97/marcos/internal/handlers"
	"github.com/SShahid97/marcos/internal/models"
	"github.com/SShahid97/marcos/internal/repositories"
	"github.com/SShahid97/marcos/internal/services"
	"github.com/SShahid97/marcos/pkg/apperrors"
	"github.com/SShahid97/marcos/pkg/events"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	// TranslateError maps driver-specific failures (unique violations etc.)
	// onto GORM's typed errors so repositories never inspect error strings.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Project{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Event Bus ---
	// The broker is optional: the API stays up without it, lifecycle events
	// are simply skipped.
	var mqClient *events.Client
	mqClient, err = events.NewClient(events.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, lifecycle events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	projectRepo := repositories.NewGORMProjectRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiresIn, mqClient)
	projectService := services.NewProjectService(projectRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, authService)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(cfg.Env),
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Project routes (bearer token enforced inside the handler's group)
	projectHandler.RegisterRoutes(apiV1)

	// Any route not matched above
	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound(fmt.Sprintf("Cannot find %s on this server", c.OriginalURL()))
	})

	// --- Start Event Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for lifecycle events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.Consume(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

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
