package main

import (
	"context"
	"fmt"
	"os"

	"budgetly/internal/config"
	"budgetly/internal/database"
	"budgetly/internal/events"
	"budgetly/internal/logger"
	"budgetly/internal/router"
	"budgetly/internal/services"
)

// @title           Budgetly API
// @version         1.0
// @description     Budgetly tracks accounts, budgets, transactions and recurring payments for personal finance.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()
	ctx := context.Background()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Event publishing is optional
	var publisher events.Publisher = events.NopPublisher{}
	if appConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		publisher = amqpPublisher
		log.Infow("publishing materialized transactions", "exchange", appConfig.AMQPExchange, "queue", appConfig.AMQPQueue)
	}
	defer publisher.Close()

	// Initialize services
	db := dbManager.DB()
	accountService := services.NewAccountService(db)
	svc := router.Services{
		Accounts:     accountService,
		Categories:   services.NewCategoryService(db),
		Transactions: services.NewTransactionService(db),
		Scheduled:    services.NewScheduledTransactionService(db, publisher, appConfig.RolloverOnList),
		Audit:        services.NewAuditService(db),
	}

	if appConfig.GeminiAPIKey != "" {
		chatService, err := services.NewGeminiChatService(ctx, appConfig.GeminiAPIKey, accountService, services.ChatConfig{
			Model:        appConfig.ChatModel,
			SystemPrompt: appConfig.ChatSystemPrompt,
			Currency:     appConfig.DisplayCurrency,
		})
		if err != nil {
			return fmt.Errorf("failed to create chat client: %w", err)
		}
		svc.Chat = chatService
	} else {
		log.Warn("GEMINI_API_KEY not set, chat assistant disabled")
	}

	if appConfig.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY not set, pipeline endpoints disabled")
	}

	engine := router.New(router.Config{
		JWTSecret:      []byte(appConfig.AuthJWTSecret),
		JWTIssuer:      appConfig.AuthIssuer,
		PipelineAPIKey: appConfig.PipelineAPIKey,
	}, svc)

	log.Infof("Starting Budgetly backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
