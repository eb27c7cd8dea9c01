package main

import (
	"fmt"

	"budgetly/internal/config"
	"budgetly/internal/database"
	"budgetly/internal/events"
	"budgetly/internal/logger"
	"budgetly/internal/services"
)

// app is the service graph a subcommand works with.
type app struct {
	cfg       *config.Config
	db        *database.Manager
	publisher events.Publisher
	accounts  services.AccountServicer
	scheduled services.ScheduledTransactionServicer
	audit     services.AuditServicer
}

// openApp connects to the database and, when configured, the event broker.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			dbManager.Close()
			return nil, fmt.Errorf("failed to connect event publisher: %w", err)
		}
		publisher = amqpPublisher
	}

	db := dbManager.DB()
	return &app{
		cfg:       cfg,
		db:        dbManager,
		publisher: publisher,
		accounts:  services.NewAccountService(db),
		scheduled: services.NewScheduledTransactionService(db, publisher, false),
		audit:     services.NewAuditService(db),
	}, nil
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		logger.Get().Warnw("failed to close event publisher", "error", err)
	}
	if err := a.db.Close(); err != nil {
		logger.Get().Warnw("failed to close database", "error", err)
	}
}
