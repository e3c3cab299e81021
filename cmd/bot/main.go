package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifeweeks_bot/internal/app"
	"lifeweeks_bot/internal/infra/blockfile"
	"lifeweeks_bot/internal/infra/config"
	idb "lifeweeks_bot/internal/infra/database"
	"lifeweeks_bot/internal/infra/logger"
	"lifeweeks_bot/internal/infra/scheduler"
	"lifeweeks_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Admin ID: %d", cfg.LogLevel, cfg.Environment, cfg.AdminTelegramID)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	if err := idb.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Fatalf("FATAL: Could not run database migrations: %v", err)
	}
	log.Info("Database migrations applied.")

	// Initialize Repositories and the blocked-user ledger
	userRepo := idb.NewPostgresUserRepository(db)
	log.Info("User repository initialized.")
	ledger := blockfile.NewFileLedger(cfg.BlockedUsersFile, log.WithField("component", "blockfile"))
	log.Info("Blocked-user ledger initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Initialize Services
	notifService := app.NewNotificationService(userRepo, ledger, telegramClient, log.WithField("component", "notification_service"))
	reconciler := app.NewReconciliationService(userRepo, ledger, telegramClient, log.WithField("component", "reconciliation_service"))
	adminService := app.NewAdminService(userRepo, ledger, cfg.AdminTelegramID, log.WithField("component", "admin_service"))
	factsService := app.NewFactsService()
	quoteService := app.NewQuoteService(cfg.QuotesFile)
	log.Info("Application services initialized.")

	// Initialize NotificationScheduler and restore per-user timers
	notifScheduler := scheduler.NewNotificationScheduler(
		notifService,
		reconciler,
		userRepo,
		log.WithField("component", "scheduler"),
		cfg.NotifyHour,
	)
	regService := app.NewRegistrationService(userRepo, notifScheduler, log.WithField("component", "registration_service"))

	ctx := context.Background()
	if err := notifScheduler.Bootstrap(ctx); err != nil {
		log.Fatalf("FATAL: Could not bootstrap per-user timers: %v", err)
	}
	notifScheduler.Start()

	// Register Handlers
	telegram.RegisterHandlers(ctx, bot, userRepo, regService, factsService, quoteService, adminService, log.WithField("component", "telegram"))
	log.Info("Bot handlers registered.")

	log.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	notifScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully.")
}
