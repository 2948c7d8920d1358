package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fabian-Geyer/lockdown-training/internal/app"
	"github.com/Fabian-Geyer/lockdown-training/internal/config"
	"github.com/Fabian-Geyer/lockdown-training/internal/controller"
	"github.com/Fabian-Geyer/lockdown-training/internal/messenger"
	"github.com/Fabian-Geyer/lockdown-training/internal/repository"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Sugar().Fatalw("Failed to create database pool", "error", err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Sugar().Fatalw("Failed to create migrator", "error", err)
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Sugar().Fatalw("Failed to apply migrations", "error", err)
	}
	migrator.Close()

	// Handlers run synchronously so a chat's messages are processed in
	// order; the dialog state manager relies on that.
	b, err := bot.New(cfg.TelegramToken, bot.WithNotAsyncHandlers())
	if err != nil {
		logger.Sugar().Fatalw("Failed to create bot", "error", err)
	}

	store := repository.NewPostgresDocumentStore(pool)
	repo := repository.NewTrainingRepository(store)
	msgr := messenger.NewTelegramMessenger(b, cfg.ChannelID, logger)

	trainingService := service.NewTrainingService(repo, msgr, cfg.Schedule, logger)
	notifyService := service.NewNotifyService(repo, msgr, cfg.Schedule, logger)

	botController := controller.NewBotController(b, trainingService, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Sugar().Fatalw("Failed to register handlers", "error", err)
	}

	scheduler := app.NewScheduler(trainingService, notifyService, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Sugar().Fatalw("Failed to start scheduler", "error", err)
	}
	defer scheduler.Stop()

	logger.Sugar().Infow("Starting lockdown-training bot",
		"environment", cfg.Environment,
		"trainings_per_week", len(cfg.Schedule.Trainings))

	botController.Start(ctx)
}
