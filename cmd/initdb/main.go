// Command initdb initializes the trainings collection from the weekly
// template in the schedule config. With -reset it drops every stored
// training first.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fabian-Geyer/lockdown-training/internal/app"
	"github.com/Fabian-Geyer/lockdown-training/internal/config"
	"github.com/Fabian-Geyer/lockdown-training/internal/repository"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

func main() {
	reset := flag.Bool("reset", false, "drop all stored trainings before creating new ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

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

	repo := repository.NewTrainingRepository(repository.NewPostgresDocumentStore(pool))
	trainingService := service.NewTrainingService(repo, nil, cfg.Schedule, logger)

	if *reset {
		if err := trainingService.DeleteAll(ctx); err != nil {
			logger.Sugar().Fatalw("Failed to delete trainings", "error", err)
		}
	}

	created, err := trainingService.CreateTrainingsFromTemplate(ctx)
	if err != nil {
		logger.Sugar().Fatalw("Failed to create trainings", "error", err)
	}

	logger.Sugar().Infow("Database initialized",
		"created", created,
		"horizon_days", cfg.Schedule.HorizonDays)
}
