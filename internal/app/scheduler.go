package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

// Scheduler drives the two background jobs off a cron timer: the
// reminder pass every minute and the template-based training generation
// once a day. Each tick is one bounded, idempotent pass; nothing in
// here sleeps until a training starts.
type Scheduler struct {
	trainingService *service.TrainingService
	notifyService   *service.NotifyService
	logger          *zap.Logger
	cron            *cron.Cron
}

func NewScheduler(
	trainingService *service.TrainingService,
	notifyService *service.NotifyService,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		trainingService: trainingService,
		notifyService:   notifyService,
		logger:          logger,
		cron:            cron.New(),
	}
}

// Start registers the jobs and runs the timer. Generation also runs
// once immediately so a fresh deployment has trainings right away.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler")

	s.generate(ctx)

	if _, err := s.cron.AddFunc("@every 1m", func() { s.notify(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 3 * * *", func() { s.generate(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the timer and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) notify(ctx context.Context) {
	if err := s.notifyService.Run(ctx); err != nil {
		s.logger.Error("Reminder pass failed", zap.Error(err))
	}
}

func (s *Scheduler) generate(ctx context.Context) {
	created, err := s.trainingService.CreateTrainingsFromTemplate(ctx)
	if err != nil {
		s.logger.Error("Failed to create trainings from template", zap.Error(err))
		return
	}
	if created > 0 {
		s.logger.Info("Training generation completed", zap.Int("created", created))
	}
}
