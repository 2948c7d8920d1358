package handlers

import (
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

// Handlers holds the dependencies of the conversation handlers.
type Handlers struct {
	trainings *service.TrainingService
	states    *state.Manager
	logger    *zap.Logger
}

func NewHandlers(
	trainings *service.TrainingService,
	states *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		trainings: trainings,
		states:    states,
		logger:    logger,
	}
}
