package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/handlers"
	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

// BotController wires the Telegram update stream to the conversation
// handlers.
type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	trainingService *service.TrainingService,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	return &BotController{
		bot:      botInstance,
		handlers: handlers.NewHandlers(trainingService, stateManager, logger),
		logger:   logger,
	}
}

// RegisterHandlers registers the command and dialog handlers.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, handlers.CmdStart, bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, handlers.CmdAbort, bot.MatchTypeExact, c.handlers.HandleAbort)

	// Everything else is a dialog message interpreted by the current
	// conversation step.
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleText)

	return c.setCommands(ctx)
}

// setCommands installs the command menu.
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "Los geht's"},
		{Command: "abbrechen", Description: "Zurück zum Start"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start runs the long-polling update loop until the context is done.
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
