package messenger

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TelegramMessenger sends through the Telegram Bot API.
type TelegramMessenger struct {
	bot       *bot.Bot
	channelID int64
	logger    *zap.Logger
}

func NewTelegramMessenger(b *bot.Bot, channelID int64, logger *zap.Logger) *TelegramMessenger {
	return &TelegramMessenger{
		bot:       b,
		channelID: channelID,
		logger:    logger,
	}
}

func (m *TelegramMessenger) SendDirect(ctx context.Context, chatID int64, text string, opts Options) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	applyOptions(params, opts)

	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		m.logger.Error("Failed to send direct message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return fmt.Errorf("send direct message to %d: %w", chatID, err)
	}
	return nil
}

func (m *TelegramMessenger) SendToChannel(ctx context.Context, text string, opts Options) error {
	if m.channelID == 0 {
		m.logger.Debug("No announcement channel configured, skipping broadcast")
		return nil
	}

	params := &bot.SendMessageParams{
		ChatID: m.channelID,
		Text:   text,
	}
	applyOptions(params, opts)

	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		m.logger.Error("Failed to send channel message",
			zap.Int64("channel_id", m.channelID),
			zap.Error(err))
		return fmt.Errorf("send channel message: %w", err)
	}
	return nil
}

func applyOptions(params *bot.SendMessageParams, opts Options) {
	switch opts.ParseMode {
	case ParseModeMarkdown:
		params.ParseMode = models.ParseModeMarkdown
	case ParseModeHTML:
		params.ParseMode = models.ParseModeHTML
	}
	if opts.NoLinkPreview {
		params.LinkPreviewOptions = &models.LinkPreviewOptions{
			IsDisabled: bot.True(),
		}
	}
}
