package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/keyboard"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
)

// identityFrom builds the acting identity from an inbound message.
func identityFrom(update *models.Update) model.Identity {
	from := update.Message.From
	fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)
	return model.Identity{
		ChatID:   from.ID,
		UserName: from.Username,
		FullName: fullName,
	}
}

// sendText sends a plain message, logging failures instead of surfacing
// them into the conversation.
func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.send(ctx, b, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}

// sendWithKeyboard sends a message with a reply keyboard attached.
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	h.send(ctx, b, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
}

// sendHTML sends a message rendered with HTML emphasis.
func (h *Handlers) sendHTML(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	h.send(ctx, b, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, params *bot.SendMessageParams) {
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Error(err))
	}
}

// sendApology reports a store failure without corrupting the
// conversation state.
func (h *Handlers) sendApology(ctx context.Context, b *bot.Bot, chatID int64) {
	h.sendText(ctx, b, chatID, "Da ist leider etwas schiefgelaufen. Bitte versuche es später noch einmal.")
}

// actionSelector shows the main menu and puts the chat back at the
// start step.
func (h *Handlers) actionSelector(ctx context.Context, b *bot.Bot, chatID int64) {
	h.states.Reset(chatID)

	kb := keyboard.NewBuilder().
		Row(MenuOffer, MenuCancel).
		Row(MenuAttend, MenuInfo).
		Build()

	h.sendWithKeyboard(ctx, b, chatID,
		"Hi! Ich bin der Trainings-Bot. "+
			"Ich helfe dir dein Training zu organisieren. "+
			"Sende "+CmdAbort+" um zum Start zurückzukehren.\n\n"+
			"Was möchtest du tun?",
		kb)
}
