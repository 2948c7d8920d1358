package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/keyboard"
	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
)

// HandleStart handles /start: reset the conversation and show the menu.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.logger.Info("Conversation started",
		zap.Int64("chat_id", update.Message.From.ID))
	h.actionSelector(ctx, b, update.Message.Chat.ID)
}

// HandleAbort handles /abbrechen: drop any scratch data and return to
// the menu. Valid from every step; nothing is committed until the final
// confirming step, so aborting leaves no side effects.
func (h *Handlers) HandleAbort(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.From.ID
	if h.states.Step(chatID) != state.StepStart {
		h.states.Reset(chatID)
		h.sendText(ctx, b, update.Message.Chat.ID, "Okay, abgebrochen.")
	}
	h.actionSelector(ctx, b, update.Message.Chat.ID)
}

// HandleText is the conversation dispatcher: every non-command text and
// every ordinal command lands here and is interpreted against the
// chat's current step. Unmatched input re-prompts the same step.
func (h *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	text := update.Message.Text
	if text == CmdStart || text == CmdAbort {
		// Handled by their dedicated handlers.
		return
	}

	chatID := update.Message.From.ID
	switch h.states.Step(chatID) {
	case state.StepStart:
		h.handleMenu(ctx, b, update)
	case state.StepOfferDate:
		h.handleOfferDate(ctx, b, update)
	case state.StepOfferTitle:
		h.handleOfferTitle(ctx, b, update)
	case state.StepOfferDescription:
		h.handleOfferDescription(ctx, b, update)
	case state.StepOfferConfirm:
		h.handleOfferConfirm(ctx, b, update)
	case state.StepJoinPick:
		h.handleJoinPick(ctx, b, update)
	case state.StepCancelRole:
		h.handleCancelRole(ctx, b, update)
	case state.StepCancelPick:
		h.handleCancelPick(ctx, b, update)
	}
}

// handleMenu interprets the main-menu selection.
func (h *Handlers) handleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch update.Message.Text {
	case MenuOffer:
		h.startOffer(ctx, b, update)
	case MenuAttend:
		h.startAttend(ctx, b, update)
	case MenuCancel:
		h.startCancel(ctx, b, update)
	case MenuInfo:
		h.handleInfo(ctx, b, update)
	default:
		h.actionSelector(ctx, b, update.Message.Chat.ID)
	}
}

// handleInfo lists the user's trainings as coach and as attendee.
func (h *Handlers) handleInfo(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	user := identityFrom(update)

	asCoach, err := h.trainings.Mine(ctx, user.ChatID, model.RoleCoach)
	if err != nil {
		h.logger.Error("Failed to load coach trainings", zap.Error(err))
		h.sendApology(ctx, b, chatID)
		h.actionSelector(ctx, b, chatID)
		return
	}
	asAttendee, err := h.trainings.Mine(ctx, user.ChatID, model.RoleAttendee)
	if err != nil {
		h.logger.Error("Failed to load attended trainings", zap.Error(err))
		h.sendApology(ctx, b, chatID)
		h.actionSelector(ctx, b, chatID)
		return
	}

	msg := ""
	if len(asCoach) > 0 {
		list, _ := myTrainingsList(asCoach, false)
		msg += "<b>In diesen Trainings bist du Trainer:</b>\n" + list
	}
	if len(asAttendee) > 0 {
		if msg != "" {
			msg += "\n"
		}
		list, _ := myTrainingsList(asAttendee, false)
		msg += "<b>An diesen Trainings nimmst du teil:</b>\n" + list
	}
	if msg == "" {
		msg = "Du gibst kein Training als Trainer und bist auch zu keinem Training angemeldet?\n" +
			"Zeit das ganz schnell zu ändern!"
	}

	h.sendHTML(ctx, b, chatID, msg, keyboard.Remove())
	h.actionSelector(ctx, b, chatID)
}
