package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/keyboard"
	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

// startCancel asks in which role the user wants to cancel.
func (h *Handlers) startCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	user := identityFrom(update)

	h.states.Update(user.ChatID, func(d *state.Draft) {
		*d = state.Draft{Step: state.StepCancelRole}
	})

	kb := keyboard.NewBuilder().Row(CmdCoach, CmdAttendee).Row(CmdAbort).Build()
	h.sendWithKeyboard(ctx, b, chatID,
		fmt.Sprintf("Willst du ein Training absagen in dem du %s bist oder %s? Du kannst auch %s",
			CmdAttendee, CmdCoach, CmdAbort),
		kb)
}

// handleCancelRole lists the user's own subtrainings for the chosen
// role. Anything but the two role commands re-prompts.
func (h *Handlers) handleCancelRole(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	user := identityFrom(update)

	var role model.Role
	switch update.Message.Text {
	case CmdCoach:
		role = model.RoleCoach
	case CmdAttendee:
		role = model.RoleAttendee
	default:
		h.startCancel(ctx, b, update)
		return
	}

	mine, err := h.trainings.Mine(ctx, user.ChatID, role)
	if err != nil {
		h.logger.Error("Failed to load own trainings", zap.Error(err))
		h.sendApology(ctx, b, chatID)
		h.actionSelector(ctx, b, chatID)
		return
	}
	if len(mine) == 0 {
		h.sendText(ctx, b, chatID,
			"Du kannst erst absagen, wenn du überhaupt erst zugesagt oder ein Training erstellt hast \U0001F605")
		h.actionSelector(ctx, b, chatID)
		return
	}

	msg, refs := myTrainingsList(mine, true)
	h.states.Update(user.ChatID, func(d *state.Draft) {
		d.Step = state.StepCancelPick
		d.CancelRole = role
		d.CancelRefs = refs
	})

	kb := keyboard.NewBuilder().Row(CmdAbort).Build()
	h.sendWithKeyboard(ctx, b, chatID, msg, kb)
}

// handleCancelPick removes the enrollment or the whole subtraining. An
// out-of-range ordinal re-lists instead of failing.
func (h *Handlers) handleCancelPick(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	user := identityFrom(update)
	draft := h.states.Get(user.ChatID)

	idx, ok := parseOrdinal(update.Message.Text, TrainingPrefix)
	if !ok || idx > len(draft.CancelRefs) {
		mine, err := h.trainings.Mine(ctx, user.ChatID, draft.CancelRole)
		if err != nil {
			h.logger.Error("Failed to reload own trainings", zap.Error(err))
			h.sendApology(ctx, b, chatID)
			h.actionSelector(ctx, b, chatID)
			return
		}
		msg, refs := myTrainingsList(mine, true)
		h.states.Update(user.ChatID, func(d *state.Draft) {
			d.CancelRefs = refs
		})

		kb := keyboard.NewBuilder().Row(CmdAbort).Build()
		h.sendWithKeyboard(ctx, b, chatID,
			fmt.Sprintf("Du kannst maximal %s%d auswählen.\n\n%s", TrainingPrefix, len(refs), msg),
			kb)
		return
	}

	ref := draft.CancelRefs[idx-1]
	var err error
	var confirmation string
	if draft.CancelRole == model.RoleCoach {
		_, err = h.trainings.CancelAsCoach(ctx, user, ref.Date)
		confirmation = "Dein Training wurde abgesagt. Alle Teilnehmer wurden benachrichtigt."
	} else {
		err = h.trainings.Unenroll(ctx, user, ref.Date)
		confirmation = "Du wurdest erfolgreich aus der Teilnehmerliste entfernt."
	}

	switch {
	case errors.Is(err, service.ErrNoSubtraining), errors.Is(err, service.ErrTrainingNotFound):
		// Already gone: cancelling is idempotent, treat as done.
		h.sendText(ctx, b, chatID, confirmation)
	case err != nil:
		h.logger.Error("Failed to cancel",
			zap.Int64("chat_id", user.ChatID),
			zap.Error(err))
		h.sendApology(ctx, b, chatID)
	default:
		h.sendText(ctx, b, chatID, confirmation)
	}

	h.actionSelector(ctx, b, chatID)
}
