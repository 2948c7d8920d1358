package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/keyboard"
	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

// startAttend shows every upcoming training day with its subtrainings,
// each selectable by its /training_<n>_<m> ordinal pair.
func (h *Handlers) startAttend(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	user := identityFrom(update)

	upcoming, err := h.trainings.UpcomingTrainings(ctx)
	if err != nil {
		h.logger.Error("Failed to load upcoming trainings", zap.Error(err))
		h.sendApology(ctx, b, chatID)
		h.actionSelector(ctx, b, chatID)
		return
	}
	if len(upcoming) == 0 {
		h.sendText(ctx, b, chatID, "Aktuell sind keine Termine geplant.")
		h.actionSelector(ctx, b, chatID)
		return
	}

	msg, options := attendOverview(upcoming)
	h.states.Update(user.ChatID, func(d *state.Draft) {
		*d = state.Draft{Step: state.StepJoinPick, JoinOptions: options}
	})

	kb := keyboard.NewBuilder().Row(CmdAbort).Build()
	h.sendHTML(ctx, b, chatID, msg, kb)
}

// handleJoinPick enrolls the user into the selected subtraining. The
// selection resolves against the listing as it was presented; the store
// re-validates that the subtraining still exists.
func (h *Handlers) handleJoinPick(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	user := identityFrom(update)
	draft := h.states.Get(user.ChatID)

	n, m, ok := parsePairOrdinal(update.Message.Text, TrainingPrefix)
	if !ok || n > len(draft.JoinOptions) || m > len(draft.JoinOptions[n-1]) {
		h.sendText(ctx, b, chatID, "Bitte wähle eines der aufgelisteten Trainings aus.")
		return
	}

	ref := draft.JoinOptions[n-1][m-1]
	err := h.trainings.Enroll(ctx, user, ref.Date, ref.CoachChatID)
	switch {
	case errors.Is(err, service.ErrNoSubtraining), errors.Is(err, service.ErrTrainingNotFound):
		h.sendText(ctx, b, chatID, "Dieses Training gibt es leider nicht mehr.")
	case err != nil:
		h.logger.Error("Failed to enroll attendee",
			zap.Int64("chat_id", user.ChatID),
			zap.Error(err))
		h.sendApology(ctx, b, chatID)
	default:
		h.sendText(ctx, b, chatID,
			"Du bist angemeldet! Den Einwahllink bekommst du rechtzeitig vor dem Training zugeschickt.")
	}

	h.actionSelector(ctx, b, chatID)
}
