package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/keyboard"
	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
	"github.com/Fabian-Geyer/lockdown-training/internal/service"
)

// startOffer begins the offer flow: present the upcoming training days
// the coach has not already claimed.
func (h *Handlers) startOffer(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	coach := identityFrom(update)

	offerable, err := h.trainings.OfferableTrainings(ctx, coach.ChatID)
	if err != nil {
		h.logger.Error("Failed to load offerable trainings", zap.Error(err))
		h.sendApology(ctx, b, chatID)
		h.actionSelector(ctx, b, chatID)
		return
	}
	if len(offerable) == 0 {
		h.sendText(ctx, b, chatID,
			"Du bietest bereits an allen kommenden Terminen ein Training an.")
		h.actionSelector(ctx, b, chatID)
		return
	}

	dates := make([]int64, 0, len(offerable))
	for _, training := range offerable {
		dates = append(dates, training.Date)
	}
	h.states.Update(coach.ChatID, func(d *state.Draft) {
		*d = state.Draft{Step: state.StepOfferDate, OfferDates: dates}
	})

	msg, commands := offerDateList(offerable)
	kb := keyboard.NewBuilder().Row(commands...).Row(CmdAbort).Build()
	h.sendWithKeyboard(ctx, b, chatID, msg, kb)
}

// handleOfferDate interprets a /termin_<n> selection. Out-of-range or
// non-numeric input re-prompts without changing state.
func (h *Handlers) handleOfferDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	coach := identityFrom(update)
	draft := h.states.Get(coach.ChatID)

	idx, ok := parseOrdinal(update.Message.Text, EventPrefix)
	if !ok || idx > len(draft.OfferDates) {
		h.sendText(ctx, b, chatID, "Bitte wähle einen der angebotenen Termine aus.")
		return
	}

	selected := draft.OfferDates[idx-1]
	h.states.Update(coach.ChatID, func(d *state.Draft) {
		d.Step = state.StepOfferTitle
		d.OfferDate = selected
	})

	kb := keyboard.NewBuilder().Row(CmdAbort).Build()
	h.sendWithKeyboard(ctx, b, chatID,
		fmt.Sprintf("Okay, wie lautet der Titel von deinem Training (mind. %d Zeichen)?", model.MinTitleChars),
		kb)
}

// handleOfferTitle validates the free-text title.
func (h *Handlers) handleOfferTitle(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	coach := identityFrom(update)
	title := strings.TrimSpace(update.Message.Text)

	if utf8.RuneCountInString(title) < model.MinTitleChars {
		kb := keyboard.NewBuilder().Row(CmdAbort).Build()
		h.sendWithKeyboard(ctx, b, chatID,
			fmt.Sprintf("Der eingegebene Titel ist kürzer als %d Zeichen.\n"+
				"Bitte gib einen aussagekräftigen Titel ein.", model.MinTitleChars),
			kb)
		return
	}

	h.states.Update(coach.ChatID, func(d *state.Draft) {
		d.Step = state.StepOfferDescription
		d.Title = title
	})

	kb := keyboard.NewBuilder().Row(CmdSkip, CmdAbort).Build()
	h.sendWithKeyboard(ctx, b, chatID,
		"Ich brauche noch eine Beschreibung zu deinem Training, also z.B.\n"+
			"- Benötigte Utensilien\n"+
			"- Spezielle Playlist\n"+
			"- ...\n\n"+
			"Falls du keine Beschreibung benötigst, kannst du diesen Schritt mit "+CmdSkip+" überspringen.",
		kb)
}

// handleOfferDescription takes the free-text description; /weiter maps
// to an empty one.
func (h *Handlers) handleOfferDescription(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	coach := identityFrom(update)

	description := strings.TrimSpace(update.Message.Text)
	if update.Message.Text == CmdSkip {
		description = ""
	}

	h.states.Update(coach.ChatID, func(d *state.Draft) {
		d.Step = state.StepOfferConfirm
		d.Description = description
	})

	h.showOfferSummary(ctx, b, chatID, coach)
}

// handleOfferConfirm persists on /ja; anything else re-displays the
// summary and stays put.
func (h *Handlers) handleOfferConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	coach := identityFrom(update)

	if update.Message.Text != CmdYes {
		h.showOfferSummary(ctx, b, chatID, coach)
		return
	}

	draft := h.states.Get(coach.ChatID)
	_, err := h.trainings.OfferSubtraining(ctx, draft.OfferDate, coach, draft.Title, draft.Description)
	switch {
	case errors.Is(err, service.ErrDuplicateOffer):
		h.sendText(ctx, b, chatID,
			"An diesem Termin bietest du inzwischen schon ein Training an.")
	case err != nil:
		h.logger.Error("Failed to offer subtraining",
			zap.Int64("chat_id", coach.ChatID),
			zap.Error(err))
		h.sendApology(ctx, b, chatID)
	default:
		h.sendText(ctx, b, chatID,
			"Trainingsdaten werden übermittelt. Herzlichen Glückwunsch zum Training!")
	}

	h.actionSelector(ctx, b, chatID)
}

func (h *Handlers) showOfferSummary(ctx context.Context, b *bot.Bot, chatID int64, coach model.Identity) {
	draft := h.states.Get(coach.ChatID)
	kb := keyboard.NewBuilder().Row(CmdYes, CmdAbort).Build()
	h.sendWithKeyboard(ctx, b, chatID, offerSummary(draft, coach), kb)
}
