package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/format"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
)

// parseOrdinal extracts the 1-based index n from commands like
// "/termin_3". Returns false for anything else.
func parseOrdinal(text, prefix string) (int, bool) {
	if !strings.HasPrefix(text, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(text, prefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// parsePairOrdinal extracts the 1-based indexes (n, m) from commands
// like "/training_2_1".
func parsePairOrdinal(text, prefix string) (int, int, bool) {
	if !strings.HasPrefix(text, prefix) {
		return 0, 0, false
	}
	parts := strings.Split(strings.TrimPrefix(text, prefix), "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	n, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || n < 1 || m < 1 {
		return 0, 0, false
	}
	return n, m, true
}

// offerDateList renders the selectable training days of the offer flow.
func offerDateList(trainings []*model.Training) (string, []string) {
	var b strings.Builder
	b.WriteString("Folgende Termine stehen zur Auswahl:\n")

	commands := make([]string, 0, len(trainings))
	for i, training := range trainings {
		cmd := fmt.Sprintf("%s%d", EventPrefix, i+1)
		commands = append(commands, cmd)
		b.WriteString(fmt.Sprintf("%s: %s\n", cmd, format.FormatDateTime(training.StartTime())))
	}

	b.WriteString("\nWelchen Termin möchtest du auswählen?")
	return b.String(), commands
}

// attendOverview renders all upcoming training days with their
// subtrainings, each tagged with its /training_<n>_<m> command, and
// returns the ordinal table the selection resolves against.
func attendOverview(trainings []*model.Training) (string, [][]state.SubRef) {
	var b strings.Builder
	b.WriteString("An welchem Training möchtest du teilnehmen?\n\n")

	options := make([][]state.SubRef, 0, len(trainings))
	for i, training := range trainings {
		b.WriteString(fmt.Sprintf("<b>%d. Training am %s</b>\n", i+1, format.FormatDateTime(training.StartTime())))

		refs := make([]state.SubRef, 0, len(training.Subtrainings))
		if len(training.Subtrainings) == 0 {
			b.WriteString("Noch keine Trainings vorhanden\n")
		}
		for j, sub := range training.Subtrainings {
			b.WriteString(fmt.Sprintf("%s%d_%d: %s\n", TrainingPrefix, i+1, j+1, sub.Title))
			b.WriteString(fmt.Sprintf("<u>Trainer:</u> %s\n", sub.Coach.FullName))
			if sub.Description != "" {
				b.WriteString(fmt.Sprintf("<u>Info:</u> %s\n", sub.Description))
			}
			b.WriteString("\n")
			refs = append(refs, state.SubRef{Date: sub.Date, CoachChatID: sub.Coach.ChatID})
		}
		options = append(options, refs)
	}

	return b.String(), options
}

// myTrainingsList renders the user's own subtrainings, optionally with
// /training_<n> selection commands, and returns the matching refs.
func myTrainingsList(subs []model.Subtraining, withCommands bool) (string, []state.SubRef) {
	var b strings.Builder

	refs := make([]state.SubRef, 0, len(subs))
	for i, sub := range subs {
		if withCommands {
			b.WriteString(fmt.Sprintf("%s%d: ", TrainingPrefix, i+1))
		}
		b.WriteString(fmt.Sprintf("%s am %s bei %s\n",
			sub.Title,
			format.FormatDateTime(time.Unix(sub.Date, 0)),
			sub.Coach.FullName,
		))
		refs = append(refs, state.SubRef{Date: sub.Date, CoachChatID: sub.Coach.ChatID})
	}

	return b.String(), refs
}

// offerSummary renders the confirmation screen of the offer flow.
func offerSummary(draft state.Draft, coach model.Identity) string {
	return fmt.Sprintf(
		"Möchtest du folgendes Training hinzufügen:\n\n"+
			"Datum: %s\n"+
			"Trainer/in: %s\n"+
			"Titel: %s\n"+
			"Beschreibung: %s\n\n"+
			"%s    %s",
		format.FormatDateTime(time.Unix(draft.OfferDate, 0)),
		coach.FullName,
		draft.Title,
		draft.Description,
		CmdYes, CmdAbort,
	)
}
