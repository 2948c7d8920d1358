package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fabian-Geyer/lockdown-training/internal/controller/state"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
)

func TestParseOrdinal(t *testing.T) {
	tests := []struct {
		text string
		n    int
		ok   bool
	}{
		{"/termin_1", 1, true},
		{"/termin_3", 3, true},
		{"/termin_0", 0, false},
		{"/termin_-1", 0, false},
		{"/termin_abc", 0, false},
		{"/termin_", 0, false},
		{"/training_1", 0, false},
		{"irgendwas", 0, false},
	}

	for _, tt := range tests {
		n, ok := parseOrdinal(tt.text, EventPrefix)
		assert.Equal(t, tt.ok, ok, tt.text)
		if tt.ok {
			assert.Equal(t, tt.n, n, tt.text)
		}
	}
}

func TestParsePairOrdinal(t *testing.T) {
	tests := []struct {
		text string
		n, m int
		ok   bool
	}{
		{"/training_1_1", 1, 1, true},
		{"/training_2_3", 2, 3, true},
		{"/training_0_1", 0, 0, false},
		{"/training_1_0", 0, 0, false},
		{"/training_1", 0, 0, false},
		{"/training_1_2_3", 0, 0, false},
		{"/training_a_b", 0, 0, false},
		{"/termin_1_1", 0, 0, false},
	}

	for _, tt := range tests {
		n, m, ok := parsePairOrdinal(tt.text, TrainingPrefix)
		assert.Equal(t, tt.ok, ok, tt.text)
		if tt.ok {
			assert.Equal(t, tt.n, n, tt.text)
			assert.Equal(t, tt.m, m, tt.text)
		}
	}
}

func testTrainingDay(t *testing.T, start time.Time, subs ...model.Subtraining) *model.Training {
	t.Helper()
	training := model.NewTraining(start, start.Format("15:04"), "warmup")
	for _, sub := range subs {
		sub.Date = training.Date
		training.Subtrainings = append(training.Subtrainings, sub)
	}
	return training
}

func testSub(t *testing.T, coachChatID int64, coachName, title, description string) model.Subtraining {
	t.Helper()
	coach := model.Identity{ChatID: coachChatID, UserName: "coach", FullName: coachName}
	sub, err := model.NewSubtraining(1, coach, title, description, "link")
	require.NoError(t, err)
	return sub
}

func TestOfferDateList(t *testing.T) {
	monday := time.Date(2024, 3, 4, 18, 0, 0, 0, time.Local)
	trainings := []*model.Training{
		testTrainingDay(t, monday),
		testTrainingDay(t, monday.AddDate(0, 0, 2)),
	}

	msg, commands := offerDateList(trainings)

	require.Equal(t, []string{"/termin_1", "/termin_2"}, commands)
	assert.Contains(t, msg, "/termin_1: Montag 04.03.24 18:00")
	assert.Contains(t, msg, "/termin_2: Mittwoch 06.03.24 18:00")
	assert.Contains(t, msg, "Welchen Termin möchtest du auswählen?")
}

func TestAttendOverviewBuildsOrdinalTable(t *testing.T) {
	monday := time.Date(2024, 3, 4, 18, 0, 0, 0, time.Local)
	trainings := []*model.Training{
		testTrainingDay(t, monday,
			testSub(t, 100, "Tina Trainer", "Rückenfit", "Mit Theraband"),
			testSub(t, 200, "Carl Coach", "Ausdauer", ""),
		),
		testTrainingDay(t, monday.AddDate(0, 0, 2)),
	}

	msg, options := attendOverview(trainings)

	require.Len(t, options, 2)
	require.Len(t, options[0], 2)
	assert.Equal(t, state.SubRef{Date: trainings[0].Date, CoachChatID: 100}, options[0][0])
	assert.Equal(t, state.SubRef{Date: trainings[0].Date, CoachChatID: 200}, options[0][1])
	assert.Empty(t, options[1], "day without offers still occupies its ordinal")

	assert.Contains(t, msg, "<b>1. Training am Montag 04.03.24 18:00</b>")
	assert.Contains(t, msg, "/training_1_1: Rückenfit")
	assert.Contains(t, msg, "<u>Trainer:</u> Tina Trainer")
	assert.Contains(t, msg, "<u>Info:</u> Mit Theraband")
	assert.Contains(t, msg, "/training_1_2: Ausdauer")
	assert.Contains(t, msg, "Noch keine Trainings vorhanden")
}

func TestMyTrainingsList(t *testing.T) {
	monday := time.Date(2024, 3, 4, 18, 0, 0, 0, time.Local)
	sub := testSub(t, 100, "Tina Trainer", "Rückenfit", "")
	sub.Date = monday.Unix()

	msg, refs := myTrainingsList([]model.Subtraining{sub}, true)
	require.Len(t, refs, 1)
	assert.Equal(t, state.SubRef{Date: sub.Date, CoachChatID: 100}, refs[0])
	assert.Contains(t, msg, "/training_1: Rückenfit am Montag 04.03.24 18:00 bei Tina Trainer")

	msg, _ = myTrainingsList([]model.Subtraining{sub}, false)
	assert.NotContains(t, msg, "/training_1")
	assert.Contains(t, msg, "Rückenfit am Montag 04.03.24 18:00 bei Tina Trainer")
}

func TestOfferSummary(t *testing.T) {
	monday := time.Date(2024, 3, 4, 18, 0, 0, 0, time.Local)
	draft := state.Draft{
		Step:        state.StepOfferConfirm,
		OfferDate:   monday.Unix(),
		Title:       "Rückenfit",
		Description: "Mit Theraband",
	}
	coach := model.Identity{ChatID: 100, UserName: "tina", FullName: "Tina Trainer"}

	msg := offerSummary(draft, coach)
	assert.Contains(t, msg, "Datum: Montag 04.03.24 18:00")
	assert.Contains(t, msg, "Trainer/in: Tina Trainer")
	assert.Contains(t, msg, "Titel: Rückenfit")
	assert.Contains(t, msg, "Beschreibung: Mit Theraband")
	assert.Contains(t, msg, "/ja")
	assert.Contains(t, msg, "/abbrechen")
}
