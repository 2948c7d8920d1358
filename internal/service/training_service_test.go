package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/config"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
	"github.com/Fabian-Geyer/lockdown-training/internal/repository"
)

func newTrainingService(repo *repository.TrainingRepository, m *fakeMessenger, now time.Time) *TrainingService {
	svc := NewTrainingService(repo, m, testSchedule(), zap.NewNop())
	return svc.WithClock(func() time.Time { return now })
}

func TestCreateTrainingsFromTemplate(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	// A Friday; the template schedules Tuesdays at 18:00.
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	svc := newTrainingService(repo, newFakeMessenger(), now)

	created, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created, "two Tuesdays inside the 14 day horizon")

	trainings, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, trainings, 2)
	first := trainings[0].StartTime()
	assert.Equal(t, time.Tuesday, first.Weekday())
	assert.Equal(t, 18, first.Hour())
	assert.Equal(t, "18:00", trainings[0].Time)
	assert.Contains(t, trainings[0].Link, "https://meet.example.org/")

	// Daily rerun only fills in days the horizon newly reaches.
	created, err = svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)

	created, err = svc.WithClock(func() time.Time { return now.AddDate(0, 0, 7) }).
		CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestCreateTrainingsFromTemplateSkipsPassedSlotToday(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	// A Tuesday morning after the templated 09:00 slot.
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	svc := NewTrainingService(repo, newFakeMessenger(), config.Schedule{
		Trainings:      []config.TemplateEntry{{Weekday: 2, Time: "09:00"}},
		HorizonDays:    14,
		FutureListed:   3,
		MeetingBaseURL: "https://meet.example.org/",
	}, zap.NewNop()).WithClock(func() time.Time { return now })

	created, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created, "today's 09:00 has passed, only next Tuesday remains")

	trainings, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, trainings, 1)
	assert.True(t, trainings[0].StartTime().After(now))
}

func TestOfferSubtrainingAnnouncesOnChannel(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	fm := newFakeMessenger()
	svc := newTrainingService(repo, fm, now)

	_, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	trainings, err := svc.UpcomingTrainings(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, trainings)
	date := trainings[0].Date

	sub, err := svc.OfferSubtraining(context.Background(), date, notifyCoach, "Rückenfit", "Mit Theraband")
	require.NoError(t, err)
	assert.Equal(t, "Rückenfit", sub.Title)
	assert.Contains(t, sub.Link, "https://meet.example.org/")

	require.Len(t, fm.channel, 1)
	assert.Contains(t, fm.channel[0], "*Rückenfit* bei Tina Trainer")
	assert.Contains(t, fm.channel[0], "Mit Theraband")

	// The same coach cannot offer twice on one day, and the failed
	// attempt must not reach the channel.
	_, err = svc.OfferSubtraining(context.Background(), date, notifyCoach, "Zweites Training", "")
	assert.ErrorIs(t, err, ErrDuplicateOffer)
	assert.Len(t, fm.channel, 1)
}

func TestOfferSubtrainingRejectsShortTitle(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	fm := newFakeMessenger()
	svc := newTrainingService(repo, fm, now)

	_, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	trainings, _ := svc.UpcomingTrainings(context.Background())
	require.NotEmpty(t, trainings)

	_, err = svc.OfferSubtraining(context.Background(), trainings[0].Date, notifyCoach, "Yoga", "")
	require.Error(t, err)
	assert.Empty(t, fm.channel)

	got, err := repo.Get(context.Background(), trainings[0].Date)
	require.NoError(t, err)
	assert.Empty(t, got.Subtrainings)
}

func TestOfferableTrainingsExcludesOwnOffers(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	svc := newTrainingService(repo, newFakeMessenger(), now)

	_, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	upcoming, err := svc.UpcomingTrainings(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	_, err = svc.OfferSubtraining(context.Background(), upcoming[0].Date, notifyCoach, "Rückenfit", "")
	require.NoError(t, err)

	offerable, err := svc.OfferableTrainings(context.Background(), notifyCoach.ChatID)
	require.NoError(t, err)
	require.Len(t, offerable, 1)
	assert.Equal(t, upcoming[1].Date, offerable[0].Date)

	// Another coach still sees both days.
	offerable, err = svc.OfferableTrainings(context.Background(), notifyBert.ChatID)
	require.NoError(t, err)
	assert.Len(t, offerable, 2)
}

func TestCancelAsCoachNotifiesEveryAttendeeOnce(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	fm := newFakeMessenger()
	svc := newTrainingService(repo, fm, now)

	_, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	upcoming, _ := svc.UpcomingTrainings(context.Background())
	date := upcoming[0].Date

	_, err = svc.OfferSubtraining(context.Background(), date, notifyCoach, "Rückenfit", "")
	require.NoError(t, err)
	require.NoError(t, svc.Enroll(context.Background(), notifyAnna, date, notifyCoach.ChatID))
	require.NoError(t, svc.Enroll(context.Background(), notifyBert, date, notifyCoach.ChatID))

	removed, err := svc.CancelAsCoach(context.Background(), notifyCoach, date)
	require.NoError(t, err)
	assert.Len(t, removed.Attendees, 2)

	annaTexts := fm.directTo(notifyAnna.ChatID)
	require.Len(t, annaTexts, 1)
	assert.Contains(t, annaTexts[0], "Leider wurde das Training \"Rückenfit\"")
	assert.Contains(t, annaTexts[0], "Tina Trainer")
	assert.Len(t, fm.directTo(notifyBert.ChatID), 1)
	assert.Empty(t, fm.directTo(notifyCoach.ChatID))

	// Cancelling again finds nothing to remove.
	_, err = svc.CancelAsCoach(context.Background(), notifyCoach, date)
	assert.ErrorIs(t, err, ErrNoSubtraining)
}

func TestEnrollMovesWithinDayAndMineReflectsIt(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	svc := newTrainingService(repo, newFakeMessenger(), now)

	_, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	upcoming, _ := svc.UpcomingTrainings(context.Background())
	date := upcoming[0].Date

	other := model.Identity{ChatID: 400, UserName: "carla", FullName: "Carla Coach"}
	_, err = svc.OfferSubtraining(context.Background(), date, notifyCoach, "Rückenfit", "")
	require.NoError(t, err)
	_, err = svc.OfferSubtraining(context.Background(), date, other, "Ausdauer", "")
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(context.Background(), notifyAnna, date, notifyCoach.ChatID))
	require.NoError(t, svc.Enroll(context.Background(), notifyAnna, date, other.ChatID))

	mine, err := svc.Mine(context.Background(), notifyAnna.ChatID, model.RoleAttendee)
	require.NoError(t, err)
	require.Len(t, mine, 1, "at most one enrollment per training day")
	assert.Equal(t, "Ausdauer", mine[0].Title)
}

// Full walkthrough: a coach offers, an attendee joins, the coach
// cancels. The attendee hears about it exactly once and ends up with an
// empty schedule.
func TestOfferJoinCancelRoundTrip(t *testing.T) {
	repo := repository.NewTrainingRepository(repository.NewMemoryDocumentStore())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	fm := newFakeMessenger()
	svc := newTrainingService(repo, fm, now)

	_, err := svc.CreateTrainingsFromTemplate(context.Background())
	require.NoError(t, err)
	upcoming, _ := svc.UpcomingTrainings(context.Background())
	date := upcoming[0].Date

	_, err = svc.OfferSubtraining(context.Background(), date, notifyCoach, "Beweglichkeit", "")
	require.NoError(t, err)
	require.NoError(t, svc.Enroll(context.Background(), notifyBert, date, notifyCoach.ChatID))

	mine, err := svc.Mine(context.Background(), notifyBert.ChatID, model.RoleAttendee)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = svc.CancelAsCoach(context.Background(), notifyCoach, date)
	require.NoError(t, err)

	texts := fm.directTo(notifyBert.ChatID)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Beweglichkeit")

	mine, err = svc.Mine(context.Background(), notifyBert.ChatID, model.RoleAttendee)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
