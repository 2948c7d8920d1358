package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/config"
	"github.com/Fabian-Geyer/lockdown-training/internal/format"
	"github.com/Fabian-Geyer/lockdown-training/internal/messenger"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
	"github.com/Fabian-Geyer/lockdown-training/internal/repository"
)

// Re-exported storage sentinels so handlers only import the service layer.
var (
	ErrDuplicateOffer   = repository.ErrDuplicateOffer
	ErrNoSubtraining    = repository.ErrNoSubtraining
	ErrTrainingNotFound = repository.ErrTrainingNotFound
)

// TrainingService owns the training-day lifecycle: generating days from
// the weekly template, listing them, and mutating subtrainings on behalf
// of coaches and attendees.
type TrainingService struct {
	repo      *repository.TrainingRepository
	messenger messenger.Messenger
	schedule  config.Schedule
	logger    *zap.Logger
	now       func() time.Time
}

func NewTrainingService(
	repo *repository.TrainingRepository,
	m messenger.Messenger,
	schedule config.Schedule,
	logger *zap.Logger,
) *TrainingService {
	return &TrainingService{
		repo:      repo,
		messenger: m,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *TrainingService) WithClock(now func() time.Time) *TrainingService {
	s.now = now
	return s
}

// CreateTrainingsFromTemplate walks the horizon day by day and creates a
// training for every template entry whose weekday matches. Existing
// timestamps are skipped, so the job can run daily without duplicating.
func (s *TrainingService) CreateTrainingsFromTemplate(ctx context.Context) (int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	created := 0
	for _, entry := range s.schedule.Trainings {
		var hour, minute int
		if _, err := fmt.Sscanf(entry.Time, "%d:%d", &hour, &minute); err != nil {
			return created, fmt.Errorf("template time %q: %w", entry.Time, err)
		}

		for i := 0; i < s.schedule.HorizonDays; i++ {
			day := today.AddDate(0, 0, i)
			if int(day.Weekday()) != entry.Weekday {
				continue
			}

			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			if !start.After(now) {
				// Today's slot may already have passed.
				continue
			}
			training := model.NewTraining(start, entry.Time, s.newMeetingLink())

			err := s.repo.Create(ctx, training)
			if errors.Is(err, repository.ErrDocumentExists) {
				continue
			}
			if err != nil {
				return created, fmt.Errorf("create training at %s: %w", start, err)
			}
			created++
		}
	}

	if created > 0 {
		s.logger.Info("Created trainings from weekly template",
			zap.Int("created", created),
			zap.Int("horizon_days", s.schedule.HorizonDays))
	}
	return created, nil
}

// UpcomingTrainings returns the next trainings offered for selection.
func (s *TrainingService) UpcomingTrainings(ctx context.Context) ([]*model.Training, error) {
	return s.repo.Upcoming(ctx, s.now(), s.schedule.FutureListed, 0)
}

// OfferableTrainings returns the upcoming trainings on which the coach
// does not yet own a subtraining.
func (s *TrainingService) OfferableTrainings(ctx context.Context, coachChatID int64) ([]*model.Training, error) {
	upcoming, err := s.UpcomingTrainings(ctx)
	if err != nil {
		return nil, err
	}

	offerable := make([]*model.Training, 0, len(upcoming))
	for _, training := range upcoming {
		if _, taken := training.SubtrainingByCoach(coachChatID); !taken {
			offerable = append(offerable, training)
		}
	}
	return offerable, nil
}

// ListAll returns every stored training day.
func (s *TrainingService) ListAll(ctx context.Context) ([]*model.Training, error) {
	return s.repo.GetAll(ctx)
}

// DeleteAll drops every training. Administrative, irreversible.
func (s *TrainingService) DeleteAll(ctx context.Context) error {
	s.logger.Warn("Deleting all trainings")
	return s.repo.DeleteAll(ctx)
}

// OfferSubtraining validates and persists a coach's offer, then
// announces it on the channel. The duplicate check runs inside the
// store mutation, so a racing second offer still reports
// ErrDuplicateOffer instead of slipping in.
func (s *TrainingService) OfferSubtraining(ctx context.Context, date int64, coach model.Identity, title, description string) (model.Subtraining, error) {
	sub, err := model.NewSubtraining(date, coach, title, description, s.newMeetingLink())
	if err != nil {
		return model.Subtraining{}, err
	}

	if err := s.repo.AddSubtraining(ctx, sub); err != nil {
		return model.Subtraining{}, err
	}

	s.logger.Info("Subtraining offered",
		zap.Int64("date", date),
		zap.Int64("coach_chat_id", coach.ChatID),
		zap.String("title", sub.Title))

	s.announce(ctx, sub)
	return sub, nil
}

// CancelAsCoach removes the coach's subtraining and sends a farewell to
// every attendee that was enrolled in it.
func (s *TrainingService) CancelAsCoach(ctx context.Context, coach model.Identity, date int64) (*model.Subtraining, error) {
	removed, err := s.repo.RemoveSubtraining(ctx, date, coach.ChatID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subtraining cancelled by coach",
		zap.Int64("date", date),
		zap.Int64("coach_chat_id", coach.ChatID),
		zap.Int("attendees", len(removed.Attendees)))

	text := fmt.Sprintf(
		"Leider wurde das Training \"%s\" am %s von %s abgesagt.",
		removed.Title,
		format.FormatDateTime(time.Unix(removed.Date, 0)),
		removed.Coach.FullName,
	)
	for _, attendee := range removed.Attendees {
		if err := s.messenger.SendDirect(ctx, attendee.ChatID, text, messenger.Options{}); err != nil {
			s.logger.Warn("Failed to notify attendee about cancellation",
				zap.Int64("chat_id", attendee.ChatID),
				zap.Error(err))
		}
	}

	return removed, nil
}

// Enroll moves the attendee onto the chosen coach's subtraining of the
// day, leaving at most one enrollment per day.
func (s *TrainingService) Enroll(ctx context.Context, attendee model.Identity, date, coachChatID int64) error {
	if err := s.repo.EnrollAttendee(ctx, attendee, date, coachChatID); err != nil {
		return err
	}

	s.logger.Info("Attendee enrolled",
		zap.Int64("date", date),
		zap.Int64("coach_chat_id", coachChatID),
		zap.Int64("attendee_chat_id", attendee.ChatID))
	return nil
}

// Unenroll removes the attendee from the training day. Idempotent.
func (s *TrainingService) Unenroll(ctx context.Context, attendee model.Identity, date int64) error {
	if err := s.repo.UnenrollAttendee(ctx, attendee, date); err != nil {
		return err
	}

	s.logger.Info("Attendee unenrolled",
		zap.Int64("date", date),
		zap.Int64("attendee_chat_id", attendee.ChatID))
	return nil
}

// Mine returns the user's future subtrainings in the given role.
func (s *TrainingService) Mine(ctx context.Context, chatID int64, role model.Role) ([]model.Subtraining, error) {
	return s.repo.Mine(ctx, chatID, role, s.now())
}

func (s *TrainingService) announce(ctx context.Context, sub model.Subtraining) {
	text := fmt.Sprintf(
		"Neues Training am %s:\n*%s* bei %s",
		format.FormatDateTime(time.Unix(sub.Date, 0)),
		sub.Title,
		sub.Coach.FullName,
	)
	if sub.Description != "" {
		text += "\n" + sub.Description
	}

	err := s.messenger.SendToChannel(ctx, text, messenger.Options{ParseMode: messenger.ParseModeMarkdown})
	if err != nil {
		// The offer is already persisted; a failed announcement is not
		// worth failing the conversation over.
		s.logger.Warn("Failed to announce subtraining", zap.Error(err))
	}
}

func (s *TrainingService) newMeetingLink() string {
	return s.schedule.MeetingBaseURL + uuid.NewString()
}
