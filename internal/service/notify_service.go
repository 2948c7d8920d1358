package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Fabian-Geyer/lockdown-training/internal/config"
	"github.com/Fabian-Geyer/lockdown-training/internal/format"
	"github.com/Fabian-Geyer/lockdown-training/internal/messenger"
	"github.com/Fabian-Geyer/lockdown-training/internal/model"
	"github.com/Fabian-Geyer/lockdown-training/internal/repository"
)

// NotifyService sends the two timed reminders (far: roughly a day ahead,
// now: shortly before start). Each Run is a single idempotent pass over
// the next upcoming training only; the period between passes comes from
// an external timer.
type NotifyService struct {
	repo      *repository.TrainingRepository
	messenger messenger.Messenger
	schedule  config.Schedule
	logger    *zap.Logger
	now       func() time.Time
}

func NewNotifyService(
	repo *repository.TrainingRepository,
	m messenger.Messenger,
	schedule config.Schedule,
	logger *zap.Logger,
) *NotifyService {
	return &NotifyService{
		repo:      repo,
		messenger: m,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *NotifyService) WithClock(now func() time.Time) *NotifyService {
	s.now = now
	return s
}

// Run executes one reminder pass. The flag is persisted before the send,
// so a crash in between loses at most one reminder but can never produce
// a duplicate on the next pass.
func (s *NotifyService) Run(ctx context.Context) error {
	now := s.now()

	training, err := s.repo.NextUpcoming(ctx, now)
	if errors.Is(err, repository.ErrTrainingNotFound) {
		s.logger.Debug("No upcoming training, nothing to notify")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load next training: %w", err)
	}

	start := training.StartTime()
	if now.After(start) {
		s.logger.Warn("Next training is already in the past, skipping pass",
			zap.Time("start", start))
		return nil
	}

	timeToTraining := start.Sub(now)
	var kind model.NotifyKind
	switch {
	case timeToTraining <= s.schedule.NotifyNow():
		kind = model.NotifyNow
	case timeToTraining < s.schedule.NotifyFar():
		kind = model.NotifyFar
	default:
		return nil
	}

	sent := 0
	for _, sub := range training.Subtrainings {
		participants := append([]model.Participant{sub.Coach}, sub.Attendees...)
		for _, p := range participants {
			if p.Notified(kind) {
				continue
			}

			// Flag first, then send: a crash in between trades a missed
			// reminder for the guarantee of never sending twice.
			err := s.repo.SetNotifyFlag(ctx, kind, training.Date, sub.Coach.ChatID, p.ChatID, true)
			if err != nil {
				s.logger.Error("Failed to set notify flag",
					zap.Int64("chat_id", p.ChatID),
					zap.String("kind", string(kind)),
					zap.Error(err))
				continue
			}

			text := s.reminderText(kind, now, training, sub, p)
			err = s.messenger.SendDirect(ctx, p.ChatID, text, messenger.Options{NoLinkPreview: true})
			if err != nil {
				s.logger.Error("Failed to send reminder",
					zap.Int64("chat_id", p.ChatID),
					zap.String("kind", string(kind)),
					zap.Error(err))
				continue
			}
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("Reminder pass completed",
			zap.Int64("date", training.Date),
			zap.String("kind", string(kind)),
			zap.Int("sent", sent))
	}
	return nil
}

// reminderText builds the German reminder for one participant. The far
// variant phrases the distance in calendar days, not raw hours, so a
// training tomorrow morning reads "morgen" and never "heute".
func (s *NotifyService) reminderText(kind model.NotifyKind, now time.Time, training *model.Training, sub model.Subtraining, p model.Participant) string {
	isCoach := p.ChatID == sub.Coach.ChatID

	var b strings.Builder
	if kind == model.NotifyNow {
		if isCoach {
			b.WriteString("Dein Training startet jetzt!")
		} else {
			b.WriteString("Das Training startet jetzt!")
		}
		b.WriteString("\n\nStarte durch mit der Erwärmung:\n")
		b.WriteString(training.Link)
		if isCoach {
			b.WriteString(fmt.Sprintf("\n\nDanach gibst du dein Training \"%s\":\n", sub.Title))
		} else {
			b.WriteString(fmt.Sprintf("\n\nDanach gibt's dein Training bei %s:\n", sub.Coach.FullName))
		}
		b.WriteString(sub.Link)
		b.WriteString("\nViel Spaß!")
		return b.String()
	}

	phrase := format.DayOffsetPhrase(now, training.StartTime())
	if isCoach {
		b.WriteString(fmt.Sprintf("%s gibst du dein Training um %s Uhr!", capitalize(phrase), training.Time))
	} else {
		b.WriteString(fmt.Sprintf("%s hast du Training um %s Uhr!", capitalize(phrase), training.Time))
	}
	b.WriteString("\n\nErwärmung:\n")
	b.WriteString(training.Link)
	if isCoach {
		b.WriteString(fmt.Sprintf("\n\nDein Training \"%s\":\n", sub.Title))
	} else {
		b.WriteString(fmt.Sprintf("\n\nTraining bei %s:\n", sub.Coach.FullName))
	}
	b.WriteString(sub.Link)
	b.WriteString("\nViel Spaß!")
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
