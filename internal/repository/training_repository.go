package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Fabian-Geyer/lockdown-training/internal/model"
)

// Domain-level sentinel errors surfaced to the conversation layer.
var (
	ErrTrainingNotFound = errors.New("training not found")
	ErrDuplicateOffer   = errors.New("coach already offers a subtraining on this training")
	ErrNoSubtraining    = errors.New("no matching subtraining")
)

const casMaxRetries = 5

// TrainingRepository implements the schedule operations on top of the
// five DocumentStore primitives, the way the original bot worked against
// its document collection. Every read-modify-write goes through a
// version-checked replace retried on conflict, so the exclusivity
// invariants hold under concurrent updates to the same training day.
type TrainingRepository struct {
	store DocumentStore
}

func NewTrainingRepository(store DocumentStore) *TrainingRepository {
	return &TrainingRepository{store: store}
}

// Create inserts a new training day. Returns ErrDocumentExists if a
// training already exists at that timestamp.
func (r *TrainingRepository) Create(ctx context.Context, training *model.Training) error {
	data, err := training.Document()
	if err != nil {
		return err
	}
	return r.store.Insert(ctx, training.Date, data)
}

// Get returns one training day by timestamp.
func (r *TrainingRepository) Get(ctx context.Context, date int64) (*model.Training, error) {
	doc, err := r.store.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return model.ParseTrainingDocument(doc.Data, doc.Version)
}

// GetAll returns every stored training day, ascending by timestamp.
func (r *TrainingRepository) GetAll(ctx context.Context) ([]*model.Training, error) {
	docs, err := r.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	trainings := make([]*model.Training, 0, len(docs))
	for _, doc := range docs {
		training, err := model.ParseTrainingDocument(doc.Data, doc.Version)
		if err != nil {
			return nil, err
		}
		trainings = append(trainings, training)
	}
	sort.Slice(trainings, func(i, j int) bool { return trainings[i].Date < trainings[j].Date })
	return trainings, nil
}

// Upcoming returns up to limit trainings strictly after now minus grace,
// ascending. An empty store yields an empty slice, not an error.
func (r *TrainingRepository) Upcoming(ctx context.Context, now time.Time, limit int, grace time.Duration) ([]*model.Training, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-grace).Unix()
	upcoming := make([]*model.Training, 0, limit)
	for _, training := range all {
		if training.Date <= cutoff {
			continue
		}
		upcoming = append(upcoming, training)
		if len(upcoming) == limit {
			break
		}
	}
	return upcoming, nil
}

// NextUpcoming returns the single next training day, or
// ErrTrainingNotFound if none is scheduled.
func (r *TrainingRepository) NextUpcoming(ctx context.Context, now time.Time) (*model.Training, error) {
	upcoming, err := r.Upcoming(ctx, now, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(upcoming) == 0 {
		return nil, ErrTrainingNotFound
	}
	return upcoming[0], nil
}

// DeleteAll drops the whole collection.
func (r *TrainingRepository) DeleteAll(ctx context.Context) error {
	return r.store.Drop(ctx)
}

// update runs one compare-and-swap loop on a single training day:
// read the current document, apply mutate, replace conditional on the
// version read. A lost race re-reads and re-applies; domain errors from
// mutate abort immediately.
func (r *TrainingRepository) update(ctx context.Context, date int64, mutate func(*model.Training) error) (*model.Training, error) {
	var result *model.Training

	backoff := retry.WithMaxRetries(casMaxRetries, retry.NewFibonacci(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		training, err := r.Get(ctx, date)
		if err != nil {
			return err
		}
		if err := mutate(training); err != nil {
			return err
		}

		data, err := training.Document()
		if err != nil {
			return err
		}
		if err := r.store.Replace(ctx, date, data, training.Version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return retry.RetryableError(err)
			}
			return err
		}

		result = training
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddSubtraining appends the coach's subtraining to its training day.
// Fails with ErrDuplicateOffer if the coach already offers one there.
func (r *TrainingRepository) AddSubtraining(ctx context.Context, sub model.Subtraining) error {
	_, err := r.update(ctx, sub.Date, func(training *model.Training) error {
		if _, ok := training.SubtrainingByCoach(sub.Coach.ChatID); ok {
			return ErrDuplicateOffer
		}
		training.Subtrainings = append(training.Subtrainings, sub)
		return nil
	})
	return err
}

// RemoveSubtraining detaches and returns the coach's subtraining so the
// caller can still notify its attendees.
func (r *TrainingRepository) RemoveSubtraining(ctx context.Context, date, coachChatID int64) (*model.Subtraining, error) {
	var removed model.Subtraining

	_, err := r.update(ctx, date, func(training *model.Training) error {
		for i := range training.Subtrainings {
			if training.Subtrainings[i].Coach.ChatID == coachChatID {
				removed = training.Subtrainings[i]
				training.Subtrainings = append(training.Subtrainings[:i], training.Subtrainings[i+1:]...)
				return nil
			}
		}
		return ErrNoSubtraining
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

// EnrollAttendee moves the identity onto the chosen coach's subtraining:
// it is first removed from every subtraining of the day, then appended
// with cleared reminder flags. One enrollment per person per day.
func (r *TrainingRepository) EnrollAttendee(ctx context.Context, attendee model.Identity, date, coachChatID int64) error {
	_, err := r.update(ctx, date, func(training *model.Training) error {
		target, ok := training.SubtrainingByCoach(coachChatID)
		if !ok {
			return ErrNoSubtraining
		}
		training.RemoveAttendeeEverywhere(attendee.ChatID)
		target.AddAttendee(attendee)
		return nil
	})
	return err
}

// UnenrollAttendee removes the identity from whichever subtraining of
// the day contains it. Removing a non-enrolled identity is a no-op.
func (r *TrainingRepository) UnenrollAttendee(ctx context.Context, attendee model.Identity, date int64) error {
	_, err := r.update(ctx, date, func(training *model.Training) error {
		training.RemoveAttendeeEverywhere(attendee.ChatID)
		return nil
	})
	return err
}

// Mine returns the future subtrainings where the identity acts in the
// given role, ascending by training timestamp.
func (r *TrainingRepository) Mine(ctx context.Context, chatID int64, role model.Role, now time.Time) ([]model.Subtraining, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.Unix()
	var mine []model.Subtraining
	for _, training := range all {
		if training.Date <= cutoff {
			continue
		}
		for _, sub := range training.Subtrainings {
			switch role {
			case model.RoleCoach:
				if sub.Coach.ChatID == chatID {
					mine = append(mine, sub)
				}
			case model.RoleAttendee:
				if sub.HasAttendee(chatID) {
					mine = append(mine, sub)
				}
			}
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].Date < mine[j].Date })
	return mine, nil
}

// SetNotifyFlag persists one reminder flag for the given participant of
// the coach's subtraining. The participant may be the coach itself or
// one of the attendees.
func (r *TrainingRepository) SetNotifyFlag(ctx context.Context, kind model.NotifyKind, date, coachChatID, chatID int64, value bool) error {
	_, err := r.update(ctx, date, func(training *model.Training) error {
		sub, ok := training.SubtrainingByCoach(coachChatID)
		if !ok {
			return ErrNoSubtraining
		}
		if sub.Coach.ChatID == chatID {
			sub.Coach.SetNotified(kind, value)
			return nil
		}
		for i := range sub.Attendees {
			if sub.Attendees[i].ChatID == chatID {
				sub.Attendees[i].SetNotified(kind, value)
				return nil
			}
		}
		return fmt.Errorf("participant %d not in subtraining of coach %d: %w", chatID, coachChatID, ErrNoSubtraining)
	})
	return err
}
