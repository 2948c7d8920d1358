package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinTitleChars is the minimum length of a subtraining title in runes.
const MinTitleChars = 5

// Subtraining is one coach-led session inside a training day. At most
// one subtraining per (training, coach) pair may exist.
type Subtraining struct {
	Date        int64         `json:"date"`
	Coach       Participant   `json:"coach"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Link        string        `json:"link"`
	Attendees   []Participant `json:"attendees"`
}

// NewSubtraining validates the user-supplied fields and builds a
// subtraining with an empty attendee list.
func NewSubtraining(date int64, coach Identity, title, description, link string) (Subtraining, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < MinTitleChars {
		return Subtraining{}, fmt.Errorf("title %q shorter than %d characters", title, MinTitleChars)
	}
	return Subtraining{
		Date:        date,
		Coach:       NewParticipant(coach),
		Title:       title,
		Description: strings.TrimSpace(description),
		Link:        link,
		Attendees:   []Participant{},
	}, nil
}

// HasAttendee reports whether the identity is enrolled here.
func (s *Subtraining) HasAttendee(chatID int64) bool {
	for _, att := range s.Attendees {
		if att.ChatID == chatID {
			return true
		}
	}
	return false
}

// AddAttendee enrolls the identity with cleared reminder flags.
// Adding an already enrolled identity is a no-op.
func (s *Subtraining) AddAttendee(id Identity) {
	if s.HasAttendee(id.ChatID) {
		return
	}
	s.Attendees = append(s.Attendees, NewParticipant(id))
}

// RemoveAttendee unenrolls the identity. Returns true if it was enrolled.
func (s *Subtraining) RemoveAttendee(chatID int64) bool {
	for i, att := range s.Attendees {
		if att.ChatID == chatID {
			s.Attendees = append(s.Attendees[:i], s.Attendees[i+1:]...)
			return true
		}
	}
	return false
}

// Training is one training day: a fixed calendar instant hosting zero or
// more subtrainings. It is stored as a single document keyed by its unix
// timestamp; Version backs the optimistic-concurrency replace.
type Training struct {
	Date         int64         `json:"date"`
	Time         string        `json:"time"`
	Link         string        `json:"link"`
	Attendees    []Participant `json:"attendees"`
	Subtrainings []Subtraining `json:"subtrainings"`

	Version int64 `json:"-"`
}

// NewTraining builds an empty training day for the given instant.
func NewTraining(date time.Time, timeOfDay, link string) *Training {
	return &Training{
		Date:         date.Unix(),
		Time:         timeOfDay,
		Link:         link,
		Attendees:    []Participant{},
		Subtrainings: []Subtraining{},
	}
}

// StartTime returns the training instant in local time.
func (t *Training) StartTime() time.Time {
	return time.Unix(t.Date, 0)
}

// SubtrainingByCoach returns the subtraining owned by the coach, if any.
func (t *Training) SubtrainingByCoach(coachChatID int64) (*Subtraining, bool) {
	for i := range t.Subtrainings {
		if t.Subtrainings[i].Coach.ChatID == coachChatID {
			return &t.Subtrainings[i], true
		}
	}
	return nil, false
}

// RemoveAttendeeEverywhere drops the identity from every subtraining of
// this training day. Returns true if any enrollment was removed.
func (t *Training) RemoveAttendeeEverywhere(chatID int64) bool {
	removed := false
	for i := range t.Subtrainings {
		if t.Subtrainings[i].RemoveAttendee(chatID) {
			removed = true
		}
	}
	return removed
}

// Document serializes the training into its stored JSON shape.
func (t *Training) Document() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal training %d: %w", t.Date, err)
	}
	return data, nil
}

// ParseTrainingDocument deserializes and validates a stored training
// document. The version is supplied by the storage layer, not the document.
func ParseTrainingDocument(data []byte, version int64) (*Training, error) {
	var t Training
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal training document: %w", err)
	}
	if t.Date <= 0 {
		return nil, fmt.Errorf("training document without a date")
	}
	for _, sub := range t.Subtrainings {
		if sub.Coach.ChatID == 0 {
			return nil, fmt.Errorf("training %d: subtraining without a coach", t.Date)
		}
	}
	if t.Attendees == nil {
		t.Attendees = []Participant{}
	}
	if t.Subtrainings == nil {
		t.Subtrainings = []Subtraining{}
	}
	t.Version = version
	return &t, nil
}
