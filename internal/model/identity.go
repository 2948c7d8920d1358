package model

// Role describes how an identity relates to a subtraining.
type Role int

const (
	RoleAttendee Role = iota
	RoleCoach
)

// Identity is one Telegram user as seen by the bot. The chat id is the
// only stable key; names are display data supplied by the transport.
type Identity struct {
	ChatID   int64  `json:"chat_id"`
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
}

// NotifyKind selects one of the two reminder thresholds.
type NotifyKind string

const (
	NotifyNow NotifyKind = "now" // training is about to start
	NotifyFar NotifyKind = "far" // training is roughly a day away
)

// Participant is an identity embedded in a training document together
// with its per-threshold reminder flags. The flags are never reset once
// set, so each threshold fires at most once per participant.
type Participant struct {
	Identity
	NotifiedNow bool `json:"notified_now"`
	NotifiedFar bool `json:"notified_far"`
}

// NewParticipant wraps an identity with cleared reminder flags.
func NewParticipant(id Identity) Participant {
	return Participant{Identity: id}
}

// Notified returns the flag for the given reminder kind.
func (p *Participant) Notified(kind NotifyKind) bool {
	if kind == NotifyFar {
		return p.NotifiedFar
	}
	return p.NotifiedNow
}

// SetNotified sets the flag for the given reminder kind.
func (p *Participant) SetNotified(kind NotifyKind, value bool) {
	if kind == NotifyFar {
		p.NotifiedFar = value
		return
	}
	p.NotifiedNow = value
}
