package state

import "github.com/Fabian-Geyer/lockdown-training/internal/model"

// Step is the current position of a chat in the conversation machine.
type Step string

const (
	StepStart Step = "" // main menu, initial and terminal

	// Offering a training
	StepOfferDate        Step = "offer_date"
	StepOfferTitle       Step = "offer_title"
	StepOfferDescription Step = "offer_description"
	StepOfferConfirm     Step = "offer_confirm"

	// Attending a training
	StepJoinPick Step = "join_pick"

	// Cancelling as coach or attendee
	StepCancelRole Step = "cancel_role"
	StepCancelPick Step = "cancel_pick"
)

// SubRef points at one subtraining: the training-day timestamp plus the
// coach's chat id, which together are unique.
type SubRef struct {
	Date        int64
	CoachChatID int64
}

// Draft is the per-chat scratch data of one conversation. It holds both
// the form fields collected so far and the ordinal lists exactly as they
// were presented, so a numeric selection always resolves against what
// the user actually saw. Nothing in here touches the store until the
// final confirming step.
type Draft struct {
	Step Step

	// Offer flow
	OfferDates  []int64 // candidate timestamps as presented
	OfferDate   int64   // the selected one
	Title       string
	Description string

	// Attend flow: [training ordinal][subtraining ordinal]
	JoinOptions [][]SubRef

	// Cancel flow
	CancelRole model.Role
	CancelRefs []SubRef
}
