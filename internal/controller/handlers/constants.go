package handlers

// Command surface of the bot. Everything user-facing is German, as the
// group it serves.
const (
	CmdStart    = "/start"
	CmdAbort    = "/abbrechen"
	CmdSkip     = "/weiter"
	CmdYes      = "/ja"
	CmdCoach    = "/trainer"
	CmdAttendee = "/teilnehmer"

	// Ordinal selection commands: /termin_<n> picks a training day,
	// /training_<n> or /training_<n>_<m> picks a subtraining.
	EventPrefix    = "/termin_"
	TrainingPrefix = "/training_"

	MenuOffer  = "Training anbieten"
	MenuCancel = "Training absagen"
	MenuAttend = "Trainingsteilnahme"
	MenuInfo   = "Info"
)
